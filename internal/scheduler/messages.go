package scheduler

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	msgRoomConflictTitle     = "room_conflict.title"
	msgRoomConflictDesc      = "room_conflict.description"
	msgRoomConflictFix       = "room_conflict.fix"
	msgSpeakerOverlapTitle   = "speaker_overlap.title"
	msgSpeakerOverlapDesc    = "speaker_overlap.description"
	msgSpeakerOverlapFix     = "speaker_overlap.fix"
	msgVIPConflictTitle      = "vip_conflict.title"
	msgVIPConflictDesc       = "vip_conflict.description"
	msgVIPConflictFix        = "vip_conflict.fix"
	msgBackToBackTitle       = "back_to_back.title"
	msgBackToBackDesc        = "back_to_back.description"
	msgBackToBackOverlapDesc = "back_to_back.overlap_description"
	msgExtendBreakFix        = "extend_break.fix"
	msgTransitionTitle       = "transition.title"
	msgTransitionDesc        = "transition.description"
	msgTransitionOverlapDesc = "transition.overlap_description"
	msgOverCapacityTitle     = "capacity.over.title"
	msgOverCapacityDesc      = "capacity.over.description"
	msgOverCapacityFix       = "capacity.over.fix"
	msgNearCapacityTitle     = "capacity.near.title"
	msgNearCapacityDesc      = "capacity.near.description"
	msgMissingEquipmentTitle = "equipment.title"
	msgMissingEquipmentDesc  = "equipment.description"
	msgMissingEquipmentFix   = "equipment.fix"
	msgNoMealsTitle          = "catering.none.title"
	msgNoMealsDesc           = "catering.none.description"
	msgNoMealsFix            = "catering.none.fix"
	msgFirstMealGapTitle     = "catering.first.title"
	msgFirstMealGapDesc      = "catering.first.description"
	msgMealGapTitle          = "catering.between.title"
	msgMealGapDesc           = "catering.between.description"
	msgCateringGapFix        = "catering.gap.fix"
)

var messageTexts = map[string][2]string{
	// key: {English, Japanese}
	msgRoomConflictTitle: {"Room double-booked: %s", "会議室の重複予約: %s"},
	msgRoomConflictDesc: {
		"\"%s\" (%s-%s) and \"%s\" (%s-%s) are both scheduled in %s.",
		"「%s」(%s-%s) と「%s」(%s-%s) が同じ会議室 %s に割り当てられています。",
	},
	msgRoomConflictFix:     {"Move \"%s\" to another room", "「%s」を別の会議室へ移動する"},
	msgSpeakerOverlapTitle: {"Speaker double-booked: %s", "登壇者の重複: %s"},
	msgSpeakerOverlapDesc: {
		"%s is scheduled for \"%s\" (%s-%s) and \"%s\" (%s-%s) at the same time.",
		"%s は「%s」(%s-%s) と「%s」(%s-%s) に同時に登壇する予定です。",
	},
	msgSpeakerOverlapFix: {"Activate the backup speaker for \"%s\"", "「%s」の代理登壇者を起用する"},
	msgVIPConflictTitle:  {"VIP schedule conflict: %s", "VIP のスケジュール重複: %s"},
	msgVIPConflictDesc: {
		"%s is registered for \"%s\" (%s-%s) and \"%s\" (%s-%s), which overlap.",
		"%s は重複する「%s」(%s-%s) と「%s」(%s-%s) に参加登録されています。",
	},
	msgVIPConflictFix:  {"Adjust the time of \"%s\"", "「%s」の時間を調整する"},
	msgBackToBackTitle: {"Back-to-back sessions: %s", "連続登壇: %s"},
	msgBackToBackDesc: {
		"%s has only %d minutes between \"%s\" and \"%s\" (minimum %d).",
		"%[1]s は「%[3]s」と「%[4]s」の間に %[2]d 分しかありません (最低 %[5]d 分)。",
	},
	msgBackToBackOverlapDesc: {
		"%[1]s's \"%[2]s\" and \"%[3]s\" overlap by %[4]d minutes (minimum break %[5]d).",
		"%[1]s の「%[2]s」と「%[3]s」が %[4]d 分重なっています (最低 %[5]d 分の休憩が必要です)。",
	},
	msgExtendBreakFix:  {"Extend the break by %d minutes", "休憩を %d 分延長する"},
	msgTransitionTitle: {"Short room transition: %s to %s", "移動時間不足: %s から %s"},
	msgTransitionDesc: {
		"Attendees of \"%s\" have %d minutes to reach %s for \"%s\" (minimum %d).",
		"「%s」の参加者は %d 分で %s の「%s」へ移動する必要があります (最低 %d 分)。",
	},
	msgTransitionOverlapDesc: {
		"\"%[1]s\" overlaps \"%[2]s\" in %[3]s by %[4]d minutes (minimum transition %[5]d).",
		"「%[1]s」と %[3]s の「%[2]s」が %[4]d 分重なっています (最低 %[5]d 分の移動時間が必要です)。",
	},
	msgOverCapacityTitle: {"Room over capacity: %s", "会議室の定員超過: %s"},
	msgOverCapacityDesc: {
		"\"%s\" expects %d attendees but %s holds %d.",
		"「%s」の参加予定者は %d 名ですが、%s の定員は %d 名です。",
	},
	msgOverCapacityFix:   {"Move \"%s\" to a room for at least %d people", "「%s」を定員 %d 名以上の会議室へ移動する"},
	msgNearCapacityTitle: {"Room near capacity: %s", "会議室の定員間近: %s"},
	msgNearCapacityDesc: {
		"\"%s\" expects %d attendees in %s (capacity %d, %d%% utilization).",
		"「%s」の参加予定者は %d 名です (%s の定員 %d 名、使用率 %d%%)。",
	},
	msgMissingEquipmentTitle: {"Missing equipment: %s", "機材不足: %s"},
	msgMissingEquipmentDesc: {
		"\"%s\" requires %s, which is not assigned.",
		"「%s」に必要な %s が割り当てられていません。",
	},
	msgMissingEquipmentFix: {"Add %s", "%s を追加する"},
	msgNoMealsTitle:        {"No meals or breaks scheduled", "食事・休憩が予定されていません"},
	msgNoMealsDesc: {
		"The event runs for %s without any meal or break; %d breaks are recommended.",
		"イベントは %s の間、食事や休憩がありません。%d 回の休憩を推奨します。",
	},
	msgNoMealsFix:        {"Schedule %d catering breaks", "ケータリング休憩を %d 回設ける"},
	msgFirstMealGapTitle: {"Long stretch before the first meal", "最初の食事までの時間が長すぎます"},
	msgFirstMealGapDesc: {
		"%s passes between the event start (%s) and \"%s\" (%s).",
		"イベント開始 (%[2]s) から「%[3]s」(%[4]s) まで %[1]s 空いています。",
	},
	msgMealGapTitle: {"Long gap between meals", "食事の間隔が長すぎます"},
	msgMealGapDesc: {
		"%s passes between \"%s\" (ends %s) and \"%s\" (%s).",
		"「%[2]s」(%[3]s 終了) から「%[4]s」(%[5]s) まで %[1]s 空いています。",
	},
	msgCateringGapFix: {"Add a catering break", "ケータリング休憩を追加する"},
}

var (
	supportedLocales = []language.Tag{language.English, language.Japanese}
	localeMatcher    = language.NewMatcher(supportedLocales)
	messageCatalog   = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, texts := range messageTexts {
		if err := builder.SetString(language.English, key, texts[0]); err != nil {
			panic(fmt.Sprintf("scheduler: register message %s: %v", key, err))
		}
		if err := builder.SetString(language.Japanese, key, texts[1]); err != nil {
			panic(fmt.Sprintf("scheduler: register message %s: %v", key, err))
		}
	}
	return builder
}

// SupportedLocales lists the languages issue texts are available in.
func SupportedLocales() []language.Tag {
	out := make([]language.Tag, len(supportedLocales))
	copy(out, supportedLocales)
	return out
}

// MatchLocale picks the best supported locale for an Accept-Language style
// preference list. Unparseable or unsupported input yields English.
func MatchLocale(preference string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(preference)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, index, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return language.English
	}
	return supportedLocales[index]
}

// localizer renders issue texts in one language. It wraps a message.Printer
// and is not safe for concurrent use.
type localizer struct {
	printer *message.Printer
}

func newLocalizer(tag language.Tag) localizer {
	_, index, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		index = 0
	}
	return localizer{printer: message.NewPrinter(supportedLocales[index], message.Catalog(messageCatalog))}
}

func (l localizer) text(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

func clock(t time.Time) string {
	return t.Format("15:04")
}

func formatDuration(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}
