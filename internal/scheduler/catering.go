package scheduler

import (
	"math"
	"strings"
	"time"
	"unicode"
)

var mealSessionTypes = map[string]struct{}{
	"meal":         {},
	"break":        {},
	"lunch":        {},
	"breakfast":    {},
	"dinner":       {},
	"coffee":       {},
	"coffee_break": {},
	"catering":     {},
	"snack":        {},
}

var mealTitleWords = map[string]struct{}{
	"meal":      {},
	"meals":     {},
	"break":     {},
	"breaks":    {},
	"coffee":    {},
	"lunch":     {},
	"breakfast": {},
	"dinner":    {},
	"snack":     {},
	"snacks":    {},
}

// isMeal reports whether a session gives attendees a chance to eat or rest,
// judged by its session type or by a whole word of its title.
func isMeal(s ScheduleRecord) bool {
	if _, ok := mealSessionTypes[strings.ToLower(strings.TrimSpace(s.SessionType))]; ok {
		return true
	}
	words := strings.FieldsFunc(strings.ToLower(s.Title), func(r rune) bool { return !unicode.IsLetter(r) })
	for _, word := range words {
		if _, ok := mealTitleWords[word]; ok {
			return true
		}
	}
	return false
}

// checkCatering looks for long stretches without a meal or break: an event
// with none at all, a late first meal, and long gaps between meals. Vendor
// slots are accepted but not evaluated.
func checkCatering(snap Snapshot, cfg settings, loc localizer) []Issue {
	sessions := distinctSchedules(snap.Schedules)
	if len(sessions) == 0 || cfg.cateringGap <= 0 {
		return nil
	}

	eventStart := sessions[0].Start
	eventEnd := sessions[0].End
	var meals []ScheduleRecord
	for _, s := range sessions {
		if s.End.After(eventEnd) {
			eventEnd = s.End
		}
		if isMeal(s) {
			meals = append(meals, s)
		}
	}

	if len(meals) == 0 {
		span := eventEnd.Sub(eventStart)
		if span <= cfg.cateringGap {
			return nil
		}
		breaks := recommendedBreaks(span, cfg.cateringGap)
		return []Issue{{
			ID:          issueID(string(CategoryCatering) + ":no_meals"),
			Severity:    SeverityInfo,
			Category:    CategoryCatering,
			Title:       loc.text(msgNoMealsTitle),
			Description: loc.text(msgNoMealsDesc, formatDuration(span), breaks),
			SuggestedFix: &SuggestedFix{
				Label:  loc.text(msgNoMealsFix, breaks),
				Action: AddCatering{RecommendedBreaks: breaks},
			},
		}}
	}

	var issues []Issue
	first := meals[0]
	if gap := first.Start.Sub(eventStart); gap > cfg.cateringGap {
		issues = append(issues, Issue{
			ID:       issueID(string(CategoryCatering)+":first_meal", first.ID),
			Severity: SeverityInfo,
			Category: CategoryCatering,
			Title:    loc.text(msgFirstMealGapTitle),
			Description: loc.text(msgFirstMealGapDesc, formatDuration(gap),
				clock(eventStart), first.Title, clock(first.Start)),
			AffectedEntities: AffectedEntities{ScheduleIDs: []string{first.ID}},
			SuggestedFix: &SuggestedFix{
				Label: loc.text(msgCateringGapFix),
				Action: AddCatering{
					BeforeScheduleID:  first.ID,
					RecommendedBreaks: recommendedBreaks(gap, cfg.cateringGap) - 1,
				},
			},
		})
	}

	for i := 1; i < len(meals); i++ {
		prev, next := meals[i-1], meals[i]
		gap := next.Start.Sub(prev.End)
		if gap <= cfg.cateringGap {
			continue
		}
		issues = append(issues, Issue{
			ID:       issueID(string(CategoryCatering)+":gap", prev.ID, next.ID),
			Severity: SeverityInfo,
			Category: CategoryCatering,
			Title:    loc.text(msgMealGapTitle),
			Description: loc.text(msgMealGapDesc, formatDuration(gap),
				prev.Title, clock(prev.End), next.Title, clock(next.Start)),
			AffectedEntities: AffectedEntities{ScheduleIDs: []string{prev.ID, next.ID}},
			SuggestedFix: &SuggestedFix{
				Label: loc.text(msgCateringGapFix),
				Action: AddCatering{
					AfterScheduleID:   prev.ID,
					BeforeScheduleID:  next.ID,
					RecommendedBreaks: recommendedBreaks(gap, cfg.cateringGap) - 1,
				},
			},
		})
	}
	return issues
}

// recommendedBreaks is the number of threshold-sized blocks needed to cover
// span, so that no block exceeds the threshold.
func recommendedBreaks(span, threshold time.Duration) int {
	return int(math.Ceil(float64(span) / float64(threshold)))
}
