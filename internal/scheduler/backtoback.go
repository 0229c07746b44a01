package scheduler

import (
	"math"
	"time"
)

// checkBackToBack warns when a speaker has less than the minimum buffer
// between two consecutive sessions. Only chronologically adjacent sessions
// are compared. An overlap counts as a negative gap and is reported here as
// well as by checkSpeakerOverlaps.
func checkBackToBack(snap Snapshot, cfg settings, loc localizer) []Issue {
	speakers, groups := groupBy(distinctSchedules(snap.Schedules), func(r ScheduleRecord) string { return r.SpeakerID })

	var issues []Issue
	for _, speakerID := range speakers {
		sessions := groups[speakerID]
		for i := 1; i < len(sessions); i++ {
			prev, next := sessions[i-1], sessions[i]
			gap := next.Start.Sub(prev.End)
			if gap >= cfg.minBuffer {
				continue
			}
			needed := minutesNeeded(cfg.minBuffer - gap)
			speaker := displayName(prev.SpeakerName, speakerID)
			description := loc.text(msgBackToBackDesc, speaker, wholeMinutes(gap),
				prev.Title, next.Title, wholeMinutes(cfg.minBuffer))
			if gap < 0 {
				description = loc.text(msgBackToBackOverlapDesc, speaker, prev.Title, next.Title,
					overlapMinutes(gap), wholeMinutes(cfg.minBuffer))
			}
			issues = append(issues, Issue{
				ID:          issueID(string(CategoryBackToBack), prev.ID, next.ID),
				Severity:    SeverityWarning,
				Category:    CategoryBackToBack,
				Title:       loc.text(msgBackToBackTitle, speaker),
				Description: description,
				AffectedEntities: AffectedEntities{
					ScheduleIDs: []string{prev.ID, next.ID},
					RoomIDs:     nonEmpty(prev.RoomID, next.RoomID),
					SpeakerIDs:  []string{speakerID},
				},
				SuggestedFix: &SuggestedFix{
					Label: loc.text(msgExtendBreakFix, needed),
					Action: ExtendBreak{
						ScheduleID:         next.ID,
						PreviousScheduleID: prev.ID,
						MinutesNeeded:      needed,
					},
				},
			})
		}
	}
	return issues
}

// minutesNeeded rounds a shortfall up to whole minutes.
func minutesNeeded(shortfall time.Duration) int {
	return int(math.Ceil(shortfall.Minutes()))
}

func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}

// overlapMinutes reports a negative gap as whole overlapping minutes, rounded up.
func overlapMinutes(gap time.Duration) int {
	return minutesNeeded(-gap)
}
