package scheduler

// checkTransitions warns when a participant has to change rooms between two
// consecutive sessions with less than the minimum buffer. Many attendees
// usually make the same move, so one issue is emitted per room pair and
// session pair, and every participant making that move is listed on it.
// Sessions that overlap across rooms count as a negative gap.
func checkTransitions(snap Snapshot, cfg settings, loc localizer) []Issue {
	participants, groups := groupBy(distinctParticipantSchedules(snap.ParticipantSchedules),
		func(r ParticipantScheduleRecord) string { return r.ParticipantID })

	var issues []Issue
	seen := make(map[string]int)
	for _, participantID := range participants {
		records := groups[participantID]
		for i := 1; i < len(records); i++ {
			from, to := records[i-1], records[i]
			if from.RoomID == "" || to.RoomID == "" || from.RoomID == to.RoomID {
				continue
			}
			gap := to.Start.Sub(from.End)
			if gap >= cfg.minBuffer {
				continue
			}

			key := issueID(string(CategoryTiming), from.RoomID, to.RoomID, from.ScheduleID, to.ScheduleID)
			if index, ok := seen[key]; ok {
				affected := &issues[index].AffectedEntities
				if last := affected.ParticipantIDs[len(affected.ParticipantIDs)-1]; last != participantID {
					affected.ParticipantIDs = append(affected.ParticipantIDs, participantID)
				}
				continue
			}
			seen[key] = len(issues)

			needed := minutesNeeded(cfg.minBuffer - gap)
			fromRoom := displayName(from.RoomName, from.RoomID)
			toRoom := displayName(to.RoomName, to.RoomID)
			description := loc.text(msgTransitionDesc, from.ScheduleTitle, wholeMinutes(gap),
				toRoom, to.ScheduleTitle, wholeMinutes(cfg.minBuffer))
			if gap < 0 {
				description = loc.text(msgTransitionOverlapDesc, from.ScheduleTitle, to.ScheduleTitle,
					toRoom, overlapMinutes(gap), wholeMinutes(cfg.minBuffer))
			}
			issues = append(issues, Issue{
				ID:          key,
				Severity:    SeverityWarning,
				Category:    CategoryTiming,
				Title:       loc.text(msgTransitionTitle, fromRoom, toRoom),
				Description: description,
				AffectedEntities: AffectedEntities{
					ScheduleIDs:    []string{from.ScheduleID, to.ScheduleID},
					RoomIDs:        []string{from.RoomID, to.RoomID},
					ParticipantIDs: []string{participantID},
				},
				SuggestedFix: &SuggestedFix{
					Label: loc.text(msgExtendBreakFix, needed),
					Action: ExtendBreak{
						ScheduleID:         to.ScheduleID,
						PreviousScheduleID: from.ScheduleID,
						MinutesNeeded:      needed,
					},
				},
			})
		}
	}
	return issues
}
