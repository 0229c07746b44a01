package scheduler

// checkCapacity flags sessions whose expected attendance exceeds the room
// capacity, and sessions that fit but fill the room beyond the warning
// percentage. A session expecting exactly the capacity is not flagged.
func checkCapacity(snap Snapshot, cfg settings, loc localizer) []Issue {
	var issues []Issue
	for _, s := range distinctSchedules(snap.Schedules) {
		if s.RoomCapacity == nil || s.ExpectedAttendance == nil {
			continue
		}
		capacity, expected := *s.RoomCapacity, *s.ExpectedAttendance
		if capacity <= 0 || expected < 0 {
			continue
		}
		room := displayName(s.RoomName, s.RoomID)
		affected := AffectedEntities{
			ScheduleIDs: []string{s.ID},
			RoomIDs:     nonEmpty(s.RoomID),
		}

		switch {
		case expected > capacity:
			issues = append(issues, Issue{
				ID:               issueID(string(CategoryCapacity), s.ID),
				Severity:         SeverityCritical,
				Category:         CategoryCapacity,
				Title:            loc.text(msgOverCapacityTitle, room),
				Description:      loc.text(msgOverCapacityDesc, s.Title, expected, room, capacity),
				AffectedEntities: affected,
				SuggestedFix: &SuggestedFix{
					Label: loc.text(msgOverCapacityFix, s.Title, expected),
					Action: ReassignRoom{
						ScheduleID:        s.ID,
						CurrentRoomID:     s.RoomID,
						MinCapacityNeeded: expected,
					},
				},
			})
		case expected < capacity && expected*100 > capacity*cfg.capacityWarningPercent:
			issues = append(issues, Issue{
				ID:               issueID(string(CategoryCapacity), s.ID),
				Severity:         SeverityWarning,
				Category:         CategoryCapacity,
				Title:            loc.text(msgNearCapacityTitle, room),
				Description:      loc.text(msgNearCapacityDesc, s.Title, expected, room, capacity, expected*100/capacity),
				AffectedEntities: affected,
			})
		}
	}
	return issues
}
