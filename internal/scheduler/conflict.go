package scheduler

// checkRoomConflicts reports every pair of sessions booked into the same room
// at overlapping times.
func checkRoomConflicts(snap Snapshot, _ settings, loc localizer) []Issue {
	rooms, groups := groupBy(distinctSchedules(snap.Schedules), func(r ScheduleRecord) string { return r.RoomID })

	var issues []Issue
	for _, roomID := range rooms {
		sessions := groups[roomID]
		for _, pair := range overlappingPairs(sessions, scheduleSpan) {
			a, b := sessions[pair[0]], sessions[pair[1]]
			room := displayName(a.RoomName, roomID)
			issues = append(issues, Issue{
				ID:       issueID(string(CategoryRoom), a.ID, b.ID),
				Severity: SeverityCritical,
				Category: CategoryRoom,
				Title:    loc.text(msgRoomConflictTitle, room),
				Description: loc.text(msgRoomConflictDesc,
					a.Title, clock(a.Start), clock(a.End),
					b.Title, clock(b.Start), clock(b.End), room),
				AffectedEntities: AffectedEntities{
					ScheduleIDs: []string{a.ID, b.ID},
					RoomIDs:     []string{roomID},
					SpeakerIDs:  nonEmpty(a.SpeakerID, b.SpeakerID),
				},
				SuggestedFix: &SuggestedFix{
					Label:  loc.text(msgRoomConflictFix, b.Title),
					Action: ReassignRoom{ScheduleID: b.ID, CurrentRoomID: roomID},
				},
			})
		}
	}
	return issues
}

// checkSpeakerOverlaps reports speakers booked for two sessions at once. When
// the earlier session names a backup speaker the issue suggests using them.
func checkSpeakerOverlaps(snap Snapshot, _ settings, loc localizer) []Issue {
	speakers, groups := groupBy(distinctSchedules(snap.Schedules), func(r ScheduleRecord) string { return r.SpeakerID })

	var issues []Issue
	for _, speakerID := range speakers {
		sessions := groups[speakerID]
		for _, pair := range overlappingPairs(sessions, scheduleSpan) {
			a, b := sessions[pair[0]], sessions[pair[1]]
			speaker := displayName(a.SpeakerName, speakerID)
			issue := Issue{
				ID:       issueID(string(CategorySpeaker), a.ID, b.ID),
				Severity: SeverityCritical,
				Category: CategorySpeaker,
				Title:    loc.text(msgSpeakerOverlapTitle, speaker),
				Description: loc.text(msgSpeakerOverlapDesc, speaker,
					a.Title, clock(a.Start), clock(a.End),
					b.Title, clock(b.Start), clock(b.End)),
				AffectedEntities: AffectedEntities{
					ScheduleIDs: []string{a.ID, b.ID},
					RoomIDs:     nonEmpty(a.RoomID, b.RoomID),
					SpeakerIDs:  []string{speakerID},
				},
			}
			if a.BackupSpeakerID != "" {
				issue.SuggestedFix = &SuggestedFix{
					Label: loc.text(msgSpeakerOverlapFix, a.Title),
					Action: ActivateBackup{
						ScheduleID:      a.ID,
						SpeakerID:       speakerID,
						BackupSpeakerID: a.BackupSpeakerID,
					},
				}
			}
			issues = append(issues, issue)
		}
	}
	return issues
}

// checkVIPConflicts reports VIP participants registered for overlapping
// sessions. These are warnings: a VIP may drop in on both deliberately.
func checkVIPConflicts(snap Snapshot, _ settings, loc localizer) []Issue {
	vips := make([]ParticipantScheduleRecord, 0, len(snap.ParticipantSchedules))
	for _, record := range distinctParticipantSchedules(snap.ParticipantSchedules) {
		if record.IsVIP {
			vips = append(vips, record)
		}
	}
	participants, groups := groupBy(vips, func(r ParticipantScheduleRecord) string { return r.ParticipantID })

	var issues []Issue
	for _, participantID := range participants {
		records := groups[participantID]
		for _, pair := range overlappingPairs(records, participantSpan) {
			a, b := records[pair[0]], records[pair[1]]
			name := displayName(a.ParticipantName, participantID)
			issues = append(issues, Issue{
				ID:       scopedIssueID(string(CategoryVIP), participantID, a.ScheduleID, b.ScheduleID),
				Severity: SeverityWarning,
				Category: CategoryVIP,
				Title:    loc.text(msgVIPConflictTitle, name),
				Description: loc.text(msgVIPConflictDesc, name,
					a.ScheduleTitle, clock(a.Start), clock(a.End),
					b.ScheduleTitle, clock(b.Start), clock(b.End)),
				AffectedEntities: AffectedEntities{
					ScheduleIDs:    []string{a.ScheduleID, b.ScheduleID},
					RoomIDs:        nonEmpty(a.RoomID, b.RoomID),
					ParticipantIDs: []string{participantID},
				},
				SuggestedFix: &SuggestedFix{
					Label: loc.text(msgVIPConflictFix, b.ScheduleTitle),
					Action: AdjustTime{
						ScheduleID:            b.ScheduleID,
						ConflictingScheduleID: a.ScheduleID,
						ParticipantID:         participantID,
					},
				},
			})
		}
	}
	return issues
}
