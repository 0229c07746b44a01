package scheduler

import "strings"

// checkEquipment flags sessions whose required equipment is not covered by
// the equipment assigned to them. Tags are compared case-insensitively and
// several assignment records for one session are merged.
func checkEquipment(snap Snapshot, _ settings, loc localizer) []Issue {
	assigned := make(map[string]map[string]struct{})
	for _, record := range snap.Equipment {
		if record.ScheduleID == "" {
			continue
		}
		tags, ok := assigned[record.ScheduleID]
		if !ok {
			tags = make(map[string]struct{})
			assigned[record.ScheduleID] = tags
		}
		for _, tag := range record.Equipment {
			if normalized := normalizeTag(tag); normalized != "" {
				tags[normalized] = struct{}{}
			}
		}
	}

	var issues []Issue
	for _, s := range distinctSchedules(snap.Schedules) {
		missing := missingEquipment(s.RequiredEquipment, assigned[s.ID])
		if len(missing) == 0 {
			continue
		}
		list := strings.Join(missing, ", ")
		issues = append(issues, Issue{
			ID:          issueID(string(CategoryEquipment), s.ID),
			Severity:    SeverityWarning,
			Category:    CategoryEquipment,
			Title:       loc.text(msgMissingEquipmentTitle, s.Title),
			Description: loc.text(msgMissingEquipmentDesc, s.Title, list),
			AffectedEntities: AffectedEntities{
				ScheduleIDs: []string{s.ID},
				RoomIDs:     nonEmpty(s.RoomID),
			},
			SuggestedFix: &SuggestedFix{
				Label:  loc.text(msgMissingEquipmentFix, list),
				Action: AddEquipment{ScheduleID: s.ID, Missing: missing},
			},
		})
	}
	return issues
}

// missingEquipment returns required tags absent from assigned, in the order
// they were required and without repeats.
func missingEquipment(required []string, assigned map[string]struct{}) []string {
	var missing []string
	seen := make(map[string]struct{}, len(required))
	for _, tag := range required {
		normalized := normalizeTag(tag)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		if _, ok := assigned[normalized]; !ok {
			missing = append(missing, strings.TrimSpace(tag))
		}
	}
	return missing
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
