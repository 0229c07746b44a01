package scheduler

import (
	"sort"
	"strings"
)

// Severity ranks how urgently an issue needs attention.
type Severity string

const (
	// SeverityCritical marks a physical impossibility such as a double-booked room.
	SeverityCritical Severity = "critical"
	// SeverityWarning marks a risky arrangement that may be intentional.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks a comfort suggestion.
	SeverityInfo Severity = "info"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// Category tags the domain an issue belongs to.
type Category string

const (
	CategoryRoom       Category = "room"
	CategorySpeaker    Category = "speaker"
	CategoryVIP        Category = "vip"
	CategoryTiming     Category = "timing"
	CategoryCapacity   Category = "capacity"
	CategoryEquipment  Category = "equipment"
	CategoryCatering   Category = "catering"
	CategoryBackToBack Category = "backtoback"
)

// AffectedEntities references the records an issue concerns. Each list is
// present only when relevant.
type AffectedEntities struct {
	ScheduleIDs    []string `json:"schedule_ids,omitempty"`
	RoomIDs        []string `json:"room_ids,omitempty"`
	SpeakerIDs     []string `json:"speaker_ids,omitempty"`
	ParticipantIDs []string `json:"participant_ids,omitempty"`
}

// Issue is one detected scheduling defect.
type Issue struct {
	ID               string           `json:"id"`
	Severity         Severity         `json:"severity"`
	Category         Category         `json:"category"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	AffectedEntities AffectedEntities `json:"affected_entities"`
	SuggestedFix     *SuggestedFix    `json:"suggested_fix,omitempty"`
}

// Summary counts issues by severity.
type Summary struct {
	Critical    int `json:"critical"`
	Warnings    int `json:"warnings"`
	Info        int `json:"info"`
	TotalIssues int `json:"total_issues"`
}

// SimulationResult is the output of one engine run.
type SimulationResult struct {
	Issues []Issue `json:"issues"`
	Summary
}

// issueID derives an issue identifier from a prefix and the ids of the
// affected entities. The ids are sorted first so the identifier does not
// depend on which record was compared first.
func issueID(prefix string, ids ...string) string {
	if len(ids) == 0 {
		return prefix
	}
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return prefix + ":" + strings.Join(sorted, ":")
}

// scopedIssueID is issueID for issues that are additionally keyed by an
// owning entity, such as the participant of a VIP conflict.
func scopedIssueID(prefix, scope string, ids ...string) string {
	return issueID(prefix+":"+scope, ids...)
}

func summarize(issues []Issue) Summary {
	summary := Summary{TotalIssues: len(issues)}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			summary.Critical++
		case SeverityWarning:
			summary.Warnings++
		case SeverityInfo:
			summary.Info++
		}
	}
	return summary
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
