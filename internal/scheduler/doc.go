// Package scheduler implements the schedule simulation engine.
//
// The engine takes an immutable Snapshot of one event and runs a fixed set of
// validators over it. Each validator looks for one class of defect:
//
//   - room_conflict: two sessions in the same room overlap
//   - speaker_overlap: a speaker is booked for two sessions at once
//   - vip_conflict: a VIP participant is registered for overlapping sessions
//   - back_to_back: a speaker has too little time between sessions
//   - transition_time: participants must change rooms with too little time
//   - capacity: expected attendance exceeds or nearly exceeds room capacity
//   - equipment: required equipment is not assigned
//   - catering: long stretches without a meal or break
//
// Validators are pure and independent. Their findings are concatenated in
// the canonical order above, ranked by severity and summarised into a
// SimulationResult. Issue identifiers are derived from the affected entity
// ids only, so repeated runs over the same snapshot produce identical output.
package scheduler
