package models

// SessionSnapshot is the persisted form of a scheduling session. It carries
// everything needed to resume: the draft items, any open questions, the
// collected preferences and the compiled calendar.
type SessionSnapshot struct {
	ID          string                   `json:"id"`
	Version     int                      `json:"version"`
	State       string                   `json:"state"`
	Items       []ScheduleItem           `json:"items"`
	Questions   []PendingQuestion        `json:"questions,omitempty"`
	Preferences Preferences              `json:"preferences"`
	Calendar    WeekCalendar             `json:"calendar,omitempty"`
	Unplaceable []ScheduleItem           `json:"unplaceable,omitempty"`
	Proposals   []TimeAdjustmentProposal `json:"proposals,omitempty"`
	UpdatedAt   string                   `json:"updated_at"` // RFC 3339
}
