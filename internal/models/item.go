package models

type ItemKind string

const (
	ItemKindFixed    ItemKind = "fixed_event"
	ItemKindFlexible ItemKind = "flexible_task"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank maps a priority to a sortable order where lower is more urgent.
// Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Deadline is a day+time bound for a flexible task.
type Deadline struct {
	Day  Day    `json:"day"`
	Time string `json:"time"` // HH:MM format
}

// ScheduleItem is a single commitment or unit of work. Fixed events carry an
// immutable day/time/duration; flexible tasks carry a duration and optional
// deadline and only receive a slot during placement.
type ScheduleItem struct {
	ID           string    `json:"id"`
	Kind         ItemKind  `json:"kind"`
	Description  string    `json:"description"`
	Priority     Priority  `json:"priority"`
	DurationMin  int       `json:"duration_minutes"` // 0 means not yet known
	CourseCode   string    `json:"course_code,omitempty"`
	Day          Day       `json:"day,omitempty"`  // required for fixed events
	Time         string    `json:"time,omitempty"` // HH:MM, required for fixed events
	Category     string    `json:"category,omitempty"`
	Deadline     *Deadline `json:"deadline,omitempty"`
	RelatedEvent string    `json:"related_event,omitempty"`
}

// IsFixed reports whether the item is a fixed commitment.
func (i ScheduleItem) IsFixed() bool {
	return i.Kind == ItemKindFixed
}
