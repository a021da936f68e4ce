package models

// QuestionType is the closed set of answer kinds the resolver can ask for.
// Validation and prompt rendering switch exhaustively on this type.
type QuestionType string

const (
	QuestionTime       QuestionType = "time"
	QuestionDuration   QuestionType = "duration"
	QuestionCourseCode QuestionType = "course_code"
	QuestionChoice     QuestionType = "choice"
)

// TargetType distinguishes whether a question refers to a fixed commitment
// or a flexible task.
type TargetType string

const (
	TargetMeeting TargetType = "meeting"
	TargetTask    TargetType = "task"
)

// PendingQuestion asks the user for a single missing required field on a
// schedule item. Questions are consumed strictly FIFO, one open at a time.
type PendingQuestion struct {
	TargetID   string       `json:"target_id"`
	Type       QuestionType `json:"type"`
	Field      string       `json:"field"`
	Target     string       `json:"target"` // item description, for prompt context
	TargetType TargetType   `json:"target_type"`
	Question   string       `json:"question"`
	Options    []string     `json:"options,omitempty"` // populated for choice questions
}

// Answer is a submitted value for the front-of-queue question.
type Answer struct {
	TargetID string `json:"target_id"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}
