package models

// QuizResult reports measured knowledge level for a course.
type QuizResult struct {
	CourseCode      string `json:"course_code"`
	Score           int    `json:"score"` // 0-100
	PreviousPrepMin int    `json:"previous_prep_minutes"`
}

// TimeAdjustmentProposal is a suggested change to a course's preparation
// time, produced from a quiz result. It must be accepted by the caller
// before any schedule mutation happens.
type TimeAdjustmentProposal struct {
	CourseCode string `json:"course_code"`
	OldMinutes int    `json:"old_minutes"`
	NewMinutes int    `json:"new_minutes"`
	Rationale  string `json:"rationale"`
}
