// Package resolver drives the question/answer protocol that turns a partial
// draft into a complete one. It scans items in stable input order, asks for
// missing required fields one question at a time, and validates every answer
// against the question's type before writing it back.
package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/weekwise/internal/errors"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/utils"
	"github.com/julianstephens/weekwise/internal/validation"
)

// State is the resolver's protocol state.
type State string

const (
	StateScanning       State = "SCANNING"
	StateAwaitingAnswer State = "AWAITING_ANSWER"
	StateComplete       State = "COMPLETE"
)

// Field names questions refer to. These match the item JSON keys.
const (
	FieldDay      = "day"
	FieldTime     = "time"
	FieldDuration = "duration_minutes"
	FieldCourse   = "course_code"
)

// Resolver tracks a draft's missing required fields and applies validated
// answers. It owns a private copy of the item set; call Items to read the
// resolved draft back.
type Resolver struct {
	items []models.ScheduleItem
	queue []models.PendingQuestion
	state State
}

// New creates a resolver over a copy of the draft items. Items without an
// explicit priority default to medium; a missing deadline stays absent
// (append-anytime semantics), so neither triggers a question.
func New(items []models.ScheduleItem) *Resolver {
	copied := make([]models.ScheduleItem, len(items))
	copy(copied, items)
	for i := range copied {
		if copied[i].Priority == "" {
			copied[i].Priority = models.PriorityMedium
		}
	}

	r := &Resolver{items: copied, state: StateScanning}
	r.rescan()
	return r
}

// State returns the current protocol state.
func (r *Resolver) State() State {
	return r.state
}

// Complete reports whether every item has all required fields.
func (r *Resolver) Complete() bool {
	return r.state == StateComplete
}

// Items returns a copy of the (possibly partially) resolved draft.
func (r *Resolver) Items() []models.ScheduleItem {
	out := make([]models.ScheduleItem, len(r.items))
	copy(out, r.items)
	return out
}

// Questions returns the full outstanding question queue in FIFO order.
func (r *Resolver) Questions() []models.PendingQuestion {
	out := make([]models.PendingQuestion, len(r.queue))
	copy(out, r.queue)
	return out
}

// Next returns the open front-of-queue question, if any.
func (r *Resolver) Next() (models.PendingQuestion, bool) {
	if len(r.queue) == 0 {
		return models.PendingQuestion{}, false
	}
	return r.queue[0], true
}

// SubmitAnswer validates value against the front question's type and, on
// success, writes it into the target item and rescans. On validation
// failure the question stays at the front of the queue and a
// ValidationError is returned so the caller can re-prompt.
func (r *Resolver) SubmitAnswer(value string) error {
	if r.state != StateAwaitingAnswer || len(r.queue) == 0 {
		return &errors.SessionStateError{Reason: "no question is awaiting an answer"}
	}

	question := r.queue[0]
	idx := r.indexOf(question.TargetID)
	if idx < 0 {
		return &errors.SessionStateError{Reason: fmt.Sprintf("question targets unknown item %s", question.TargetID)}
	}

	switch question.Type {
	case models.QuestionTime:
		normalized, err := utils.NormalizeClock(value)
		if err != nil {
			return &errors.ValidationError{Field: question.Field, Value: value, Reason: "must be a 24-hour HH:MM time"}
		}
		r.items[idx].Time = normalized

	case models.QuestionDuration:
		minutes, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || minutes <= 0 {
			return &errors.ValidationError{Field: question.Field, Value: value, Reason: "must be a positive whole number of minutes"}
		}
		r.items[idx].DurationMin = minutes

	case models.QuestionCourseCode:
		code := strings.ToUpper(strings.TrimSpace(value))
		if !validation.ValidCourseCode(code) {
			return &errors.ValidationError{Field: question.Field, Value: value, Reason: "must match the course code format, e.g. CMPS350"}
		}
		r.items[idx].CourseCode = code

	case models.QuestionChoice:
		choice := strings.TrimSpace(value)
		valid := false
		for _, opt := range question.Options {
			if strings.EqualFold(choice, opt) {
				choice = opt
				valid = true
				break
			}
		}
		if !valid {
			return &errors.ValidationError{Field: question.Field, Value: value, Reason: fmt.Sprintf("must be one of: %s", strings.Join(question.Options, ", "))}
		}
		if question.Field == FieldDay {
			r.items[idx].Day = models.Day(choice)
		}

	default:
		return &errors.SessionStateError{Reason: fmt.Sprintf("unknown question type %q", question.Type)}
	}

	r.rescan()
	return nil
}

func (r *Resolver) indexOf(id string) int {
	for i, item := range r.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// rescan rebuilds the question queue from scratch, in stable input order,
// and advances the protocol state.
func (r *Resolver) rescan() {
	r.queue = r.queue[:0]

	for _, item := range r.items {
		r.queue = append(r.queue, missingFieldQuestions(item)...)
	}

	if len(r.queue) == 0 {
		r.state = StateComplete
	} else {
		r.state = StateAwaitingAnswer
	}
}

// missingFieldQuestions returns the questions a single item still requires,
// in the order they must be asked. A fixed commitment's slot is never
// defaulted: a missing day, time, or duration always asks. A flexible
// task's duration question always comes before any other question for that
// item.
func missingFieldQuestions(item models.ScheduleItem) []models.PendingQuestion {
	var questions []models.PendingQuestion

	switch item.Kind {
	case models.ItemKindFixed:
		if item.Day == "" {
			questions = append(questions, newQuestion(item, models.QuestionChoice, FieldDay,
				fmt.Sprintf("What day is the %s?", item.Description), dayOptions()))
		}
		if item.Time == "" {
			questions = append(questions, newQuestion(item, models.QuestionTime, FieldTime,
				fmt.Sprintf("What time is the %s?", item.Description), nil))
		}
		if item.DurationMin <= 0 {
			questions = append(questions, newQuestion(item, models.QuestionDuration, FieldDuration,
				fmt.Sprintf("How long is the %s, in minutes?", item.Description), nil))
		}
		if item.CourseCode == "" && (item.Category == "exam" || item.Category == "presentation") {
			questions = append(questions, newQuestion(item, models.QuestionCourseCode, FieldCourse,
				fmt.Sprintf("What is the course code for the %s?", item.Description), nil))
		}

	case models.ItemKindFlexible:
		if item.DurationMin <= 0 {
			questions = append(questions, newQuestion(item, models.QuestionDuration, FieldDuration,
				fmt.Sprintf("How long should the %s take, in minutes?", item.Description), nil))
		}
		if item.CourseCode == "" && item.Category == "preparation" {
			questions = append(questions, newQuestion(item, models.QuestionCourseCode, FieldCourse,
				fmt.Sprintf("What is the course code for the %s?", item.Description), nil))
		}
	}

	return questions
}

func newQuestion(item models.ScheduleItem, qtype models.QuestionType, field, text string, options []string) models.PendingQuestion {
	targetType := models.TargetTask
	if item.IsFixed() {
		targetType = models.TargetMeeting
	}
	return models.PendingQuestion{
		TargetID:   item.ID,
		Type:       qtype,
		Field:      field,
		Target:     item.Description,
		TargetType: targetType,
		Question:   text,
		Options:    options,
	}
}

func dayOptions() []string {
	opts := make([]string, len(models.WeekDays))
	for i, day := range models.WeekDays {
		opts[i] = string(day)
	}
	return opts
}
