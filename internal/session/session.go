// Package session holds the server-side state of one scheduling
// conversation: the draft, the open question queue, preferences, the
// compiled calendar and any pending time-adjustment proposals. Every
// operation runs under the session's lock and bumps its version, so
// concurrent callers serialize and stale reads are detectable.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/weekwise/internal/adjuster"
	werrors "github.com/julianstephens/weekwise/internal/errors"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/resolver"
	"github.com/julianstephens/weekwise/internal/revision"
	"github.com/julianstephens/weekwise/internal/scheduler"
	"github.com/julianstephens/weekwise/internal/validation"
)

// State describes where a session is in its lifecycle.
type State string

const (
	StateEmpty     State = "empty"     // no draft submitted yet
	StateResolving State = "resolving" // draft submitted, questions open
	StateReady     State = "ready"     // draft complete, not compiled
	StateCompiled  State = "compiled"  // calendar available
)

// Session is the mutable state of one scheduling conversation. Safe for
// concurrent use; sessions share nothing with each other.
type Session struct {
	ID string

	mu          sync.Mutex
	version     int
	res         *resolver.Resolver
	prefs       models.Preferences
	calendar    models.WeekCalendar
	unplaceable []models.ScheduleItem
	proposals   map[string]models.TimeAdjustmentProposal

	sched     *scheduler.Scheduler
	adj       *adjuster.Adjuster
	rev       *revision.Reviser
	extractor revision.IntentExtractor
}

func newSession(id string, extractor revision.IntentExtractor) *Session {
	return &Session{
		ID:        id,
		prefs:     models.DefaultPreferences(),
		proposals: make(map[string]models.TimeAdjustmentProposal),
		sched:     scheduler.New(),
		adj:       adjuster.New(),
		rev:       revision.New(),
		extractor: extractor,
	}
}

// Version returns the session's mutation counter.
func (s *Session) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// State derives the lifecycle state from what the session holds.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.res == nil:
		return StateEmpty
	case !s.res.Complete():
		return StateResolving
	case s.calendar == nil:
		return StateReady
	default:
		return StateCompiled
	}
}

// SubmitDraft replaces the session's draft with the given items and starts
// a fresh resolution pass. Any previously compiled calendar is discarded.
// Items without IDs get one assigned. Returns the open questions.
func (s *Session) SubmitDraft(items []models.ScheduleItem) ([]models.PendingQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		return nil, &werrors.ValidationError{Field: "items", Reason: "the draft is empty"}
	}

	draft := make([]models.ScheduleItem, len(items))
	copy(draft, items)
	seen := make(map[string]bool, len(draft))
	for i := range draft {
		if draft[i].ID == "" {
			draft[i].ID = uuid.NewString()
		}
		if seen[draft[i].ID] {
			return nil, &werrors.ValidationError{Field: "id", Value: draft[i].ID, Reason: "duplicate item id"}
		}
		seen[draft[i].ID] = true
		switch draft[i].Kind {
		case models.ItemKindFixed, models.ItemKindFlexible:
		default:
			return nil, &werrors.ValidationError{Field: "kind", Value: string(draft[i].Kind), Reason: "unknown item kind"}
		}
	}

	s.res = resolver.New(draft)
	s.calendar = nil
	s.unplaceable = nil
	s.proposals = make(map[string]models.TimeAdjustmentProposal)
	s.version++

	logger.Info("draft submitted", "session", s.ID, "items", len(draft), "questions", len(s.res.Questions()))
	return s.res.Questions(), nil
}

// NextQuestion returns the front of the question queue.
func (s *Session) NextQuestion() (models.PendingQuestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.res == nil {
		return models.PendingQuestion{}, false
	}
	return s.res.Next()
}

// SubmitAnswer applies an answer to the current question. On a validation
// failure the question stays open and the error is returned.
func (s *Session) SubmitAnswer(value string) (*models.PendingQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.res == nil {
		return nil, &werrors.SessionStateError{Reason: "no draft submitted"}
	}
	if err := s.res.SubmitAnswer(value); err != nil {
		return nil, err
	}
	s.version++

	if q, ok := s.res.Next(); ok {
		return &q, nil
	}
	return nil, nil
}

// CollectPreferences stores the session's scheduling preferences, filling
// unset values with defaults.
func (s *Session) CollectPreferences(prefs models.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	models.ApplyDefaultPreferences(&prefs)
	s.prefs = prefs
	s.version++
	return nil
}

// Preferences returns the session's current preferences.
func (s *Session) Preferences() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Compile turns the resolved draft into a week calendar. It fails with a
// SessionStateError while questions remain open.
func (s *Session) Compile() (models.WeekCalendar, []models.ScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.res == nil {
		return nil, nil, &werrors.SessionStateError{Reason: "no draft submitted"}
	}
	if !s.res.Complete() {
		return nil, nil, &werrors.SessionStateError{
			Reason: fmt.Sprintf("%d questions still open", len(s.res.Questions())),
		}
	}

	result, err := s.sched.Compile(s.res.Items(), s.prefs)
	if err != nil {
		return nil, nil, err
	}

	s.calendar = result.Calendar
	s.unplaceable = result.Unplaceable
	s.version++

	logger.Info("compiled week", "session", s.ID, "unplaceable", len(result.Unplaceable))
	return result.Calendar.Clone(), append([]models.ScheduleItem(nil), result.Unplaceable...), nil
}

// Calendar returns a copy of the compiled calendar, or false before Compile.
func (s *Session) Calendar() (models.WeekCalendar, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.calendar == nil {
		return nil, false
	}
	return s.calendar.Clone(), true
}

// Unplaceable returns the items the last compile could not place.
func (s *Session) Unplaceable() []models.ScheduleItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ScheduleItem(nil), s.unplaceable...)
}

// SubmitQuizResult produces a time-adjustment proposal for a course and
// parks it until the caller accepts or rejects it. When the result carries
// no previous duration, the course's scheduled preparation time is used.
func (s *Session) SubmitQuizResult(result models.QuizResult) (models.TimeAdjustmentProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.calendar == nil {
		return models.TimeAdjustmentProposal{}, &werrors.SessionStateError{Reason: "no compiled calendar to adjust"}
	}
	if result.PreviousPrepMin <= 0 {
		total := 0
		for _, item := range s.courseTasksLocked(result.CourseCode) {
			total += item.DurationMin
		}
		if total == 0 {
			return models.TimeAdjustmentProposal{}, &werrors.ValidationError{
				Field: "course_code", Value: result.CourseCode,
				Reason: "no preparation time scheduled for this course",
			}
		}
		result.PreviousPrepMin = total
	}

	proposal, err := s.adj.Propose(result)
	if err != nil {
		return models.TimeAdjustmentProposal{}, err
	}

	s.proposals[proposal.CourseCode] = proposal
	s.version++
	return proposal, nil
}

// ApplyAdjustment accepts or rejects a parked proposal. Acceptance scales
// the course's preparation tasks to the proposed total and re-places them;
// nothing on the calendar changes on rejection.
func (s *Session) ApplyAdjustment(courseCode string, accept bool) (models.WeekCalendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal, ok := s.proposals[courseCode]
	if !ok {
		return nil, &werrors.SessionStateError{Reason: fmt.Sprintf("no pending proposal for %s", courseCode)}
	}
	delete(s.proposals, courseCode)

	if !accept {
		s.version++
		if s.calendar == nil {
			return nil, nil
		}
		return s.calendar.Clone(), nil
	}
	if s.calendar == nil {
		return nil, &werrors.SessionStateError{Reason: "no compiled calendar to adjust"}
	}

	tasks := s.courseTasksLocked(courseCode)
	if len(tasks) == 0 {
		return nil, &werrors.ConstraintViolation{Reason: fmt.Sprintf("no preparation tasks for %s on the calendar", courseCode)}
	}

	// Scale each task proportionally so their sum matches the proposal,
	// then re-place only the affected tasks.
	next := s.calendar.Clone()
	oldTotal := 0
	for _, t := range tasks {
		oldTotal += t.DurationMin
	}
	resized := make([]models.ScheduleItem, 0, len(tasks))
	remaining := proposal.NewMinutes
	for i, t := range tasks {
		next.Remove(t.ID)
		item := t.ScheduleItem
		if i == len(tasks)-1 {
			item.DurationMin = remaining
		} else {
			item.DurationMin = proposal.NewMinutes * t.DurationMin / oldTotal
			remaining -= item.DurationMin
		}
		if item.DurationMin > 0 {
			resized = append(resized, item)
		}
	}

	placed, unplaced, err := s.sched.PlaceInto(next, resized, s.prefs, s.prefs.EligibleDays())
	if err != nil {
		return nil, err
	}

	s.calendar = placed
	s.unplaceable = append(s.unplaceable, unplaced...)
	s.version++

	logger.Info("adjustment applied", "session", s.ID, "course", courseCode,
		"old", proposal.OldMinutes, "new", proposal.NewMinutes)
	return placed.Clone(), nil
}

// courseTasksLocked lists the flexible placed items carrying the course code.
func (s *Session) courseTasksLocked(courseCode string) []models.PlacedItem {
	var tasks []models.PlacedItem
	for _, day := range models.WeekDays {
		for _, placed := range s.calendar[day] {
			if !placed.IsFixed() && placed.CourseCode == courseCode {
				tasks = append(tasks, placed)
			}
		}
	}
	return tasks
}

// ImportCalendar adopts an externally produced week calendar as the
// session's current state after validating its shape and consistency.
func (s *Session) ImportCalendar(cal models.WeekCalendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := validation.New().ValidateImportedCalendar(cal)
	if result.HasConflicts() {
		return &werrors.ValidationError{Field: "calendar", Reason: result.FormatReport()}
	}

	s.calendar = cal.Clone()
	s.unplaceable = nil
	s.version++

	logger.Info("calendar imported", "session", s.ID)
	return nil
}

// Revise applies a structured mutation to the compiled calendar.
func (s *Session) Revise(intent revision.MutationIntent) (revision.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviseLocked(intent)
}

func (s *Session) reviseLocked(intent revision.MutationIntent) (revision.Result, error) {
	if s.calendar == nil {
		return revision.Result{}, &werrors.SessionStateError{Reason: "no compiled calendar to revise"}
	}

	res, err := s.rev.Apply(s.calendar, intent, s.prefs)
	if err != nil {
		return revision.Result{}, err
	}

	s.calendar = res.Calendar
	s.version++
	return res, nil
}

// ReviseByInstruction extracts a structured intent from a free-form
// instruction and applies it. The calendar mutation itself only ever sees
// the structured intent.
func (s *Session) ReviseByInstruction(ctx context.Context, instruction string) (revision.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.extractor == nil {
		return revision.Result{}, &werrors.SessionStateError{Reason: "no intent extractor configured"}
	}
	if s.calendar == nil {
		return revision.Result{}, &werrors.SessionStateError{Reason: "no compiled calendar to revise"}
	}

	intent, err := s.extractor.ExtractIntent(ctx, instruction, s.calendar)
	if err != nil {
		return revision.Result{}, fmt.Errorf("intent extraction failed: %w", err)
	}
	return s.reviseLocked(intent)
}

// Reset discards the draft, question queue, calendar and proposals in one
// step. The session keeps its identity and preferences.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.res = nil
	s.calendar = nil
	s.unplaceable = nil
	s.proposals = make(map[string]models.TimeAdjustmentProposal)
	s.version++

	logger.Info("session reset", "session", s.ID)
}

// Snapshot captures the session for persistence.
func (s *Session) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.SessionSnapshot{
		ID:          s.ID,
		Version:     s.version,
		State:       string(s.stateLocked()),
		Preferences: s.prefs,
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if s.res != nil {
		snap.Items = s.res.Items()
		snap.Questions = s.res.Questions()
	}
	if s.calendar != nil {
		snap.Calendar = s.calendar.Clone()
		snap.Unplaceable = append([]models.ScheduleItem(nil), s.unplaceable...)
	}
	for _, p := range s.proposals {
		snap.Proposals = append(snap.Proposals, p)
	}
	return snap
}
