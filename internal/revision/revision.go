// Package revision applies conversational edits to a compiled week calendar.
// Free-form instructions are first reduced to a structured mutation intent,
// then validated and applied against the calendar's constraints so that a
// revision can never introduce an overlap or silently move a fixed event.
package revision

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/weekwise/internal/calendar"
	werrors "github.com/julianstephens/weekwise/internal/errors"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/scheduler"
	"github.com/julianstephens/weekwise/internal/utils"
)

// IntentKind enumerates the supported calendar mutations.
type IntentKind string

const (
	IntentAdd    IntentKind = "add"
	IntentRemove IntentKind = "remove"
	IntentMove   IntentKind = "move"
	IntentResize IntentKind = "resize"
)

// MutationIntent is the structured form of a revision instruction. ItemID
// takes precedence when set; otherwise the target is resolved by matching
// Description against placed items.
type MutationIntent struct {
	Kind        IntentKind      `json:"kind"`
	ItemID      string          `json:"item_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Day         models.Day      `json:"day,omitempty"`
	Time        string          `json:"time,omitempty"`
	DurationMin int             `json:"duration_minutes,omitempty"`
	Priority    models.Priority `json:"priority,omitempty"`

	// NamesFixedEvent records that the instruction explicitly identified a
	// fixed commitment as its target. Mutations of fixed events are refused
	// unless this is set.
	NamesFixedEvent bool `json:"names_fixed_event,omitempty"`
}

// Result reports the outcome of one applied revision.
type Result struct {
	Calendar models.WeekCalendar `json:"calendar"`
	// Placed is the slot the mutated or added item ended up in, when the
	// mutation produced one.
	Placed *models.PlacedItem `json:"placed,omitempty"`
	// Removed is set for remove mutations.
	Removed *models.PlacedItem `json:"removed,omitempty"`
}

// Reviser validates and applies mutation intents. The input calendar is never
// modified; every mutation works on a clone so a rejected revision leaves the
// caller's calendar untouched.
type Reviser struct {
	sched *scheduler.Scheduler
}

func New() *Reviser {
	return &Reviser{sched: scheduler.New()}
}

// Apply runs a single mutation intent against cal under prefs.
func (r *Reviser) Apply(cal models.WeekCalendar, intent MutationIntent, prefs models.Preferences) (Result, error) {
	models.ApplyDefaultPreferences(&prefs)

	// Day names arrive in whatever casing the caller used.
	if intent.Day != "" {
		day, err := utils.ParseDay(string(intent.Day))
		if err != nil {
			return Result{}, &werrors.ValidationError{Field: "day", Value: string(intent.Day), Reason: "unknown day"}
		}
		intent.Day = day
	}

	switch intent.Kind {
	case IntentAdd:
		return r.applyAdd(cal, intent, prefs)
	case IntentRemove:
		return r.applyRemove(cal, intent)
	case IntentMove:
		return r.applyMove(cal, intent, prefs)
	case IntentResize:
		return r.applyResize(cal, intent, prefs)
	default:
		return Result{}, &werrors.ValidationError{Field: "kind", Value: string(intent.Kind), Reason: "unknown mutation kind"}
	}
}

func (r *Reviser) applyAdd(cal models.WeekCalendar, intent MutationIntent, prefs models.Preferences) (Result, error) {
	if intent.Description == "" {
		return Result{}, &werrors.ValidationError{Field: "description", Reason: "an added task needs a description"}
	}
	if intent.DurationMin <= 0 {
		return Result{}, &werrors.ValidationError{Field: "duration_minutes", Value: fmt.Sprint(intent.DurationMin), Reason: "an added task needs a positive duration"}
	}

	task := models.ScheduleItem{
		ID:          uuid.NewString(),
		Kind:        models.ItemKindFlexible,
		Description: intent.Description,
		Priority:    intent.Priority,
		DurationMin: intent.DurationMin,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	days := prefs.EligibleDays()
	if intent.Day != "" {
		days = []models.Day{intent.Day}
	}

	// A requested exact slot is honored only when it is actually free.
	// Otherwise placement falls back to the affected day's free windows.
	if intent.Day != "" && intent.Time != "" {
		placed, err := r.placeExact(cal, task, intent.Day, intent.Time, prefs)
		if err == nil {
			return placed, nil
		}
		if !werrors.IsConstraintViolation(err) {
			return Result{}, err
		}
		logger.Debug("requested slot unavailable, re-placing", "item", task.Description, "day", intent.Day, "time", intent.Time)
	}

	next, unplaced, err := r.sched.PlaceInto(cal, []models.ScheduleItem{task}, prefs, days)
	if err != nil {
		return Result{}, err
	}
	if len(unplaced) > 0 {
		return Result{}, &werrors.ConstraintViolation{ItemID: task.ID, Reason: fmt.Sprintf("no free window fits %q", task.Description)}
	}
	_, placed, _ := next.Find(task.ID)
	return Result{Calendar: next, Placed: &placed}, nil
}

func (r *Reviser) applyRemove(cal models.WeekCalendar, intent MutationIntent) (Result, error) {
	day, target, err := resolveTarget(cal, intent)
	if err != nil {
		return Result{}, err
	}
	if target.IsFixed() && !intent.NamesFixedEvent {
		return Result{}, &werrors.ConstraintViolation{ItemID: target.ID, Reason: fmt.Sprintf("%q is a fixed commitment and can only be removed when named explicitly", target.Description)}
	}
	next := cal.Clone()
	next.Remove(target.ID)
	logger.Info("removed item", "item", target.Description, "day", day)
	return Result{Calendar: next, Removed: &target}, nil
}

func (r *Reviser) applyMove(cal models.WeekCalendar, intent MutationIntent, prefs models.Preferences) (Result, error) {
	_, target, err := resolveTarget(cal, intent)
	if err != nil {
		return Result{}, err
	}
	if target.IsFixed() && !intent.NamesFixedEvent {
		return Result{}, &werrors.ConstraintViolation{ItemID: target.ID, Reason: fmt.Sprintf("%q is a fixed commitment and can only be moved when named explicitly", target.Description)}
	}
	if intent.Day == "" {
		return Result{}, &werrors.ValidationError{Field: "day", Reason: "a move needs a target day"}
	}

	next := cal.Clone()
	next.Remove(target.ID)

	if intent.Time != "" {
		res, err := r.placeExact(next, target.ScheduleItem, intent.Day, intent.Time, prefs)
		if err == nil {
			return res, nil
		}
		if !werrors.IsConstraintViolation(err) {
			return Result{}, err
		}
		if target.IsFixed() {
			// Fixed events are never silently rerouted to a different slot.
			return Result{}, err
		}
		logger.Debug("requested slot unavailable, re-placing", "item", target.Description, "day", intent.Day, "time", intent.Time)
	} else if target.IsFixed() {
		return Result{}, &werrors.ValidationError{Field: "time", Reason: "moving a fixed commitment needs an explicit time"}
	}

	placed, unplaced, err := r.sched.PlaceInto(next, []models.ScheduleItem{target.ScheduleItem}, prefs, []models.Day{intent.Day})
	if err != nil {
		return Result{}, err
	}
	if len(unplaced) > 0 {
		return Result{}, &werrors.ConstraintViolation{ItemID: target.ID, Reason: fmt.Sprintf("no free window on %s fits %q", intent.Day, target.Description)}
	}
	_, moved, _ := placed.Find(target.ID)
	return Result{Calendar: placed, Placed: &moved}, nil
}

func (r *Reviser) applyResize(cal models.WeekCalendar, intent MutationIntent, prefs models.Preferences) (Result, error) {
	day, target, err := resolveTarget(cal, intent)
	if err != nil {
		return Result{}, err
	}
	if target.IsFixed() && !intent.NamesFixedEvent {
		return Result{}, &werrors.ConstraintViolation{ItemID: target.ID, Reason: fmt.Sprintf("%q is a fixed commitment and can only be resized when named explicitly", target.Description)}
	}
	if intent.DurationMin <= 0 {
		return Result{}, &werrors.ValidationError{Field: "duration_minutes", Value: fmt.Sprint(intent.DurationMin), Reason: "a resize needs a positive duration"}
	}

	next := cal.Clone()
	next.Remove(target.ID)

	item := target.ScheduleItem
	item.DurationMin = intent.DurationMin

	if target.IsFixed() {
		// A resized fixed event keeps its start; only the end moves.
		res, err := r.placeExact(next, item, target.Day, target.Time, prefs)
		if err != nil {
			return Result{}, err
		}
		return res, nil
	}

	// Try the item's current day first so resizes stay local when they can.
	days := []models.Day{day}
	for _, d := range prefs.EligibleDays() {
		if d != day {
			days = append(days, d)
		}
	}
	placed, unplaced, err := r.sched.PlaceInto(next, []models.ScheduleItem{item}, prefs, days)
	if err != nil {
		return Result{}, err
	}
	if len(unplaced) > 0 {
		return Result{}, &werrors.ConstraintViolation{ItemID: target.ID, Reason: fmt.Sprintf("no free window fits %q at %d minutes", target.Description, intent.DurationMin)}
	}
	_, resized, _ := placed.Find(target.ID)
	return Result{Calendar: placed, Placed: &resized}, nil
}

// placeExact pins item to the given day and start time, rejecting the slot if
// it overlaps anything already on the calendar.
func (r *Reviser) placeExact(cal models.WeekCalendar, item models.ScheduleItem, day models.Day, start string, prefs models.Preferences) (Result, error) {
	clock, err := utils.NormalizeClock(start)
	if err != nil {
		return Result{}, &werrors.ValidationError{Field: "time", Value: start, Reason: err.Error()}
	}
	startMin, err := utils.ParseTimeToMinutes(clock)
	if err != nil {
		return Result{}, &werrors.ValidationError{Field: "time", Value: start, Reason: err.Error()}
	}
	iv := calendar.Interval{Start: startMin, End: startMin + item.DurationMin}

	conflict, err := calendar.HasConflict(cal, day, iv)
	if err != nil {
		return Result{}, err
	}
	if conflict {
		return Result{}, &werrors.ConstraintViolation{ItemID: item.ID, Reason: fmt.Sprintf("%s %s conflicts with an existing item", day, clock)}
	}

	// Exact slots still count against the daily load cap. Fixed events are
	// exempt, matching compilation.
	if !item.IsFixed() && prefs.MaxDailyLoadMin > 0 {
		load, err := calendar.FlexibleMinutes(cal, day)
		if err != nil {
			return Result{}, err
		}
		if load+item.DurationMin > prefs.MaxDailyLoadMin {
			return Result{}, &werrors.ConstraintViolation{ItemID: item.ID, Reason: fmt.Sprintf("%s already carries %d flexible minutes, %q would exceed the %d minute cap", day, load, item.Description, prefs.MaxDailyLoadMin)}
		}
	}

	next := cal.Clone()
	item.Day = day
	item.Time = clock
	placed := models.PlacedItem{
		ScheduleItem: item,
		Start:        clock,
		End:          utils.FormatMinutes(iv.End),
	}
	next[day] = append(next[day], placed)
	sortDay(next, day)
	return Result{Calendar: next, Placed: &placed}, nil
}

// resolveTarget finds the placed item an intent refers to, by ID first and by
// description otherwise. An ambiguous description is an error rather than a
// guess.
func resolveTarget(cal models.WeekCalendar, intent MutationIntent) (models.Day, models.PlacedItem, error) {
	if intent.ItemID != "" {
		day, placed, ok := cal.Find(intent.ItemID)
		if !ok {
			return "", models.PlacedItem{}, &werrors.ValidationError{Field: "item_id", Value: intent.ItemID, Reason: "no such item on the calendar"}
		}
		return day, placed, nil
	}
	if intent.Description == "" {
		return "", models.PlacedItem{}, &werrors.ValidationError{Field: "item_id", Reason: "the instruction did not identify an item"}
	}

	var (
		foundDay models.Day
		found    models.PlacedItem
		matches  int
	)
	for _, day := range models.WeekDays {
		for _, placed := range cal[day] {
			if strings.EqualFold(placed.Description, intent.Description) {
				foundDay, found = day, placed
				matches++
			}
		}
	}
	switch matches {
	case 0:
		return "", models.PlacedItem{}, &werrors.ValidationError{Field: "description", Value: intent.Description, Reason: "no item on the calendar matches"}
	case 1:
		return foundDay, found, nil
	default:
		return "", models.PlacedItem{}, &werrors.ValidationError{Field: "description", Value: intent.Description, Reason: fmt.Sprintf("%d items match, use the item id", matches)}
	}
}

func sortDay(cal models.WeekCalendar, day models.Day) {
	items := cal[day]
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Start < items[j].Start
	})
}
