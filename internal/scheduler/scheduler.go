package scheduler

import (
	"fmt"
	"sort"

	"github.com/julianstephens/weekwise/internal/calendar"
	"github.com/julianstephens/weekwise/internal/errors"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/utils"
)

// Scheduler compiles a complete draft into a conflict-free week calendar
// using a priority-ordered greedy interval fit. Ties and failures are
// deterministic for identical input ordering.
type Scheduler struct {
	// Now anchors placement within the week: windows before it are not
	// considered. The zero value means the start of the week.
	Now Moment
}

// Moment is a point in the week grid.
type Moment struct {
	Day     models.Day
	Minutes int // minutes from midnight
}

// Result is the output of a compilation: the placed calendar plus the items
// no conflict-free, load-respecting slot could be found for.
type Result struct {
	Calendar    models.WeekCalendar
	Unplaceable []models.ScheduleItem
}

func New() *Scheduler {
	return &Scheduler{}
}

// Compile seeds the calendar with every fixed event verbatim, then places
// each flexible task into the earliest free window that satisfies its
// duration, any deadline, and the daily load cap. Unplaceable tasks are
// reported, never dropped, and never block later tasks.
func (s *Scheduler) Compile(items []models.ScheduleItem, prefs models.Preferences) (Result, error) {
	models.ApplyDefaultPreferences(&prefs)

	cal := models.NewWeekCalendar()

	var flexible []models.ScheduleItem
	fixedByDesc := make(map[string]models.ScheduleItem)

	for _, item := range items {
		switch item.Kind {
		case models.ItemKindFixed:
			if item.Day == "" || item.Time == "" || item.DurationMin <= 0 {
				return Result{}, &errors.SessionStateError{
					Reason: fmt.Sprintf("fixed event %q is missing its day, time, or duration; resolve the draft first", item.Description),
				}
			}
			if !item.Day.IsValid() {
				return Result{}, &errors.ValidationError{Field: "day", Value: string(item.Day), Reason: "not a valid day name"}
			}
			start, err := utils.ParseTimeToMinutes(item.Time)
			if err != nil {
				return Result{}, &errors.ValidationError{Field: "time", Value: item.Time, Reason: "must be a 24-hour HH:MM time"}
			}

			iv := calendar.Interval{Start: start, End: start + item.DurationMin}
			conflict, err := calendar.HasConflict(cal, item.Day, iv)
			if err != nil {
				return Result{}, err
			}
			if conflict {
				return Result{}, &errors.ConstraintViolation{
					ItemID: item.ID,
					Reason: fmt.Sprintf("fixed event %q overlaps another fixed event on %s", item.Description, item.Day),
				}
			}

			insertPlaced(cal, item.Day, models.PlacedItem{
				ScheduleItem: item,
				Start:        item.Time,
				End:          utils.FormatMinutes(iv.End),
			})
			fixedByDesc[item.Description] = item

		case models.ItemKindFlexible:
			if item.DurationMin <= 0 {
				return Result{}, &errors.SessionStateError{
					Reason: fmt.Sprintf("flexible task %q has no duration; resolve the draft first", item.Description),
				}
			}
			flexible = append(flexible, item)

		default:
			return Result{}, &errors.ValidationError{Field: "kind", Value: string(item.Kind), Reason: "must be fixed_event or flexible_task"}
		}
	}

	sortFlexible(flexible)

	unplaceable := []models.ScheduleItem{}
	for _, task := range flexible {
		placed, err := s.placeOne(cal, task, prefs, prefs.EligibleDays(), fixedByDesc)
		if err != nil {
			return Result{}, err
		}
		if !placed {
			logger.Debug("Task unplaceable", "id", task.ID, "description", task.Description)
			unplaceable = append(unplaceable, task)
		}
	}

	logger.Info("Compilation complete", "placed", len(flexible)-len(unplaceable), "unplaceable", len(unplaceable))
	return Result{Calendar: cal, Unplaceable: unplaceable}, nil
}

// PlaceInto places the given flexible tasks into a copy of an existing
// calendar, restricted to the given days. It is the entry point for
// re-placement after an adjustment or revision; fixed events already in the
// calendar are untouched.
func (s *Scheduler) PlaceInto(cal models.WeekCalendar, tasks []models.ScheduleItem, prefs models.Preferences, days []models.Day) (models.WeekCalendar, []models.ScheduleItem, error) {
	models.ApplyDefaultPreferences(&prefs)
	out := cal.Clone()

	// Fixed events already on the calendar still act as implicit deadlines
	// for their related preparation tasks.
	fixedByDesc := make(map[string]models.ScheduleItem)
	for _, day := range models.WeekDays {
		for _, placed := range out[day] {
			if placed.IsFixed() {
				fixedByDesc[placed.Description] = placed.ScheduleItem
			}
		}
	}

	sorted := make([]models.ScheduleItem, len(tasks))
	copy(sorted, tasks)
	sortFlexible(sorted)

	unplaceable := []models.ScheduleItem{}
	for _, task := range sorted {
		placed, err := s.placeOne(out, task, prefs, days, fixedByDesc)
		if err != nil {
			return nil, nil, err
		}
		if !placed {
			unplaceable = append(unplaceable, task)
		}
	}
	return out, unplaceable, nil
}

// placeOne finds the earliest eligible window for a task and commits it into
// the calendar. Returns false when no window satisfies the duration,
// deadline, and load constraints.
func (s *Scheduler) placeOne(cal models.WeekCalendar, task models.ScheduleItem, prefs models.Preferences, days []models.Day, fixedByDesc map[string]models.ScheduleItem) (bool, error) {
	deadline, err := effectiveDeadline(task, fixedByDesc)
	if err != nil {
		return false, err
	}

	for _, day := range days {
		if s.Now.Day != "" && dayIndex(day) < dayIndex(s.Now.Day) {
			continue
		}
		if deadline != nil && dayIndex(day) > dayIndex(deadline.Day) {
			continue
		}

		load, err := calendar.FlexibleMinutes(cal, day)
		if err != nil {
			return false, err
		}
		if prefs.MaxDailyLoadMin > 0 && load+task.DurationMin > prefs.MaxDailyLoadMin {
			continue
		}

		windows, err := calendar.FreeWindows(cal, day, prefs)
		if err != nil {
			return false, err
		}

		for _, win := range windows {
			start := win.Start
			if s.Now.Day == day && start < s.Now.Minutes {
				start = s.Now.Minutes
			}
			end := start + task.DurationMin
			if end > win.End {
				continue
			}
			if deadline != nil && day == deadline.Day && end > deadline.Minutes {
				continue
			}

			// Place at the window start and leave the remainder free.
			task.Day = day
			task.Time = utils.FormatMinutes(start)
			insertPlaced(cal, day, models.PlacedItem{
				ScheduleItem: task,
				Start:        utils.FormatMinutes(start),
				End:          utils.FormatMinutes(end),
			})
			return true, nil
		}
	}

	return false, nil
}

// weekDeadline is a resolved deadline in week-grid coordinates.
type weekDeadline struct {
	Day     models.Day
	Minutes int
}

// effectiveDeadline resolves the bound a task must finish before: an
// explicit deadline wins; otherwise a related fixed event's start acts as an
// implicit one, so preparation lands before the exam it prepares for.
func effectiveDeadline(task models.ScheduleItem, fixedByDesc map[string]models.ScheduleItem) (*weekDeadline, error) {
	if task.Deadline != nil {
		minutes, err := utils.ParseTimeToMinutes(task.Deadline.Time)
		if err != nil {
			return nil, &errors.ValidationError{Field: "deadline", Value: task.Deadline.Time, Reason: "must be a 24-hour HH:MM time"}
		}
		return &weekDeadline{Day: task.Deadline.Day, Minutes: minutes}, nil
	}

	if task.RelatedEvent != "" && fixedByDesc != nil {
		if event, ok := fixedByDesc[task.RelatedEvent]; ok {
			minutes, err := utils.ParseTimeToMinutes(event.Time)
			if err != nil {
				return nil, err
			}
			return &weekDeadline{Day: event.Day, Minutes: minutes}, nil
		}
	}

	return nil, nil
}

// sortFlexible orders tasks by (priority desc, deadline asc with none last,
// duration desc). The sort is stable so equal tasks keep input order, which
// keeps compilation deterministic.
func sortFlexible(tasks []models.ScheduleItem) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		aKey, aHas := deadlineKey(a)
		bKey, bHas := deadlineKey(b)
		if aHas != bHas {
			return aHas
		}
		if aHas && aKey != bKey {
			return aKey < bKey
		}
		return a.DurationMin > b.DurationMin
	})
}

func deadlineKey(task models.ScheduleItem) (int, bool) {
	if task.Deadline == nil {
		return 0, false
	}
	minutes, err := utils.ParseTimeToMinutes(task.Deadline.Time)
	if err != nil {
		minutes = 0
	}
	return dayIndex(task.Deadline.Day)*24*60 + minutes, true
}

func dayIndex(day models.Day) int {
	for i, d := range models.WeekDays {
		if d == day {
			return i
		}
	}
	return len(models.WeekDays)
}

// insertPlaced adds a placed item to a day keeping the slice ordered by
// start time.
func insertPlaced(cal models.WeekCalendar, day models.Day, placed models.PlacedItem) {
	items := cal[day]
	pos := len(items)
	for i, existing := range items {
		if placed.Start < existing.Start {
			pos = i
			break
		}
	}
	items = append(items, models.PlacedItem{})
	copy(items[pos+1:], items[pos:])
	items[pos] = placed
	cal[day] = items
}
