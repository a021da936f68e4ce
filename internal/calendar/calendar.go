// Package calendar holds the shared week-grid interval math: overlap checks
// and free-window computation over a WeekCalendar snapshot. Everything here
// is side-effect-free.
package calendar

import (
	"fmt"
	"sort"

	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/utils"
)

// Interval is a half-open [Start, End) time range in minutes from midnight.
type Interval struct {
	Start int
	End   int
}

// Duration returns the interval length in minutes.
func (iv Interval) Duration() int {
	return iv.End - iv.Start
}

// Overlaps reports whether two same-day intervals intersect. Intervals are
// half-open, so back-to-back slots (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// IntervalOf converts a placed item's HH:MM bounds to an Interval.
func IntervalOf(placed models.PlacedItem) (Interval, error) {
	start, err := utils.ParseTimeToMinutes(placed.Start)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid start time %q: %w", placed.Start, err)
	}
	end, err := utils.ParseTimeToMinutes(placed.End)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid end time %q: %w", placed.End, err)
	}
	return Interval{Start: start, End: end}, nil
}

// OccupiedIntervals returns the sorted occupied intervals on a day: every
// placed item plus the preference meal windows.
func OccupiedIntervals(cal models.WeekCalendar, day models.Day, prefs models.Preferences) ([]Interval, error) {
	var occupied []Interval

	for _, placed := range cal[day] {
		iv, err := IntervalOf(placed)
		if err != nil {
			return nil, err
		}
		occupied = append(occupied, iv)
	}

	for _, win := range prefs.MealWindows {
		start, err := utils.ParseTimeToMinutes(win.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid meal window start %q: %w", win.Start, err)
		}
		end, err := utils.ParseTimeToMinutes(win.End)
		if err != nil {
			return nil, fmt.Errorf("invalid meal window end %q: %w", win.End, err)
		}
		occupied = append(occupied, Interval{Start: start, End: end})
	}

	sort.Slice(occupied, func(i, j int) bool {
		if occupied[i].Start != occupied[j].Start {
			return occupied[i].Start < occupied[j].Start
		}
		return occupied[i].End < occupied[j].End
	})

	return occupied, nil
}

// FreeWindows returns the ordered free intervals on a day after subtracting
// every placed item and meal window, clipped to the preference day bounds.
func FreeWindows(cal models.WeekCalendar, day models.Day, prefs models.Preferences) ([]Interval, error) {
	dayStart, err := utils.ParseTimeToMinutes(prefs.DayStart)
	if err != nil {
		return nil, fmt.Errorf("invalid day start time: %w", err)
	}
	dayEnd, err := utils.ParseTimeToMinutes(prefs.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid day end time: %w", err)
	}

	occupied, err := OccupiedIntervals(cal, day, prefs)
	if err != nil {
		return nil, err
	}

	return Subtract(Interval{Start: dayStart, End: dayEnd}, occupied), nil
}

// Subtract removes the given intervals from the bounding window and returns
// the remaining free intervals in order. Occupied intervals must be sorted
// by start; they may overlap each other or extend past the bounds.
func Subtract(bounds Interval, occupied []Interval) []Interval {
	var free []Interval
	cursor := bounds.Start

	for _, iv := range occupied {
		if iv.End <= cursor || iv.Start >= bounds.End {
			continue
		}
		if iv.Start > cursor {
			free = append(free, Interval{Start: cursor, End: min(iv.Start, bounds.End)})
		}
		if iv.End > cursor {
			cursor = iv.End
		}
	}

	if cursor < bounds.End {
		free = append(free, Interval{Start: cursor, End: bounds.End})
	}

	return free
}

// HasConflict reports whether the candidate interval intersects any placed
// item on the given day.
func HasConflict(cal models.WeekCalendar, day models.Day, candidate Interval) (bool, error) {
	for _, placed := range cal[day] {
		iv, err := IntervalOf(placed)
		if err != nil {
			return false, err
		}
		if Overlaps(candidate, iv) {
			return true, nil
		}
	}
	return false, nil
}

// FlexibleMinutes totals the placed flexible-task minutes on a day. Fixed
// events do not count against the daily load cap.
func FlexibleMinutes(cal models.WeekCalendar, day models.Day) (int, error) {
	total := 0
	for _, placed := range cal[day] {
		if placed.IsFixed() {
			continue
		}
		iv, err := IntervalOf(placed)
		if err != nil {
			return 0, err
		}
		total += iv.Duration()
	}
	return total, nil
}
