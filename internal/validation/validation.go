package validation

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/julianstephens/weekwise/internal/calendar"
	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOverlappingFixedEvents ConflictType = "overlapping_fixed_events"
	ConflictOverlappingSlots       ConflictType = "overlapping_slots"
	ConflictExceedsDayBounds       ConflictType = "exceeds_day_bounds"
	ConflictOvercommitted          ConflictType = "overcommitted"
	ConflictMissingItemID          ConflictType = "missing_item_id"
	ConflictDuplicateItemID        ConflictType = "duplicate_item_id"
	ConflictInvalidDateTime        ConflictType = "invalid_datetime"
	ConflictInvalidCourseCode      ConflictType = "invalid_course_code"
	ConflictInvalidDay             ConflictType = "invalid_day"
)

var courseCodeRe = regexp.MustCompile(constants.CourseCodePattern)

// Conflict represents a detected conflict in items or calendars
type Conflict struct {
	Type        ConflictType
	Description string
	Day         models.Day // if applicable
	Items       []string   // item descriptions involved
	TimeRange   string     // human-readable time range (if applicable)
	ItemIDs     []string   // IDs of items involved
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range r.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// ValidCourseCode reports whether code matches the course code format
// (2-4 uppercase letters, 3 digits, optional trailing letter).
func ValidCourseCode(code string) bool {
	return courseCodeRe.MatchString(code)
}

// Validator validates schedule items and compiled calendars for conflicts
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateItems checks a draft item set for conflicts: duplicate or missing
// IDs, malformed times and course codes, and fixed events that overlap on
// the same day.
func (v *Validator) ValidateItems(items []models.ScheduleItem) Result {
	result := Result{Conflicts: []Conflict{}}

	seen := make(map[string]bool)
	for _, item := range items {
		if item.ID == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingItemID,
				Description: fmt.Sprintf("Item %q has no ID", item.Description),
				Items:       []string{item.Description},
			})
			continue
		}
		if seen[item.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateItemID,
				Description: fmt.Sprintf("Duplicate item ID: %s", item.ID),
				ItemIDs:     []string{item.ID},
			})
		}
		seen[item.ID] = true
	}

	for _, item := range items {
		if item.Time != "" && !utils.ValidateTimeFormat(item.Time) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Item %q has invalid time: %s", item.Description, item.Time),
				Items:       []string{item.Description},
				ItemIDs:     []string{item.ID},
			})
		}
		if item.Day != "" && !item.Day.IsValid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDay,
				Description: fmt.Sprintf("Item %q has invalid day: %s", item.Description, item.Day),
				Items:       []string{item.Description},
				ItemIDs:     []string{item.ID},
			})
		}
		if item.CourseCode != "" && !ValidCourseCode(item.CourseCode) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidCourseCode,
				Description: fmt.Sprintf("Item %q has invalid course code: %s", item.Description, item.CourseCode),
				Items:       []string{item.Description},
				ItemIDs:     []string{item.ID},
			})
		}
		if item.Deadline != nil {
			if !item.Deadline.Day.IsValid() {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidDay,
					Description: fmt.Sprintf("Item %q has invalid deadline day: %s", item.Description, item.Deadline.Day),
					Items:       []string{item.Description},
					ItemIDs:     []string{item.ID},
				})
			}
			if item.Deadline.Time != "" && !utils.ValidateTimeFormat(item.Deadline.Time) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidDateTime,
					Description: fmt.Sprintf("Item %q has invalid deadline time: %s", item.Description, item.Deadline.Time),
					Items:       []string{item.Description},
					ItemIDs:     []string{item.ID},
				})
			}
		}
	}

	// Overlap check for fixed events, per day. O(n²) is fine for a week of
	// classes and meetings.
	byDay := make(map[models.Day][]models.ScheduleItem)
	for _, item := range items {
		if item.Kind == models.ItemKindFixed && item.Day != "" && item.Time != "" && item.DurationMin > 0 {
			byDay[item.Day] = append(byDay[item.Day], item)
		}
	}

	for _, day := range models.WeekDays {
		fixed := byDay[day]
		sort.Slice(fixed, func(i, j int) bool {
			return fixed[i].Time < fixed[j].Time
		})
		for i := 0; i < len(fixed); i++ {
			for j := i + 1; j < len(fixed); j++ {
				a, b := fixed[i], fixed[j]
				aStart, err1 := utils.ParseTimeToMinutes(a.Time)
				bStart, err2 := utils.ParseTimeToMinutes(b.Time)
				if err1 != nil || err2 != nil {
					continue
				}
				ivA := calendar.Interval{Start: aStart, End: aStart + a.DurationMin}
				ivB := calendar.Interval{Start: bStart, End: bStart + b.DurationMin}
				if calendar.Overlaps(ivA, ivB) {
					result.Conflicts = append(result.Conflicts, Conflict{
						Type: ConflictOverlappingFixedEvents,
						Description: fmt.Sprintf("Fixed events overlap on %s: %q (%s) and %q (%s)",
							day, a.Description, a.Time, b.Description, b.Time),
						Day:       day,
						Items:     []string{a.Description, b.Description},
						TimeRange: fmt.Sprintf("%s-%s", a.Time, utils.FormatMinutes(aStart+a.DurationMin)),
						ItemIDs:   []string{a.ID, b.ID},
					})
				}
			}
		}
	}

	return result
}

// ValidateCalendar checks a compiled calendar: no overlapping slots on a
// day, every slot inside the day bounds, and the daily flexible load within
// the configured cap.
func (v *Validator) ValidateCalendar(cal models.WeekCalendar, prefs models.Preferences) Result {
	result := Result{Conflicts: []Conflict{}}

	dayStart, err := utils.ParseTimeToMinutes(prefs.DayStart)
	if err != nil {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidDateTime,
			Description: fmt.Sprintf("Invalid day start time: %s", prefs.DayStart),
		})
		return result
	}
	dayEnd, err := utils.ParseTimeToMinutes(prefs.DayEnd)
	if err != nil {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidDateTime,
			Description: fmt.Sprintf("Invalid day end time: %s", prefs.DayEnd),
		})
		return result
	}

	for _, day := range models.WeekDays {
		placed := cal[day]
		intervals := make([]calendar.Interval, 0, len(placed))
		for _, p := range placed {
			iv, err := calendar.IntervalOf(p)
			if err != nil {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidDateTime,
					Description: fmt.Sprintf("Slot for %q on %s has invalid times", p.Description, day),
					Day:         day,
					ItemIDs:     []string{p.ID},
				})
				continue
			}
			intervals = append(intervals, iv)

			// Fixed events override day bounds; only flexible placements
			// must stay inside the working window.
			if !p.IsFixed() && (iv.Start < dayStart || iv.End > dayEnd) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictExceedsDayBounds,
					Description: fmt.Sprintf("Slot for %q on %s (%s-%s) falls outside day bounds", p.Description, day, p.Start, p.End),
					Day:         day,
					TimeRange:   fmt.Sprintf("%s-%s", p.Start, p.End),
					ItemIDs:     []string{p.ID},
				})
			}
		}

		for i := 0; i < len(intervals); i++ {
			for j := i + 1; j < len(intervals); j++ {
				if calendar.Overlaps(intervals[i], intervals[j]) {
					result.Conflicts = append(result.Conflicts, Conflict{
						Type: ConflictOverlappingSlots,
						Description: fmt.Sprintf("Slots overlap on %s: %q (%s-%s) and %q (%s-%s)",
							day, placed[i].Description, placed[i].Start, placed[i].End,
							placed[j].Description, placed[j].Start, placed[j].End),
						Day:     day,
						Items:   []string{placed[i].Description, placed[j].Description},
						ItemIDs: []string{placed[i].ID, placed[j].ID},
					})
				}
			}
		}

		if prefs.MaxDailyLoadMin > 0 {
			load, err := calendar.FlexibleMinutes(cal, day)
			if err == nil && load > prefs.MaxDailyLoadMin {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictOvercommitted,
					Description: fmt.Sprintf("%s carries %d flexible minutes, exceeding the %d minute cap", day, load, prefs.MaxDailyLoadMin),
					Day:         day,
				})
			}
		}
	}

	return result
}

// ValidateImportedCalendar checks an externally supplied WeekCalendar before
// it is adopted as session state: day names must be canonical and every
// entry needs an ID, a description, and parseable interval bounds.
func (v *Validator) ValidateImportedCalendar(cal models.WeekCalendar) Result {
	result := Result{Conflicts: []Conflict{}}

	for day, entries := range cal {
		if !day.IsValid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDay,
				Description: fmt.Sprintf("Unknown day name: %s", day),
				Day:         day,
			})
			continue
		}
		for idx, entry := range entries {
			if entry.ID == "" {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictMissingItemID,
					Description: fmt.Sprintf("Entry %d on %s is missing an ID", idx, day),
					Day:         day,
				})
			}
			if entry.Description == "" {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictMissingItemID,
					Description: fmt.Sprintf("Entry %d on %s is missing a description", idx, day),
					Day:         day,
				})
			}
			if !utils.ValidateTimeFormat(entry.Start) || !utils.ValidateTimeFormat(entry.End) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidDateTime,
					Description: fmt.Sprintf("Entry %d on %s has invalid interval bounds", idx, day),
					Day:         day,
				})
			}
		}
	}

	return result
}
