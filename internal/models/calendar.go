package models

// Day is one of the seven canonical day names (Monday..Sunday).
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// WeekDays lists the days in calendar order. All iteration over a
// WeekCalendar goes through this list so output order is deterministic.
var WeekDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Weekdays lists Monday through Friday only.
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// IsValid reports whether d is one of the seven canonical day names.
func (d Day) IsValid() bool {
	for _, wd := range WeekDays {
		if d == wd {
			return true
		}
	}
	return false
}

// IsWeekend reports whether d is Saturday or Sunday.
func (d Day) IsWeekend() bool {
	return d == Saturday || d == Sunday
}

// PlacedItem is a schedule item pinned to a concrete interval on a day.
// The item's own fields are flattened into the JSON object alongside the
// interval bounds.
type PlacedItem struct {
	ScheduleItem
	Start string `json:"start_time"` // HH:MM format
	End   string `json:"end_time"`   // HH:MM format
}

// WeekCalendar maps each day to its ordered sequence of placed items.
type WeekCalendar map[Day][]PlacedItem

// NewWeekCalendar returns an empty calendar with all seven days present.
func NewWeekCalendar() WeekCalendar {
	cal := make(WeekCalendar, len(WeekDays))
	for _, day := range WeekDays {
		cal[day] = []PlacedItem{}
	}
	return cal
}

// Clone returns a deep copy of the calendar.
func (c WeekCalendar) Clone() WeekCalendar {
	out := make(WeekCalendar, len(c))
	for day, items := range c {
		copied := make([]PlacedItem, len(items))
		copy(copied, items)
		out[day] = copied
	}
	return out
}

// Find returns the day and placed entry for the given item ID.
func (c WeekCalendar) Find(itemID string) (Day, PlacedItem, bool) {
	for _, day := range WeekDays {
		for _, placed := range c[day] {
			if placed.ID == itemID {
				return day, placed, true
			}
		}
	}
	return "", PlacedItem{}, false
}

// Remove deletes the placed entry for the given item ID, if present.
func (c WeekCalendar) Remove(itemID string) bool {
	for _, day := range WeekDays {
		for i, placed := range c[day] {
			if placed.ID == itemID {
				c[day] = append(c[day][:i], c[day][i+1:]...)
				return true
			}
		}
	}
	return false
}
