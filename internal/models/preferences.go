package models

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/julianstephens/weekwise/internal/constants"
)

// Window is a reserved clock interval, e.g. a lunch break.
type Window struct {
	Start string `json:"start"` // HH:MM format
	End   string `json:"end"`   // HH:MM format
}

// Preferences holds the session-scoped scheduling parameters consumed by the
// placement engine. Explicit fixed events always override preferences.
type Preferences struct {
	DayStart        string   `json:"day_start"` // HH:MM format
	DayEnd          string   `json:"day_end"`   // HH:MM format
	MealWindows     []Window `json:"meal_windows"`
	MaxDailyLoadMin int      `json:"max_daily_load_minutes"`
	IncludeWeekends bool     `json:"include_weekends"`
}

// EligibleDays returns the days placement may use under these preferences.
func (p Preferences) EligibleDays() []Day {
	if p.IncludeWeekends {
		return WeekDays
	}
	return Weekdays
}

// ApplyDefaultPreferences fills in defaults for unset preference values.
func ApplyDefaultPreferences(p *Preferences) {
	if p.DayStart == "" {
		p.DayStart = constants.DefaultDayStart
	}
	if p.DayEnd == "" {
		p.DayEnd = constants.DefaultDayEnd
	}
	if p.MaxDailyLoadMin == 0 {
		p.MaxDailyLoadMin = constants.DefaultMaxDailyLoadMin
	}
}

// DefaultPreferences returns a fully populated preference set.
func DefaultPreferences() Preferences {
	return Preferences{
		DayStart:        constants.DefaultDayStart,
		DayEnd:          constants.DefaultDayEnd,
		MealWindows:     []Window{{Start: constants.DefaultLunchStart, End: constants.DefaultLunchEnd}},
		MaxDailyLoadMin: constants.DefaultMaxDailyLoadMin,
		IncludeWeekends: constants.DefaultIncludeWeekends,
	}
}

// MapToPreferences converts a map of key-value pairs to a Preferences struct.
func MapToPreferences(data map[string]string) (Preferences, error) {
	prefs := Preferences{}

	for key, value := range data {
		switch key {
		case constants.PrefDayStart:
			prefs.DayStart = value
		case constants.PrefDayEnd:
			prefs.DayEnd = value
		case constants.PrefMaxDailyLoadMin:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Preferences{}, fmt.Errorf("parsing max_daily_load_minutes: %w", err)
			}
			prefs.MaxDailyLoadMin = n
		case constants.PrefIncludeWeekends:
			prefs.IncludeWeekends = value == "true"
		case constants.PrefMealWindows:
			if value == "" {
				continue
			}
			var windows []Window
			if err := json.Unmarshal([]byte(value), &windows); err != nil {
				return Preferences{}, fmt.Errorf("parsing meal_windows: %w", err)
			}
			prefs.MealWindows = windows
		}
	}
	return prefs, nil
}

// PreferencesToMap converts a Preferences struct to a map of key-value pairs.
func PreferencesToMap(prefs Preferences) map[string]string {
	windows, _ := json.Marshal(prefs.MealWindows)
	return map[string]string{
		constants.PrefDayStart:        prefs.DayStart,
		constants.PrefDayEnd:          prefs.DayEnd,
		constants.PrefMaxDailyLoadMin: strconv.Itoa(prefs.MaxDailyLoadMin),
		constants.PrefIncludeWeekends: strconv.FormatBool(prefs.IncludeWeekends),
		constants.PrefMealWindows:     string(windows),
	}
}
