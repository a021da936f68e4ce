package constants

const (
	AppName           = "weekwise"
	Version           = "v0.3.0"
	DefaultConfigPath = "~/.config/weekwise/weekwise.db"

	// TimeFormat is the standard clock format used throughout the application (HH:MM, 24-hour)
	TimeFormat = "15:04"

	// CourseCodePattern matches codes like CS101, CMPS350, MATH231A
	CourseCodePattern = `^[A-Z]{2,4}[0-9]{3}[A-Z]?$`

	// Default preference values
	DefaultDayStart          = "09:00"
	DefaultDayEnd            = "22:00"
	DefaultMaxDailyLoadMin   = 360
	DefaultIncludeWeekends   = true
	DefaultLunchStart        = "12:00"
	DefaultLunchEnd          = "13:00"
	DefaultPrepFloorMinutes  = 30
	DefaultRoundingIncrement = 15

	// Preference keys for map-backed settings storage
	PrefDayStart        = "day_start"
	PrefDayEnd          = "day_end"
	PrefMaxDailyLoadMin = "max_daily_load_minutes"
	PrefIncludeWeekends = "include_weekends"
	PrefMealWindows     = "meal_windows"
)
