package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/models"
)

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of
// minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes renders minutes-from-midnight as HH:MM with leading zeros.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}

// NormalizeClock converts informal clock strings ("2pm", "2:30 PM", "noon",
// "midnight", bare hours like "14") to the standard 24-hour HH:MM format.
// Strings it cannot interpret are returned unchanged with an error.
func NormalizeClock(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "":
		return "", fmt.Errorf("empty time string")
	case "noon":
		return "12:00", nil
	case "midnight":
		return "00:00", nil
	}

	meridiem := ""
	if strings.HasSuffix(s, "am") {
		meridiem = "am"
		s = strings.TrimSpace(strings.TrimSuffix(s, "am"))
	} else if strings.HasSuffix(s, "pm") {
		meridiem = "pm"
		s = strings.TrimSpace(strings.TrimSuffix(s, "pm"))
	}

	hourStr, minStr := s, "0"
	if idx := strings.Index(s, ":"); idx >= 0 {
		hourStr, minStr = s[:idx], s[idx+1:]
	}

	hours, err := strconv.Atoi(hourStr)
	if err != nil {
		return raw, fmt.Errorf("invalid time %q", raw)
	}
	minutes, err := strconv.Atoi(minStr)
	if err != nil {
		return raw, fmt.Errorf("invalid time %q", raw)
	}

	switch meridiem {
	case "pm":
		if hours != 12 {
			hours += 12
		}
	case "am":
		if hours == 12 {
			hours = 0
		}
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return raw, fmt.Errorf("time %q out of range", raw)
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes), nil
}

// ParseDay parses a day name, accepting full names and three-letter
// abbreviations in any case.
func ParseDay(s string) (models.Day, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, day := range models.WeekDays {
		full := strings.ToLower(string(day))
		if name == full || name == full[:3] {
			return day, nil
		}
	}
	return "", fmt.Errorf("invalid day: %s", s)
}
