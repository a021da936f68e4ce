package utils

import (
	"testing"

	"github.com/julianstephens/weekwise/internal/models"
)

func TestNormalizeClock(t *testing.T) {
	cases := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"14:30", "14:30", false},
		{"9:05", "09:05", false},
		{"2pm", "14:00", false},
		{"2:30 PM", "14:30", false},
		{"12pm", "12:00", false},
		{"12am", "00:00", false},
		{"noon", "12:00", false},
		{"midnight", "00:00", false},
		{"14", "14:00", false},
		{"25:00", "", true},
		{"lunchtime", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := NormalizeClock(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("NormalizeClock(%q) expected error, got %q", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeClock(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeClock(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseTimeToMinutes(t *testing.T) {
	minutes, err := ParseTimeToMinutes("10:30")
	if err != nil {
		t.Fatalf("ParseTimeToMinutes failed: %v", err)
	}
	if minutes != 630 {
		t.Errorf("Expected 630 minutes, got %d", minutes)
	}

	if _, err := ParseTimeToMinutes("not-a-time"); err == nil {
		t.Error("Expected error for invalid time string")
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(540); got != "09:00" {
		t.Errorf("Expected 09:00, got %s", got)
	}
	if got := FormatMinutes(1439); got != "23:59" {
		t.Errorf("Expected 23:59, got %s", got)
	}
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("thursday")
	if err != nil {
		t.Fatalf("ParseDay failed: %v", err)
	}
	if day != models.Thursday {
		t.Errorf("Expected Thursday, got %s", day)
	}

	day, err = ParseDay("Mon")
	if err != nil {
		t.Fatalf("ParseDay failed: %v", err)
	}
	if day != models.Monday {
		t.Errorf("Expected Monday, got %s", day)
	}

	if _, err := ParseDay("Someday"); err == nil {
		t.Error("Expected error for invalid day name")
	}
}
