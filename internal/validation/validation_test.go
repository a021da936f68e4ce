package validation

import (
	"testing"

	"github.com/julianstephens/weekwise/internal/models"
)

func hasConflict(t *testing.T, result Result, want ConflictType) bool {
	t.Helper()
	for _, c := range result.Conflicts {
		if c.Type == want {
			return true
		}
	}
	return false
}

func TestValidateItemsCleanDraft(t *testing.T) {
	v := New()
	items := []models.ScheduleItem{
		{ID: "lec", Kind: models.ItemKindFixed, Description: "algorithms lecture", DurationMin: 60, Day: models.Monday, Time: "10:00", CourseCode: "CMPS350"},
		{ID: "study", Kind: models.ItemKindFlexible, Description: "study session", DurationMin: 90},
	}

	result := v.ValidateItems(items)

	if result.HasConflicts() {
		t.Fatalf("expected clean draft, got conflicts: %s", result.FormatReport())
	}
}

func TestValidateItemsDuplicateAndMissingIDs(t *testing.T) {
	v := New()
	items := []models.ScheduleItem{
		{ID: "a", Kind: models.ItemKindFlexible, Description: "one", DurationMin: 30},
		{ID: "a", Kind: models.ItemKindFlexible, Description: "two", DurationMin: 30},
		{Kind: models.ItemKindFlexible, Description: "three", DurationMin: 30},
	}

	result := v.ValidateItems(items)

	if !hasConflict(t, result, ConflictDuplicateItemID) {
		t.Errorf("expected a duplicate ID conflict")
	}
	if !hasConflict(t, result, ConflictMissingItemID) {
		t.Errorf("expected a missing ID conflict")
	}
}

func TestValidateItemsBadFields(t *testing.T) {
	v := New()
	items := []models.ScheduleItem{
		{ID: "a", Kind: models.ItemKindFixed, Description: "late class", DurationMin: 60, Day: "funday", Time: "25:99"},
		{ID: "b", Kind: models.ItemKindFlexible, Description: "essay", DurationMin: 60, CourseCode: "not a code"},
		{ID: "c", Kind: models.ItemKindFlexible, Description: "reading", DurationMin: 60,
			Deadline: &models.Deadline{Day: "noday", Time: "9am"}},
	}

	result := v.ValidateItems(items)

	if !hasConflict(t, result, ConflictInvalidDateTime) {
		t.Errorf("expected an invalid time conflict")
	}
	if !hasConflict(t, result, ConflictInvalidDay) {
		t.Errorf("expected an invalid day conflict")
	}
	if !hasConflict(t, result, ConflictInvalidCourseCode) {
		t.Errorf("expected an invalid course code conflict")
	}
}

func TestValidateItemsOverlappingFixedEvents(t *testing.T) {
	v := New()
	items := []models.ScheduleItem{
		{ID: "a", Kind: models.ItemKindFixed, Description: "lecture", DurationMin: 90, Day: models.Monday, Time: "10:00"},
		{ID: "b", Kind: models.ItemKindFixed, Description: "lab", DurationMin: 60, Day: models.Monday, Time: "11:00"},
		{ID: "c", Kind: models.ItemKindFixed, Description: "seminar", DurationMin: 60, Day: models.Tuesday, Time: "11:00"},
	}

	result := v.ValidateItems(items)

	if !hasConflict(t, result, ConflictOverlappingFixedEvents) {
		t.Fatalf("expected overlapping fixed events on monday")
	}
	for _, c := range result.Conflicts {
		if c.Type == ConflictOverlappingFixedEvents && c.Day != models.Monday {
			t.Errorf("overlap reported on %s, want monday", c.Day)
		}
	}
}

func TestValidateItemsBackToBackFixedEventsAllowed(t *testing.T) {
	v := New()
	items := []models.ScheduleItem{
		{ID: "a", Kind: models.ItemKindFixed, Description: "lecture", DurationMin: 60, Day: models.Monday, Time: "10:00"},
		{ID: "b", Kind: models.ItemKindFixed, Description: "lab", DurationMin: 60, Day: models.Monday, Time: "11:00"},
	}

	result := v.ValidateItems(items)

	if result.HasConflicts() {
		t.Fatalf("back to back events should not conflict: %s", result.FormatReport())
	}
}

func testPrefs() models.Preferences {
	return models.Preferences{
		DayStart:        "09:00",
		DayEnd:          "18:00",
		MaxDailyLoadMin: 120,
	}
}

func TestValidateCalendarClean(t *testing.T) {
	v := New()
	cal := models.NewWeekCalendar()
	cal[models.Monday] = []models.PlacedItem{
		{ScheduleItem: models.ScheduleItem{ID: "a", Kind: models.ItemKindFixed, Description: "lecture", DurationMin: 60}, Start: "10:00", End: "11:00"},
		{ScheduleItem: models.ScheduleItem{ID: "b", Kind: models.ItemKindFlexible, Description: "study", DurationMin: 90}, Start: "11:00", End: "12:30"},
	}

	result := v.ValidateCalendar(cal, testPrefs())

	if result.HasConflicts() {
		t.Fatalf("expected clean calendar, got: %s", result.FormatReport())
	}
}

func TestValidateCalendarOverlappingSlots(t *testing.T) {
	v := New()
	cal := models.NewWeekCalendar()
	cal[models.Monday] = []models.PlacedItem{
		{ScheduleItem: models.ScheduleItem{ID: "a", Kind: models.ItemKindFixed, Description: "lecture"}, Start: "10:00", End: "11:30"},
		{ScheduleItem: models.ScheduleItem{ID: "b", Kind: models.ItemKindFlexible, Description: "study"}, Start: "11:00", End: "12:00"},
	}

	result := v.ValidateCalendar(cal, testPrefs())

	if !hasConflict(t, result, ConflictOverlappingSlots) {
		t.Fatalf("expected overlapping slots conflict")
	}
}

func TestValidateCalendarDayBounds(t *testing.T) {
	v := New()
	cal := models.NewWeekCalendar()
	// A fixed event outside the working window is fine, a flexible one is not.
	cal[models.Monday] = []models.PlacedItem{
		{ScheduleItem: models.ScheduleItem{ID: "a", Kind: models.ItemKindFixed, Description: "evening lab"}, Start: "19:00", End: "20:00"},
	}
	cal[models.Tuesday] = []models.PlacedItem{
		{ScheduleItem: models.ScheduleItem{ID: "b", Kind: models.ItemKindFlexible, Description: "late study"}, Start: "19:00", End: "20:00"},
	}

	result := v.ValidateCalendar(cal, testPrefs())

	for _, c := range result.Conflicts {
		if c.Type == ConflictExceedsDayBounds && c.Day == models.Monday {
			t.Errorf("fixed event should be allowed outside day bounds")
		}
	}
	if !hasConflict(t, result, ConflictExceedsDayBounds) {
		t.Fatalf("expected a day bounds conflict for the flexible slot")
	}
}

func TestValidateCalendarOvercommitted(t *testing.T) {
	v := New()
	cal := models.NewWeekCalendar()
	cal[models.Monday] = []models.PlacedItem{
		{ScheduleItem: models.ScheduleItem{ID: "a", Kind: models.ItemKindFlexible, Description: "study 1"}, Start: "09:00", End: "10:30"},
		{ScheduleItem: models.ScheduleItem{ID: "b", Kind: models.ItemKindFlexible, Description: "study 2"}, Start: "10:30", End: "12:00"},
	}

	result := v.ValidateCalendar(cal, testPrefs())

	if !hasConflict(t, result, ConflictOvercommitted) {
		t.Fatalf("expected an overcommitted conflict, 180 min against a 120 min cap")
	}
}

func TestValidateImportedCalendar(t *testing.T) {
	v := New()
	cal := models.WeekCalendar{
		"funday": {
			{ScheduleItem: models.ScheduleItem{ID: "a", Description: "x"}, Start: "10:00", End: "11:00"},
		},
		models.Monday: {
			{ScheduleItem: models.ScheduleItem{Description: "no id"}, Start: "10:00", End: "11:00"},
			{ScheduleItem: models.ScheduleItem{ID: "b", Description: "bad times"}, Start: "10am", End: "11"},
		},
	}

	result := v.ValidateImportedCalendar(cal)

	if !hasConflict(t, result, ConflictInvalidDay) {
		t.Errorf("expected an invalid day conflict")
	}
	if !hasConflict(t, result, ConflictMissingItemID) {
		t.Errorf("expected a missing ID conflict")
	}
	if !hasConflict(t, result, ConflictInvalidDateTime) {
		t.Errorf("expected an invalid time conflict")
	}
}

func TestValidCourseCode(t *testing.T) {
	valid := []string{"CS101", "CMPS350", "MATH231A"}
	invalid := []string{"", "cs101", "C101", "CMPS35", "CMPS3500X"}

	for _, code := range valid {
		if !ValidCourseCode(code) {
			t.Errorf("ValidCourseCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if ValidCourseCode(code) {
			t.Errorf("ValidCourseCode(%q) = true, want false", code)
		}
	}
}
