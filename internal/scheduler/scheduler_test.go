package scheduler

import (
	"encoding/json"
	"testing"

	"github.com/julianstephens/weekwise/internal/errors"
	"github.com/julianstephens/weekwise/internal/models"
)

func basePrefs() models.Preferences {
	return models.Preferences{
		DayStart:        "09:00",
		DayEnd:          "18:00",
		MaxDailyLoadMin: 480,
		IncludeWeekends: true,
	}
}

func TestCompile_LectureAndStudyScenario(t *testing.T) {
	// Setup
	s := New()
	items := []models.ScheduleItem{
		{
			ID:          "lec-1",
			Kind:        models.ItemKindFixed,
			Description: "CMPS350 Lecture",
			Day:         models.Monday,
			Time:        "10:00",
			DurationMin: 60,
		},
		{
			ID:          "study-1",
			Kind:        models.ItemKindFlexible,
			Description: "Study CMPS350",
			Priority:    models.PriorityHigh,
			DurationMin: 90,
		},
	}

	// Execute
	result, err := s.Compile(items, basePrefs())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	// Assert: lecture is untouched
	day, lecture, found := result.Calendar.Find("lec-1")
	if !found {
		t.Fatal("Fixed lecture missing from compiled calendar")
	}
	if day != models.Monday || lecture.Start != "10:00" || lecture.End != "11:00" {
		t.Errorf("Lecture altered: %s %s-%s", day, lecture.Start, lecture.End)
	}

	// Assert: study task placed without overlap. The 09:00-10:00 gap is too
	// short for 90 minutes, so the earliest fit is right after the lecture.
	day, study, found := result.Calendar.Find("study-1")
	if !found {
		t.Fatal("Study task not placed")
	}
	if day != models.Monday || study.Start != "11:00" || study.End != "12:30" {
		t.Errorf("Expected study at Monday 11:00-12:30, got %s %s-%s", day, study.Start, study.End)
	}

	if len(result.Unplaceable) != 0 {
		t.Errorf("Expected no unplaceable items, got %d", len(result.Unplaceable))
	}
}

func TestCompile_NoOverlapsOnAnyDay(t *testing.T) {
	s := New()
	items := []models.ScheduleItem{
		{ID: "f1", Kind: models.ItemKindFixed, Description: "Class A", Day: models.Monday, Time: "09:00", DurationMin: 120},
		{ID: "f2", Kind: models.ItemKindFixed, Description: "Class B", Day: models.Monday, Time: "13:00", DurationMin: 90},
		{ID: "t1", Kind: models.ItemKindFlexible, Description: "Assignment", Priority: models.PriorityHigh, DurationMin: 60},
		{ID: "t2", Kind: models.ItemKindFlexible, Description: "Reading", Priority: models.PriorityMedium, DurationMin: 120},
		{ID: "t3", Kind: models.ItemKindFlexible, Description: "Review", Priority: models.PriorityLow, DurationMin: 45},
	}

	result, err := s.Compile(items, basePrefs())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	for _, day := range models.WeekDays {
		placed := result.Calendar[day]
		for i := 0; i < len(placed); i++ {
			for j := i + 1; j < len(placed); j++ {
				if placed[i].Start < placed[j].End && placed[j].Start < placed[i].End {
					t.Errorf("Overlap on %s: %s-%s and %s-%s", day,
						placed[i].Start, placed[i].End, placed[j].Start, placed[j].End)
				}
			}
		}
	}
}

func TestCompile_PlacedDurationMatchesInput(t *testing.T) {
	s := New()
	items := []models.ScheduleItem{
		{ID: "t1", Kind: models.ItemKindFlexible, Description: "Long block", DurationMin: 150},
	}

	result, err := s.Compile(items, basePrefs())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	_, placed, found := result.Calendar.Find("t1")
	if !found {
		t.Fatal("Task not placed")
	}
	// 09:00 + 150 minutes = 11:30; the remainder of the window stays free.
	if placed.Start != "09:00" || placed.End != "11:30" {
		t.Errorf("Expected 09:00-11:30, got %s-%s", placed.Start, placed.End)
	}
}

func TestCompile_PriorityOrderingIsDeterministic(t *testing.T) {
	s := New()
	prefs := models.Preferences{
		DayStart:        "09:00",
		DayEnd:          "10:00",
		MaxDailyLoadMin: 60,
		IncludeWeekends: false,
	}

	// Low-priority task first in input order; the high-priority task must
	// still claim the earliest window.
	items := []models.ScheduleItem{
		{ID: "low", Kind: models.ItemKindFlexible, Description: "Low task", Priority: models.PriorityLow, DurationMin: 60},
		{ID: "high", Kind: models.ItemKindFlexible, Description: "High task", Priority: models.PriorityHigh, DurationMin: 60},
	}

	result, err := s.Compile(items, prefs)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	highDay, _, foundHigh := result.Calendar.Find("high")
	if !foundHigh {
		t.Fatal("High-priority task not placed")
	}
	if highDay != models.Monday {
		t.Errorf("Expected high-priority task on Monday, got %s", highDay)
	}

	lowDay, _, foundLow := result.Calendar.Find("low")
	if foundLow && lowDay == models.Monday {
		t.Error("Low-priority task took the sole Monday window from the high-priority task")
	}
	if foundLow && lowDay != models.Tuesday {
		t.Errorf("Expected low-priority task in the next window (Tuesday), got %s", lowDay)
	}
}

func TestCompile_DeadlineTasksScheduleBeforeNoDeadlineTasks(t *testing.T) {
	s := New()
	items := []models.ScheduleItem{
		{ID: "anytime", Kind: models.ItemKindFlexible, Description: "Anytime", Priority: models.PriorityHigh, DurationMin: 60},
		{
			ID: "due-tue", Kind: models.ItemKindFlexible, Description: "Due Tuesday",
			Priority: models.PriorityHigh, DurationMin: 60,
			Deadline: &models.Deadline{Day: models.Tuesday, Time: "12:00"},
		},
	}

	result, err := s.Compile(items, basePrefs())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	dueDay, duePlaced, _ := result.Calendar.Find("due-tue")
	anyDay, anyPlaced, _ := result.Calendar.Find("anytime")

	// The deadline task sorts first, so it gets Monday 09:00; the
	// no-deadline task follows it.
	if dueDay != models.Monday || duePlaced.Start != "09:00" {
		t.Errorf("Expected deadline task at Monday 09:00, got %s %s", dueDay, duePlaced.Start)
	}
	if anyDay != models.Monday || anyPlaced.Start != "10:00" {
		t.Errorf("Expected anytime task at Monday 10:00, got %s %s", anyDay, anyPlaced.Start)
	}
}

func TestCompile_DeadlineExcludesLaterDays(t *testing.T) {
	s := New()
	items := []models.ScheduleItem{
		{ID: "f1", Kind: models.ItemKindFixed, Description: "All-day thing", Day: models.Monday, Time: "09:00", DurationMin: 540},
		{
			ID: "due-mon", Kind: models.ItemKindFlexible, Description: "Due Monday",
			DurationMin: 60,
			Deadline:    &models.Deadline{Day: models.Monday, Time: "18:00"},
		},
	}

	result, err := s.Compile(items, basePrefs())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	// Monday is fully occupied and the deadline forbids spilling to Tuesday.
	if len(result.Unplaceable) != 1 || result.Unplaceable[0].ID != "due-mon" {
		t.Errorf("Expected due-mon to be unplaceable, got %v", result.Unplaceable)
	}
}

func TestCompile_DailyLoadCapPushesWorkToNextDay(t *testing.T) {
	s := New()
	prefs := basePrefs()
	prefs.MaxDailyLoadMin = 120

	items := []models.ScheduleItem{
		{ID: "t1", Kind: models.ItemKindFlexible, Description: "Block 1", Priority: models.PriorityHigh, DurationMin: 120},
		{ID: "t2", Kind: models.ItemKindFlexible, Description: "Block 2", Priority: models.PriorityMedium, DurationMin: 120},
	}

	result, err := s.Compile(items, prefs)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	d1, _, _ := result.Calendar.Find("t1")
	d2, _, _ := result.Calendar.Find("t2")
	if d1 != models.Monday {
		t.Errorf("Expected t1 on Monday, got %s", d1)
	}
	if d2 != models.Tuesday {
		t.Errorf("Expected t2 pushed to Tuesday by the load cap, got %s", d2)
	}
}

func TestCompile_WeekendsExcludedWhenDisabled(t *testing.T) {
	s := New()
	prefs := basePrefs()
	prefs.IncludeWeekends = false
	prefs.MaxDailyLoadMin = 60

	// Six tasks, five weekdays, one hour of load each day.
	var items []models.ScheduleItem
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		items = append(items, models.ScheduleItem{
			ID: id, Kind: models.ItemKindFlexible, Description: "Task " + id, DurationMin: 60,
		})
	}

	result, err := s.Compile(items, prefs)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if len(result.Calendar[models.Saturday]) != 0 || len(result.Calendar[models.Sunday]) != 0 {
		t.Error("Weekend days used despite include_weekends=false")
	}
	if len(result.Unplaceable) != 1 {
		t.Errorf("Expected exactly one unplaceable task, got %d", len(result.Unplaceable))
	}
}

func TestCompile_IsIdempotent(t *testing.T) {
	s := New()
	items := []models.ScheduleItem{
		{ID: "f1", Kind: models.ItemKindFixed, Description: "Seminar", Day: models.Wednesday, Time: "14:00", DurationMin: 90},
		{ID: "t1", Kind: models.ItemKindFlexible, Description: "Prep", Priority: models.PriorityHigh, DurationMin: 60, RelatedEvent: "Seminar"},
		{ID: "t2", Kind: models.ItemKindFlexible, Description: "Homework", Priority: models.PriorityLow, DurationMin: 120},
	}
	prefs := basePrefs()

	first, err := s.Compile(items, prefs)
	if err != nil {
		t.Fatalf("First compile failed: %v", err)
	}
	second, err := s.Compile(items, prefs)
	if err != nil {
		t.Fatalf("Second compile failed: %v", err)
	}

	a, _ := json.Marshal(first.Calendar)
	b, _ := json.Marshal(second.Calendar)
	if string(a) != string(b) {
		t.Error("Re-compiling identical input produced a different calendar")
	}
}

func TestCompile_RelatedEventActsAsImplicitDeadline(t *testing.T) {
	s := New()
	items := []models.ScheduleItem{
		{ID: "exam", Kind: models.ItemKindFixed, Description: "CMPS350 Exam", Day: models.Wednesday, Time: "10:00", DurationMin: 120},
		{
			ID: "prep", Kind: models.ItemKindFlexible, Description: "prepare for exam",
			Priority: models.PriorityHigh, DurationMin: 120, RelatedEvent: "CMPS350 Exam",
		},
	}

	result, err := s.Compile(items, basePrefs())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	day, placed, found := result.Calendar.Find("prep")
	if !found {
		t.Fatal("Prep task not placed")
	}

	dayOrder := map[models.Day]int{}
	for i, d := range models.WeekDays {
		dayOrder[d] = i
	}
	if dayOrder[day] > dayOrder[models.Wednesday] {
		t.Errorf("Prep placed after its exam: %s", day)
	}
	if day == models.Wednesday && placed.End > "10:00" {
		t.Errorf("Prep overlaps or follows the exam: ends %s", placed.End)
	}
}

func TestCompile_IncompleteFixedEventIsSessionStateError(t *testing.T) {
	s := New()
	items := []models.ScheduleItem{
		{ID: "f1", Kind: models.ItemKindFixed, Description: "Mystery meeting", DurationMin: 60},
	}

	_, err := s.Compile(items, basePrefs())
	if err == nil {
		t.Fatal("Expected error for fixed event without day/time")
	}
	if !errors.IsSessionState(err) {
		t.Errorf("Expected SessionStateError, got %T: %v", err, err)
	}
}

func TestCompile_OverlappingFixedEventsRejected(t *testing.T) {
	s := New()
	items := []models.ScheduleItem{
		{ID: "f1", Kind: models.ItemKindFixed, Description: "A", Day: models.Monday, Time: "10:00", DurationMin: 60},
		{ID: "f2", Kind: models.ItemKindFixed, Description: "B", Day: models.Monday, Time: "10:30", DurationMin: 60},
	}

	_, err := s.Compile(items, basePrefs())
	if err == nil {
		t.Fatal("Expected error for overlapping fixed events")
	}
	if !errors.IsConstraintViolation(err) {
		t.Errorf("Expected ConstraintViolation, got %T: %v", err, err)
	}
}

func TestPlaceInto_LeavesExistingCalendarUntouched(t *testing.T) {
	s := New()
	base, err := s.Compile([]models.ScheduleItem{
		{ID: "f1", Kind: models.ItemKindFixed, Description: "Lecture", Day: models.Monday, Time: "09:00", DurationMin: 60},
	}, basePrefs())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	task := models.ScheduleItem{ID: "t1", Kind: models.ItemKindFlexible, Description: "Extra", DurationMin: 30}
	updated, unplaceable, err := s.PlaceInto(base.Calendar, []models.ScheduleItem{task}, basePrefs(), []models.Day{models.Monday})
	if err != nil {
		t.Fatalf("PlaceInto failed: %v", err)
	}
	if len(unplaceable) != 0 {
		t.Fatalf("Expected placement to succeed, unplaceable=%v", unplaceable)
	}

	if _, _, found := base.Calendar.Find("t1"); found {
		t.Error("PlaceInto mutated the input calendar")
	}
	day, placed, found := updated.Find("t1")
	if !found || day != models.Monday || placed.Start != "10:00" {
		t.Errorf("Expected t1 at Monday 10:00, got %s %s (found=%v)", day, placed.Start, found)
	}
}
