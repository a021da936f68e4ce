package adjuster

import (
	"strings"
	"testing"

	"github.com/julianstephens/weekwise/internal/errors"
	"github.com/julianstephens/weekwise/internal/models"
)

func TestPropose_MidBandScenario(t *testing.T) {
	a := New()

	proposal, err := a.Propose(models.QuizResult{
		CourseCode:      "CMPS350",
		Score:           65,
		PreviousPrepMin: 120,
	})
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	// 120 * 1.2 = 144, rounded to the nearest 15-minute increment.
	if proposal.NewMinutes != 150 {
		t.Errorf("Expected 150 minutes, got %d", proposal.NewMinutes)
	}
	if proposal.OldMinutes != 120 {
		t.Errorf("Expected old minutes 120, got %d", proposal.OldMinutes)
	}
	if !strings.Contains(proposal.Rationale, "50-75") {
		t.Errorf("Rationale should cite the score band, got %q", proposal.Rationale)
	}
	if !strings.Contains(proposal.Rationale, "CMPS350") {
		t.Errorf("Rationale should name the course, got %q", proposal.Rationale)
	}
}

func TestPropose_BandFactors(t *testing.T) {
	a := New()

	cases := []struct {
		score int
		want  int
	}{
		{20, 180},  // 120 * 1.5
		{49, 180},  // top of the lowest band
		{50, 150},  // 120 * 1.2 = 144 -> 150
		{80, 120},  // 120 * 1.0
		{90, 120},  // top of the hold band
		{95, 90},   // 120 * 0.8 = 96 -> 90 (nearest 15)
		{100, 90},
	}

	for _, tc := range cases {
		proposal, err := a.Propose(models.QuizResult{CourseCode: "MATH231", Score: tc.score, PreviousPrepMin: 120})
		if err != nil {
			t.Fatalf("Propose(score=%d) failed: %v", tc.score, err)
		}
		if proposal.NewMinutes != tc.want {
			t.Errorf("score=%d: expected %d minutes, got %d", tc.score, tc.want, proposal.NewMinutes)
		}
	}
}

func TestPropose_MonotonicallyNonIncreasingInScore(t *testing.T) {
	a := New()

	prev := -1
	for score := 100; score >= 0; score-- {
		proposal, err := a.Propose(models.QuizResult{CourseCode: "CS101", Score: score, PreviousPrepMin: 120})
		if err != nil {
			t.Fatalf("Propose(score=%d) failed: %v", score, err)
		}
		if prev >= 0 && proposal.NewMinutes < prev {
			t.Fatalf("Proposed minutes decreased as score dropped: score=%d got %d, score=%d got %d",
				score+1, prev, score, proposal.NewMinutes)
		}
		prev = proposal.NewMinutes
	}
}

func TestPropose_FloorAtThirtyMinutes(t *testing.T) {
	a := New()

	proposal, err := a.Propose(models.QuizResult{CourseCode: "CS101", Score: 100, PreviousPrepMin: 20})
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}
	// 20 * 0.8 = 16 rounds to 15, which the floor lifts back to 30.
	if proposal.NewMinutes != 30 {
		t.Errorf("Expected floor of 30 minutes, got %d", proposal.NewMinutes)
	}
}

func TestPropose_RejectsOutOfRangeScore(t *testing.T) {
	a := New()

	for _, score := range []int{-1, 101} {
		_, err := a.Propose(models.QuizResult{CourseCode: "CS101", Score: score, PreviousPrepMin: 60})
		if err == nil {
			t.Errorf("Expected error for score %d", score)
			continue
		}
		if !errors.IsValidation(err) {
			t.Errorf("Expected ValidationError for score %d, got %T", score, err)
		}
	}
}

func TestPropose_RejectsNonPositivePrepMinutes(t *testing.T) {
	a := New()

	_, err := a.Propose(models.QuizResult{CourseCode: "CS101", Score: 80, PreviousPrepMin: 0})
	if err == nil {
		t.Fatal("Expected error for zero previous prep minutes")
	}
}

func TestPropose_CustomBands(t *testing.T) {
	a := New()
	a.Bands = []Band{
		{Min: 0, Max: 59, Factor: 2.0, Label: "below 60"},
		{Min: 60, Max: 100, Factor: 1.0, Label: "60 and up"},
	}

	proposal, err := a.Propose(models.QuizResult{CourseCode: "CS101", Score: 40, PreviousPrepMin: 60})
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}
	if proposal.NewMinutes != 120 {
		t.Errorf("Expected 120 minutes under custom bands, got %d", proposal.NewMinutes)
	}
}

func TestValidateBands(t *testing.T) {
	if err := ValidateBands(DefaultBands); err != nil {
		t.Errorf("Default bands should validate: %v", err)
	}

	gap := []Band{
		{Min: 0, Max: 40, Factor: 1.5},
		{Min: 50, Max: 100, Factor: 1.0},
	}
	if err := ValidateBands(gap); err == nil {
		t.Error("Expected error for non-contiguous bands")
	}

	increasing := []Band{
		{Min: 0, Max: 50, Factor: 1.0},
		{Min: 51, Max: 100, Factor: 1.2},
	}
	if err := ValidateBands(increasing); err == nil {
		t.Error("Expected error for increasing factors")
	}

	if err := ValidateBands(nil); err == nil {
		t.Error("Expected error for empty bands")
	}
}
