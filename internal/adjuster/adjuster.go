// Package adjuster resizes per-course preparation time from measured quiz
// performance. A score maps through a step function of bands to a duration
// factor; the result is rounded to a 15-minute grid with a 30-minute floor.
package adjuster

import (
	"fmt"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/errors"
	"github.com/julianstephens/weekwise/internal/models"
)

// Band maps a score range [Min, Max] to an adjustment factor.
type Band struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Factor float64 `json:"factor"`
	Label  string  `json:"label"`
}

// DefaultBands are the standard score bands. Factors are non-increasing in
// score: weak quiz results grow the preparation time, strong ones shrink it.
var DefaultBands = []Band{
	{Min: 0, Max: 49, Factor: 1.5, Label: "below 50"},
	{Min: 50, Max: 75, Factor: 1.2, Label: "50-75"},
	{Min: 76, Max: 90, Factor: 1.0, Label: "76-90"},
	{Min: 91, Max: 100, Factor: 0.8, Label: "above 90"},
}

// Adjuster computes preparation-time proposals. Bands are configurable; the
// zero-value rounding fields fall back to the package defaults.
type Adjuster struct {
	Bands        []Band
	RoundingMin  int // rounding increment in minutes
	FloorMinutes int // smallest proposed duration
}

func New() *Adjuster {
	return &Adjuster{
		Bands:        DefaultBands,
		RoundingMin:  constants.DefaultRoundingIncrement,
		FloorMinutes: constants.DefaultPrepFloorMinutes,
	}
}

// ValidateBands checks that the bands cover 0-100 contiguously and that
// factors never increase with score.
func ValidateBands(bands []Band) error {
	if len(bands) == 0 {
		return fmt.Errorf("no score bands configured")
	}
	if bands[0].Min != 0 || bands[len(bands)-1].Max != 100 {
		return fmt.Errorf("score bands must cover 0-100")
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Min != bands[i-1].Max+1 {
			return fmt.Errorf("score bands must be contiguous: gap between %d and %d", bands[i-1].Max, bands[i].Min)
		}
		if bands[i].Factor > bands[i-1].Factor {
			return fmt.Errorf("adjustment factor must be non-increasing in score")
		}
	}
	return nil
}

// Propose computes a TimeAdjustmentProposal from a quiz result. It never
// mutates any schedule state; the caller applies the proposal separately.
func (a *Adjuster) Propose(result models.QuizResult) (models.TimeAdjustmentProposal, error) {
	if result.Score < 0 || result.Score > 100 {
		return models.TimeAdjustmentProposal{}, &errors.ValidationError{
			Field: "score", Value: fmt.Sprintf("%d", result.Score), Reason: "must be between 0 and 100",
		}
	}
	if result.PreviousPrepMin <= 0 {
		return models.TimeAdjustmentProposal{}, &errors.ValidationError{
			Field: "previous_prep_minutes", Value: fmt.Sprintf("%d", result.PreviousPrepMin), Reason: "must be positive",
		}
	}
	if err := ValidateBands(a.bands()); err != nil {
		return models.TimeAdjustmentProposal{}, err
	}

	band := a.bandFor(result.Score)
	raw := float64(result.PreviousPrepMin) * band.Factor
	newMinutes := a.round(raw)

	var rationale string
	switch {
	case newMinutes > result.PreviousPrepMin:
		rationale = fmt.Sprintf("A quiz score of %d%% falls in the %s band (factor %.1f); increasing %s preparation from %d to %d minutes.",
			result.Score, band.Label, band.Factor, result.CourseCode, result.PreviousPrepMin, newMinutes)
	case newMinutes < result.PreviousPrepMin:
		rationale = fmt.Sprintf("A quiz score of %d%% falls in the %s band (factor %.1f); reducing %s preparation from %d to %d minutes.",
			result.Score, band.Label, band.Factor, result.CourseCode, result.PreviousPrepMin, newMinutes)
	default:
		rationale = fmt.Sprintf("A quiz score of %d%% falls in the %s band (factor %.1f); keeping %s preparation at %d minutes.",
			result.Score, band.Label, band.Factor, result.CourseCode, result.PreviousPrepMin)
	}

	return models.TimeAdjustmentProposal{
		CourseCode: result.CourseCode,
		OldMinutes: result.PreviousPrepMin,
		NewMinutes: newMinutes,
		Rationale:  rationale,
	}, nil
}

func (a *Adjuster) bands() []Band {
	if len(a.Bands) == 0 {
		return DefaultBands
	}
	return a.Bands
}

func (a *Adjuster) bandFor(score int) Band {
	bands := a.bands()
	for _, band := range bands {
		if score >= band.Min && score <= band.Max {
			return band
		}
	}
	return bands[len(bands)-1]
}

// round snaps minutes to the nearest rounding increment, never below the
// configured floor.
func (a *Adjuster) round(minutes float64) int {
	inc := a.RoundingMin
	if inc <= 0 {
		inc = constants.DefaultRoundingIncrement
	}
	floor := a.FloorMinutes
	if floor <= 0 {
		floor = constants.DefaultPrepFloorMinutes
	}

	rounded := int((minutes+float64(inc)/2)/float64(inc)) * inc
	if rounded < floor {
		rounded = floor
	}
	return rounded
}
