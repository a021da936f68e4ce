package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekwise/internal/models"
)

type QuizCmd struct {
	Course string `arg:"" help:"Course code, e.g. CMPS350."`
	Score  int    `arg:"" help:"Quiz score, 0-100."`

	Yes bool `help:"Accept the proposal without asking."`
}

// Run turns a quiz score into a prep-time proposal and, on acceptance,
// applies it to the compiled week.
func (c *QuizCmd) Run(ctx *Context) error {
	s, err := ctx.LoadCurrentSession()
	if err != nil {
		return err
	}

	proposal, err := s.SubmitQuizResult(models.QuizResult{
		CourseCode: c.Course,
		Score:      c.Score,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Proposal for %s: %d min -> %d min\n", proposal.CourseCode, proposal.OldMinutes, proposal.NewMinutes)
	fmt.Printf("  %s\n\n", proposal.Rationale)

	accept := c.Yes
	if !accept {
		confirm := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Apply this change to the week?").
				Value(&accept),
		)).WithTheme(huh.ThemeDracula())
		if err := confirm.Run(); err != nil {
			return err
		}
	}

	cal, err := s.ApplyAdjustment(proposal.CourseCode, accept)
	if err != nil {
		return err
	}

	if accept {
		fmt.Println(RenderWeek(cal, s.Unplaceable()))
	} else {
		fmt.Println("Proposal discarded, week unchanged.")
	}
	return ctx.SaveCurrentSession(s)
}
