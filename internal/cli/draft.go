package cli

import (
	"fmt"
)

type DraftCmd struct {
	File string `arg:"" help:"JSON file with the week's commitments, or '-' for stdin."`
}

// Run submits a draft. A draft with nothing missing is compiled right away;
// otherwise the open questions are listed for 'weekwise answer'.
func (c *DraftCmd) Run(ctx *Context) error {
	items, err := readDraftFile(c.File)
	if err != nil {
		return err
	}

	s, err := ctx.LoadCurrentSession()
	if err != nil {
		return err
	}

	questions, err := s.SubmitDraft(items)
	if err != nil {
		return err
	}

	if len(questions) > 0 {
		fmt.Printf("Draft submitted with %d item(s). %d question(s) need answers:\n\n", len(items), len(questions))
		for _, q := range questions {
			fmt.Printf("  %s\n", RenderQuestion(q))
		}
		fmt.Println("\nRun 'weekwise answer' to resolve them.")
		return ctx.SaveCurrentSession(s)
	}

	cal, unplaceable, err := s.Compile()
	if err != nil {
		return err
	}
	fmt.Println(RenderWeek(cal, unplaceable))
	return ctx.SaveCurrentSession(s)
}
