package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/weekwise/internal/revision"
)

type ReviseCmd struct {
	Instruction string `arg:"" optional:"" help:"Free-form instruction, e.g. 'move the gym session to tuesday'."`
	Intent      string `help:"Structured mutation intent as JSON, bypassing extraction."`
	Model       string `help:"Gemini model for intent extraction." default:"gemini-2.0-flash"`
}

// Run revises the compiled week. A structured --intent is applied directly;
// a free-form instruction goes through the Gemini extractor first, which
// needs GEMINI_API_KEY set.
func (c *ReviseCmd) Run(ctx *Context) error {
	s, err := ctx.LoadCurrentSession()
	if err != nil {
		return err
	}

	var res revision.Result
	switch {
	case c.Intent != "":
		var intent revision.MutationIntent
		if err := json.Unmarshal([]byte(c.Intent), &intent); err != nil {
			return fmt.Errorf("failed to parse intent: %w", err)
		}
		res, err = s.Revise(intent)
	case c.Instruction != "":
		apiKey := os.Getenv("GEMINI_API_KEY")
		extractor, xerr := revision.NewGenAIExtractor(apiKey, c.Model)
		if xerr != nil {
			return xerr
		}
		cal, ok := s.Calendar()
		if !ok {
			return fmt.Errorf("no compiled week to revise, run 'weekwise compile' first")
		}
		intent, xerr := extractor.ExtractIntent(context.Background(), c.Instruction, cal)
		if xerr != nil {
			return xerr
		}
		res, err = s.Revise(intent)
	default:
		return fmt.Errorf("either an instruction or --intent is required")
	}
	if err != nil {
		return err
	}

	if res.Removed != nil {
		fmt.Printf("Removed %q.\n\n", res.Removed.Description)
	}
	if res.Placed != nil {
		fmt.Printf("Placed %q at %s %s-%s.\n\n", res.Placed.Description, res.Placed.Day, res.Placed.Start, res.Placed.End)
	}
	fmt.Println(RenderWeek(res.Calendar, s.Unplaceable()))
	return ctx.SaveCurrentSession(s)
}
