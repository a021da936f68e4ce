package cli

import (
	"fmt"

	"github.com/julianstephens/weekwise/internal/validation"
)

type ValidateCmd struct {
	File string `arg:"" optional:"" help:"Draft JSON file to check instead of the current session."`
}

// Run checks a draft and, when present, the compiled week for conflicts.
func (cmd *ValidateCmd) Run(ctx *Context) error {
	validator := validation.New()

	if cmd.File != "" {
		items, err := readDraftFile(cmd.File)
		if err != nil {
			return err
		}
		fmt.Printf("Validating %d item(s)...\n\n", len(items))
		result := validator.ValidateItems(items)
		fmt.Println(result.FormatReport())
		return nil
	}

	s, err := ctx.LoadCurrentSession()
	if err != nil {
		return err
	}

	fmt.Println("Validating session draft...")
	snap := s.Snapshot()
	result := validator.ValidateItems(snap.Items)

	if cal, ok := s.Calendar(); ok {
		fmt.Println("Validating compiled week...")
		calResult := validator.ValidateCalendar(cal, s.Preferences())
		result.Conflicts = append(result.Conflicts, calResult.Conflicts...)
	}

	fmt.Println()
	fmt.Println(result.FormatReport())
	return nil
}
