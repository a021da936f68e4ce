package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekwise/internal/errors"
	"github.com/julianstephens/weekwise/internal/models"
)

type AnswerCmd struct{}

// Run walks the open question queue interactively until it drains. Answers
// found invalid re-prompt the same question rather than moving on.
func (c *AnswerCmd) Run(ctx *Context) error {
	s, err := ctx.LoadCurrentSession()
	if err != nil {
		return err
	}

	q, ok := s.NextQuestion()
	if !ok {
		fmt.Println("Nothing to answer. Run 'weekwise compile' to build the week.")
		return nil
	}

	for {
		value, err := promptAnswer(q)
		if err != nil {
			return err
		}

		next, err := s.SubmitAnswer(value)
		if err != nil {
			if errors.IsValidation(err) {
				fmt.Printf("Invalid answer: %s\n", errors.Format(err))
				continue
			}
			return err
		}
		if next == nil {
			break
		}
		q = *next
	}

	fmt.Println("All questions answered. Run 'weekwise compile' to build the week.")
	return ctx.SaveCurrentSession(s)
}

// promptAnswer renders one question as a huh field. Choice questions become
// selects; everything else is a free input validated on submit.
func promptAnswer(q models.PendingQuestion) (string, error) {
	var value string

	var field huh.Field
	if q.Type == models.QuestionChoice && len(q.Options) > 0 {
		options := make([]huh.Option[string], 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, huh.NewOption(opt, opt))
		}
		field = huh.NewSelect[string]().
			Title(q.Question).
			Options(options...).
			Value(&value)
	} else {
		field = huh.NewInput().
			Title(q.Question).
			Value(&value)
	}

	form := huh.NewForm(huh.NewGroup(field)).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		return "", err
	}
	return value, nil
}
