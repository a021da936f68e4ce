package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/utils"
)

type PrefsCmd struct {
	Show bool `help:"Print the stored preferences without editing."`
}

// Run edits the scheduling preferences through a form and stores them both
// globally and on the current session.
func (c *PrefsCmd) Run(ctx *Context) error {
	s, err := ctx.LoadCurrentSession()
	if err != nil {
		return err
	}
	prefs := s.Preferences()

	if c.Show {
		fmt.Printf("Day starts at:    %s\n", prefs.DayStart)
		fmt.Printf("Day ends at:      %s\n", prefs.DayEnd)
		fmt.Printf("Max daily load:   %d min\n", prefs.MaxDailyLoadMin)
		fmt.Printf("Include weekends: %t\n", prefs.IncludeWeekends)
		for _, w := range prefs.MealWindows {
			fmt.Printf("Meal window:      %s-%s\n", w.Start, w.End)
		}
		return nil
	}

	form := newPrefsForm(&prefs)
	if err := form.Run(); err != nil {
		return err
	}

	if err := s.CollectPreferences(prefs); err != nil {
		return err
	}
	if err := ctx.Store.SavePreferences(s.Preferences()); err != nil {
		return err
	}

	fmt.Println("Preferences saved.")
	return ctx.SaveCurrentSession(s)
}

func newPrefsForm(prefs *models.Preferences) *huh.Form {
	load := strconv.Itoa(prefs.MaxDailyLoadMin)
	lunch := ""
	if len(prefs.MealWindows) > 0 {
		lunch = prefs.MealWindows[0].Start + "-" + prefs.MealWindows[0].End
	}

	validateClock := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := utils.NormalizeClock(s); err != nil {
			return err
		}
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Day starts at").
				Description("Earliest time flexible work may be placed").
				Value(&prefs.DayStart).
				Validate(validateClock),
			huh.NewInput().
				Title("Day ends at").
				Value(&prefs.DayEnd).
				Validate(validateClock),
			huh.NewInput().
				Title("Max daily load (min)").
				Description("Cap on flexible minutes per day").
				Value(&load).
				Validate(func(s string) error {
					i, err := strconv.Atoi(s)
					if err != nil {
						return err
					}
					if i <= 0 {
						return fmt.Errorf("load must be a positive number of minutes")
					}
					prefs.MaxDailyLoadMin = i
					return nil
				}),
			huh.NewInput().
				Title("Lunch window").
				Description("HH:MM-HH:MM, empty for none").
				Value(&lunch).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						prefs.MealWindows = nil
						return nil
					}
					parts := strings.Split(s, "-")
					if len(parts) != 2 {
						return fmt.Errorf("expected HH:MM-HH:MM")
					}
					start, err := utils.NormalizeClock(strings.TrimSpace(parts[0]))
					if err != nil {
						return err
					}
					end, err := utils.NormalizeClock(strings.TrimSpace(parts[1]))
					if err != nil {
						return err
					}
					prefs.MealWindows = []models.Window{{Start: start, End: end}}
					return nil
				}),
			huh.NewConfirm().
				Title("Schedule on weekends").
				Value(&prefs.IncludeWeekends),
		),
	).WithTheme(huh.ThemeDracula())
}
