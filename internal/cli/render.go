package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekwise/internal/models"
)

var (
	dayHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	fixedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	flexibleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// RenderWeek renders a compiled calendar day by day, fixed events and
// flexible tasks tinted differently, with unplaceable items called out at
// the bottom.
func RenderWeek(cal models.WeekCalendar, unplaceable []models.ScheduleItem) string {
	var b strings.Builder

	for _, day := range models.WeekDays {
		title := strings.ToUpper(string(day)[:1]) + string(day)[1:]
		b.WriteString(dayHeaderStyle.Render(title))
		b.WriteString("\n")

		items := cal[day]
		if len(items) == 0 {
			b.WriteString(mutedStyle.Render("  nothing scheduled"))
			b.WriteString("\n\n")
			continue
		}

		for _, item := range items {
			line := fmt.Sprintf("  %s-%s  %s", item.Start, item.End, item.Description)
			if item.CourseCode != "" {
				line += fmt.Sprintf(" (%s)", item.CourseCode)
			}
			if item.IsFixed() {
				b.WriteString(fixedStyle.Render(line))
			} else {
				b.WriteString(flexibleStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(unplaceable) > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d item(s) could not be placed:", len(unplaceable))))
		b.WriteString("\n")
		for _, item := range unplaceable {
			b.WriteString(fmt.Sprintf("  - %s (%d min)\n", item.Description, item.DurationMin))
		}
	}

	return b.String()
}

// RenderQuestion formats a pending question for display outside the
// interactive form.
func RenderQuestion(q models.PendingQuestion) string {
	return fmt.Sprintf("[%s] %s", q.Type, q.Question)
}
