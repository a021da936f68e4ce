package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekwise/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.viewTabs(),
		m.viewDay(),
	}
	if prompt := m.viewPrompt(); prompt != "" {
		sections = append(sections, prompt)
	}
	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	sections = append(sections, m.help.View(m.keys))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(models.WeekDays))
	for i, day := range models.WeekDays {
		label := strings.ToUpper(string(day)[:1]) + string(day)[1:3]
		if i == m.dayIdx {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDay() string {
	cal, ok := m.sess.Calendar()
	if !ok {
		return mutedStyle.Render("no compiled calendar")
	}

	items := cal[m.day()]
	if len(items) == 0 {
		return mutedStyle.Render("nothing scheduled")
	}

	var b strings.Builder
	for i, item := range items {
		line := fmt.Sprintf("%s-%s  %s", item.Start, item.End, item.Description)
		if item.CourseCode != "" {
			line += " (" + item.CourseCode + ")"
		}
		switch {
		case i == m.cursor:
			line = selectedItemStyle.Render("> " + line)
		case item.IsFixed():
			line = fixedItemStyle.Render("  " + line)
		default:
			line = flexibleItemStyle.Render("  " + line)
		}
		b.WriteString(line)
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}

	if unplaced := m.sess.Unplaceable(); len(unplaced) > 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d item(s) could not be placed", len(unplaced))))
	}
	return b.String()
}

func (m Model) viewPrompt() string {
	switch m.state {
	case stateConfirmRemove:
		item, ok := m.selected()
		if !ok {
			return ""
		}
		return dangerStyle.Render(fmt.Sprintf("remove %q? (y/n)", item.Description))
	case statePickMoveDay:
		item, ok := m.selected()
		if !ok {
			return ""
		}
		target := models.WeekDays[m.moveIdx]
		return statusStyle.Render(fmt.Sprintf("move %q to %s (←/→ pick day, enter confirm, esc cancel)", item.Description, target))
	}
	return ""
}
