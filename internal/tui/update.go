package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/revision"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.state {
		case stateConfirmRemove:
			return m.updateConfirmRemove(msg)
		case statePickMoveDay:
			return m.updatePickMoveDay(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.PrevDay):
		m.dayIdx = (m.dayIdx + len(models.WeekDays) - 1) % len(models.WeekDays)
		m.cursor = 0
		m.status = ""
	case key.Matches(msg, m.keys.NextDay):
		m.dayIdx = (m.dayIdx + 1) % len(models.WeekDays)
		m.cursor = 0
		m.status = ""
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.dayItems())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Remove):
		if _, ok := m.selected(); ok {
			m.state = stateConfirmRemove
			m.status = ""
		}
	case key.Matches(msg, m.keys.Move):
		if _, ok := m.selected(); ok {
			m.state = statePickMoveDay
			m.moveIdx = m.dayIdx
			m.status = ""
		}
	}
	return m, nil
}

func (m Model) updateConfirmRemove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		item, ok := m.selected()
		m.state = stateBrowse
		if !ok {
			return m, nil
		}
		_, err := m.sess.Revise(revision.MutationIntent{
			Kind:   revision.IntentRemove,
			ItemID: item.ID,
			// An item picked off the calendar is an explicit target, so
			// fixed events may be removed here.
			NamesFixedEvent: item.IsFixed(),
		})
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("removed %q", item.Description)
		m.clampCursor()
	case "n", "N", "esc":
		m.state = stateBrowse
	}
	return m, nil
}

func (m Model) updatePickMoveDay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PrevDay):
		m.moveIdx = (m.moveIdx + len(models.WeekDays) - 1) % len(models.WeekDays)
	case key.Matches(msg, m.keys.NextDay):
		m.moveIdx = (m.moveIdx + 1) % len(models.WeekDays)
	case msg.String() == "enter":
		item, ok := m.selected()
		m.state = stateBrowse
		if !ok {
			return m, nil
		}
		target := models.WeekDays[m.moveIdx]
		_, err := m.sess.Revise(revision.MutationIntent{
			Kind:            revision.IntentMove,
			ItemID:          item.ID,
			Day:             target,
			NamesFixedEvent: item.IsFixed(),
		})
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("moved %q to %s", item.Description, target)
		m.clampCursor()
	case msg.String() == "esc":
		m.state = stateBrowse
	}
	return m, nil
}
