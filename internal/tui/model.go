package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/session"
)

type viewState int

const (
	stateBrowse viewState = iota
	stateConfirmRemove
	statePickMoveDay
)

// Model is an interactive week browser over a session's compiled calendar.
// Removals and moves go through the session's revision path so every edit
// obeys the same conflict rules as the compiler.
type Model struct {
	sess *session.Session

	state    viewState
	keys     KeyMap
	help     help.Model
	dayIdx   int
	cursor   int
	moveIdx  int
	status   string
	width    int
	height   int
	quitting bool
}

func NewModel(s *session.Session) Model {
	m := Model{
		sess: s,
		keys: DefaultKeyMap(),
		help: help.New(),
	}
	if _, ok := s.Calendar(); !ok {
		m.status = "no compiled calendar yet, submit a draft and compile first"
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) day() models.Day {
	return models.WeekDays[m.dayIdx]
}

func (m Model) dayItems() []models.PlacedItem {
	cal, ok := m.sess.Calendar()
	if !ok {
		return nil
	}
	return cal[m.day()]
}

func (m Model) selected() (models.PlacedItem, bool) {
	items := m.dayItems()
	if m.cursor < 0 || m.cursor >= len(items) {
		return models.PlacedItem{}, false
	}
	return items[m.cursor], true
}

func (m *Model) clampCursor() {
	items := m.dayItems()
	if len(items) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
