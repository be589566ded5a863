package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daydots/internal/constants"
	"github.com/julianstephens/daydots/internal/session"
	"github.com/julianstephens/daydots/internal/tui/components/editor"
	"github.com/julianstephens/daydots/internal/tui/components/grid"
)

type SessionState int

const (
	StateGrid SessionState = iota
	StateEditing
)

// TickMsg drives the midnight rollover check.
type TickMsg time.Time

type Model struct {
	ctx      context.Context
	session  *session.Session
	watcher  *session.DayWatcher
	interval time.Duration
	state    SessionState
	keys     KeyMap
	help     help.Model
	grid     grid.Model
	editor   editor.Model
	status   string
	failed   bool
	quitting bool
	width    int
	height   int
}

func NewModel(ctx context.Context, s *session.Session) Model {
	m := Model{
		ctx:      ctx,
		session:  s,
		watcher:  session.NewDayWatcher(s, constants.DayWatchInterval),
		interval: constants.DayWatchInterval,
		state:    StateGrid,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		grid:     grid.New(),
		editor:   editor.New(),
	}

	// prunes anything that expired while the app was closed
	m.watcher.Check()

	today := s.Today()
	m.loadYear(today.Year)
	m.grid.Focus(today.DayOfYear)
	return m
}

func (m *Model) loadYear(year int) {
	m.grid.SetDays(year, m.session.Grid(m.ctx, year))
}

func (m *Model) refresh() {
	m.loadYear(m.grid.Year)
}

func (m Model) ShortHelp() []key.Binding {
	if m.state == StateEditing {
		return []key.Binding{m.keys.Back}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	if m.state == StateEditing {
		return [][]key.Binding{{m.keys.Back}}
	}
	return m.keys.FullHelp()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}
