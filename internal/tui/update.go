package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daydots/internal/calendar"
	"github.com/julianstephens/daydots/internal/constants"
	"github.com/julianstephens/daydots/internal/session"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.editor.SetSize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if m.watcher.Check() {
			m.refresh()
		}
		return m, m.tick()

	case tea.KeyMsg:
		if m.state == StateEditing {
			return m.updateEditing(msg)
		}
		return m.updateGrid(msg)
	}

	if m.state == StateEditing {
		var cmd tea.Cmd
		m.editor, cmd, _ = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.failed = "", false

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.grid.Move(-constants.GridColumns)
	case key.Matches(msg, m.keys.Down):
		m.grid.Move(constants.GridColumns)
	case key.Matches(msg, m.keys.Left):
		m.grid.Move(-1)
	case key.Matches(msg, m.keys.Right):
		m.grid.Move(1)
	case key.Matches(msg, m.keys.PrevYear):
		m.loadYear(m.grid.Year - 1)
	case key.Matches(msg, m.keys.NextYear):
		m.loadYear(m.grid.Year + 1)
	case key.Matches(msg, m.keys.Today):
		today := m.session.Today()
		m.loadYear(today.Year)
		m.grid.Focus(today.DayOfYear)
	case key.Matches(msg, m.keys.Mark):
		m.toggleMarker()
	case key.Matches(msg, m.keys.Edit):
		return m.openEditor()
	}

	return m, nil
}

func (m *Model) toggleMarker() {
	selected, ok := m.grid.Selected()
	if !ok {
		return
	}
	if selected.Day.Year != m.session.Today().Year {
		m.status, m.failed = "Markers can only be set in the current year", true
		return
	}

	marked, err := m.session.ToggleMarker(selected.Day.DayOfYear)
	switch {
	case errors.Is(err, session.ErrNotFuture):
		m.status, m.failed = "Only future days can be marked", true
	case err != nil:
		m.status, m.failed = err.Error(), true
	case marked:
		m.status = "Marked " + calendar.DayLabel(selected.Day.Year, selected.Day.DayOfYear)
	default:
		m.status = "Unmarked " + calendar.DayLabel(selected.Day.Year, selected.Day.DayOfYear)
	}
	m.refresh()
}

func (m Model) openEditor() (tea.Model, tea.Cmd) {
	selected, ok := m.grid.Selected()
	if !ok {
		return m, nil
	}

	day := selected.Day
	state, err := m.session.BeginEditing(m.ctx, day.Year, day.DayOfYear)
	if err != nil {
		m.status, m.failed = err.Error(), true
		return m, nil
	}

	cal := m.session.Calendar()
	cmd := m.editor.Open(state, cal.Header(day.Year, day.DayOfYear), calendar.DayLabel(day.Year, day.DayOfYear))
	m.state = StateEditing
	return m, cmd
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.session.EndEditing(m.ctx)
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.session.EndEditing(m.ctx)
		m.editor.Close()
		m.state = StateGrid
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	var changed bool
	m.editor, cmd, changed = m.editor.Update(msg)
	if changed {
		m.session.TextChanged(m.editor.Value())
	}
	return m, cmd
}
