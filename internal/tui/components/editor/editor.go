// Package editor is the journal text area shown for a selected day.
package editor

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daydots/internal/journal"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)
)

type Model struct {
	area   textarea.Model
	state  journal.EditState
	header string
	label  string
}

func New() Model {
	area := textarea.New()
	area.Placeholder = "Write about this day..."
	area.ShowLineNumbers = false
	area.SetWidth(60)
	area.SetHeight(10)
	return Model{area: area}
}

// Open loads a day into the editor and focuses it unless the day is read-only.
func (m *Model) Open(state journal.EditState, header, label string) tea.Cmd {
	m.state = state
	m.header = header
	m.label = label
	m.area.Reset()
	m.area.SetValue(state.Text)
	if state.ReadOnly {
		m.area.Blur()
		return nil
	}
	return m.area.Focus()
}

func (m *Model) Close() {
	m.area.Blur()
}

func (m Model) State() journal.EditState {
	return m.state
}

func (m Model) Value() string {
	return m.area.Value()
}

func (m *Model) SetSize(width, height int) {
	if width > 4 {
		m.area.SetWidth(width - 4)
	}
	if height > 8 {
		m.area.SetHeight(height - 8)
	}
}

// Update forwards input to the text area and reports whether the text changed.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd, bool) {
	if m.state.ReadOnly {
		return m, nil, false
	}
	before := m.area.Value()
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd, m.area.Value() != before
}

func (m Model) View() string {
	body := m.area.View()
	if m.state.ReadOnly {
		body = subtleStyle.Render("Not yet.")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(m.header),
		subtleStyle.Render(m.label),
		"",
		body,
	)
}
