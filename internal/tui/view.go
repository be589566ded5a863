package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateEditing:
		content = m.editor.View()
	default:
		content = m.viewGrid()
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.viewStatus(),
		m.help.View(m),
	))
}

func (m Model) viewGrid() string {
	today := m.session.Today()
	header := titleStyle.Render(fmt.Sprintf("%d", m.grid.Year))
	if m.grid.Year == today.Year {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, progressStyle.Render(m.session.YearProgress()))
	}

	var detail string
	if selected, ok := m.grid.Selected(); ok {
		cal := m.session.Calendar()
		detail = progressStyle.Render(cal.AccessibilityLabel(selected.Day.Year, selected.Day.DayOfYear, selected.State))
		if selected.HasEntry {
			detail += progressStyle.Render("· journal")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.grid.View(),
		"",
		detail,
	)
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.failed {
		return dangerStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}
