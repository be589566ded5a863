// Package grid renders a year as rows of seven dots.
package grid

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daydots/internal/calendar"
	"github.com/julianstephens/daydots/internal/constants"
	"github.com/julianstephens/daydots/internal/session"
)

const (
	dotPast   = "●"
	dotToday  = "◉"
	dotFuture = "○"
	dotMarked = "◆"
)

var (
	pastStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	todayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	futureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	markedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	entryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("62"))
)

type Model struct {
	Year   int
	Days   []session.DayView
	Cursor int
}

func New() Model {
	return Model{}
}

// SetDays replaces the rendered year, keeping the cursor in range.
func (m *Model) SetDays(year int, days []session.DayView) {
	m.Year = year
	m.Days = days
	m.clamp()
}

// Move shifts the cursor by delta days, stopping at either end of the year.
func (m *Model) Move(delta int) {
	m.Cursor += delta
	m.clamp()
}

// Focus puts the cursor on a 1-based day of year.
func (m *Model) Focus(day int) {
	m.Cursor = day - 1
	m.clamp()
}

func (m *Model) clamp() {
	if m.Cursor >= len(m.Days) {
		m.Cursor = len(m.Days) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// Selected returns the day under the cursor.
func (m Model) Selected() (session.DayView, bool) {
	if len(m.Days) == 0 {
		return session.DayView{}, false
	}
	return m.Days[m.Cursor], true
}

// Dot returns the unstyled glyph for a day.
func Dot(v session.DayView) string {
	switch {
	case v.Marked:
		return dotMarked
	case v.State == calendar.DayToday:
		return dotToday
	case v.State == calendar.DayPast:
		return dotPast
	default:
		return dotFuture
	}
}

func styleFor(v session.DayView) lipgloss.Style {
	switch {
	case v.Marked:
		return markedStyle
	case v.HasEntry:
		return entryStyle
	case v.State == calendar.DayToday:
		return todayStyle
	case v.State == calendar.DayPast:
		return pastStyle
	default:
		return futureStyle
	}
}

// Legend explains the glyphs used by Plain.
func Legend() string {
	return dotPast + " past  " + dotToday + " today  " + dotFuture + " future  " + dotMarked + " marked"
}

// Plain renders the grid without styling, one row per week.
func Plain(days []session.DayView) string {
	var b strings.Builder
	for i, v := range days {
		b.WriteString(Dot(v))
		if (i+1)%constants.GridColumns == 0 || i == len(days)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (m Model) View() string {
	var rows []string
	var row []string
	for i, v := range m.Days {
		cell := styleFor(v).Render(Dot(v))
		if i == m.Cursor {
			cell = cursorStyle.Render(cell)
		}
		row = append(row, cell)
		if len(row) == constants.GridColumns || i == len(m.Days)-1 {
			rows = append(rows, strings.Join(row, " "))
			row = row[:0]
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
