package calendar

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daydots/internal/constants"
)

// DayState classifies a day relative to today.
type DayState int

const (
	DayPast DayState = iota
	DayToday
	DayFuture
)

func (s DayState) String() string {
	switch s {
	case DayPast:
		return "passed"
	case DayToday:
		return "today"
	case DayFuture:
		return "future"
	default:
		return "unknown"
	}
}

// State classifies day against today within the same year.
func State(day, today int) DayState {
	switch {
	case day < today:
		return DayPast
	case day == today:
		return DayToday
	default:
		return DayFuture
	}
}

// Header renders the upper-cased short date ("FEB 29"), or "DAY n" when the
// day cannot be resolved.
func (c Context) Header(year, day int) string {
	date, err := c.DateForDayOfYear(year, day)
	if err != nil {
		return fmt.Sprintf("DAY %d", day)
	}
	return strings.ToUpper(date.Format(constants.HeaderDateFormat))
}

// DayLabel renders "Day n of N".
func DayLabel(year, day int) string {
	return fmt.Sprintf("Day %d of %d", day, DaysInYear(year))
}

// Progress renders "today / total" for the year header.
func Progress(year, today int) string {
	return fmt.Sprintf("%d / %d", today, DaysInYear(year))
}

// AccessibilityLabel describes a day for screen readers, e.g.
// "February 29, 2024, today".
func (c Context) AccessibilityLabel(year, day int, state DayState) string {
	date, err := c.DateForDayOfYear(year, day)
	if err != nil {
		return fmt.Sprintf("Day %d", day)
	}
	return fmt.Sprintf("%s, %s", date.Format(constants.LongDateFormat), state)
}
