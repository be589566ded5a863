// Package calendar maps between (year, day-of-year) pairs and calendar dates.
//
// Every function is pure given its Context: the location and clock are always
// supplied by the caller, never read from hidden global state.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daydots/internal/models"
)

// ErrInvalidDay is returned when a day-of-year falls outside [1, DaysInYear(year)].
// Any year is accepted; dates follow the proleptic Gregorian calendar.
var ErrInvalidDay = errors.New("invalid day of year")

// InvalidDayError carries the offending (year, day) pair and matches ErrInvalidDay.
type InvalidDayError struct {
	Year      int
	DayOfYear int
}

func (e *InvalidDayError) Error() string {
	return fmt.Sprintf("%v: day %d of year %d", ErrInvalidDay, e.DayOfYear, e.Year)
}

func (e *InvalidDayError) Is(target error) bool {
	return target == ErrInvalidDay
}

// IsLeapYear applies the Gregorian rule: divisible by 4, not by 100 unless by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// Validate reports an InvalidDayError unless day lies within the given year.
func Validate(year, day int) error {
	if day < 1 || day > DaysInYear(year) {
		return &InvalidDayError{Year: year, DayOfYear: day}
	}
	return nil
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Context carries the timezone rules and clock used for every calendar lookup.
// The zero value uses the system local timezone and the wall clock.
type Context struct {
	Location *time.Location
	Clock    Clock
}

// NewContext resolves an IANA timezone name ("" or "Local" for the system zone).
func NewContext(timezone string, clock Clock) (Context, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return Context{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return Context{Location: loc, Clock: clock}, nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

func (c Context) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Now returns the current instant in the context location.
func (c Context) Now() time.Time {
	clock := c.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return clock.Now().In(c.location())
}

// DayOfYear returns the 1-based ordinal of t within its year, as observed in
// the context location.
func (c Context) DayOfYear(t time.Time) int {
	return t.In(c.location()).YearDay()
}

// Day returns the calendar day containing t in the context location.
func (c Context) Day(t time.Time) models.CalendarDay {
	local := t.In(c.location())
	return models.CalendarDay{Year: local.Year(), DayOfYear: local.YearDay()}
}

// DateForDayOfYear returns midnight of the given day in the context location.
func (c Context) DateForDayOfYear(year, day int) (time.Time, error) {
	if err := Validate(year, day); err != nil {
		return time.Time{}, err
	}
	// time.Date normalizes January overflow into the right month.
	return time.Date(year, time.January, day, 0, 0, 0, 0, c.location()), nil
}

// Today returns the current year and day-of-year.
func (c Context) Today() models.CalendarDay {
	return c.Day(c.Now())
}

// IsFuture reports whether the given day is strictly after today.
func (c Context) IsFuture(year, day int) bool {
	return c.Today().Before(models.CalendarDay{Year: year, DayOfYear: day})
}
