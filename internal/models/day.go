package models

import "fmt"

// CalendarDay identifies a single day by its 1-based ordinal within a year
type CalendarDay struct {
	Year      int `json:"year"`
	DayOfYear int `json:"day_of_year"`
}

func (d CalendarDay) String() string {
	return fmt.Sprintf("%04d/%03d", d.Year, d.DayOfYear)
}

// Before reports whether d falls strictly before other
func (d CalendarDay) Before(other CalendarDay) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	return d.DayOfYear < other.DayOfYear
}
