package models

import "time"

// JournalEntry represents the free-text note attached to a single day.
// (Year, DayOfYear) is unique across all entries.
type JournalEntry struct {
	ID        string    `json:"id"`
	Year      int       `json:"year"`
	DayOfYear int       `json:"day_of_year"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Day returns the calendar day the entry belongs to
func (e JournalEntry) Day() CalendarDay {
	return CalendarDay{Year: e.Year, DayOfYear: e.DayOfYear}
}
