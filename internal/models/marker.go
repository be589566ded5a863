package models

import "time"

// FutureDayMarker flags an upcoming day the user is looking forward to
type FutureDayMarker struct {
	Year      int       `json:"year"`
	DayOfYear int       `json:"day_of_year"`
	CreatedAt time.Time `json:"created_at"`
}
