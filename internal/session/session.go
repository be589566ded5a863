// Package session routes user-driven events to the marker and journal
// components and assembles what a year view needs to render.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/daydots/internal/calendar"
	"github.com/julianstephens/daydots/internal/journal"
	"github.com/julianstephens/daydots/internal/logger"
	"github.com/julianstephens/daydots/internal/markers"
	"github.com/julianstephens/daydots/internal/models"
)

// ErrNotFuture is returned when a marker is toggled on today or a past day.
var ErrNotFuture = errors.New("only future days can be marked")

// EntryLister lists the days of a year that carry a journal entry.
type EntryLister interface {
	GetJournalEntriesForYear(ctx context.Context, year int) ([]models.JournalEntry, error)
}

// DayView is everything a renderer needs for one dot of the grid.
type DayView struct {
	Day      models.CalendarDay
	State    calendar.DayState
	Marked   bool
	HasEntry bool
}

type Session struct {
	markers *markers.Table
	journal *journal.Controller
	entries EntryLister

	mu  sync.RWMutex
	cal calendar.Context
}

func New(cal calendar.Context, table *markers.Table, controller *journal.Controller, entries EntryLister) *Session {
	controller.SetCalendar(cal)
	return &Session{
		markers: table,
		journal: controller,
		entries: entries,
		cal:     cal,
	}
}

// Calendar returns the calendar context currently in effect.
func (s *Session) Calendar() calendar.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cal
}

func (s *Session) Today() models.CalendarDay {
	return s.Calendar().Today()
}

// YearProgress renders "n / N" for the current year.
func (s *Session) YearProgress() string {
	today := s.Today()
	return calendar.Progress(today.Year, today.DayOfYear)
}

// SetLocation switches timezone. The calendar day may change with it, so
// expired markers are pruned against the new today.
func (s *Session) SetLocation(loc *time.Location) {
	s.mu.Lock()
	s.cal.Location = loc
	cal := s.cal
	s.mu.Unlock()

	s.journal.SetCalendar(cal)
	logger.Debug("Timezone changed", "location", loc)
	s.TodayAdvanced(cal.Today())
}

// ToggleMarker flips the marker on a day of the current year. Only days after
// today can be marked; unmarking is always allowed.
func (s *Session) ToggleMarker(day int) (bool, error) {
	today := s.Today()
	if err := calendar.Validate(today.Year, day); err != nil {
		return false, err
	}

	store := s.markers.Year(today.Year)
	if !store.IsMarked(day) && day <= today.DayOfYear {
		return false, fmt.Errorf("%w: %s is %s", ErrNotFuture,
			models.CalendarDay{Year: today.Year, DayOfYear: day}, calendar.State(day, today.DayOfYear))
	}
	return store.Toggle(day)
}

// Markers returns the markers of year ordered by creation.
func (s *Session) Markers(year int) []models.FutureDayMarker {
	return s.markers.Year(year).Markers()
}

func (s *Session) BeginEditing(ctx context.Context, year, day int) (journal.EditState, error) {
	return s.journal.BeginEditing(ctx, year, day)
}

func (s *Session) TextChanged(text string) {
	s.journal.OnTextChanged(text)
}

func (s *Session) EndEditing(ctx context.Context) {
	s.journal.EndEditing(ctx)
}

// TodayAdvanced must be delivered whenever the calendar day changes.
func (s *Session) TodayAdvanced(today models.CalendarDay) {
	logger.Debug("Today advanced", "day", today)
	s.markers.PruneExpired(today)
}

// Grid returns one DayView per day of year. A failed journal lookup renders
// the grid without entry indicators.
func (s *Session) Grid(ctx context.Context, year int) []DayView {
	today := s.Today()
	total := calendar.DaysInYear(year)

	withEntry := make(map[int]bool)
	if s.entries != nil {
		entries, err := s.entries.GetJournalEntriesForYear(ctx, year)
		if err != nil {
			logger.Warn("Failed to list journal entries", "year", year, "error", err)
		}
		for _, e := range entries {
			withEntry[e.DayOfYear] = true
		}
	}

	store := s.markers.Year(year)
	views := make([]DayView, total)
	for i := range views {
		day := models.CalendarDay{Year: year, DayOfYear: i + 1}
		views[i] = DayView{
			Day:      day,
			State:    stateOf(day, today),
			Marked:   store.IsMarked(day.DayOfYear),
			HasEntry: withEntry[day.DayOfYear],
		}
	}
	return views
}

func stateOf(day, today models.CalendarDay) calendar.DayState {
	switch {
	case day == today:
		return calendar.DayToday
	case day.Before(today):
		return calendar.DayPast
	default:
		return calendar.DayFuture
	}
}

// Close ends any open editing session and drains pending marker writes.
func (s *Session) Close(ctx context.Context) error {
	s.journal.EndEditing(ctx)
	err := s.markers.Flush(ctx)
	s.markers.Close()
	return err
}
