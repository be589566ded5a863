// Package markers keeps the bounded per-year set of anticipated future days.
package markers

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/julianstephens/daydots/internal/calendar"
	"github.com/julianstephens/daydots/internal/constants"
	"github.com/julianstephens/daydots/internal/logger"
	"github.com/julianstephens/daydots/internal/models"
)

// Cache is the key-value blob store snapshots are persisted to.
type Cache interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
}

// Options tune a Store. Zero values fall back to the wall clock and
// constants.MaxMarkersPerYear.
type Options struct {
	Clock      calendar.Clock
	MaxMarkers int
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = calendar.SystemClock{}
	}
	if o.MaxMarkers <= 0 {
		o.MaxMarkers = constants.MaxMarkersPerYear
	}
	return o
}

// DaysMax is the largest day-of-year any year can have.
const DaysMax = 366

// Key returns the cache key holding the snapshot for year.
func Key(year int) string {
	return fmt.Sprintf("%s-%d", constants.MarkerCachePrefix, year)
}

// Store owns the marker set of a single year and is the only writer of its
// persisted snapshot. Mutations are expected from one sequential caller.
type Store struct {
	year int
	opts Options

	mu      sync.RWMutex
	markers []models.FutureDayMarker
	writer  *writer
}

// New creates an empty store for year that persists to c.
func New(year int, c Cache, opts Options) *Store {
	return &Store{
		year:   year,
		opts:   opts.withDefaults(),
		writer: newWriter(c, Key(year)),
	}
}

func (s *Store) Year() int {
	return s.year
}

// Load replaces the set with a decoded snapshot. Undecodable or absent data
// yields an empty set. When normalization alters the decoded list the healed
// set is persisted straight away.
func (s *Store) Load(snapshot []byte) {
	var decoded []models.FutureDayMarker
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &decoded); err != nil {
			logger.Warn("Discarding undecodable marker snapshot", "year", s.year, "error", err)
			decoded = nil
		}
	}

	normalized := normalize(decoded, s.year, s.opts.MaxMarkers)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = normalized
	if !equal(decoded, normalized) {
		logger.Debug("Healing marker snapshot", "year", s.year, "before", len(decoded), "after", len(normalized))
		s.persistLocked()
	}
}

// IsMarked reports whether day carries a marker.
func (s *Store) IsMarked(day int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.markers, day) >= 0
}

// Markers returns a copy of the set ordered by CreatedAt ascending.
func (s *Store) Markers() []models.FutureDayMarker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.FutureDayMarker(nil), s.markers...)
}

// Days returns the marked days in marking order.
func (s *Store) Days() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	days := make([]int, len(s.markers))
	for i, m := range s.markers {
		days[i] = m.DayOfYear
	}
	return days
}

// Toggle unmarks day if it is marked, otherwise marks it now. Marking past
// the bound evicts the marker created earliest, whatever its day.
// It reports whether day is marked afterwards.
func (s *Store) Toggle(day int) (bool, error) {
	if err := calendar.Validate(s.year, day); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.markers, day); i >= 0 {
		s.markers = append(s.markers[:i:i], s.markers[i+1:]...)
		s.persistLocked()
		return false, nil
	}

	next := append(append([]models.FutureDayMarker(nil), s.markers...), models.FutureDayMarker{
		Year:      s.year,
		DayOfYear: day,
		CreatedAt: s.opts.Clock.Now(),
	})
	s.markers = normalize(next, s.year, s.opts.MaxMarkers)
	s.persistLocked()
	return indexOf(s.markers, day) >= 0, nil
}

// PruneExpired drops every marker with DayOfYear <= today. Nothing is
// persisted when no marker was removed.
func (s *Store) PruneExpired(today int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.markers[:0:0]
	for _, m := range s.markers {
		if m.DayOfYear > today {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(s.markers) {
		return
	}
	logger.Debug("Pruned expired markers", "year", s.year, "today", today, "removed", len(s.markers)-len(kept))
	s.markers = kept
	s.persistLocked()
}

// Flush waits for every snapshot issued so far to reach the cache.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.flush(ctx)
}

// Close drains pending writes and stops the background writer.
func (s *Store) Close() {
	s.writer.close()
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(s.markers)
	if err != nil {
		logger.Warn("Failed to encode marker snapshot", "year", s.year, "error", err)
		return
	}
	s.writer.enqueue(data)
}

// normalize filters to valid days of year, keeps the earliest marker per day,
// orders by CreatedAt and keeps the most recent max entries.
func normalize(list []models.FutureDayMarker, year, max int) []models.FutureDayMarker {
	out := make([]models.FutureDayMarker, 0, len(list))
	for _, m := range list {
		if m.Year != year || calendar.Validate(year, m.DayOfYear) != nil {
			continue
		}
		if i := indexOf(out, m.DayOfYear); i >= 0 {
			if m.CreatedAt.Before(out[i].CreatedAt) {
				out[i] = m
			}
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if len(out) > max {
		out = out[len(out)-max:]
	}
	return out
}

func indexOf(list []models.FutureDayMarker, day int) int {
	for i, m := range list {
		if m.DayOfYear == day {
			return i
		}
	}
	return -1
}

func equal(a, b []models.FutureDayMarker) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Year != b[i].Year || a[i].DayOfYear != b[i].DayOfYear || !a[i].CreatedAt.Equal(b[i].CreatedAt) {
			return false
		}
	}
	return true
}
