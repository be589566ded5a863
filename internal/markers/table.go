package markers

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/julianstephens/daydots/internal/cache"
	"github.com/julianstephens/daydots/internal/logger"
	"github.com/julianstephens/daydots/internal/models"
)

// Table holds one Store per year, created lazily from the cache.
type Table struct {
	cache Cache
	opts  Options

	mu     sync.Mutex
	stores map[int]*Store

	// today is the last day passed to PruneExpired; years loaded afterwards
	// are pruned against it.
	today    models.CalendarDay
	hasToday bool
}

func NewTable(c Cache, opts Options) *Table {
	return &Table{
		cache:  c,
		opts:   opts.withDefaults(),
		stores: make(map[int]*Store),
	}
}

// Year returns the store for year, loading its snapshot on first use.
// A missing or unreadable snapshot yields an empty store.
func (t *Table) Year(year int) *Store {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.stores[year]; ok {
		return s
	}

	data, err := t.cache.Read(Key(year))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			logger.Warn("Failed to read marker snapshot", "year", year, "error", err)
		}
		data = nil
	}

	s := New(year, t.cache, t.opts)
	s.Load(data)
	if t.hasToday {
		switch {
		case year < t.today.Year:
			s.PruneExpired(DaysMax)
		case year == t.today.Year:
			s.PruneExpired(t.today.DayOfYear)
		}
	}
	t.stores[year] = s
	return s
}

// PruneExpired removes markers on or before today. Stores of earlier years
// are emptied entirely since every one of their days has passed.
func (t *Table) PruneExpired(today models.CalendarDay) {
	t.mu.Lock()
	t.today = today
	t.hasToday = true
	t.mu.Unlock()

	current := t.Year(today.Year)
	current.PruneExpired(today.DayOfYear)

	t.mu.Lock()
	earlier := make([]*Store, 0)
	for year, s := range t.stores {
		if year < today.Year {
			earlier = append(earlier, s)
		}
	}
	t.mu.Unlock()

	for _, s := range earlier {
		s.PruneExpired(DaysMax)
	}
}

// Years lists the loaded years in ascending order.
func (t *Table) Years() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	years := make([]int, 0, len(t.stores))
	for y := range t.stores {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Flush waits for the pending writes of every loaded store.
func (t *Table) Flush(ctx context.Context) error {
	for _, s := range t.snapshot() {
		if err := s.Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close stops every store's writer after draining it.
func (t *Table) Close() {
	for _, s := range t.snapshot() {
		s.Close()
	}
}

func (t *Table) snapshot() []*Store {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Store, 0, len(t.stores))
	for _, s := range t.stores {
		out = append(out, s)
	}
	return out
}
