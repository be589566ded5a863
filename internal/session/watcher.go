package session

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/daydots/internal/constants"
	"github.com/julianstephens/daydots/internal/logger"
	"github.com/julianstephens/daydots/internal/models"
)

// Advancer is notified when the calendar day changes.
type Advancer interface {
	Today() models.CalendarDay
	TodayAdvanced(today models.CalendarDay)
}

// DayWatcher polls the clock and reports midnight rollovers.
type DayWatcher struct {
	target   Advancer
	interval time.Duration

	mu      sync.Mutex
	last    models.CalendarDay
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewDayWatcher(target Advancer, interval time.Duration) *DayWatcher {
	if interval <= 0 {
		interval = constants.DayWatchInterval
	}
	return &DayWatcher{
		target:   target,
		interval: interval,
	}
}

// Check compares today with the last observed day and delivers
// TodayAdvanced on change. It reports whether the day changed.
func (w *DayWatcher) Check() bool {
	today := w.target.Today()

	w.mu.Lock()
	changed := today != w.last
	w.last = today
	w.mu.Unlock()

	if changed {
		w.target.TodayAdvanced(today)
	}
	return changed
}

// Start runs Check immediately and then on every tick until Stop or ctx ends.
func (w *DayWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	logger.Debug("Starting day watcher", "interval", w.interval)
	go w.run(ctx, stopCh, doneCh)
}

// Stop halts the watcher and waits for its goroutine to exit.
func (w *DayWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)
	<-doneCh
	logger.Debug("Day watcher stopped")
}

func (w *DayWatcher) run(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	w.Check()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			w.Check()
		}
	}
}
