package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/daydots/internal/models"
)

type recordingAdvancer struct {
	mu       sync.Mutex
	today    models.CalendarDay
	advanced []models.CalendarDay
}

func (r *recordingAdvancer) Today() models.CalendarDay {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.today
}

func (r *recordingAdvancer) TodayAdvanced(day models.CalendarDay) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advanced = append(r.advanced, day)
}

func (r *recordingAdvancer) set(day models.CalendarDay) {
	r.mu.Lock()
	r.today = day
	r.mu.Unlock()
}

func (r *recordingAdvancer) calls() []models.CalendarDay {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.CalendarDay(nil), r.advanced...)
}

func TestDayWatcherCheck(t *testing.T) {
	target := &recordingAdvancer{today: models.CalendarDay{Year: 2024, DayOfYear: 366}}
	w := NewDayWatcher(target, time.Hour)

	assert.True(t, w.Check(), "first check always reports")
	assert.False(t, w.Check())

	target.set(models.CalendarDay{Year: 2025, DayOfYear: 1})
	assert.True(t, w.Check())

	assert.Equal(t, []models.CalendarDay{{Year: 2024, DayOfYear: 366}, {Year: 2025, DayOfYear: 1}}, target.calls())
}

func TestDayWatcherStartStop(t *testing.T) {
	target := &recordingAdvancer{today: models.CalendarDay{Year: 2024, DayOfYear: 10}}
	w := NewDayWatcher(target, 5*time.Millisecond)

	w.Start(context.Background())
	w.Start(context.Background()) // second start is a no-op

	assert.Eventually(t, func() bool { return len(target.calls()) == 1 }, time.Second, time.Millisecond)

	target.set(models.CalendarDay{Year: 2024, DayOfYear: 11})
	assert.Eventually(t, func() bool { return len(target.calls()) == 2 }, time.Second, time.Millisecond)

	w.Stop()
	w.Stop()

	target.set(models.CalendarDay{Year: 2024, DayOfYear: 12})
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, target.calls(), 2)
}

func TestDayWatcherStopsWithContext(t *testing.T) {
	target := &recordingAdvancer{}
	w := NewDayWatcher(target, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()
	w.Stop()
}

func TestDayWatcherDefaultInterval(t *testing.T) {
	w := NewDayWatcher(&recordingAdvancer{}, 0)
	assert.Equal(t, time.Minute, w.interval)
}
