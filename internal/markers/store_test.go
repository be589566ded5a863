package markers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/julianstephens/daydots/internal/cache"
	"github.com/julianstephens/daydots/internal/calendar"
	"github.com/julianstephens/daydots/internal/constants"
	"github.com/julianstephens/daydots/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingCache wraps a Memory cache, counts writes and can be told to fail.
type recordingCache struct {
	*cache.Memory

	mu     sync.Mutex
	writes int
	fail   bool
	gate   chan struct{}
}

func newRecordingCache() *recordingCache {
	return &recordingCache{Memory: cache.NewMemory()}
}

func (c *recordingCache) Write(key string, data []byte) error {
	c.mu.Lock()
	gate := c.gate
	c.mu.Unlock()
	if gate != nil {
		<-gate
	}

	c.mu.Lock()
	c.writes++
	fail := c.fail
	c.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return c.Memory.Write(key, data)
}

func (c *recordingCache) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

func (c *recordingCache) setFail(fail bool) {
	c.mu.Lock()
	c.fail = fail
	c.mu.Unlock()
}

func (c *recordingCache) stored(t *testing.T, year int) []models.FutureDayMarker {
	t.Helper()
	data, err := c.Memory.Read(Key(year))
	require.NoError(t, err)
	var out []models.FutureDayMarker
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

var epoch = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

// steppingClock advances one second on every reading.
func steppingClock() calendar.Clock {
	var mu sync.Mutex
	now := epoch
	return calendar.ClockFunc(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	})
}

func newTestStore(t *testing.T, c Cache, year int) *Store {
	t.Helper()
	s := New(year, c, Options{Clock: steppingClock()})
	t.Cleanup(s.Close)
	return s
}

func toggle(t *testing.T, s *Store, days ...int) {
	t.Helper()
	for _, d := range days {
		_, err := s.Toggle(d)
		require.NoError(t, err)
	}
}

func daysOf(list []models.FutureDayMarker) []int {
	out := make([]int, len(list))
	for i, m := range list {
		out[i] = m.DayOfYear
	}
	return out
}

func TestToggleEvictsOldestMarker(t *testing.T) {
	c := newRecordingCache()
	s := newTestStore(t, c, 2024)

	toggle(t, s, 100, 105, 110)
	if diff := cmp.Diff([]int{100, 105, 110}, s.Days()); diff != "" {
		t.Fatalf("days mismatch (-want +got):\n%s", diff)
	}

	marked, err := s.Toggle(120)
	require.NoError(t, err)
	assert.True(t, marked)
	if diff := cmp.Diff([]int{105, 110, 120}, s.Days()); diff != "" {
		t.Fatalf("days after eviction mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, s.IsMarked(100))

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, []int{105, 110, 120}, daysOf(c.stored(t, 2024)))

	s.PruneExpired(115)
	assert.Equal(t, []int{120}, s.Days())

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, []int{120}, daysOf(c.stored(t, 2024)))
}

func TestToggleUnmarkAndRemark(t *testing.T) {
	s := newTestStore(t, newRecordingCache(), 2024)

	toggle(t, s, 50)
	first := s.Markers()[0].CreatedAt

	marked, err := s.Toggle(50)
	require.NoError(t, err)
	assert.False(t, marked)
	assert.Empty(t, s.Markers())

	toggle(t, s, 60, 50)
	markers := s.Markers()
	require.Len(t, markers, 2)
	assert.Equal(t, []int{60, 50}, daysOf(markers))
	assert.True(t, markers[1].CreatedAt.After(first), "re-marking should take a fresh timestamp")
}

func TestToggleInvariants(t *testing.T) {
	s := newTestStore(t, newRecordingCache(), 2023)

	for _, d := range []int{10, 20, 30, 40, 20, 50, 60, 10, 70} {
		toggle(t, s, d)

		markers := s.Markers()
		assert.LessOrEqual(t, len(markers), constants.MaxMarkersPerYear)
		seen := map[int]bool{}
		for i, m := range markers {
			assert.Equal(t, 2023, m.Year)
			assert.False(t, seen[m.DayOfYear], "duplicate day %d", m.DayOfYear)
			seen[m.DayOfYear] = true
			if i > 0 {
				assert.False(t, m.CreatedAt.Before(markers[i-1].CreatedAt), "markers out of order")
			}
		}
	}
}

func TestToggleRejectsInvalidDay(t *testing.T) {
	c := newRecordingCache()
	s := newTestStore(t, c, 2023)

	tests := []struct {
		name string
		day  int
	}{
		{"zero", 0},
		{"negative", -4},
		{"day 366 of common year", 366},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Toggle(tt.day)
			assert.ErrorIs(t, err, calendar.ErrInvalidDay)
		})
	}

	require.NoError(t, s.Flush(context.Background()))
	assert.Zero(t, c.writeCount())
	assert.Empty(t, s.Markers())
}

func TestPruneWithoutChangeDoesNotWrite(t *testing.T) {
	c := newRecordingCache()
	s := newTestStore(t, c, 2024)

	toggle(t, s, 200)
	require.NoError(t, s.Flush(context.Background()))
	before := c.writeCount()

	s.PruneExpired(150)
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, before, c.writeCount())
	assert.Equal(t, []int{200}, s.Days())
}

func TestPruneIncludesToday(t *testing.T) {
	s := newTestStore(t, newRecordingCache(), 2024)
	toggle(t, s, 150, 151)

	s.PruneExpired(150)
	assert.Equal(t, []int{151}, s.Days())
}

func TestLoadNormalizesAndHeals(t *testing.T) {
	at := func(sec int) time.Time { return epoch.Add(time.Duration(sec) * time.Second) }
	snapshot := []models.FutureDayMarker{
		{Year: 2024, DayOfYear: 40, CreatedAt: at(5)},
		{Year: 2023, DayOfYear: 41, CreatedAt: at(1)},  // wrong year
		{Year: 2024, DayOfYear: 367, CreatedAt: at(2)}, // out of range
		{Year: 2024, DayOfYear: 50, CreatedAt: at(9)},
		{Year: 2024, DayOfYear: 50, CreatedAt: at(3)}, // earlier duplicate wins
		{Year: 2024, DayOfYear: 60, CreatedAt: at(7)},
		{Year: 2024, DayOfYear: 366, CreatedAt: at(8)},
	}
	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	c := newRecordingCache()
	s := newTestStore(t, c, 2024)
	s.Load(data)

	// sorted by createdAt: 50(3) 40(5) 60(7) 366(8); keep the last three
	want := []models.FutureDayMarker{
		{Year: 2024, DayOfYear: 40, CreatedAt: at(5)},
		{Year: 2024, DayOfYear: 60, CreatedAt: at(7)},
		{Year: 2024, DayOfYear: 366, CreatedAt: at(8)},
	}
	if diff := cmp.Diff(want, s.Markers()); diff != "" {
		t.Fatalf("normalized markers mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, 1, c.writeCount(), "healed snapshot should be persisted once")
	if diff := cmp.Diff(want, c.stored(t, 2024)); diff != "" {
		t.Fatalf("persisted snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCleanSnapshotDoesNotWrite(t *testing.T) {
	data, err := json.Marshal([]models.FutureDayMarker{
		{Year: 2024, DayOfYear: 10, CreatedAt: epoch},
		{Year: 2024, DayOfYear: 5, CreatedAt: epoch.Add(time.Minute)},
	})
	require.NoError(t, err)

	c := newRecordingCache()
	s := newTestStore(t, c, 2024)
	s.Load(data)
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, []int{10, 5}, s.Days())
	assert.Zero(t, c.writeCount())
}

func TestLoadUndecodableSnapshotIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"garbage", []byte("{not json")},
		{"wrong shape", []byte(`{"year":2024}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newRecordingCache()
			s := newTestStore(t, c, 2024)
			s.Load(tt.data)
			require.NoError(t, s.Flush(context.Background()))

			assert.Empty(t, s.Markers())
			assert.Zero(t, c.writeCount())
		})
	}
}

func TestWriteFailureKeepsMemoryAuthoritative(t *testing.T) {
	c := newRecordingCache()
	c.setFail(true)
	s := newTestStore(t, c, 2024)

	toggle(t, s, 100, 101)
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, []int{100, 101}, s.Days())

	_, err := c.Memory.Read(Key(2024))
	assert.ErrorIs(t, err, cache.ErrNotFound)

	c.setFail(false)
	toggle(t, s, 102)
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, []int{100, 101, 102}, daysOf(c.stored(t, 2024)))
}

func TestLatestSnapshotWins(t *testing.T) {
	c := newRecordingCache()
	gate := make(chan struct{})
	c.gate = gate
	s := newTestStore(t, c, 2024)

	// the first write blocks while later toggles pile up behind it
	toggle(t, s, 10, 20, 30, 40, 20)
	close(gate)

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, s.Days(), daysOf(c.stored(t, 2024)))
	assert.Equal(t, []int{30, 40}, s.Days())
}

func TestFlushHonoursContext(t *testing.T) {
	c := newRecordingCache()
	gate := make(chan struct{})
	c.gate = gate
	s := newTestStore(t, c, 2024)

	toggle(t, s, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Flush(ctx), context.DeadlineExceeded)

	close(gate)
	require.NoError(t, s.Flush(context.Background()))
}

func TestCloseDrainsPendingWrites(t *testing.T) {
	c := newRecordingCache()
	s := New(2024, c, Options{Clock: steppingClock()})

	toggle(t, s, 10, 11)
	s.Close()

	assert.Equal(t, []int{10, 11}, daysOf(c.stored(t, 2024)))

	// writes after close still land
	toggle(t, s, 12)
	assert.Equal(t, []int{10, 11, 12}, daysOf(c.stored(t, 2024)))
	s.Close()
}
