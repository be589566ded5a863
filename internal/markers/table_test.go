package markers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daydots/internal/models"
)

func TestTableLoadsFromCache(t *testing.T) {
	c := newRecordingCache()
	data, err := json.Marshal([]models.FutureDayMarker{{Year: 2025, DayOfYear: 42, CreatedAt: epoch}})
	require.NoError(t, err)
	require.NoError(t, c.Memory.Write(Key(2025), data))

	table := NewTable(c, Options{Clock: steppingClock()})
	t.Cleanup(table.Close)

	s := table.Year(2025)
	assert.True(t, s.IsMarked(42))
	assert.Same(t, s, table.Year(2025), "store should be created once per year")

	empty := table.Year(2026)
	assert.Empty(t, empty.Markers())
	assert.Equal(t, []int{2025, 2026}, table.Years())
}

func TestTableUnreadableSnapshot(t *testing.T) {
	c := newRecordingCache()
	require.NoError(t, c.Memory.Write(Key(2024), []byte("\x00\x01")))

	table := NewTable(c, Options{})
	t.Cleanup(table.Close)

	assert.Empty(t, table.Year(2024).Markers())
}

func TestTablePruneClearsEarlierYears(t *testing.T) {
	c := newRecordingCache()
	table := NewTable(c, Options{Clock: steppingClock()})
	t.Cleanup(table.Close)

	toggle(t, table.Year(2024), 300, 360)
	toggle(t, table.Year(2025), 3, 30)
	toggle(t, table.Year(2026), 1)

	table.PruneExpired(models.CalendarDay{Year: 2025, DayOfYear: 10})

	assert.Empty(t, table.Year(2024).Markers())
	assert.Equal(t, []int{30}, table.Year(2025).Days())
	assert.Equal(t, []int{1}, table.Year(2026).Days())

	require.NoError(t, table.Flush(context.Background()))
	assert.Empty(t, c.stored(t, 2024))
	assert.Equal(t, []int{30}, daysOf(c.stored(t, 2025)))
}

func TestTableYearsLoadedAfterPruneArePruned(t *testing.T) {
	c := newRecordingCache()
	for year, days := range map[int][]int{2023: {200}, 2024: {50, 150}} {
		list := make([]models.FutureDayMarker, 0, len(days))
		for _, d := range days {
			list = append(list, models.FutureDayMarker{Year: year, DayOfYear: d, CreatedAt: epoch})
		}
		data, err := json.Marshal(list)
		require.NoError(t, err)
		require.NoError(t, c.Memory.Write(Key(year), data))
	}

	table := NewTable(c, Options{Clock: steppingClock()})
	t.Cleanup(table.Close)

	table.PruneExpired(models.CalendarDay{Year: 2024, DayOfYear: 100})

	assert.Equal(t, []int{150}, table.Year(2024).Days())
	assert.Empty(t, table.Year(2023).Markers())

	require.NoError(t, table.Flush(context.Background()))
	assert.Empty(t, c.stored(t, 2023))
	assert.Equal(t, []int{150}, daysOf(c.stored(t, 2024)))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "markers-2024", Key(2024))
}
