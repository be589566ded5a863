package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingBlob interface {
	Blob
	Keys(ctx context.Context, prefix string) []string
}

func TestBlobImplementations(t *testing.T) {
	impls := map[string]func(t *testing.T) listingBlob{
		"diskv": func(t *testing.T) listingBlob {
			c := NewDiskv(filepath.Join(t.TempDir(), "cache"))
			require.NoError(t, c.Init())
			return c
		},
		"memory": func(t *testing.T) listingBlob {
			return NewMemory()
		},
	}

	for name, newCache := range impls {
		t.Run(name, func(t *testing.T) {
			c := newCache(t)

			_, err := c.Read("markers-2024")
			assert.True(t, errors.Is(err, ErrNotFound), "missing key should report ErrNotFound, got %v", err)

			require.NoError(t, c.Write("markers-2024", []byte(`[{"year":2024}]`)))
			require.NoError(t, c.Write("markers-2025", []byte(`[]`)))

			data, err := c.Read("markers-2024")
			require.NoError(t, err)
			assert.Equal(t, `[{"year":2024}]`, string(data))

			require.NoError(t, c.Write("markers-2024", []byte(`[]`)))
			data, err = c.Read("markers-2024")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(data))

			assert.Equal(t, []string{"markers-2024", "markers-2025"}, c.Keys(context.Background(), "markers"))

			require.NoError(t, c.Erase("markers-2024"))
			_, err = c.Read("markers-2024")
			assert.True(t, errors.Is(err, ErrNotFound))

			// erasing a missing key is not an error
			assert.NoError(t, c.Erase("markers-1999"))
		})
	}
}

func TestDiskvLayout(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cache")
	c := NewDiskv(base)
	require.NoError(t, c.Write("markers-2024", []byte("[]")))

	_, err := os.Stat(filepath.Join(base, "markers", "2024"))
	assert.NoError(t, err, "expected key segments to map to nested paths")
	assert.Equal(t, base, c.BasePath())
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath(filepath.Join("home", "u", ".config", "daydots", "daydots.db"))
	assert.Equal(t, filepath.Join("home", "u", ".config", "daydots", "cache"), got)
}
