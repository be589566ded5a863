package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/julianstephens/daydots/internal/constants"
)

// Diskv stores each key as a file under BasePath. Keys use "-" separated
// segments ("markers-2024"); every segment but the last becomes a directory.
type Diskv struct {
	d        *diskv.Diskv
	basePath string
}

// NewDiskv creates a disk-backed cache rooted at basePath
func NewDiskv(basePath string) *Diskv {
	return &Diskv{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      constants.CacheSizeMaxBytes,
		}),
		basePath: basePath,
	}
}

// DefaultPath returns the cache directory that sits next to the database file
func DefaultPath(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), constants.CacheDirName)
}

func (c *Diskv) BasePath() string {
	return c.basePath
}

// Init creates the cache directory
func (c *Diskv) Init() error {
	if err := os.MkdirAll(c.basePath, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

func (c *Diskv) Read(key string) ([]byte, error) {
	data, err := c.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return data, nil
}

func (c *Diskv) Write(key string, data []byte) error {
	if err := c.d.Write(key, data); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

func (c *Diskv) Erase(key string) error {
	err := c.d.Erase(key)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to erase cache key %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key starting with prefix, sorted
func (c *Diskv) Keys(ctx context.Context, prefix string) []string {
	var keys []string
	for key := range c.d.KeysPrefix(prefix, ctx.Done()) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(key, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
