// Package cache provides the key-value blob stores that back small, rebuildable
// snapshots such as the per-year marker sets.
package cache

import "errors"

// ErrNotFound is returned by Read when no value exists for a key
var ErrNotFound = errors.New("cache: key not found")

// Blob is the contract shared by every cache implementation
type Blob interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Erase(key string) error
}
