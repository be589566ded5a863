package markers

import (
	"context"
	"sync"

	"github.com/julianstephens/daydots/internal/logger"
)

// writer persists snapshots for one store on a single goroutine. Only the
// newest pending snapshot is ever written, so a later logical write can never
// be overtaken by an earlier, slower one.
type writer struct {
	cache Cache
	key   string

	mu         sync.Mutex
	pending    []byte
	hasPending bool
	issued     uint64
	written    uint64
	progress   chan struct{}
	closed     bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func newWriter(c Cache, key string) *writer {
	w := &writer{
		cache:    c,
		key:      key,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// enqueue records data as the latest snapshot and returns immediately.
func (w *writer) enqueue(data []byte) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.write(data)
		return
	}
	w.pending = data
	w.hasPending = true
	w.issued++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	for {
		w.mu.Lock()
		if !w.hasPending {
			w.mu.Unlock()
			return
		}
		data, seq := w.pending, w.issued
		w.pending, w.hasPending = nil, false
		w.mu.Unlock()

		w.write(data)

		w.mu.Lock()
		w.written = seq
		close(w.progress)
		w.progress = make(chan struct{})
		w.mu.Unlock()
	}
}

func (w *writer) write(data []byte) {
	if err := w.cache.Write(w.key, data); err != nil {
		// The in-memory set stays authoritative; the next write reconciles.
		logger.Warn("Failed to persist marker snapshot", "key", w.key, "error", err)
	}
}

// flush blocks until every snapshot enqueued before the call has been attempted.
func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.issued
	for w.written < target {
		ch := w.progress
		w.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		}
		w.mu.Lock()
	}
	w.mu.Unlock()
	return nil
}

// close drains outstanding writes and stops the goroutine. Later snapshots
// are written synchronously.
func (w *writer) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	<-w.done
}
