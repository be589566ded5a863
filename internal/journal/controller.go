// Package journal persists the note being edited for a single day, debouncing
// keystrokes so the record store sees one write per pause in typing.
package journal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daydots/internal/calendar"
	"github.com/julianstephens/daydots/internal/constants"
	"github.com/julianstephens/daydots/internal/logger"
	"github.com/julianstephens/daydots/internal/models"
	"github.com/julianstephens/daydots/internal/storage"
)

// EditState is what an editor needs to render a freshly opened day.
type EditState struct {
	Day              models.CalendarDay
	Text             string
	HasExistingEntry bool
	// ReadOnly is set for days after today; their notes cannot be written yet.
	ReadOnly bool
}

// Options tune a Controller. Zero values use the wall clock, the runtime
// timer and constants.JournalDebounceDelay.
type Options struct {
	Calendar  calendar.Context
	Scheduler Scheduler
	Delay     time.Duration
	NewID     func() string
}

// Controller owns at most one editing session at a time.
type Controller struct {
	store     storage.JournalStore
	cal       calendar.Context
	scheduler Scheduler
	delay     time.Duration
	newID     func() string

	mu         sync.Mutex
	editing    bool
	day        models.CalendarDay
	readOnly   bool
	buffer     string
	timer      Timer
	generation uint64
	// commitMu serializes store round-trips so an explicit commit and a
	// debounced one never interleave their find-then-write.
	commitMu sync.Mutex
}

func NewController(store storage.JournalStore, opts Options) *Controller {
	if opts.Scheduler == nil {
		opts.Scheduler = TimeScheduler{}
	}
	if opts.Delay <= 0 {
		opts.Delay = constants.JournalDebounceDelay
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Controller{
		store:     store,
		cal:       opts.Calendar,
		scheduler: opts.Scheduler,
		delay:     opts.Delay,
		newID:     opts.NewID,
	}
}

// SetCalendar swaps the calendar context used to decide which days are
// still in the future.
func (c *Controller) SetCalendar(cal calendar.Context) {
	c.mu.Lock()
	c.cal = cal
	c.mu.Unlock()
}

// BeginEditing opens a session for the given day, ending any open one first.
// Only an invalid day is reported; a failed lookup opens an empty editor.
func (c *Controller) BeginEditing(ctx context.Context, year, day int) (EditState, error) {
	if err := calendar.Validate(year, day); err != nil {
		return EditState{}, err
	}

	c.EndEditing(ctx)

	target := models.CalendarDay{Year: year, DayOfYear: day}
	state := EditState{Day: target}

	entry, err := c.store.FindJournalEntry(ctx, year, day)
	switch {
	case err == nil:
		state.Text = entry.Text
		state.HasExistingEntry = true
	case errors.Is(err, storage.ErrNotFound):
	default:
		logger.Warn("Failed to load journal entry", "day", target, "error", err)
	}

	c.mu.Lock()
	state.ReadOnly = c.cal.IsFuture(year, day)
	c.editing = true
	c.day = target
	c.readOnly = state.ReadOnly
	c.buffer = state.Text
	c.mu.Unlock()

	return state, nil
}

// OnTextChanged records the latest editor text and restarts the debounce
// window. It is ignored outside a session and for read-only days.
func (c *Controller) OnTextChanged(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.editing || c.readOnly {
		return
	}

	c.buffer = text
	c.stopTimerLocked()

	gen := c.generation
	day := c.day
	c.timer = c.scheduler.Schedule(c.delay, func() {
		c.fire(gen, day)
	})
}

// fire commits the buffer unless the timer that scheduled it was superseded.
// commitMu is held across the generation check so a synchronous commit from
// EndEditing can never land before this one.
func (c *Controller) fire(gen uint64, day models.CalendarDay) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	c.mu.Lock()
	if gen != c.generation || !c.editing {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.generation++
	text := c.buffer
	c.mu.Unlock()

	c.commitLocked(context.Background(), day.Year, day.DayOfYear, text)
}

// Pending reports whether a debounced commit is scheduled.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Editing returns the day of the open session, if any.
func (c *Controller) Editing() (models.CalendarDay, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day, c.editing
}

// EndEditing cancels the pending commit, writes the buffer synchronously and
// closes the session. Read-only sessions are closed without a write.
func (c *Controller) EndEditing(ctx context.Context) {
	c.mu.Lock()
	if !c.editing {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	day, text, readOnly := c.day, c.buffer, c.readOnly
	c.editing = false
	c.readOnly = false
	c.buffer = ""
	c.mu.Unlock()

	if readOnly {
		return
	}
	c.Commit(ctx, day.Year, day.DayOfYear, text)
}

// stopTimerLocked cancels the scheduled commit. Bumping the generation also
// defeats a callback that already started and is waiting on c.mu.
func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
}

// Commit makes the stored entry for a day reflect text. Whitespace-only text
// removes the entry. Store failures are logged and swallowed.
func (c *Controller) Commit(ctx context.Context, year, day int, text string) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	c.commitLocked(ctx, year, day, text)
}

// commitLocked requires commitMu.
func (c *Controller) commitLocked(ctx context.Context, year, day int, text string) {
	target := models.CalendarDay{Year: year, DayOfYear: day}
	if err := calendar.Validate(year, day); err != nil {
		logger.Warn("Refusing to commit journal entry", "day", target, "error", err)
		return
	}
	trimmed := strings.TrimSpace(text)

	existing, err := c.store.FindJournalEntry(ctx, year, day)
	found := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("Failed to look up journal entry", "day", target, "error", err)
		return
	}

	c.mu.Lock()
	now := c.cal.Now()
	c.mu.Unlock()

	switch {
	case trimmed == "" && found:
		if err := c.store.DeleteJournalEntry(ctx, existing); err != nil {
			logger.Warn("Failed to delete journal entry", "day", target, "error", err)
			return
		}
		logger.Debug("Deleted empty journal entry", "day", target)

	case trimmed == "":
		// nothing stored, nothing to do

	case found:
		existing.Text = trimmed
		existing.UpdatedAt = now
		if err := c.store.UpdateJournalEntry(ctx, existing); err != nil {
			logger.Warn("Failed to update journal entry", "day", target, "error", err)
			return
		}
		logger.Debug("Updated journal entry", "day", target)

	default:
		entry := models.JournalEntry{
			ID:        c.newID(),
			Year:      year,
			DayOfYear: day,
			Text:      trimmed,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := c.store.AddJournalEntry(ctx, entry); err != nil {
			logger.Warn("Failed to add journal entry", "day", target, "error", err)
			return
		}
		logger.Debug("Added journal entry", "day", target)
	}
}
