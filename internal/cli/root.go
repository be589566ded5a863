package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/daydots/internal/backup"
	"github.com/julianstephens/daydots/internal/cache"
	"github.com/julianstephens/daydots/internal/calendar"
	"github.com/julianstephens/daydots/internal/journal"
	"github.com/julianstephens/daydots/internal/logger"
	"github.com/julianstephens/daydots/internal/markers"
	"github.com/julianstephens/daydots/internal/session"
	"github.com/julianstephens/daydots/internal/storage"
	"github.com/julianstephens/daydots/internal/storage/sqlite"
)

// Context is shared by every command. Store must be loaded (or, for init,
// initialized) before Session is used.
type Context struct {
	Store storage.Provider
	Cache *cache.Diskv

	// Timezone overrides the persisted setting when non-empty.
	Timezone string
	Clock    calendar.Clock
	Out      io.Writer

	session *session.Session
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Calendar resolves the calendar context from the timezone override or the
// stored setting.
func (c *Context) Calendar() (calendar.Context, error) {
	tz := c.Timezone
	if tz == "" {
		settings, err := c.Store.GetSettings()
		if err != nil {
			return calendar.Context{}, fmt.Errorf("failed to get settings: %w", err)
		}
		tz = settings.Timezone
	}
	return calendar.NewContext(tz, c.Clock)
}

// Session builds the marker table, journal controller and session on first use.
func (c *Context) Session() (*session.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	if c.Cache == nil {
		return nil, fmt.Errorf("marker cache is not configured")
	}

	cal, err := c.Calendar()
	if err != nil {
		return nil, err
	}

	table := markers.NewTable(c.Cache, markers.Options{Clock: c.Clock})
	controller := journal.NewController(c.Store, journal.Options{Calendar: cal})
	s := session.New(cal, table, controller, c.Store)
	// each run may start on a later day than the snapshots were written
	s.TodayAdvanced(cal.Today())
	c.session = s
	return c.session, nil
}

// Close ends any open session, waiting for pending marker writes.
func (c *Context) Close(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	err := c.session.Close(ctx)
	c.session = nil
	return err
}

// PerformAutomaticBackup creates a backup of a file-backed store and only
// logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// resolveYear defaults a zero year to the current one.
func resolveYear(s *session.Session, year int) int {
	if year == 0 {
		return s.Today().Year
	}
	return year
}
