package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daydots/internal/backup"
	"github.com/julianstephens/daydots/internal/cache"
	"github.com/julianstephens/daydots/internal/calendar"
	"github.com/julianstephens/daydots/internal/markers"
	"github.com/julianstephens/daydots/internal/models"
	"github.com/julianstephens/daydots/internal/storage/sqlite"
)

type DoctorCmd struct{}

// schemaReporter is implemented by the SQL-backed stores.
type schemaReporter interface {
	SchemaVersions(ctx context.Context) (current, latest int, err error)
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	fail := func(name string, err error) {
		ctx.printf("❌ %s: FAIL\n", name)
		ctx.printf("   Error: %v\n", err)
		hasError = true
	}

	// Check 1: DB reachable
	dbReachable := false
	if err := checkDBReachable(ctx); err != nil {
		fail("Database reachable", err)
	} else {
		ctx.println("✓ Database reachable: OK")
		dbReachable = true
	}

	// Check 2: schema up to date
	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fail("Schema version", err)
		} else {
			ctx.println("✓ Schema version: OK")
		}
	} else {
		ctx.println("⊘ Schema version: SKIPPED (database not reachable)")
	}

	// Check 3: backups (warning only, SQLite only)
	if _, ok := ctx.Store.(*sqlite.Store); ok {
		if err := checkBackupsPresent(ctx); err != nil {
			ctx.println("⚠ Backups present: WARNING")
			ctx.printf("   %v\n", err)
		} else {
			ctx.println("✓ Backups present: OK")
		}
	} else {
		ctx.println("⊘ Backups present: SKIPPED (not a file database)")
	}

	// Check 4: stored journal entries
	if dbReachable {
		if err := checkJournalEntries(ctx); err != nil {
			fail("Journal entries", err)
		} else {
			ctx.println("✓ Journal entries: OK")
		}
	} else {
		ctx.println("⊘ Journal entries: SKIPPED (database not reachable)")
	}

	// Check 5: marker cache
	if err := checkMarkerCache(ctx); err != nil {
		fail("Marker cache", err)
	} else {
		ctx.println("✓ Marker cache: OK")
	}

	// Check 6: clock and timezone
	if err := checkClockTimezone(ctx, dbReachable); err != nil {
		fail("Clock/timezone", err)
	} else {
		ctx.println("✓ Clock/timezone: OK")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	reporter, ok := ctx.Store.(schemaReporter)
	if !ok {
		return nil
	}

	current, latest, err := reporter.SchemaVersions(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'daydots backup create'")
	}
	return nil
}

// checkJournalEntries verifies the current year's entries address valid,
// distinct days.
func checkJournalEntries(ctx *Context) error {
	cal, err := ctx.Calendar()
	if err != nil {
		return err
	}
	year := cal.Today().Year

	entries, err := ctx.Store.GetJournalEntriesForYear(context.Background(), year)
	if err != nil {
		return fmt.Errorf("failed to list journal entries: %w", err)
	}

	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if err := calendar.Validate(e.Year, e.DayOfYear); err != nil {
			return fmt.Errorf("entry %s: %w", e.ID, err)
		}
		if seen[e.DayOfYear] {
			return fmt.Errorf("duplicate entry for %s", e.Day())
		}
		seen[e.DayOfYear] = true
	}
	return nil
}

// checkMarkerCache makes sure the cache directory is writable and that the
// current year's snapshot, if any, decodes.
func checkMarkerCache(ctx *Context) error {
	if ctx.Cache == nil {
		return fmt.Errorf("marker cache is not configured")
	}
	if err := ctx.Cache.Init(); err != nil {
		return err
	}

	year := time.Now().Year()
	if cal, err := ctx.Calendar(); err == nil {
		year = cal.Today().Year
	}

	data, err := ctx.Cache.Read(markers.Key(year))
	if errors.Is(err, cache.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", markers.Key(year), err)
	}

	var list []models.FutureDayMarker
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("snapshot %s is unreadable and will be treated as empty: %w", markers.Key(year), err)
	}
	return nil
}

func checkClockTimezone(ctx *Context, dbReachable bool) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	if !dbReachable && ctx.Timezone == "" {
		return nil
	}
	cal, err := ctx.Calendar()
	if err != nil {
		return err
	}
	if cal.Location == time.UTC {
		ctx.println("   Note: timezone is UTC")
	}
	return nil
}
