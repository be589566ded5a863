package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/daydots/internal/constants"
	"github.com/julianstephens/daydots/internal/models"
	"github.com/julianstephens/daydots/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitSeedsDefaultSettings(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone != constants.DefaultTimezone {
		t.Errorf("expected timezone %q, got %q", constants.DefaultTimezone, settings.Timezone)
	}

	if err := store.SaveSettings(models.Settings{Timezone: "Asia/Tokyo"}); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	settings, err = store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone != "Asia/Tokyo" {
		t.Errorf("expected timezone Asia/Tokyo, got %q", settings.Timezone)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Fatal("expected Load to fail before Init")
	}
}

func TestReopenAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	defer reopened.Close()

	if reopened.GetConfigPath() != path {
		t.Errorf("expected config path %s, got %s", path, reopened.GetConfigPath())
	}
}

func TestJournalEntryLifecycle(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	if _, err := store.FindJournalEntry(ctx, 2024, 60); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	created := time.Date(2024, time.February, 29, 20, 15, 0, 123456789, time.UTC)
	entry := models.JournalEntry{
		ID:        "entry-1",
		Year:      2024,
		DayOfYear: 60,
		Text:      "leap day",
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := store.AddJournalEntry(ctx, entry); err != nil {
		t.Fatalf("failed to add entry: %v", err)
	}

	got, err := store.FindJournalEntry(ctx, 2024, 60)
	if err != nil {
		t.Fatalf("failed to find entry: %v", err)
	}
	if got.ID != entry.ID || got.Text != entry.Text || !got.CreatedAt.Equal(created) {
		t.Errorf("unexpected entry: %+v", got)
	}

	duplicate := entry
	duplicate.ID = "entry-2"
	if err := store.AddJournalEntry(ctx, duplicate); err == nil {
		t.Error("expected a second entry for the same day to be rejected")
	}

	got.Text = "leap day, revised"
	got.UpdatedAt = created.Add(time.Hour)
	if err := store.UpdateJournalEntry(ctx, got); err != nil {
		t.Fatalf("failed to update entry: %v", err)
	}

	got, err = store.FindJournalEntry(ctx, 2024, 60)
	if err != nil {
		t.Fatalf("failed to find entry: %v", err)
	}
	if got.Text != "leap day, revised" {
		t.Errorf("expected updated text, got %q", got.Text)
	}
	if !got.UpdatedAt.Equal(created.Add(time.Hour)) {
		t.Errorf("expected updated_at to move, got %v", got.UpdatedAt)
	}

	if err := store.DeleteJournalEntry(ctx, got); err != nil {
		t.Fatalf("failed to delete entry: %v", err)
	}
	if _, err := store.FindJournalEntry(ctx, 2024, 60); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteJournalEntry(ctx, got); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
	if err := store.UpdateJournalEntry(ctx, got); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound updating a deleted entry, got %v", err)
	}
}

func TestGetJournalEntriesForYear(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	now := time.Now()

	for i, day := range []models.CalendarDay{{Year: 2024, DayOfYear: 200}, {Year: 2023, DayOfYear: 5}, {Year: 2024, DayOfYear: 3}} {
		entry := models.JournalEntry{
			ID:        string(rune('a' + i)),
			Year:      day.Year,
			DayOfYear: day.DayOfYear,
			Text:      day.String(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.AddJournalEntry(ctx, entry); err != nil {
			t.Fatalf("failed to add entry: %v", err)
		}
	}

	entries, err := store.GetJournalEntriesForYear(ctx, 2024)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].DayOfYear != 3 || entries[1].DayOfYear != 200 {
		t.Errorf("expected entries ordered by day, got %d and %d", entries[0].DayOfYear, entries[1].DayOfYear)
	}

	entries, err = store.GetJournalEntriesForYear(ctx, 1999)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}
