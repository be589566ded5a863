package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/daydots/internal/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// JournalStore is the record store consulted by the journal controller.
type JournalStore interface {
	FindJournalEntry(ctx context.Context, year, day int) (models.JournalEntry, error)
	AddJournalEntry(ctx context.Context, entry models.JournalEntry) error
	UpdateJournalEntry(ctx context.Context, entry models.JournalEntry) error
	DeleteJournalEntry(ctx context.Context, entry models.JournalEntry) error
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Journal
	JournalStore
	GetJournalEntriesForYear(ctx context.Context, year int) ([]models.JournalEntry, error)

	// Utils
	GetConfigPath() string
}
