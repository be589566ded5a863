package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daydots/internal/models"
	"github.com/julianstephens/daydots/internal/storage"
)

const journalColumns = "id, year, day_of_year, text, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanJournalEntry(row scanner) (models.JournalEntry, error) {
	var e models.JournalEntry
	var createdAt, updatedAt string
	if err := row.Scan(&e.ID, &e.Year, &e.DayOfYear, &e.Text, &createdAt, &updatedAt); err != nil {
		return models.JournalEntry{}, err
	}

	var err error
	e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return e, nil
}

func (s *Store) FindJournalEntry(ctx context.Context, year, day int) (models.JournalEntry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+journalColumns+" FROM journal_entries WHERE year = ? AND day_of_year = ?", year, day)

	e, err := scanJournalEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.JournalEntry{}, fmt.Errorf("journal entry %04d/%03d: %w", year, day, storage.ErrNotFound)
		}
		return models.JournalEntry{}, err
	}
	return e, nil
}

func (s *Store) GetJournalEntriesForYear(ctx context.Context, year int) ([]models.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+journalColumns+" FROM journal_entries WHERE year = ? ORDER BY day_of_year", year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) AddJournalEntry(ctx context.Context, entry models.JournalEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (id, year, day_of_year, text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Year, entry.DayOfYear, entry.Text,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to add journal entry %s: %w", entry.Day(), err)
	}
	return nil
}

func (s *Store) UpdateJournalEntry(ctx context.Context, entry models.JournalEntry) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE journal_entries SET text = ?, updated_at = ? WHERE id = ?",
		entry.Text, entry.UpdatedAt.UTC().Format(time.RFC3339Nano), entry.ID)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", entry.Day(), err)
	}
	return requireAffected(res, entry)
}

func (s *Store) DeleteJournalEntry(ctx context.Context, entry models.JournalEntry) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM journal_entries WHERE id = ?", entry.ID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %s: %w", entry.Day(), err)
	}
	return requireAffected(res, entry)
}

func requireAffected(res sql.Result, entry models.JournalEntry) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("journal entry %s: %w", entry.Day(), storage.ErrNotFound)
	}
	return nil
}
