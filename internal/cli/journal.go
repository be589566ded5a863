package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daydots/internal/calendar"
	"github.com/julianstephens/daydots/internal/storage"
)

// previewWidth bounds the first line shown by journal list.
const previewWidth = 60

type JournalShowCmd struct {
	Day  int `arg:"" help:"Day of year (1-366)."`
	Year int `help:"Year of the day (defaults to the current year)."`
}

func (c *JournalShowCmd) Run(ctx *Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}
	year := resolveYear(s, c.Year)
	if err := calendar.Validate(year, c.Day); err != nil {
		return err
	}

	cal := s.Calendar()
	ctx.printf("%s  %s\n\n", cal.Header(year, c.Day), calendar.DayLabel(year, c.Day))

	if cal.IsFuture(year, c.Day) {
		ctx.println("Not yet.")
		return nil
	}

	entry, err := ctx.Store.FindJournalEntry(context.Background(), year, c.Day)
	if errors.Is(err, storage.ErrNotFound) {
		ctx.println("No entry.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get journal entry: %w", err)
	}

	ctx.println(entry.Text)
	return nil
}

type JournalWriteCmd struct {
	Day  int     `arg:"" help:"Day of year (1-366)."`
	Year int     `help:"Year of the day (defaults to the current year)."`
	Text *string `help:"Entry text. An empty value deletes the entry. Prompts when omitted."`
}

func (c *JournalWriteCmd) Run(ctx *Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}
	bg := context.Background()
	year := resolveYear(s, c.Year)

	state, err := s.BeginEditing(bg, year, c.Day)
	if err != nil {
		return err
	}
	defer s.EndEditing(bg)

	header := s.Calendar().Header(year, c.Day)
	if state.ReadOnly {
		return fmt.Errorf("%s has not happened yet", header)
	}

	text := state.Text
	if c.Text != nil {
		text = *c.Text
	} else {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewText().
					Title(header).
					Description(calendar.DayLabel(year, c.Day)).
					Value(&text),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
	}

	s.TextChanged(text)
	s.EndEditing(bg)

	switch {
	case strings.TrimSpace(text) != "":
		ctx.printf("✓ Saved entry for %s\n", header)
	case state.HasExistingEntry:
		ctx.printf("✓ Deleted entry for %s\n", header)
	default:
		ctx.println("Nothing to save.")
	}
	return nil
}

type JournalListCmd struct {
	Year int `help:"Year to list (defaults to the current year)."`
}

func (c *JournalListCmd) Run(ctx *Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}
	year := resolveYear(s, c.Year)

	entries, err := ctx.Store.GetJournalEntriesForYear(context.Background(), year)
	if err != nil {
		return fmt.Errorf("failed to list journal entries: %w", err)
	}
	if len(entries) == 0 {
		ctx.printf("No journal entries for %d.\n", year)
		return nil
	}

	cal := s.Calendar()
	ctx.printf("Journal entries for %d (%d total):\n\n", year, len(entries))
	for _, e := range entries {
		ctx.printf("  %-8s %3d  %s\n", cal.Header(e.Year, e.DayOfYear), e.DayOfYear, preview(e.Text))
	}
	return nil
}

// preview returns the first line of text, shortened to previewWidth runes.
func preview(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	runes := []rune(line)
	if len(runes) > previewWidth {
		return string(runes[:previewWidth-1]) + "…"
	}
	return line
}
