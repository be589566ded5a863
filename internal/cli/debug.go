package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/daydots/internal/calendar"
	"github.com/julianstephens/daydots/internal/constants"
	"github.com/julianstephens/daydots/internal/models"
	"github.com/julianstephens/daydots/internal/storage"
)

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	output := map[string]string{
		"path": ctx.Store.GetConfigPath(),
	}
	if ctx.Cache != nil {
		output["cache"] = ctx.Cache.BasePath()
	}
	return printJSON(ctx, output)
}

type DebugDumpDayCmd struct {
	Day  int `arg:"" help:"Day of year to dump (1-366)."`
	Year int `help:"Year of the day (defaults to the current year)."`
}

type dayDump struct {
	Day     models.CalendarDay       `json:"day"`
	Date    string                   `json:"date"`
	State   string                   `json:"state"`
	Marked  bool                     `json:"marked"`
	Markers []models.FutureDayMarker `json:"markers"`
	Entry   *models.JournalEntry     `json:"entry,omitempty"`
}

func (cmd *DebugDumpDayCmd) Run(ctx *Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}
	year := resolveYear(s, cmd.Year)

	cal := s.Calendar()
	date, err := cal.DateForDayOfYear(year, cmd.Day)
	if err != nil {
		return err
	}

	day := models.CalendarDay{Year: year, DayOfYear: cmd.Day}
	today := s.Today()
	state := calendar.State(cmd.Day, today.DayOfYear)
	if year != today.Year {
		state = calendar.DayPast
		if today.Before(day) {
			state = calendar.DayFuture
		}
	}

	dump := dayDump{
		Day:     day,
		Date:    date.Format(constants.DateFormat),
		State:   state.String(),
		Markers: s.Markers(year),
	}
	for _, m := range dump.Markers {
		if m.DayOfYear == cmd.Day {
			dump.Marked = true
		}
	}

	entry, err := ctx.Store.FindJournalEntry(context.Background(), year, cmd.Day)
	switch {
	case err == nil:
		dump.Entry = &entry
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("failed to get journal entry: %w", err)
	}

	return printJSON(ctx, dump)
}

func printJSON(ctx *Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}
