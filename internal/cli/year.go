package cli

import (
	"context"

	"github.com/julianstephens/daydots/internal/calendar"
	"github.com/julianstephens/daydots/internal/tui/components/grid"
)

type YearCmd struct {
	Year int `help:"Year to show (defaults to the current year)."`
}

func (c *YearCmd) Run(ctx *Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}

	today := s.Today()
	year := resolveYear(s, c.Year)

	if year == today.Year {
		ctx.printf("%d  %s\n\n", year, s.YearProgress())
	} else {
		ctx.printf("%d  %d days\n\n", year, calendar.DaysInYear(year))
	}

	ctx.printf("%s\n", grid.Plain(s.Grid(context.Background(), year)))
	ctx.println(grid.Legend())
	return nil
}
