package cli

import "github.com/julianstephens/daydots/internal/calendar"

type MarkCmd struct {
	Day int `arg:"" help:"Day of the current year to mark or unmark (1-366)."`
}

func (c *MarkCmd) Run(ctx *Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}

	marked, err := s.ToggleMarker(c.Day)
	if err != nil {
		return err
	}

	cal := s.Calendar()
	year := s.Today().Year
	if marked {
		ctx.printf("✓ Marked %s (%s)\n", cal.Header(year, c.Day), calendar.DayLabel(year, c.Day))
	} else {
		ctx.printf("✓ Unmarked %s (%s)\n", cal.Header(year, c.Day), calendar.DayLabel(year, c.Day))
	}
	return nil
}

type MarkersCmd struct {
	Year int `help:"Year to list (defaults to the current year)."`
}

func (c *MarkersCmd) Run(ctx *Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}

	year := resolveYear(s, c.Year)
	list := s.Markers(year)
	if len(list) == 0 {
		ctx.printf("No markers for %d.\n", year)
		return nil
	}

	cal := s.Calendar()
	ctx.printf("Markers for %d (oldest first):\n\n", year)
	for _, m := range list {
		ctx.printf("  %-8s %-16s marked %s\n",
			cal.Header(m.Year, m.DayOfYear),
			calendar.DayLabel(m.Year, m.DayOfYear),
			m.CreatedAt.In(cal.Location).Format(dateTimeFormat))
	}
	return nil
}

const dateTimeFormat = "2006-01-02 15:04"
