package cli

import (
	"fmt"

	"github.com/julianstephens/daydots/internal/calendar"
)

type SettingsListCmd struct{}

func (c *SettingsListCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	ctx.println("Current Settings:")
	ctx.printf("  Timezone:  %s\n", settings.Timezone)
	if ctx.Timezone != "" {
		ctx.printf("  Override:  %s (from --timezone)\n", ctx.Timezone)
	}
	ctx.printf("  Database:  %s\n", ctx.Store.GetConfigPath())
	if ctx.Cache != nil {
		ctx.printf("  Cache:     %s\n", ctx.Cache.BasePath())
	}
	return nil
}

type SettingsTimezoneCmd struct {
	Name string `arg:"" optional:"" help:"IANA timezone name (e.g. Europe/London), or Local for the system zone."`
}

func (c *SettingsTimezoneCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.Name == "" {
		ctx.println(settings.Timezone)
		return nil
	}

	loc, err := calendar.LoadLocation(c.Name)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Name, err)
	}

	settings.Timezone = c.Name
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	// an open session moves to the new zone and prunes against its today
	if ctx.session != nil && ctx.Timezone == "" {
		ctx.session.SetLocation(loc)
	}
	ctx.printf("✓ Timezone set to %s\n", c.Name)
	return nil
}
