package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daydots/internal/storage/sqlite"
)

type InitCmd struct {
	Force bool `help:"Delete the existing database before initialization."`
	Yes   bool `short:"y" help:"Skip the confirmation prompt for --force."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized daydots storage at: %s\n", ctx.Store.GetConfigPath())

	if ctx.Cache != nil {
		if err := ctx.Cache.Init(); err != nil {
			return err
		}
		ctx.printf("Marker cache: %s\n", ctx.Cache.BasePath())
	}
	return nil
}

// reset removes an existing SQLite database after confirmation. Remote
// databases are never dropped.
func (c *InitCmd) reset(ctx *Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("--force is only supported for SQLite databases")
	}

	dbPath := ctx.Store.GetConfigPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	if !c.Yes {
		confirmed := false
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Delete the existing database?").
					Description(dbPath + "\nEvery journal entry will be lost.").
					Affirmative("Delete").
					Negative("Cancel").
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
		if !confirmed {
			return errors.New("initialization cancelled")
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.printf("Deleted existing database at: %s\n", dbPath)
	return nil
}
