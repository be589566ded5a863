package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/daydots/internal/cache"
	"github.com/julianstephens/daydots/internal/cli"
	"github.com/julianstephens/daydots/internal/constants"
	apperrors "github.com/julianstephens/daydots/internal/errors"
	"github.com/julianstephens/daydots/internal/keyring"
	"github.com/julianstephens/daydots/internal/logger"
	"github.com/julianstephens/daydots/internal/storage"
	"github.com/julianstephens/daydots/internal/storage/postgres"
	"github.com/julianstephens/daydots/internal/storage/sqlite"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database file path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring, PGPASSWORD or .pgpass instead." env:"DAYDOTS_CONFIG" default:"${default_config}"`
	Postgres bool   `help:"Use the PostgreSQL connection string stored in the OS keyring."`
	Timezone string `help:"IANA timezone overriding the stored setting." env:"DAYDOTS_TIMEZONE"`
	Debug    bool   `help:"Enable debug logging to stderr." env:"DAYDOTS_DEBUG"`

	Init    cli.InitCmd    `cmd:"" help:"Initialize daydots storage."`
	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive year grid." default:"1"`
	Year    cli.YearCmd    `cmd:"" help:"Print the dot grid for a year."`
	Mark    cli.MarkCmd    `cmd:"" help:"Mark or unmark a future day of the current year."`
	Markers cli.MarkersCmd `cmd:"" help:"List marked future days."`
	Journal struct {
		List  cli.JournalListCmd  `cmd:"" help:"List journal entries for a year." default:"1"`
		Show  cli.JournalShowCmd  `cmd:"" help:"Show the journal entry for a day."`
		Write cli.JournalWriteCmd `cmd:"" help:"Write or clear the journal entry for a day."`
	} `cmd:"" help:"Read and write daily journal entries."`
	Settings struct {
		List     cli.SettingsListCmd     `cmd:"" help:"List current settings." default:"1"`
		Timezone cli.SettingsTimezoneCmd `cmd:"" help:"Show or set the timezone."`
	} `cmd:"" help:"Manage application settings."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
	DebugCmds struct {
		DBPath  cli.DebugDBPathCmd  `cmd:"" name:"db-path" help:"Show database and cache paths."`
		DumpDay cli.DebugDumpDayCmd `cmd:"" name:"dump-day" help:"Dump a day as JSON."`
	} `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("A year of days as dots, with a line of journal for each."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	store, configDir, err := openStore()
	if err != nil {
		apperrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx := &cli.Context{
		Store:    store,
		Cache:    cache.NewDiskv(filepath.Join(configDir, constants.CacheDirName)),
		Timezone: CLI.Timezone,
	}

	// init, doctor and keyring manage the store themselves
	command := ctx.Command()
	if !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "doctor") && !strings.HasPrefix(command, "keyring") {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	runErr := ctx.Run(appCtx)
	if err := appCtx.Close(context.Background()); err != nil {
		logger.Warn("Failed to flush session", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Warn("Failed to close store", "error", err)
	}
	apperrors.Fatal(runErr)
}

// openStore picks SQLite or PostgreSQL from the flags and returns the
// directory that holds logs and the marker cache.
func openStore() (storage.Provider, string, error) {
	defaultDir := filepath.Dir(expandHome(constants.DefaultConfigPath))

	connStr := CLI.Config
	if CLI.Postgres {
		stored, err := keyring.GetConnectionString()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		connStr = stored
	} else if !postgres.IsConnString(connStr) {
		path := expandHome(connStr)
		return sqlite.NewStore(path), filepath.Dir(path), nil
	}

	if _, err := postgres.ValidateConnString(connStr); err != nil {
		// the keyring is trusted to hold a password
		if !(CLI.Postgres && errors.Is(err, postgres.ErrEmbeddedCredentials)) {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, "", fmt.Errorf("%w. Store it with 'daydots keyring set' and run with --postgres, or use PGPASSWORD/.pgpass", err)
			}
			return nil, "", err
		}
	}
	return postgres.New(connStr), defaultDir, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
