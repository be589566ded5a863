package constants

import "time"

const (
	AppName            = "daydots"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/daydots/daydots.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// HeaderDateFormat renders the journal header, e.g. "FEB 29" once upper-cased
	HeaderDateFormat = "Jan 2"

	// LongDateFormat is used for accessibility labels and list output
	LongDateFormat = "January 2, 2006"

	// Marker constants
	MaxMarkersPerYear = 3
	MarkerCachePrefix = "markers"

	// Journal constants
	JournalDebounceDelay = 2 * time.Second

	// Day watcher constants
	DayWatchInterval = time.Minute

	// Grid constants
	GridColumns = 7

	// Cache constants
	CacheDirName      = "cache"
	CacheSizeMaxBytes = 1024 * 1024

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "daydots-"
	BackupFileSuffix = ".db"
)
