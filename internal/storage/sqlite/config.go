package sqlite

import "time"

// Config holds SQLite settings
type Config struct {
	// Path is the database file, or ":memory:" for a throwaway database
	Path string

	// BusyTimeout is how long a writer waits on a locked database file
	BusyTimeout time.Duration
}

// DefaultConfig returns sensible defaults for SQLite configuration
func DefaultConfig() Config {
	return Config{
		Path:        "scores.db",
		BusyTimeout: 5 * time.Second,
	}
}
