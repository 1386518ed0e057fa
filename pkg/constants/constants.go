// Package constants provides shared constants used throughout the tallycheck codebase.
// This includes timeouts, limits, file names and other values that should be
// consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for downloading a source document
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxDocumentSize bounds how much of a downloaded document or archive
	// member is read into memory (64 MiB)
	MaxDocumentSize = 64 << 20
)

// Cache constants
const (
	// CacheTTL is how long a downloaded document is reused within a process
	CacheTTL = 15 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 5 * time.Minute
)

// Path constants
const (
	// DefaultSourcesFile is the data source configuration read when no
	// --config flag or TALLYCHECK_CONFIG is given
	DefaultSourcesFile = "data_sources.toml"

	// EnvConfig names the environment variable holding the config file path
	EnvConfig = "TALLYCHECK_CONFIG"
)

// Default data locations for the 2009 Burlington, Vermont mayoral election
const (
	// Burlington2009ReportMember is the final piles report inside the
	// published results archive
	Burlington2009ReportMember = "Reports/2009 Burlington Mayor Final Piles Report.txt"

	// Burlington2009WidgetURL is the wiki page carrying the Electowidget data
	Burlington2009WidgetURL = "https://electowiki.org/wiki/2009_Burlington,_Vermont_Mayoral_Election_data"
)
