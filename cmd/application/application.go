// Package application provides the application interface for tallycheck commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            cfg, err := app.DataSources()
//	            if err != nil {
//	                return err
//	            }
//	            // ... build sources with app.Transport()
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    DataSourcesFunc: func() (*config.Sources, error) {
//	        return &config.Sources{...}, nil
//	    },
//	}
//	cmd := verify.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/tallycheck/internal/config"
	"github.com/agentstation/tallycheck/internal/transport"
)

// Application provides the application interface that commands need.
// The App struct from cmd/tallycheck/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// DataSources returns the data source configuration, loading it from
	// the configured file on first use.
	DataSources() (*config.Sources, error)

	// Transport returns the shared HTTP client. Sources built from one
	// client share its response cache, so an archive is downloaded once.
	Transport() *transport.Client

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, markdown).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
