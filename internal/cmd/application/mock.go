// Package application provides test doubles for the command application interface.
package application

import (
	"github.com/rs/zerolog"

	iface "github.com/agentstation/tallycheck/cmd/application"
	"github.com/agentstation/tallycheck/internal/config"
	"github.com/agentstation/tallycheck/internal/transport"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    DataSourcesFunc: func() (*config.Sources, error) {
//	        return cfg, nil
//	    },
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := verify.NewCommand(mock)
type Mock struct {
	DataSourcesFunc  func() (*config.Sources, error)
	TransportFunc    func() *transport.Client
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// DataSources returns the configuration from the mock function or an empty one.
func (m *Mock) DataSources() (*config.Sources, error) {
	if m.DataSourcesFunc != nil {
		return m.DataSourcesFunc()
	}
	return &config.Sources{}, nil
}

// Transport returns a client from the mock function or a fresh client.
func (m *Mock) Transport() *transport.Client {
	if m.TransportFunc != nil {
		return m.TransportFunc()
	}
	return transport.New()
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ iface.Application = (*Mock)(nil)
