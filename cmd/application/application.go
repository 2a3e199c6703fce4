// Package application provides the application interface for pricemap commands.
//
// The Application interface is the contract between the application layer and
// command and server implementations, so that both can be tested with a Mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            pm, err := app.Client()
//	            if err != nil {
//	                return err
//	            }
//	            res, err := pm.View(reconciler.DefaultQuery())
//	            // ... render res
//	            return err
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    ClientFunc: func() (pricemap.Client, error) {
//	        return pricemap.New(pricemap.WithBackend(memory.New(rows...)))
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/pricemap-tw/pricemap"
)

// Application provides the application interface that commands need.
// The App struct from cmd/pricemap/app implements it.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the shared pricemap client, created on first use.
	Client() (pricemap.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
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

// Mock is an Application whose methods are backed by optional funcs.
type Mock struct {
	ClientFunc       func() (pricemap.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionString    string
}

var _ Application = (*Mock)(nil)

// Client implements Application.
func (m *Mock) Client() (pricemap.Client, error) {
	if m.ClientFunc == nil {
		return pricemap.New(pricemap.WithFixture(""))
	}
	return m.ClientFunc()
}

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc == nil {
		logger := zerolog.Nop()
		return &logger
	}
	return m.LoggerFunc()
}

// OutputFormat implements Application.
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc == nil {
		return "json"
	}
	return m.OutputFormatFunc()
}

// Version implements Application.
func (m *Mock) Version() string {
	if m.VersionString == "" {
		return "dev"
	}
	return m.VersionString
}

// Commit implements Application.
func (m *Mock) Commit() string { return "none" }

// Date implements Application.
func (m *Mock) Date() string { return "unknown" }

// BuiltBy implements Application.
func (m *Mock) BuiltBy() string { return "test" }
