package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pricemap-tw/pricemap/internal/cmd/output"
)

// Execute runs the pricemap CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	if a.out != nil {
		rootCmd.SetOut(a.out)
	}
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "pricemap",
		Short:   "Mounjaro self-pay price directory for Taiwan",
		Version: a.version,
		Long: `pricemap browses the crowd-sourced directory of Mounjaro self-pay
prices at clinics, hospitals, pharmacies and aesthetic centers in Taiwan.

It lists and filters locations, shows price trends, submits corrections
and deletion requests to the moderation queue, runs the pen and BMR
calculators, and serves everything as a JSON API.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "submit",
		Title: "Submission Commands:",
	})

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", a.config.ConfigFile, "config file (default is $HOME/.pricemap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")

	// Backend flags
	rootCmd.PersistentFlags().StringVar(&a.config.Backend, "backend", a.config.Backend, "backend: postgrest, postgres or memory")
	rootCmd.PersistentFlags().StringVar(&a.config.BackendURL, "backend-url", a.config.BackendURL, "PostgREST base URL")
	rootCmd.PersistentFlags().StringVar(&a.config.DatabaseURL, "database-url", a.config.DatabaseURL, "Postgres connection string (backend=postgres)")
	rootCmd.PersistentFlags().StringVar(&a.config.Fixture, "fixture", a.config.Fixture, "YAML or JSON fixture file (backend=memory)")

	rootCmd.SetVersionTemplate("pricemap {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	// An explicit --config reloads the file; flags set on the command line
	// are re-applied on top.
	if flags.Changed("config") {
		loaded, err := loadConfig(a.config.ConfigFile)
		if err != nil {
			return err
		}
		for name, apply := range map[string]func(){
			"verbose":      func() { loaded.Verbose = a.config.Verbose },
			"quiet":        func() { loaded.Quiet = a.config.Quiet },
			"no-color":     func() { loaded.NoColor = a.config.NoColor },
			"format":       func() { loaded.Format = a.config.Format },
			"log-level":    func() { loaded.LogLevel = a.config.LogLevel },
			"backend":      func() { loaded.Backend = a.config.Backend },
			"backend-url":  func() { loaded.BackendURL = a.config.BackendURL },
			"database-url": func() { loaded.DatabaseURL = a.config.DatabaseURL },
			"fixture":      func() { loaded.Fixture = a.config.Fixture },
		} {
			if flags.Changed(name) {
				apply()
			}
		}
		*a.config = *loaded
	}

	// A fixture on the command line implies the memory backend
	if flags.Changed("fixture") && !flags.Changed("backend") {
		a.config.Backend = "memory"
	}

	format, err := output.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}
	a.config.Format = string(output.DetectFormat(string(format)))

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
