package app

import (
	"github.com/spf13/cobra"

	"github.com/pricemap-tw/pricemap/cmd/pricemap/cmd/calc"
	"github.com/pricemap-tw/pricemap/cmd/pricemap/cmd/export"
	"github.com/pricemap-tw/pricemap/cmd/pricemap/cmd/list"
	"github.com/pricemap-tw/pricemap/cmd/pricemap/cmd/serve"
	"github.com/pricemap-tw/pricemap/cmd/pricemap/cmd/show"
	"github.com/pricemap-tw/pricemap/cmd/pricemap/cmd/submit"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(list.NewCitiesCommand(a))
	rootCmd.AddCommand(show.NewCommand(a))
	rootCmd.AddCommand(calc.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))

	// Submission commands
	rootCmd.AddCommand(submit.NewReportCommand(a))
	rootCmd.AddCommand(submit.NewDeleteCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("pricemap %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
