// Package show provides the location detail command.
package show

import (
	"github.com/spf13/cobra"

	"github.com/pricemap-tw/pricemap/cmd/application"
	"github.com/pricemap-tw/pricemap/internal/cmd/output"
	"github.com/pricemap-tw/pricemap/internal/cmd/table"
	"github.com/pricemap-tw/pricemap/internal/server/filter"
)

// NewCommand creates the show command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		GroupID: "core",
		Short:   "Show a location with its notes and price trends",
		Long: `Show reads one location, its community notes and its recent price
history from the backend, and summarizes the 5 mg and 10 mg trends.`,
		Example: `  pricemap show 42
  pricemap show 42 -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := filter.ParseID(args[0])
			if err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}
			detail, err := client.Detail(cmd.Context(), id)
			if err != nil {
				return err
			}

			return output.Write(cmd.OutOrStdout(), output.Format(app.OutputFormat()), detail,
				func() table.Data { return table.DetailToTableData(detail) })
		},
	}
}
