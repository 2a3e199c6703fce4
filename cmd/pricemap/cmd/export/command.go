// Package export provides the fixture export command.
package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pricemap-tw/pricemap/cmd/application"
)

// NewCommand creates the export command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "export <path>",
		GroupID: "core",
		Short:   "Save the loaded directory as a fixture file",
		Long: `Export loads the directory and writes it to a YAML file, or JSON when
the path ends in .json. The file can be served offline with
--backend memory --fixture <path>.`,
		Example: `  pricemap export testdata/directory.yaml
  pricemap --fixture testdata/directory.yaml serve`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			snap, err := client.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.Save(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d locations to %s\n", len(snap.Locations), args[0])
			return nil
		},
	}
}
