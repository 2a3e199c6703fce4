// Package submit provides the report and deletion request commands.
// Both go to the moderation queue; nothing changes in the directory until
// a moderator approves.
package submit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pricemap-tw/pricemap/cmd/application"
	"github.com/pricemap-tw/pricemap/internal/cmd/output"
	"github.com/pricemap-tw/pricemap/internal/cmd/table"
	"github.com/pricemap-tw/pricemap/internal/server/filter"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/reports"
)

// NewReportCommand creates the report command.
func NewReportCommand(app application.Application) *cobra.Command {
	var (
		name, category, district, address, note string
		prices                                  map[string]string
	)

	cmd := &cobra.Command{
		Use:     "report <id>",
		GroupID: "submit",
		Short:   "Submit a correction for a location",
		Long: `Report starts from the location's current values, applies the flags
given, and sends the result to the moderation queue. A location has at
most one pending report: submitting again amends it. A blank note keeps
the note already recorded.`,
		Example: `  pricemap report 42 --price 5=3800
  pricemap report 42 --price 5=3800 --price 10=6800 --note "週末休診"`,
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
			target, err := client.Location(cmd.Context(), id)
			if err != nil {
				return err
			}

			draft := reports.DraftFromLocation(*target)
			flags := cmd.Flags()
			if flags.Changed("clinic") {
				draft.Name = name
			}
			if flags.Changed("type") {
				draft.Category = category
			}
			if flags.Changed("district") {
				draft.District = district
			}
			if flags.Changed("address") {
				draft.Address = address
			}
			draft.Note = note
			if err := applyPrices(&draft, prices); err != nil {
				return err
			}

			outcome, err := client.SubmitReport(cmd.Context(), id, draft)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.Format(app.OutputFormat()), outcome,
				func() table.Data { return table.OutcomeToTableData(outcome) })
		},
	}

	cmd.Flags().StringVar(&name, "clinic", "", "location name")
	cmd.Flags().StringVar(&category, "type", "", "clinic, hospital, pharmacy or medical_aesthetic")
	cmd.Flags().StringVar(&district, "district", "", "district")
	cmd.Flags().StringVar(&address, "address", "", "street address")
	cmd.Flags().StringVar(&note, "note", "", "note for moderators and visitors")
	cmd.Flags().StringToStringVar(&prices, "price", nil, "dose=price in NT$, e.g. 5=3800; an empty price clears the dose")

	return cmd
}

// applyPrices sets or clears the prices given as dose=price pairs.
func applyPrices(d *reports.Draft, prices map[string]string) error {
	if d.Prices == nil {
		d.Prices = make(map[locations.Dose]locations.Price, len(prices))
	}
	for k, v := range prices {
		dose, err := locations.ParseDose(k)
		if err != nil {
			return errors.NewValidationError("price", k, fmt.Sprintf("%s: %v", errors.MsgInvalidParameter, err))
		}
		p := locations.ParsePrice(v)
		if !p.Offered() {
			delete(d.Prices, dose)
			continue
		}
		d.Prices[dose] = p
	}
	return nil
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(app application.Application) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:     "delete <id>",
		GroupID: "submit",
		Short:   "Request removal of a location",
		Long: `Delete queues a deletion request with a reason. Only one request may
be pending per location; a second one is rejected.`,
		Example: `  pricemap delete 42 --reason "已歇業"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := filter.ParseID(args[0])
			if err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}
			req, err := client.RequestDeletion(cmd.Context(), id, reason)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.Format(app.OutputFormat()), req,
				func() table.Data { return table.DeletionToTableData(req) })
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "why the location should be removed")

	return cmd
}
