// Package calc provides the pen dose and BMR calculator commands.
package calc

import (
	"github.com/spf13/cobra"

	"github.com/pricemap-tw/pricemap/cmd/application"
	"github.com/pricemap-tw/pricemap/internal/cmd/output"
	"github.com/pricemap-tw/pricemap/internal/cmd/table"
	"github.com/pricemap-tw/pricemap/pkg/calculator"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
)

// NewCommand creates the calc command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calc",
		GroupID: "core",
		Short:   "Pen dose and BMR calculators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newDoseCommand(app))
	cmd.AddCommand(newBMRCommand(app))

	return cmd
}

func newDoseCommand(app application.Application) *cobra.Command {
	var (
		pen  string
		dose float64
	)

	cmd := &cobra.Command{
		Use:   "dose",
		Short: "Dial clicks for a dose and doses per pen",
		Long: `A pen holds four labelled doses of 60 clicks each. The residual left
after the labelled doses is assumed to hold about one more dose; that
figure is an estimate.`,
		Example: `  pricemap calc dose --pen 5 --dose 2.5    # 30 clicks, 8 uses
  pricemap calc dose --pen 15 --dose 7.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			strength, err := locations.ParseDose(pen)
			if err != nil {
				return errors.NewValidationError("pen", pen, errors.MsgInvalidParameter)
			}
			result, err := calculator.Dose(strength, dose)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.Format(app.OutputFormat()), result,
				func() table.Data { return table.DoseToTableData(result) })
		},
	}

	cmd.Flags().StringVar(&pen, "pen", "", "pen strength in mg (2.5, 5, 7.5, 10, 12.5, 15)")
	cmd.Flags().Float64Var(&dose, "dose", 0, "dose in mg")
	_ = cmd.MarkFlagRequired("pen")
	_ = cmd.MarkFlagRequired("dose")

	return cmd
}

func newBMRCommand(app application.Application) *cobra.Command {
	var (
		sex                 string
		age, height, weight float64
	)

	cmd := &cobra.Command{
		Use:     "bmr",
		Short:   "Basal metabolic rate (Mifflin-St Jeor) and BMI",
		Example: `  pricemap calc bmr --sex female --age 40 --height 160 --weight 68`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := calculator.ParseSex(sex)
			if err != nil {
				return err
			}
			result, err := calculator.BMR(s, age, height, weight)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.Format(app.OutputFormat()), result,
				func() table.Data { return table.BMRToTableData(result) })
		},
	}

	cmd.Flags().StringVar(&sex, "sex", "", "male or female")
	cmd.Flags().Float64Var(&age, "age", 0, "age in years")
	cmd.Flags().Float64Var(&height, "height", 0, "height in cm")
	cmd.Flags().Float64Var(&weight, "weight", 0, "weight in kg")
	for _, name := range []string{"sex", "age", "height", "weight"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
