// Package list provides the directory listing commands.
package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pricemap-tw/pricemap/cmd/application"
	"github.com/pricemap-tw/pricemap/internal/cmd/output"
	"github.com/pricemap-tw/pricemap/internal/cmd/table"
	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/reconciler"
)

// Listing is the machine-readable form of a listing.
type Listing struct {
	Query         reconciler.Query `json:"query" yaml:"query"`
	CityLabel     string           `json:"city_label" yaml:"city_label"`
	DistinctCount int              `json:"distinct_count" yaml:"distinct_count"`
	Total         int              `json:"total" yaml:"total"`
	Locations     any              `json:"locations" yaml:"locations"`
}

// NewCommand creates the list command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		city, category, keyword, sortKey, order string
		limit, offset                           int
	)

	cmd := &cobra.Command{
		Use:     "list",
		GroupID: "core",
		Short:   "List locations with filters and sorting",
		Long: `List loads the directory and prints the locations matching the filters.

Sorting by a dose price puts locations without that price last in either
direction. The banner counts distinct locations in the selected city,
independent of the category and keyword filters.`,
		Example: `  pricemap list                               # Whole country, cheapest first
  pricemap list --city 台北 --sort price5mg     # Taipei by 5 mg price
  pricemap list --category pharmacy --order desc
  pricemap list -q 大安 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := reconciler.DefaultQuery()
			if city != "" {
				q.City = city
			}
			q.Keyword = keyword

			var err error
			if q.Category, err = reconciler.ParseCategory(category); err != nil {
				return err
			}
			if q.SortKey, err = reconciler.ParseSortKey(sortKey); err != nil {
				return err
			}
			if q.Direction, err = reconciler.ParseDirection(order); err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}
			if _, err := client.Refresh(cmd.Context()); err != nil {
				return err
			}
			res, err := client.View(q)
			if err != nil {
				return err
			}

			page := res.Page(offset, limit)
			format := output.Format(app.OutputFormat())
			w := cmd.OutOrStdout()
			if format == output.FormatTable {
				fmt.Fprintln(w, table.ResultSummary(res))
			}
			return output.Write(w, format, Listing{
				Query:         res.Query,
				CityLabel:     reconciler.CityAlias(res.Query.City),
				DistinctCount: res.DistinctCount,
				Total:         res.Len(),
				Locations:     page,
			}, func() table.Data { return table.LocationsToTableData(page) })
		},
	}

	cmd.Flags().StringVar(&city, "city", reconciler.All, "exact city, or all")
	cmd.Flags().StringVar(&category, "category", reconciler.All, "clinic, hospital, pharmacy, medical_aesthetic, or all")
	cmd.Flags().StringVarP(&keyword, "search", "s", "", "keyword matched against district and name")
	cmd.Flags().StringVar(&sortKey, "sort", string(reconciler.SortMin), "sort key: min, price5mg, price10mg")
	cmd.Flags().StringVar(&order, "order", string(reconciler.Asc), "sort order: asc, desc")
	cmd.Flags().IntVar(&limit, "limit", constants.MaxPageSize, "maximum number of rows")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")

	return cmd
}

// NewCitiesCommand creates the cities command.
func NewCitiesCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "cities",
		GroupID: "core",
		Short:   "List the cities present in the directory, north to south",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			if _, err := client.Refresh(cmd.Context()); err != nil {
				return err
			}
			cities := client.Cities()
			return output.Write(cmd.OutOrStdout(), output.Format(app.OutputFormat()), cities,
				func() table.Data { return table.CitiesToTableData(cities) })
		},
	}
}
