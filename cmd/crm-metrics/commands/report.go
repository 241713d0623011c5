package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"crm-metrics/internal/export"
	"crm-metrics/internal/metrics"
	"crm-metrics/internal/snapshot"
	"crm-metrics/internal/visuals"

	"github.com/spf13/cobra"
)

// reportFlags are shared by report and export.
type reportFlags struct {
	dimension      string
	from           string
	to             string
	dateField      string
	search         string
	sortBy         string
	excludeRemarks []string
	refresh        bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dimension, "dimension", "d", "agent", "grouping axis: agent, manager, channel, customer_type, ticket_group, company")
	cmd.Flags().StringVar(&f.from, "from", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "inclusive end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.dateField, "date-field", metrics.DefaultDateField, "timestamp the date range applies to")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "case-insensitive search term")
	cmd.Flags().StringVar(&f.sortBy, "sort", "amount", "ranking metric: amount, sales, converted, conversion, qty, atv, label")
	cmd.Flags().StringSliceVar(&f.excludeRemarks, "exclude-remarks", nil, "remarks values to leave out (repeatable)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "fetch a new snapshot before reporting")
}

func (f *reportFlags) options() (metrics.ReportOptions, error) {
	return metrics.ReportQuery{
		Dimension:      f.dimension,
		From:           f.from,
		To:             f.to,
		DateField:      f.dateField,
		Search:         f.search,
		SortBy:         f.sortBy,
		ExcludeRemarks: f.excludeRemarks,
	}.Options(cfg.Location)
}

// loadSnapshot hydrates the configured snapshot, or refreshes it when forced.
func loadSnapshot(ctx context.Context, forceRefresh bool) (*snapshot.Snapshot, error) {
	provider, cleanup, err := newProvider(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if forceRefresh {
		return provider.Refresh(ctx)
	}
	return provider.Hydrate(ctx)
}

var (
	reportOpts reportFlags
	withChart  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a ranked report with a totals row",
	Example: `  crm-metrics report --dimension agent --from 2024-01-01 --to 2024-01-31
  crm-metrics report -d manager --sort conversion --exclude-remarks "PO Received"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := reportOpts.options()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		snap, err := loadSnapshot(ctx, reportOpts.refresh)
		if err != nil {
			return err
		}

		rep := metrics.BuildReport(snap.Dataset(), opts, metrics.NormalizeOptions{})
		printReport(cmd.OutOrStdout(), snap, rep, withChart)
		return nil
	},
}

func printReport(w io.Writer, snap *snapshot.Snapshot, rep metrics.Report, chart bool) {
	fmt.Fprintf(w, "%s report: %d groups, %d activities (snapshot %s fetched %s)\n",
		rep.Dimension.Title(), len(rep.Rows), rep.RecordCount, snap.ID, snap.FetchedAt.In(cfg.Location).Format("2006-01-02 15:04 MST"))
	if r := rep.Options.Range; r != nil {
		fmt.Fprintf(w, "Date range on %s: %s\n", rep.Options.DateField, describeRange(r))
	}
	export.RenderTable(w, export.ReportTable(rep))

	if chart {
		for _, block := range []string{
			visuals.GenerateAmountChart(rep),
			visuals.GenerateConversionChart(rep),
			visuals.GenerateCustomerStatusPie(rep.Totals),
		} {
			if block != "" {
				fmt.Fprintf(w, "\n%s\n", block)
			}
		}
	}
}

func describeRange(r *metrics.DateRange) string {
	from, to := "open", "open"
	if r.From != nil {
		from = r.From.Format(time.DateOnly)
	}
	if r.To != nil {
		to = r.To.Format(time.DateOnly)
	}
	return from + " .. " + to
}

func init() {
	reportOpts.register(reportCmd)
	reportCmd.Flags().BoolVar(&withChart, "chart", false, "append Mermaid charts")
}
