package commands

import (
	"fmt"
	"time"

	"crm-metrics/internal/export"
	"crm-metrics/internal/metrics"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	exportOpts   reportFlags
	exportFormat string
	exportDir    string
	openExport   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a report (csv, xlsx) or the filtered activities (raw-csv) to a file",
	Example: `  crm-metrics export --format xlsx --dimension manager --open
  crm-metrics export --format raw-csv --from 2024-01-01 --out ./reports`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		opts, err := exportOpts.options()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		snap, err := loadSnapshot(ctx, exportOpts.refresh)
		if err != nil {
			return err
		}

		session := metrics.NewReportSession(snap.Dataset(), metrics.NormalizeOptions{UnknownAgent: metrics.UnknownAgentExport})
		req := export.Request{
			Format:  format,
			Report:  session.Report(opts),
			Records: session.Filtered(opts),
			Now:     time.Now().In(cfg.Location),
		}

		dir := exportDir
		if dir == "" {
			dir = cfg.ExportDir
		}
		path, err := export.WriteFile(dir, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)

		if openExport {
			if err := browser.OpenFile(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Failed to open export")
			}
		}
		return nil
	},
}

func init() {
	exportOpts.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "export format: csv, xlsx, raw-csv")
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "output directory (default: <DATA_PATH>/exports)")
	exportCmd.Flags().BoolVar(&openExport, "open", false, "open the file with the default application")
}
