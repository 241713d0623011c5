package mcp

import (
	"context"
	"time"

	"crm-metrics/internal/export"
	"crm-metrics/internal/metrics"
	"crm-metrics/internal/snapshot"
	"crm-metrics/internal/visuals"

	"github.com/samber/lo"
)

// SnapshotInfo describes the data a result was computed from.
type SnapshotInfo struct {
	ID         string    `json:"id"`
	RunID      string    `json:"runId,omitempty"`
	FetchedAt  time.Time `json:"fetchedAt"`
	Activities int       `json:"activities"`
	Companies  int       `json:"companies"`
	Agents     int       `json:"agents"`
}

func snapshotInfo(snap *snapshot.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		ID:         snap.ID,
		RunID:      snap.RunID,
		FetchedAt:  snap.FetchedAt,
		Activities: len(snap.Activities),
		Companies:  len(snap.Companies),
		Agents:     len(snap.Agents),
	}
}

// DimensionInfo names one grouping axis.
type DimensionInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// CatalogResult lists the accepted tool argument values.
type CatalogResult struct {
	Dimensions []DimensionInfo `json:"dimensions"`
	SortKeys   []string        `json:"sortKeys"`
	DateFields []string        `json:"dateFields"`
	Formats    []string        `json:"formats"`
	TimeZone   string          `json:"timeZone"`
}

// ReportResult is the run_report payload.
type ReportResult struct {
	Snapshot SnapshotInfo   `json:"snapshot"`
	Report   metrics.Report `json:"report"`
	// Charts are sent as separate Mermaid text blocks.
	Charts []string `json:"-"`
}

// ExportResult is the export_report payload.
type ExportResult struct {
	Path     string       `json:"path"`
	Format   string       `json:"format"`
	Rows     int          `json:"rows"`
	Snapshot SnapshotInfo `json:"snapshot"`
}

func (s *Server) handleListDimensions() CatalogResult {
	return CatalogResult{
		Dimensions: lo.Map(metrics.Dimensions, func(d metrics.Dimension, _ int) DimensionInfo {
			return DimensionInfo{Name: string(d), Title: d.Title()}
		}),
		SortKeys:   lo.Map(metrics.SortKeys, func(k metrics.SortKey, _ int) string { return string(k) }),
		DateFields: metrics.DateFields,
		Formats:    lo.Map(export.Formats, func(f export.Format, _ int) string { return string(f) }),
		TimeZone:   s.location().String(),
	}
}

func (s *Server) handleRunReport(ctx context.Context, args ReportArgs) (ReportResult, error) {
	opts, err := s.reportOptions(args)
	if err != nil {
		return ReportResult{}, err
	}

	var res ReportResult
	err = s.withSession(ctx, metrics.UnknownAgent, func(snap *snapshot.Snapshot, session *metrics.ReportSession) error {
		res.Snapshot = snapshotInfo(snap)
		res.Report = session.Report(opts)
		return nil
	})
	if err != nil {
		return ReportResult{}, err
	}

	if s.cfg.EnableMermaidCharts {
		res.Charts = []string{
			visuals.GenerateAmountChart(res.Report),
			visuals.GenerateConversionChart(res.Report),
			visuals.GenerateCustomerStatusPie(res.Report.Totals),
		}
	}
	return res, nil
}

func (s *Server) handleRefresh(ctx context.Context) (SnapshotInfo, error) {
	snap, err := s.provider.Refresh(ctx)
	if err != nil {
		return SnapshotInfo{}, err
	}
	return snapshotInfo(snap), nil
}

func (s *Server) handleExport(ctx context.Context, args ExportArgs) (ExportResult, error) {
	format, err := export.ParseFormat(args.Format)
	if err != nil {
		return ExportResult{}, err
	}
	opts, err := s.reportOptions(args.report())
	if err != nil {
		return ExportResult{}, err
	}

	var req export.Request
	var info SnapshotInfo
	err = s.withSession(ctx, metrics.UnknownAgentExport, func(snap *snapshot.Snapshot, session *metrics.ReportSession) error {
		info = snapshotInfo(snap)
		req = export.Request{
			Format:  format,
			Report:  session.Report(opts),
			Records: session.Filtered(opts),
			Now:     s.now().In(s.location()),
		}
		return nil
	})
	if err != nil {
		return ExportResult{}, err
	}

	path, err := export.WriteFile(s.cfg.ExportDir, req)
	if err != nil {
		return ExportResult{}, err
	}

	rows := len(req.Report.Rows)
	if format == export.FormatRawCSV {
		rows = len(req.Records)
	}
	return ExportResult{Path: path, Format: string(format), Rows: rows, Snapshot: info}, nil
}
