package mcp

import (
	"encoding/json"
	"time"

	"crm-metrics/internal/metrics"
)

func (s *Server) location() *time.Location {
	if s.cfg.Location == nil {
		return time.UTC
	}
	return s.cfg.Location
}

func (s *Server) reportOptions(args ReportArgs) (metrics.ReportOptions, error) {
	return metrics.ReportQuery{
		Dimension:      args.Dimension,
		From:           args.From,
		To:             args.To,
		DateField:      args.DateField,
		Search:         args.Search,
		SortBy:         args.SortBy,
		ExcludeRemarks: args.ExcludeRemarks,
	}.Options(s.location())
}

func formatResult(data any) string {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return `{"error": "failed to encode result"}`
	}
	return string(out)
}
