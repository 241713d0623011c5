package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// NoArgs is the input of tools without parameters.
type NoArgs struct{}

// ReportArgs are the filters shared by run_report and export_report.
type ReportArgs struct {
	Dimension      string   `json:"dimension,omitempty" jsonschema:"Grouping axis: agent, manager, channel, customer_type, ticket_group or company. Default: agent."`
	From           string   `json:"from,omitempty" jsonschema:"Inclusive start date (YYYY-MM-DD), read in the report time zone."`
	To             string   `json:"to,omitempty" jsonschema:"Inclusive end date (YYYY-MM-DD), read in the report time zone."`
	DateField      string   `json:"date_field,omitempty" jsonschema:"Timestamp the date range applies to. Default: date_created."`
	Search         string   `json:"search,omitempty" jsonschema:"Case-insensitive term matched against company, agent, manager, ticket reference, remarks and status."`
	SortBy         string   `json:"sort_by,omitempty" jsonschema:"Ranking metric: amount, sales, converted, conversion, qty, atv or label. Default: amount."`
	ExcludeRemarks []string `json:"exclude_remarks,omitempty" jsonschema:"Remarks values (case-insensitive) whose activities are left out, e.g. ['PO Received']."`
}

// ExportArgs select the export format on top of the report filters.
type ExportArgs struct {
	Format         string   `json:"format,omitempty" jsonschema:"Export format: csv (ranked report), xlsx (report and activity sheets) or raw-csv (filtered activities). Default: csv."`
	Dimension      string   `json:"dimension,omitempty" jsonschema:"Grouping axis of the report. Default: agent."`
	From           string   `json:"from,omitempty" jsonschema:"Inclusive start date (YYYY-MM-DD)."`
	To             string   `json:"to,omitempty" jsonschema:"Inclusive end date (YYYY-MM-DD)."`
	DateField      string   `json:"date_field,omitempty" jsonschema:"Timestamp the date range applies to. Default: date_created."`
	Search         string   `json:"search,omitempty" jsonschema:"Case-insensitive search term."`
	SortBy         string   `json:"sort_by,omitempty" jsonschema:"Ranking metric. Default: amount."`
	ExcludeRemarks []string `json:"exclude_remarks,omitempty" jsonschema:"Remarks values whose activities are left out."`
}

func (a ExportArgs) report() ReportArgs {
	return ReportArgs{
		Dimension:      a.Dimension,
		From:           a.From,
		To:             a.To,
		DateField:      a.DateField,
		Search:         a.Search,
		SortBy:         a.SortBy,
		ExcludeRemarks: a.ExcludeRemarks,
	}
}

func (s *Server) registerTools(srv *sdk.Server) {
	sdk.AddTool(srv, &sdk.Tool{
		Name:        "list_dimensions",
		Description: "List the report dimensions, sort keys, date fields and export formats accepted by the other tools.",
	}, func(ctx context.Context, req *sdk.CallToolRequest, _ NoArgs) (*sdk.CallToolResult, any, error) {
		return textResult(s.handleListDimensions())
	})

	sdk.AddTool(srv, &sdk.Tool{
		Name: "run_report",
		Description: "Aggregate CRM activities into a ranked sales/ticket report along one dimension, with a grand-total row. \n\n" +
			"Rates (conversion, ATU, ATV) and average durations are computed by the engine. Totals re-derive rates from summed counts; " +
			"DO NOT average the per-row rates yourself. A '-' duration means no activity in the group carried both timestamps.",
	}, func(ctx context.Context, req *sdk.CallToolRequest, args ReportArgs) (*sdk.CallToolResult, any, error) {
		res, err := s.handleRunReport(ctx, args)
		if err != nil {
			return nil, nil, err
		}
		return textResult(res, res.Charts...)
	})

	sdk.AddTool(srv, &sdk.Tool{
		Name:        "refresh_data",
		Description: "Fetch a new snapshot of activities, companies and agents from the CRM API and make it the basis of later reports.",
	}, func(ctx context.Context, req *sdk.CallToolRequest, _ NoArgs) (*sdk.CallToolResult, any, error) {
		res, err := s.handleRefresh(ctx)
		if err != nil {
			return nil, nil, err
		}
		return textResult(res)
	})

	sdk.AddTool(srv, &sdk.Tool{
		Name:        "export_report",
		Description: "Write a report (csv, xlsx) or the filtered activity rows (raw-csv) to the export directory and return the file path.",
	}, func(ctx context.Context, req *sdk.CallToolRequest, args ExportArgs) (*sdk.CallToolResult, any, error) {
		res, err := s.handleExport(ctx, args)
		if err != nil {
			return nil, nil, err
		}
		return textResult(res)
	})
}

// textResult renders data as indented JSON text content, followed by any extra blocks.
func textResult(data any, extra ...string) (*sdk.CallToolResult, any, error) {
	content := []sdk.Content{&sdk.TextContent{Text: formatResult(data)}}
	for _, block := range extra {
		if block != "" {
			content = append(content, &sdk.TextContent{Text: block})
		}
	}
	return &sdk.CallToolResult{Content: content}, nil, nil
}
