package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"crm-metrics/internal/metrics"
)

func sampleReport() (metrics.Report, []metrics.NormalizedRecord) {
	ds := metrics.Dataset{
		Activities: []metrics.ActivityRecord{
			{ReferenceID: "A1", AccountReferenceNumber: "C1", Traffic: "Sales", Status: "Converted into Sales",
				CustomerStatus: "New Client", SOAmount: "1000", QtySold: "2", DateCreated: "2024-01-05T09:00:00",
				TicketReceived: "2024-01-05T09:00:00", TicketEndorsed: "2024-01-05T09:30:00"},
			{ReferenceID: "A1", AccountReferenceNumber: "C1", Traffic: "Sales", Status: "Open", SOAmount: "500"},
			{ReferenceID: "A2", Traffic: "Non-Sales"},
		},
		Companies: []metrics.CompanyRecord{{AccountReferenceNumber: "C1", CompanyName: `Acme, "Inc."`}},
		Agents:    []metrics.AgentRecord{{ReferenceID: "A1", Firstname: "Ana", Lastname: "Reyes"}},
	}
	norm := metrics.NormalizeOptions{UnknownAgent: metrics.UnknownAgentExport}
	session := metrics.NewReportSession(ds, norm)
	opts := metrics.ReportOptions{Dimension: metrics.DimensionAgent}
	return session.Report(opts), session.Filtered(opts)
}

func TestReportTable(t *testing.T) {
	rep, _ := sampleReport()
	table := ReportTable(rep)

	if table.Headers[1] != "Agent" {
		t.Errorf("Expected dimension column 'Agent', got %q", table.Headers[1])
	}
	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}
	for _, row := range append(table.Rows, table.Footer) {
		if len(row) != len(table.Headers) {
			t.Errorf("Row width %d does not match header width %d", len(row), len(table.Headers))
		}
	}

	top := table.Rows[0]
	if top[0] != "1" || top[1] != "Ana Reyes" {
		t.Errorf("Unexpected top row identity: %v", top[:2])
	}
	if top[5] != "50.00%" {
		t.Errorf("Expected conversion 50.00%%, got %s", top[5])
	}

	col := func(name string) int {
		for i, h := range table.Headers {
			if h == name {
				return i
			}
		}
		t.Fatalf("Missing column %q", name)
		return -1
	}
	if got := top[col("Amount")]; got != "1500.00" {
		t.Errorf("Expected amount 1500.00, got %s", got)
	}
	if got := top[col("New Client Amount")]; got != "1000.00" {
		t.Errorf("Expected converted new-client amount 1000.00, got %s", got)
	}
	if got := top[col("Avg Ack (min)")]; got != "30" {
		t.Errorf("Expected avg ack 30, got %s", got)
	}
	if got := table.Rows[1][col("Avg Ack (min)")]; got != metrics.NoData {
		t.Errorf("Expected no-data ack for second row, got %s", got)
	}
	if table.Rows[1][1] != metrics.UnknownAgentExport {
		t.Errorf("Expected export sentinel label, got %q", table.Rows[1][1])
	}

	if table.Footer[0] != "" || table.Footer[1] != metrics.TotalLabel {
		t.Errorf("Unexpected footer identity: %v", table.Footer[:2])
	}
}

func TestRawTable(t *testing.T) {
	_, records := sampleReport()
	table := RawTable(records)

	if len(table.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.Rows))
	}
	first := table.Rows[0]
	if first[1] != `Acme, "Inc."` {
		t.Errorf("Expected company name, got %q", first[1])
	}
	if first[12] != "1000.00" {
		t.Errorf("Expected SO amount 1000.00, got %q", first[12])
	}
	if first[18] != "30 minutes" {
		t.Errorf("Expected ack time '30 minutes', got %q", first[18])
	}
	if table.Rows[2][1] != metrics.UnknownCompany {
		t.Errorf("Expected unknown company sentinel, got %q", table.Rows[2][1])
	}

	parsed, err := csv.NewReader(strings.NewReader(table.CSV())).ReadAll()
	if err != nil {
		t.Fatalf("Raw CSV does not parse: %v", err)
	}
	if parsed[1][1] != `Acme, "Inc."` {
		t.Errorf("Round-trip mismatch: %q", parsed[1][1])
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatCSV {
		t.Errorf("Expected default csv, got %q (%v)", f, err)
	}
	if f, err := ParseFormat("XLSX"); err != nil || f != FormatXLSX {
		t.Errorf("Expected xlsx, got %q (%v)", f, err)
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestWriteFile_CSV(t *testing.T) {
	rep, records := sampleReport()
	dir := t.TempDir()
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	path, err := WriteFile(dir, Request{Format: FormatCSV, Report: rep, Records: records, Now: now})
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if filepath.Base(path) != "agent_report_20240201_120000.csv" {
		t.Errorf("Unexpected file name %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("Export does not parse: %v", err)
	}
	// header + 2 groups + totals
	if len(rows) != 4 {
		t.Errorf("Expected 4 CSV rows, got %d", len(rows))
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected temp file to be renamed away")
	}
}

func TestWriteFile_XLSX(t *testing.T) {
	rep, records := sampleReport()
	dir := t.TempDir()

	path, err := WriteFile(dir, Request{Format: FormatXLSX, Report: rep, Records: records})
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Agent Report" || sheets[1] != "Activities" {
		t.Fatalf("Unexpected sheets: %v", sheets)
	}
	v, err := f.GetCellValue("Agent Report", "B2")
	if err != nil || v != "Ana Reyes" {
		t.Errorf("Expected B2 'Ana Reyes', got %q (%v)", v, err)
	}
	v, _ = f.GetCellValue("Agent Report", "B4")
	if v != metrics.TotalLabel {
		t.Errorf("Expected totals row label in B4, got %q", v)
	}
}

func TestRenderTable(t *testing.T) {
	rep, _ := sampleReport()
	var buf bytes.Buffer
	RenderTable(&buf, ReportTable(rep))

	out := buf.String()
	for _, want := range []string{"Ana Reyes", "1500.00", "Total", "50.00%"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected rendered table to contain %q", want)
		}
	}
}
