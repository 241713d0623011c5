package export

import (
	"strconv"

	"github.com/shopspring/decimal"

	"crm-metrics/internal/metrics"
)

// Table is a rectangular, pre-formatted view of report data shared by every
// output format.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
	// Footer is the totals row, when the table has one.
	Footer []string
}

// CSV serializes the table, footer included, with ToCSV.
func (t Table) CSV() string {
	rows := t.Rows
	if len(t.Footer) > 0 {
		rows = append(rows[:len(rows):len(rows)], t.Footer)
	}
	return ToCSV(t.Headers, rows)
}

// FormatAmount renders a currency amount with two fixed decimals.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatQuantity renders a quantity without trailing zeros.
func FormatQuantity(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// ReportTable lays out a ranked report with one row per group and the totals row as footer.
func ReportTable(rep metrics.Report) Table {
	headers := []string{"Rank", rep.Dimension.Title(), "Sales", "Non-Sales", "Converted", "Conversion Rate"}
	for _, cs := range metrics.CustomerStatuses {
		headers = append(headers, cs.Title())
	}
	for _, cs := range metrics.CustomerStatuses {
		headers = append(headers, cs.Title()+" Amount")
	}
	headers = append(headers,
		"Amount",
		"Qty Sold",
		"ATU",
		"ATV",
		"Avg Ack (min)",
		"Avg Handling (min)",
		"Avg Non-Quotation (min)",
	)

	rows := make([][]string, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		rows = append(rows, reportRow(strconv.Itoa(r.Rank), r))
	}

	return Table{
		Name:    rep.Dimension.Title() + " Report",
		Headers: headers,
		Rows:    rows,
		Footer:  reportRow("", rep.Totals),
	}
}

func reportRow(rank string, r metrics.Row) []string {
	row := []string{
		rank,
		r.Label,
		strconv.Itoa(r.SalesCount),
		strconv.Itoa(r.NonSalesCount),
		strconv.Itoa(r.ConvertedCount),
		metrics.FormatPercent(r.ConversionRate),
	}
	for _, cs := range metrics.CustomerStatuses {
		row = append(row, strconv.Itoa(r.CustomerStatusCounts[cs]))
	}
	for _, cs := range metrics.CustomerStatuses {
		row = append(row, FormatAmount(r.ConvertedAmounts[cs]))
	}
	return append(row,
		FormatAmount(r.Amount),
		FormatQuantity(r.QtySold),
		FormatAmount(r.AvgTransactionUnit),
		FormatAmount(r.AvgTransactionValue),
		r.AvgAckMinutes.String(),
		r.AvgHandlingMinutes.String(),
		r.AvgNonQuotationMinutes.String(),
	)
}

var rawHeaders = []string{
	"Ticket Reference",
	"Company",
	"Agent",
	"Manager",
	"Traffic",
	"Status",
	"Customer Status",
	"Customer Type",
	"Channel",
	"Source",
	"Wrap Up",
	"Remarks",
	"SO Amount",
	"Qty Sold",
	"Date Created",
	"Date Updated",
	"Ticket Received",
	"Ticket Endorsed",
	"Ack Time",
	"Handling Time",
}

// RawTable lays out filtered records one per row, in input order.
func RawTable(records []metrics.NormalizedRecord) Table {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.TicketReferenceNumber,
			r.CompanyName,
			r.AgentName,
			r.ManagerName,
			r.Traffic,
			r.Status,
			r.CustomerStatus,
			r.CustomerType,
			r.Channel,
			r.Source,
			r.WrapUp,
			r.Remarks,
			FormatAmount(metrics.ParseNumber(r.SOAmount)),
			FormatQuantity(metrics.ParseNumber(r.QtySold)),
			r.DateCreated,
			r.DateUpdated,
			r.TicketReceived,
			r.TicketEndorsed,
			metrics.HumanizeDuration(r.TicketReceived, r.TicketEndorsed),
			metrics.HumanizeDuration(r.TicketReceived, r.DateUpdated),
		})
	}
	return Table{Name: "Activities", Headers: rawHeaders, Rows: rows}
}
