package visuals

import (
	"fmt"
	"math"
	"strings"

	"crm-metrics/internal/metrics"
)

// maxBars keeps xychart-beta readable; Mermaid's layout overlaps labels beyond this.
const maxBars = 20

func quoteLabel(s string) string {
	return fmt.Sprintf("\"%s\"", strings.ReplaceAll(s, "\"", "'"))
}

// GenerateAmountChart creates a Mermaid bar chart of the amount per group (top 20 rows).
func GenerateAmountChart(rep metrics.Report) string {
	if len(rep.Rows) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0

	limit := min(len(rep.Rows), maxBars)
	for _, row := range rep.Rows[:limit] {
		labels = append(labels, quoteLabel(row.Label))
		values = append(values, fmt.Sprintf("%.2f", row.Amount))
		if row.Amount > maxVal {
			maxVal = row.Amount
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Sales Amount by %s\"\n", rep.Dimension.Title()))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Amount\" 0 --> %d\n", int(math.Max(1, math.Ceil(maxVal*1.1)))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateConversionChart creates a Mermaid bar chart of conversion rates with
// the overall rate as a reference line.
func GenerateConversionChart(rep metrics.Report) string {
	if len(rep.Rows) == 0 {
		return ""
	}

	var labels []string
	var values []string
	var overall []string

	total := fmt.Sprintf("%.1f", rep.Totals.ConversionRate)
	limit := min(len(rep.Rows), maxBars)
	for _, row := range rep.Rows[:limit] {
		labels = append(labels, quoteLabel(row.Label))
		values = append(values, fmt.Sprintf("%.1f", row.ConversionRate))
		overall = append(overall, total)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Conversion Rate by %s (%%)\"\n", rep.Dimension.Title()))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Conversion %\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(overall, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateCustomerStatusPie creates a Mermaid pie chart of the customer-status mix of the totals row.
func GenerateCustomerStatusPie(totals metrics.Row) string {
	sum := 0
	for _, c := range totals.CustomerStatusCounts {
		sum += c
	}
	if sum == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Customer Status Mix\n")
	for _, cs := range metrics.CustomerStatuses {
		if n := totals.CustomerStatusCounts[cs]; n > 0 {
			sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", cs.Title(), n))
		}
	}
	sb.WriteString("```")
	return sb.String()
}
