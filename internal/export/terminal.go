package export

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// RenderTable prints t as a bordered terminal table, footer as the totals line.
func RenderTable(w io.Writer, t Table) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: true, Right: true, Bottom: true})
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	table.AppendBulk(t.Rows)
	if len(t.Footer) > 0 {
		table.SetFooter(t.Footer)
	}
	table.Render()
}
