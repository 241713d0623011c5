package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ToCSV serializes a header and rows. Every field is wrapped in double quotes
// with embedded quotes doubled; rows are separated by "\n" and the output ends
// with a newline.
func ToCSV(headers []string, rows [][]string) string {
	var sb strings.Builder
	writeCSVLine(&sb, headers)
	for _, row := range rows {
		writeCSVLine(&sb, row)
	}
	return sb.String()
}

func writeCSVLine(sb *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(f, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// Filename builds "<report_name>_<YYYYMMDD_HHMMSS>.<ext>" from a free-form name.
func Filename(reportName string, ts time.Time, ext string) string {
	name := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(reportName), "_"), "_")
	if name == "" {
		name = "report"
	}
	return fmt.Sprintf("%s_%s.%s", name, ts.Format("20060102_150405"), strings.TrimPrefix(ext, "."))
}
