package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"crm-metrics/internal/metrics"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported formats.
var ErrUnknownFormat = errors.New("unknown export format")

// Format is an export file format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatRawCSV Format = "raw-csv"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatXLSX, FormatRawCSV}

// ParseFormat resolves a user-supplied format. Blank means csv.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatCSV, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext is the file extension of the format.
func (f Format) Ext() string {
	if f == FormatXLSX {
		return "xlsx"
	}
	return "csv"
}

// Request describes one export.
type Request struct {
	Format Format
	Report metrics.Report
	// Records are the filtered rows for raw exports and the xlsx detail sheet.
	Records []metrics.NormalizedRecord
	Now     time.Time
}

// Render produces the file name and content of an export.
func Render(req Request) (string, []byte, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	dim := string(req.Report.Dimension)

	switch req.Format {
	case FormatCSV:
		return Filename(dim+"_report", now, req.Format.Ext()), []byte(ReportTable(req.Report).CSV()), nil
	case FormatRawCSV:
		return Filename(dim+"_activities", now, req.Format.Ext()), []byte(RawTable(req.Records).CSV()), nil
	case FormatXLSX:
		var buf bytes.Buffer
		if err := WriteXLSX(&buf, ReportTable(req.Report), RawTable(req.Records)); err != nil {
			return "", nil, err
		}
		return Filename(dim+"_report", now, req.Format.Ext()), buf.Bytes(), nil
	}
	return "", nil, fmt.Errorf("%w: %q", ErrUnknownFormat, req.Format)
}

// WriteFile renders req into dir and returns the written path.
// The file is written to a temp name and renamed into place.
func WriteFile(dir string, req Request) (string, error) {
	name, content, err := Render(req)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize export: %w", err)
	}

	log.Info().Str("path", path).Str("format", string(req.Format)).Int("bytes", len(content)).Msg("Export written")
	return path, nil
}
