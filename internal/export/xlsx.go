package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// WriteXLSX writes each table to its own worksheet, header row in bold and the
// footer (if any) appended after the data rows.
func WriteXLSX(w io.Writer, tables ...Table) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, t := range tables {
		sheet := sheetName(t.Name, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet, err)
		}

		if err := writeSheetRow(f, sheet, 1, t.Headers); err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(max(len(t.Headers), 1), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}

		rowNum := 2
		for _, row := range t.Rows {
			if err := writeSheetRow(f, sheet, rowNum, row); err != nil {
				return err
			}
			rowNum++
		}
		if len(t.Footer) > 0 {
			if err := writeSheetRow(f, sheet, rowNum, t.Footer); err != nil {
				return err
			}
			first, _ := excelize.CoordinatesToCellName(1, rowNum)
			end, _ := excelize.CoordinatesToCellName(max(len(t.Footer), 1), rowNum)
			if err := f.SetCellStyle(sheet, first, end, bold); err != nil {
				return fmt.Errorf("failed to style footer: %w", err)
			}
		}
		_ = f.SetColWidth(sheet, "B", "B", 30)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", row, sheet, err)
	}
	return nil
}

// sheetName trims a table name to Excel's limits; unnamed tables get "Sheet<n>".
func sheetName(name string, idx int) string {
	if name == "" {
		return fmt.Sprintf("Sheet%d", idx+1)
	}
	r := []rune(name)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}
