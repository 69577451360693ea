// Package export writes tabular list views to spreadsheet files.
package export

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}

// Column maps one record to one cell.
type Column[T any] struct {
	Header string
	Value  func(T) any
}

// TableOf renders records into a Table using columns in order.
func TableOf[T any](sheet string, columns []Column[T], records []T) Table {
	t := Table{Sheet: sheet, Headers: make([]string, len(columns))}
	for i, c := range columns {
		t.Headers[i] = c.Header
	}
	t.Rows = make([][]any, 0, len(records))
	for _, r := range records {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = c.Value(r)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func build(t Table) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := t.Sheet
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, errors.Wrap(err, "rename sheet")
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "header style")
	}
	for col, h := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, errors.Wrapf(err, "header %s", cell)
		}
		if err := f.SetCellStyle(sheet, cell, cell, bold); err != nil {
			return nil, errors.Wrapf(err, "style %s", cell)
		}
	}
	for r, row := range t.Rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, errors.Wrapf(err, "cell %s", cell)
			}
		}
	}
	if len(t.Headers) > 0 {
		last, _ := excelize.ColumnNumberToName(len(t.Headers))
		if err := f.SetColWidth(sheet, "A", last, 22); err != nil {
			return nil, errors.Wrap(err, "column width")
		}
	}
	return f, nil
}

func WriteXLSX(w io.Writer, t Table) error {
	f, err := build(t)
	if err != nil {
		return err
	}
	defer f.Close()
	return errors.Wrap(f.Write(w), "write xlsx")
}

func SaveXLSX(path string, t Table) error {
	f, err := build(t)
	if err != nil {
		return err
	}
	defer f.Close()
	return errors.Wrapf(f.SaveAs(path), "save %s", path)
}
