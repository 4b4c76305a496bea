package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions configures the XLSX reader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadXLSX parses one worksheet of an XLSX file into a Sheet. The first
// row is the header.
func ReadXLSX(path string, opts XLSXOptions) (*Sheet, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	ws, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(ws.Rows) == 0 {
		return nil, eris.Errorf("xlsx: sheet %q has no header row", ws.Name)
	}

	sheet := &Sheet{Headers: trimAll(rowToStrings(ws.Rows[0]))}
	for _, row := range ws.Rows[1:] {
		sheet.Rows = append(sheet.Rows, fitRow(sheet.Headers, rowToStrings(row)))
	}
	return sheet, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
