// Package fetcher reads lead spreadsheets (CSV, XLSX) into the header list
// and row dictionaries the ingest core consumes. It is deliberately not a
// general spreadsheet parser: the first row is the header, variable-width
// rows are fitted to it, and that is all.
package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Sheet is a parsed spreadsheet: the literal header strings plus one
// dictionary per data row, keyed by those headers.
type Sheet struct {
	Headers []string
	Rows    []map[string]string
}

// CSVOptions configures the CSV reader.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
}

// ReadCSV parses a CSV stream into a Sheet. The first record is the
// header; short rows read as empty cells and extra cells are dropped.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) (*Sheet, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	var sheet Sheet
	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "csv: context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}

		if sheet.Headers == nil {
			sheet.Headers = trimAll(record)
			continue
		}
		sheet.Rows = append(sheet.Rows, fitRow(sheet.Headers, record))
	}

	if sheet.Headers == nil {
		return nil, eris.New("csv: file has no header row")
	}
	return &sheet, nil
}

func trimAll(record []string) []string {
	out := make([]string, len(record))
	for i, f := range record {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

// fitRow keys a record by the header strings, padding short rows with
// empty cells and dropping cells beyond the header width.
func fitRow(headers, record []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(record) {
			row[h] = strings.TrimSpace(record[i])
		} else {
			row[h] = ""
		}
	}
	return row
}
