package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// utf8BOM lets spreadsheet tools detect the encoding of Cyrillic and Uzbek names.
const utf8BOM = "\ufeff"

// CSVOption tunes a CSVWriter.
type CSVOption func(*CSVWriter)

// WithoutBOM drops the UTF-8 byte order mark.
func WithoutBOM() CSVOption {
	return func(w *CSVWriter) { w.bom = false }
}

// WithDelimiter sets the field separator. Locales that use a decimal comma expect ';'.
func WithDelimiter(delimiter rune) CSVOption {
	return func(w *CSVWriter) { w.delimiter = delimiter }
}

// CSVWriter renders coverage sheets as CSV attachments.
type CSVWriter struct {
	bom       bool
	delimiter rune
}

// NewCSVWriter builds a comma separated writer that prefixes output with a UTF-8 BOM.
func NewCSVWriter(opts ...CSVOption) *CSVWriter {
	w := &CSVWriter{bom: true, delimiter: ','}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Render writes the column titles, the rows and the totals row.
func (w *CSVWriter) Render(sheet Sheet) ([]byte, error) {
	if err := sheet.validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if w.bom {
		buf.WriteString(utf8BOM)
	}
	writer := csv.NewWriter(buf)
	writer.Comma = w.delimiter
	if err := writer.Write(sheet.titles()); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(sheet.records()); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}
