package export

import (
	"io"
	"strings"

	"jatrack/internal/model"
)

const (
	csvBOM       = "\uFEFF"
	csvLineBreak = "\r\n"
)

// WriteCSV writes rows as RFC-4180-style CSV with a UTF-8 BOM and CRLF line
// endings, which keeps spreadsheet imports happy.
func WriteCSV(w io.Writer, rows []model.Application, cols []Column) error {
	var b strings.Builder
	b.WriteString(csvBOM)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = escapeCSV(c.Header)
	}
	b.WriteString(strings.Join(headers, ","))
	b.WriteString(csvLineBreak)

	cells := make([]string, len(cols))
	for _, row := range rows {
		for i, c := range cols {
			cells[i] = escapeCSV(c.Value(row))
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteString(csvLineBreak)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// escapeCSV quotes a cell when it contains quotes, commas or line breaks,
// doubling any embedded quotes.
func escapeCSV(s string) string {
	if !strings.ContainsAny(s, "\",\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
