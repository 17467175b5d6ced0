package export

import (
	"strconv"
	"strings"

	"jatrack/internal/model"
)

// Column pairs a header with an accessor; the formatters own layout, callers
// own which rows and columns to include.
type Column struct {
	Header string
	Value  func(model.Application) string
	// Width is the PDF cell width in mm; ignored by the CSV writer.
	Width float64
}

// Columns is the standard export column set.
func Columns() []Column {
	return []Column{
		{Header: "ID", Width: 16, Value: func(a model.Application) string {
			if a.ID == 0 {
				return ""
			}
			return strconv.FormatInt(a.ID, 10)
		}},
		{Header: "Company", Width: 40, Value: func(a model.Application) string { return a.Company }},
		{Header: "Role Title", Width: 40, Value: func(a model.Application) string { return a.RoleTitle }},
		{Header: "Status", Width: 26, Value: func(a model.Application) string { return string(a.Status) }},
		{Header: "Applied Date", Width: 26, Value: func(a model.Application) string { return a.AppliedDate }},
		{Header: "Contact Email", Width: 40, Value: func(a model.Application) string { return a.ContactEmail }},
		{Header: "Job URL", Width: 50, Value: func(a model.Application) string { return a.JobURL }},
		{Header: "Notes", Width: 38, Value: func(a model.Application) string {
			// Multi-line notes flatten to one line in tabular exports.
			return strings.ReplaceAll(strings.ReplaceAll(a.Notes, "\r\n", " "), "\n", " ")
		}},
	}
}
