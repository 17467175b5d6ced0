package export

import (
	"bytes"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"jatrack/internal/model"
)

// BuildPDF renders rows as an A4 landscape table: title, generation date,
// a repeated header row, and a page-number footer.
func BuildPDF(rows []model.Application, cols []Column, title string, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 14)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 6, fmtPage(pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(20, 20, 20)
		for _, c := range cols {
			pdf.CellFormat(c.Width, 7, c.Header, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, title)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated: "+now.Format("2006-01-02"))
	pdf.Ln(8)

	drawHeader()
	for _, row := range rows {
		// Keep the header attached to its rows across page breaks.
		if pdf.GetY() > 180 {
			pdf.AddPage()
			drawHeader()
		}
		for _, c := range cols {
			pdf.CellFormat(c.Width, 6, c.Value(row), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fmtPage(n int) string {
	return "Page " + strconv.Itoa(n)
}
