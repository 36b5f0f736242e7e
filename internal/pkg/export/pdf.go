package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/jung-kurt/gofpdf/v2"
)

const ContentTypePDF = "application/pdf"

// column widths in mm, A4 landscape leaves 277mm between margins
var pdfWidths = []float64{20, 34, 44, 17, 17, 15, 16, 15, 28, 32, 39}

func WritePDF(w io.Writer, rep report.ExportReport) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Attendance Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s to %s", rep.Period.StartDate, rep.Period.EndDate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total records: %d", rep.TotalRecords), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range Headers {
			pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(0, 0, 0)
	}
	header()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, row := range rep.AttendanceData {
		if pdf.GetY() > 190 {
			pdf.AddPage()
			header()
		}
		for i, v := range Cells(row) {
			pdf.CellFormat(pdfWidths[i], 6, fit(pdf, tr(v), pdfWidths[i]-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// fit truncates s so it renders within width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
