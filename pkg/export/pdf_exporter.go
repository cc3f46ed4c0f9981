package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfRowHeight    = 7.0
	pdfHeaderHeight = 8.0
	// Tables wider than this switch to landscape.
	portraitMaxColumns = 5
)

// PDFExporter renders coverage sheets into a paginated table.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title. The header row repeats on
// every page and the totals row is printed in bold.
func (e *PDFExporter) Render(sheet Sheet, title string) ([]byte, error) {
	if err := sheet.validate(); err != nil {
		return nil, err
	}
	orientation := "P"
	if len(sheet.Columns) > portraitMaxColumns {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(false, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(sheet.Columns))

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		for _, t := range sheet.titles() {
			pdf.CellFormat(colWidth, pdfHeaderHeight, tr(t), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}

	pdf.AddPage()
	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}
	header()

	records := sheet.records()
	for i, record := range records {
		if pdf.GetY()+pdfRowHeight > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		if len(sheet.Totals) > 0 && i == len(records)-1 {
			pdf.SetFont("Arial", "B", 9)
		}
		for j, value := range record {
			align := "L"
			if sheet.Columns[j].Numeric {
				align = "R"
			}
			pdf.CellFormat(colWidth, pdfRowHeight, tr(value), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
