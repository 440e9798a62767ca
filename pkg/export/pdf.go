package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

/**
 * @file: pdf.go
 * @description: dotation report PDF rendering
 */

var pdfColWidths = []float64{50, 22, 22, 22, 22, 24, 24, 24}

// DotationPDF renders the report as a landscape A4 PDF.
func DotationPDF(d Dotation) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, d.Title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s    Status: %s    Employees: %d",
		d.Period, d.Status, d.EmployeeCount), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range columns {
		pdf.CellFormat(pdfColWidths[i], 8, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range d.Rows {
		cells := []string{
			row.EmployeeName,
			row.Grade,
			money(row.Run),
			money(row.Invoice),
			money(row.Sale),
			money(row.TotalRevenue),
			money(row.Salary),
			money(row.Bonus),
		}
		for i, cell := range cells {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(pdfColWidths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(pdfColWidths[0]+pdfColWidths[1]+pdfColWidths[2]+pdfColWidths[3]+pdfColWidths[4],
		8, "Totals", "1", 0, "L", false, 0, "")
	pdf.CellFormat(pdfColWidths[5], 8, money(d.TotalRevenue), "1", 0, "R", false, 0, "")
	pdf.CellFormat(pdfColWidths[6], 8, money(d.TotalSalaries), "1", 0, "R", false, 0, "")
	pdf.CellFormat(pdfColWidths[7], 8, money(d.TotalBonuses), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
