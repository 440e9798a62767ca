package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

/**
 * @file: excel.go
 * @description: dotation report spreadsheet rendering
 */

const sheetName = "Dotation"

// DotationExcel renders the report as an xlsx workbook with one sheet.
func DotationExcel(d Dotation) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err := f.SetCellValue(sheetName, "A1", d.Title); err != nil {
		return nil, err
	}
	_ = f.SetCellValue(sheetName, "A2", fmt.Sprintf("Period: %s", d.Period))
	_ = f.SetCellValue(sheetName, "C2", fmt.Sprintf("Status: %s", d.Status))

	headerRow := 4
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
	}

	for r, row := range d.Rows {
		values := []any{
			row.EmployeeName, row.Grade,
			row.Run, row.Invoice, row.Sale,
			row.TotalRevenue, row.Salary, row.Bonus,
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, headerRow+1+r)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	totalsRow := headerRow + 1 + len(d.Rows)
	_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalsRow), "Totals")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", totalsRow), d.TotalRevenue)
	_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", totalsRow), d.TotalSalaries)
	_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", totalsRow), d.TotalBonuses)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
