package export

/**
 * @file: export.go
 * @description: dotation report document rendering
 */

// Dotation is the render-ready projection of a dotation report.
type Dotation struct {
	Title         string
	Period        string
	Status        string
	TotalRevenue  float64
	TotalSalaries float64
	TotalBonuses  float64
	EmployeeCount int
	Rows          []DotationRow
}

type DotationRow struct {
	EmployeeName string
	Grade        string
	Run          float64
	Invoice      float64
	Sale         float64
	TotalRevenue float64
	Salary       float64
	Bonus        float64
}

var columns = []string{"Employee", "Grade", "Run", "Invoice", "Sale", "Total", "Salary", "Bonus"}
