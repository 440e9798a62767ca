package model

/**
 * @file: model_dotation.go
 * @description: dotation report and row models
 */

type DotationReport struct {
	BaseModel
	ReportId      string  `gorm:"column:report_id;uniqueIndex" json:"reportId"`
	EnterpriseId  string  `gorm:"column:enterprise_id;index" json:"enterpriseId"`
	CreatedBy     string  `gorm:"column:created_by" json:"createdBy"`
	Title         string  `gorm:"column:title" json:"title"`
	Period        string  `gorm:"column:period" json:"period"`
	Status        string  `gorm:"column:status;default:pending" json:"status"`
	TotalRevenue  float64 `gorm:"column:total_revenue;default:0" json:"totalRevenue"`
	TotalSalaries float64 `gorm:"column:total_salaries;default:0" json:"totalSalaries"`
	TotalBonuses  float64 `gorm:"column:total_bonuses;default:0" json:"totalBonuses"`
	EmployeeCount int     `gorm:"column:employee_count;default:0" json:"employeeCount"`
	Notes         string  `gorm:"column:notes;type:text" json:"notes"`
}

func (DotationReport) TableName() string {
	return "t_dotation_report"
}

type DotationRow struct {
	BaseModel
	RowId        string  `gorm:"column:row_id;uniqueIndex" json:"rowId"`
	ReportId     string  `gorm:"column:report_id;index" json:"reportId"`
	EmployeeName string  `gorm:"column:employee_name" json:"employeeName"`
	Grade        string  `gorm:"column:grade" json:"grade"`
	Run          float64 `gorm:"column:run;default:0" json:"run"`
	Invoice      float64 `gorm:"column:invoice;default:0" json:"invoice"`
	Sale         float64 `gorm:"column:sale;default:0" json:"sale"`
	TotalRevenue float64 `gorm:"column:total_revenue;default:0" json:"totalRevenue"`
	Salary       float64 `gorm:"column:salary;default:0" json:"salary"`
	Bonus        float64 `gorm:"column:bonus;default:0" json:"bonus"`
}

func (DotationRow) TableName() string {
	return "t_dotation_row"
}

type AddReportReq struct {
	Title  string      `json:"title"`
	Period string      `json:"period"`
	Notes  string      `json:"notes"`
	Rows   []AddRowReq `json:"rows"`
}

type UpdateReportReq struct {
	Title  string `json:"title"`
	Period string `json:"period"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type AddRowReq struct {
	EmployeeName string  `json:"employeeName"`
	Grade        string  `json:"grade"`
	Run          float64 `json:"run"`
	Invoice      float64 `json:"invoice"`
	Sale         float64 `json:"sale"`
}

type BulkImportReq struct {
	ReportId string `json:"reportId"`
	Content  string `json:"content"`
}

type BulkImportResult struct {
	Accepted int           `json:"accepted"`
	Total    int           `json:"total"`
	Rows     []DotationRow `json:"rows"`
}

type ReportDetail struct {
	Report DotationReport `json:"report"`
	Rows   []DotationRow  `json:"rows"`
}
