package repo

import (
	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/pkg/database"
	"gorm.io/gorm"
)

type IDotationRepository interface {
	CreateReport(report *model.DotationReport, rows []model.DotationRow) error
	GetReport(reportId string) (*model.DotationReport, error)
	GetRows(reportId string) ([]model.DotationRow, error)
	ListReports(enterpriseId, status, period string, offset, pageSize int) ([]model.DotationReport, int64, error)
	UpdateReport(reportId string, fields map[string]any) error
	DeleteReport(reportId string) error
	AddRows(reportId string, rows []model.DotationRow) error
	UpdateRow(rowId string, row *model.DotationRow) error
	DeleteRow(reportId, rowId string) error
}

type DotationRepo struct {
	db          database.IDatabase
	reportModel *model.DotationReport
	rowModel    *model.DotationRow
}

func NewDotationRepo(db database.IDatabase) IDotationRepository {
	return &DotationRepo{
		db:          db,
		reportModel: &model.DotationReport{},
		rowModel:    &model.DotationRow{},
	}
}

// CreateReport inserts a report with its initial rows and the derived
// totals in one transaction.
func (dr *DotationRepo) CreateReport(report *model.DotationReport, rows []model.DotationRow) error {
	return dr.db.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return dr.recomputeTotals(tx, report.ReportId)
	})
}

func (dr *DotationRepo) GetReport(reportId string) (*model.DotationReport, error) {
	report := &model.DotationReport{}
	err := dr.db.Database().Table(dr.reportModel.TableName()).
		Where("report_id = ?", reportId).First(report).Error
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (dr *DotationRepo) GetRows(reportId string) ([]model.DotationRow, error) {
	var rows []model.DotationRow
	err := dr.db.Database().Table(dr.rowModel.TableName()).
		Where("report_id = ?", reportId).
		Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (dr *DotationRepo) ListReports(enterpriseId, status, period string, offset, pageSize int) ([]model.DotationReport, int64, error) {
	var (
		reports []model.DotationReport
		total   int64
	)

	query := dr.db.Database().Table(dr.reportModel.TableName())
	if enterpriseId != "" {
		query = query.Where("enterprise_id = ?", enterpriseId)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if period != "" {
		query = query.Where("period LIKE ?", period+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&reports).Error
	return reports, total, err
}

// UpdateReport edits header fields only, totals stay derived. The
// caller passes the fields explicitly so the partial-update semantics
// live in one place.
func (dr *DotationRepo) UpdateReport(reportId string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return dr.db.Database().Table(dr.reportModel.TableName()).
		Where("report_id = ?", reportId).
		Updates(fields).Error
}

// DeleteReport removes the report and cascades to all its rows.
func (dr *DotationRepo) DeleteReport(reportId string) error {
	return dr.db.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(dr.rowModel.TableName()).
			Where("report_id = ?", reportId).
			Delete(&model.DotationRow{}).Error; err != nil {
			return err
		}
		return tx.Table(dr.reportModel.TableName()).
			Where("report_id = ?", reportId).
			Delete(&model.DotationReport{}).Error
	})
}

func (dr *DotationRepo) AddRows(reportId string, rows []model.DotationRow) error {
	return dr.db.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return dr.recomputeTotals(tx, reportId)
	})
}

// UpdateRow replaces all row fields. The columns are written
// explicitly so zero-valued amounts persist alongside the totals
// derived from them.
func (dr *DotationRepo) UpdateRow(rowId string, row *model.DotationRow) error {
	return dr.db.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(dr.rowModel.TableName()).
			Where("row_id = ?", rowId).
			Updates(map[string]any{
				"employee_name": row.EmployeeName,
				"grade":         row.Grade,
				"run":           row.Run,
				"invoice":       row.Invoice,
				"sale":          row.Sale,
				"total_revenue": row.TotalRevenue,
				"salary":        row.Salary,
				"bonus":         row.Bonus,
			}).Error; err != nil {
			return err
		}
		return dr.recomputeTotals(tx, row.ReportId)
	})
}

func (dr *DotationRepo) DeleteRow(reportId, rowId string) error {
	return dr.db.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(dr.rowModel.TableName()).
			Where("row_id = ? AND report_id = ?", rowId, reportId).
			Delete(&model.DotationRow{}).Error; err != nil {
			return err
		}
		return dr.recomputeTotals(tx, reportId)
	})
}

// recomputeTotals folds the current rows into the report header. It
// runs inside the same transaction as the row mutation.
func (dr *DotationRepo) recomputeTotals(tx *gorm.DB, reportId string) error {
	var totals struct {
		TotalRevenue  float64
		TotalSalaries float64
		TotalBonuses  float64
		EmployeeCount int
	}

	err := tx.Table(dr.rowModel.TableName()).
		Select("COALESCE(SUM(total_revenue), 0) AS total_revenue, "+
			"COALESCE(SUM(salary), 0) AS total_salaries, "+
			"COALESCE(SUM(bonus), 0) AS total_bonuses, "+
			"COUNT(*) AS employee_count").
		Where("report_id = ?", reportId).
		Scan(&totals).Error
	if err != nil {
		return err
	}

	return tx.Table(dr.reportModel.TableName()).
		Where("report_id = ?", reportId).
		Updates(map[string]any{
			"total_revenue":  totals.TotalRevenue,
			"total_salaries": totals.TotalSalaries,
			"total_bonuses":  totals.TotalBonuses,
			"employee_count": totals.EmployeeCount,
		}).Error
}
