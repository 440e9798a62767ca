package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-portal/portal/internal/portal/consts"
	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/internal/portal/repo"
	"github.com/go-portal/portal/pkg/apperr"
	"github.com/go-portal/portal/pkg/export"
	"github.com/go-portal/portal/pkg/id"
	"github.com/go-portal/portal/pkg/log"
)

/**
 * @file: service_dotation.go
 * @description: dotation report aggregation, bulk import and exports
 */

// Pay derivation rates.
const (
	salaryRate = 0.35
	bonusRate  = 0.08
)

const defaultGrade = "TBD"

type DotationService struct {
	dotationRepo repo.IDotationRepository
	audit        *AuditService
}

func NewDotationService(dotationRepo repo.IDotationRepository, audit *AuditService) *DotationService {
	return &DotationService{dotationRepo: dotationRepo, audit: audit}
}

// DeriveRow fills the computed fields of a row from its inputs.
// Salary and bonus are rounded to the nearest unit on every path.
func DeriveRow(row *model.DotationRow) {
	row.TotalRevenue = row.Run + row.Invoice + row.Sale
	row.Salary = math.Round(row.TotalRevenue * salaryRate)
	row.Bonus = math.Round(row.TotalRevenue * bonusRate)
}

func (ds *DotationService) CreateReport(rc RecordCtx, enterpriseId string, req model.AddReportReq) (*model.ReportDetail, error) {
	if req.Title == "" {
		return nil, apperr.Validation("title is required")
	}

	report := &model.DotationReport{
		ReportId:     id.GetUUID(),
		EnterpriseId: enterpriseId,
		CreatedBy:    rc.UserId,
		Title:        req.Title,
		Period:       req.Period,
		Status:       model.StatusPending,
		Notes:        req.Notes,
	}

	rows := make([]model.DotationRow, 0, len(req.Rows))
	for _, rowReq := range req.Rows {
		if rowReq.EmployeeName == "" {
			return nil, apperr.Validation("employee name is required")
		}
		row := model.DotationRow{
			RowId:        id.GetUUID(),
			ReportId:     report.ReportId,
			EmployeeName: rowReq.EmployeeName,
			Grade:        rowReq.Grade,
			Run:          rowReq.Run,
			Invoice:      rowReq.Invoice,
			Sale:         rowReq.Sale,
		}
		DeriveRow(&row)
		rows = append(rows, row)
	}

	if err := ds.dotationRepo.CreateReport(report, rows); err != nil {
		return nil, err
	}

	ds.audit.Record(rc, consts.ActionCreate, report.TableName(), report.ReportId,
		nil, map[string]any{
			"title":  report.Title,
			"period": report.Period,
			"rows":   len(rows),
		})

	return ds.GetReport(report.ReportId)
}

func (ds *DotationService) GetReport(reportId string) (*model.ReportDetail, error) {
	report, err := ds.dotationRepo.GetReport(reportId)
	if err != nil {
		return nil, notFoundOr(err, "dotation report not found")
	}
	rows, err := ds.dotationRepo.GetRows(reportId)
	if err != nil {
		return nil, err
	}
	return &model.ReportDetail{Report: *report, Rows: rows}, nil
}

func (ds *DotationService) ListReports(enterpriseId, status, period string, page model.Pagination) (*model.PageResult[model.DotationReport], error) {
	page.Normalize()
	reports, total, err := ds.dotationRepo.ListReports(enterpriseId, status, period, page.Offset(), page.PageSize)
	if err != nil {
		return nil, err
	}
	return &model.PageResult[model.DotationReport]{List: reports, Total: total}, nil
}

func (ds *DotationService) UpdateReport(rc RecordCtx, reportId string, req model.UpdateReportReq) error {
	old, err := ds.dotationRepo.GetReport(reportId)
	if err != nil {
		return notFoundOr(err, "dotation report not found")
	}

	if req.Status != "" &&
		req.Status != model.StatusPending &&
		req.Status != model.StatusApproved &&
		req.Status != model.StatusRejected {
		return apperr.Validation("invalid report status")
	}

	fields := map[string]any{}
	if req.Title != "" {
		fields["title"] = req.Title
	}
	if req.Period != "" {
		fields["period"] = req.Period
	}
	if req.Status != "" {
		fields["status"] = req.Status
	}
	if req.Notes != "" {
		fields["notes"] = req.Notes
	}
	if err := ds.dotationRepo.UpdateReport(reportId, fields); err != nil {
		return err
	}

	ds.audit.Record(rc, consts.ActionUpdate, old.TableName(), reportId,
		map[string]any{"title": old.Title, "status": old.Status},
		map[string]any{"title": req.Title, "status": req.Status})

	return nil
}

func (ds *DotationService) DeleteReport(rc RecordCtx, reportId string) error {
	old, err := ds.dotationRepo.GetReport(reportId)
	if err != nil {
		return notFoundOr(err, "dotation report not found")
	}

	if err := ds.dotationRepo.DeleteReport(reportId); err != nil {
		return err
	}

	ds.audit.Record(rc, consts.ActionDelete, old.TableName(), reportId,
		map[string]any{"title": old.Title}, nil)

	return nil
}

func (ds *DotationService) AddRow(rc RecordCtx, reportId string, req model.AddRowReq) (*model.DotationRow, error) {
	if req.EmployeeName == "" {
		return nil, apperr.Validation("employee name is required")
	}
	if _, err := ds.dotationRepo.GetReport(reportId); err != nil {
		return nil, notFoundOr(err, "dotation report not found")
	}

	row := model.DotationRow{
		RowId:        id.GetUUID(),
		ReportId:     reportId,
		EmployeeName: req.EmployeeName,
		Grade:        req.Grade,
		Run:          req.Run,
		Invoice:      req.Invoice,
		Sale:         req.Sale,
	}
	DeriveRow(&row)

	if err := ds.dotationRepo.AddRows(reportId, []model.DotationRow{row}); err != nil {
		return nil, err
	}

	ds.audit.Record(rc, consts.ActionCreate, row.TableName(), row.RowId,
		nil, map[string]any{
			"employeeName": row.EmployeeName,
			"totalRevenue": row.TotalRevenue,
		})

	return &row, nil
}

// UpdateRow replaces the row's inputs and re-derives its pay fields.
func (ds *DotationService) UpdateRow(rc RecordCtx, reportId, rowId string, req model.AddRowReq) (*model.DotationRow, error) {
	if req.EmployeeName == "" {
		return nil, apperr.Validation("employee name is required")
	}
	if _, err := ds.dotationRepo.GetReport(reportId); err != nil {
		return nil, notFoundOr(err, "dotation report not found")
	}

	row := model.DotationRow{
		ReportId:     reportId,
		EmployeeName: req.EmployeeName,
		Grade:        req.Grade,
		Run:          req.Run,
		Invoice:      req.Invoice,
		Sale:         req.Sale,
	}
	DeriveRow(&row)

	if err := ds.dotationRepo.UpdateRow(rowId, &row); err != nil {
		return nil, err
	}

	ds.audit.Record(rc, consts.ActionUpdate, row.TableName(), rowId,
		nil, map[string]any{
			"employeeName": row.EmployeeName,
			"totalRevenue": row.TotalRevenue,
		})

	return &row, nil
}

func (ds *DotationService) DeleteRow(rc RecordCtx, reportId, rowId string) error {
	if _, err := ds.dotationRepo.GetReport(reportId); err != nil {
		return notFoundOr(err, "dotation report not found")
	}

	if err := ds.dotationRepo.DeleteRow(reportId, rowId); err != nil {
		return err
	}

	ds.audit.Record(rc, consts.ActionDelete, (&model.DotationRow{}).TableName(), rowId, nil, nil)
	return nil
}

// ParseBulkRows parses free-text lines into derived rows. The field
// separator is detected per line, trying semicolon, tab, comma, then a
// whitespace run. A line is accepted when it has at least 4 fields and
// fields 2-4 parse as numbers; malformed lines are skipped. Returns
// the accepted rows and the count of non-empty lines seen.
func ParseBulkRows(content string) ([]model.DotationRow, int) {
	var (
		rows  []model.DotationRow
		total int
	)

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		total++

		var parts []string
		switch {
		case strings.Contains(line, ";"):
			parts = strings.Split(line, ";")
		case strings.Contains(line, "\t"):
			parts = strings.Split(line, "\t")
		case strings.Contains(line, ","):
			parts = strings.Split(line, ",")
		default:
			parts = strings.Fields(line)
		}

		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		if len(parts) < 4 {
			log.Warnf("skipping bulk import line, expected at least 4 fields: %q", line)
			continue
		}

		run, errRun := parseAmount(parts[1])
		invoice, errInvoice := parseAmount(parts[2])
		sale, errSale := parseAmount(parts[3])
		if errRun != nil || errInvoice != nil || errSale != nil {
			log.Warnf("skipping bulk import line, non-numeric amount: %q", line)
			continue
		}

		row := model.DotationRow{
			RowId:        id.GetUUID(),
			EmployeeName: parts[0],
			Grade:        defaultGrade,
			Run:          run,
			Invoice:      invoice,
			Sale:         sale,
		}
		DeriveRow(&row)
		rows = append(rows, row)
	}

	return rows, total
}

// parseAmount parses a numeric field, treating the empty string as 0.
func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// BulkImport parses the payload and appends all accepted rows to the
// report. Malformed lines never abort the import.
func (ds *DotationService) BulkImport(rc RecordCtx, req model.BulkImportReq) (*model.BulkImportResult, error) {
	if _, err := ds.dotationRepo.GetReport(req.ReportId); err != nil {
		return nil, notFoundOr(err, "dotation report not found")
	}

	rows, total := ParseBulkRows(req.Content)
	if len(rows) == 0 {
		return nil, apperr.Validation("bulk import contained no valid rows")
	}

	for i := range rows {
		rows[i].ReportId = req.ReportId
	}

	if err := ds.dotationRepo.AddRows(req.ReportId, rows); err != nil {
		return nil, err
	}

	ds.audit.Record(rc, consts.ActionBulkImport, (&model.DotationRow{}).TableName(), req.ReportId,
		nil, map[string]any{
			"accepted": len(rows),
			"total":    total,
		})

	return &model.BulkImportResult{
		Accepted: len(rows),
		Total:    total,
		Rows:     rows,
	}, nil
}

// ExportPDF renders the report as a PDF document.
func (ds *DotationService) ExportPDF(rc RecordCtx, reportId string) ([]byte, error) {
	detail, err := ds.GetReport(reportId)
	if err != nil {
		return nil, err
	}

	data, err := export.DotationPDF(exportData(detail))
	if err != nil {
		return nil, err
	}

	ds.audit.Record(rc, consts.ActionExport, detail.Report.TableName(), reportId,
		nil, map[string]any{"format": "pdf"})

	return data, nil
}

// ExportExcel renders the report as a spreadsheet.
func (ds *DotationService) ExportExcel(rc RecordCtx, reportId string) ([]byte, error) {
	detail, err := ds.GetReport(reportId)
	if err != nil {
		return nil, err
	}

	data, err := export.DotationExcel(exportData(detail))
	if err != nil {
		return nil, err
	}

	ds.audit.Record(rc, consts.ActionExport, detail.Report.TableName(), reportId,
		nil, map[string]any{"format": "excel"})

	return data, nil
}

func exportData(detail *model.ReportDetail) export.Dotation {
	rows := make([]export.DotationRow, 0, len(detail.Rows))
	for _, row := range detail.Rows {
		rows = append(rows, export.DotationRow{
			EmployeeName: row.EmployeeName,
			Grade:        row.Grade,
			Run:          row.Run,
			Invoice:      row.Invoice,
			Sale:         row.Sale,
			TotalRevenue: row.TotalRevenue,
			Salary:       row.Salary,
			Bonus:        row.Bonus,
		})
	}
	return export.Dotation{
		Title:         detail.Report.Title,
		Period:        detail.Report.Period,
		Status:        detail.Report.Status,
		TotalRevenue:  detail.Report.TotalRevenue,
		TotalSalaries: detail.Report.TotalSalaries,
		TotalBonuses:  detail.Report.TotalBonuses,
		EmployeeCount: detail.Report.EmployeeCount,
		Rows:          rows,
	}
}
