package router

import (
	"fmt"

	"github.com/go-portal/portal/internal/portal/model"
	httpx "github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: router_dotation.go
 * @description: dotation report routes
 */

func (rt *Router) dotationRouter(r fiber.Router, auth fiber.Handler) {
	dot := middleware.RequireRoles(model.DotationRoles...)
	manage := middleware.RequireRoles(model.ManagerRoles...)

	dotationGroup := r.Group("/dotation", auth, dot)
	{
		dotationGroup.Post("", rt.createReport)
		dotationGroup.Get("/list", rt.listReports)
		dotationGroup.Get("/:reportId", rt.getReport)
		dotationGroup.Put("/:reportId", manage, rt.updateReport)
		dotationGroup.Delete("/:reportId", manage, rt.deleteReport)

		dotationGroup.Post("/:reportId/rows", rt.addRow)
		dotationGroup.Put("/:reportId/rows/:rowId", rt.updateRow)
		dotationGroup.Delete("/:reportId/rows/:rowId", rt.deleteRow)

		dotationGroup.Post("/bulk-import", rt.bulkImport)
		dotationGroup.Get("/:reportId/export/pdf", rt.exportPDF)
		dotationGroup.Get("/:reportId/export/excel", rt.exportExcel)
	}
}

func (rt *Router) createReport(c *fiber.Ctx) error {
	var req model.AddReportReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	enterpriseId := c.Query("enterpriseId")
	if enterpriseId == "" {
		return httpx.WithRepErrMsg(c.Status(fiber.StatusBadRequest),
			httpx.EnterpriseIdIsEmpty.Code, httpx.EnterpriseIdIsEmpty.Msg, c.Path())
	}

	detail, err := rt.dotationService.CreateReport(recordCtx(c), enterpriseId, req)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, detail)
}

func (rt *Router) listReports(c *fiber.Ctx) error {
	result, err := rt.dotationService.ListReports(
		c.Query("enterpriseId"), c.Query("status"), c.Query("period"), pageQuery(c))
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) getReport(c *fiber.Ctx) error {
	detail, err := rt.dotationService.GetReport(c.Params("reportId"))
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, detail)
}

func (rt *Router) updateReport(c *fiber.Ctx) error {
	var req model.UpdateReportReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	if err := rt.dotationService.UpdateReport(recordCtx(c), c.Params("reportId"), req); err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

func (rt *Router) deleteReport(c *fiber.Ctx) error {
	if err := rt.dotationService.DeleteReport(recordCtx(c), c.Params("reportId")); err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

func (rt *Router) addRow(c *fiber.Ctx) error {
	var req model.AddRowReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	row, err := rt.dotationService.AddRow(recordCtx(c), c.Params("reportId"), req)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, row)
}

func (rt *Router) updateRow(c *fiber.Ctx) error {
	var req model.AddRowReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	row, err := rt.dotationService.UpdateRow(recordCtx(c), c.Params("reportId"), c.Params("rowId"), req)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, row)
}

func (rt *Router) deleteRow(c *fiber.Ctx) error {
	if err := rt.dotationService.DeleteRow(recordCtx(c), c.Params("reportId"), c.Params("rowId")); err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

func (rt *Router) bulkImport(c *fiber.Ctx) error {
	var req model.BulkImportReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}
	if req.ReportId == "" {
		return httpx.WithRepErrMsg(c.Status(fiber.StatusBadRequest),
			httpx.ReportIdIsEmpty.Code, httpx.ReportIdIsEmpty.Msg, c.Path())
	}

	result, err := rt.dotationService.BulkImport(recordCtx(c), req)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) exportPDF(c *fiber.Ctx) error {
	reportId := c.Params("reportId")
	data, err := rt.dotationService.ExportPDF(recordCtx(c), reportId)
	if err != nil {
		return repErr(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="dotation-%s.pdf"`, reportId))
	return c.Send(data)
}

func (rt *Router) exportExcel(c *fiber.Ctx) error {
	reportId := c.Params("reportId")
	data, err := rt.dotationService.ExportExcel(recordCtx(c), reportId)
	if err != nil {
		return repErr(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="dotation-%s.xlsx"`, reportId))
	return c.Send(data)
}
