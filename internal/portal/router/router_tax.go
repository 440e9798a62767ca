package router

import (
	"github.com/go-portal/portal/internal/portal/model"
	httpx "github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: router_tax.go
 * @description: tax calculation, bracket and declaration routes
 */

func (rt *Router) taxRouter(r fiber.Router, auth fiber.Handler) {
	manage := middleware.RequireRoles(model.ManagerRoles...)
	staff := middleware.RequireRoles(model.RoleStaff)

	taxGroup := r.Group("/tax", auth)
	{
		taxGroup.Post("/calculate", rt.calculateTax)

		taxGroup.Post("/declarations", manage, rt.createDeclaration)
		taxGroup.Get("/declarations/list", rt.listDeclarations)
		taxGroup.Get("/declarations/:declarationId", rt.getDeclaration)
		taxGroup.Put("/declarations/:declarationId/status", manage, rt.updateDeclarationStatus)

		taxGroup.Get("/brackets", rt.listBrackets)
		taxGroup.Post("/brackets", staff, rt.addBracket)
		taxGroup.Delete("/brackets/:bracketId", staff, rt.deleteBracket)
	}
}

func (rt *Router) calculateTax(c *fiber.Ctx) error {
	var req model.CalculateTaxReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	computation, err := rt.taxService.Calculate(req)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, computation)
}

func (rt *Router) createDeclaration(c *fiber.Ctx) error {
	var req model.AddDeclarationReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	enterpriseId := c.Query("enterpriseId")
	if enterpriseId == "" {
		return httpx.WithRepErrMsg(c.Status(fiber.StatusBadRequest),
			httpx.EnterpriseIdIsEmpty.Code, httpx.EnterpriseIdIsEmpty.Msg, c.Path())
	}

	declaration, err := rt.taxService.CreateDeclaration(recordCtx(c), enterpriseId, req)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, declaration)
}

func (rt *Router) listDeclarations(c *fiber.Ctx) error {
	result, err := rt.taxService.ListDeclarations(
		c.Query("enterpriseId"), c.Query("status"), pageQuery(c))
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) getDeclaration(c *fiber.Ctx) error {
	declaration, err := rt.taxService.GetDeclaration(c.Params("declarationId"))
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, declaration)
}

func (rt *Router) updateDeclarationStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	if err := rt.taxService.UpdateDeclarationStatus(recordCtx(c), c.Params("declarationId"), req.Status); err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

func (rt *Router) listBrackets(c *fiber.Ctx) error {
	bracketType := c.Query("type", model.BracketIncome)
	brackets, err := rt.taxService.ListBrackets(bracketType)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, brackets)
}

func (rt *Router) addBracket(c *fiber.Ctx) error {
	var req model.AddBracketReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	bracket, err := rt.taxService.AddBracket(recordCtx(c), req)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, bracket)
}

func (rt *Router) deleteBracket(c *fiber.Ctx) error {
	if err := rt.taxService.DeleteBracket(recordCtx(c), c.Params("bracketId")); err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}
