package router

import (
	"github.com/go-portal/portal/internal/portal/model"
	httpx "github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: router_blanchiment.go
 * @description: blanchiment operation and setting routes
 */

func (rt *Router) blanchimentRouter(r fiber.Router, auth fiber.Handler) {
	manage := middleware.RequireRoles(model.ManagerRoles...)

	blanchimentGroup := r.Group("/blanchiment", auth)
	{
		blanchimentGroup.Get("/settings", rt.getSetting)
		blanchimentGroup.Put("/settings", manage, rt.updateSetting)

		blanchimentGroup.Post("/operations", rt.createOperation)
		blanchimentGroup.Get("/operations/list", rt.listOperations)
		blanchimentGroup.Get("/operations/:operationId", rt.getOperation)
		blanchimentGroup.Put("/operations/:operationId", rt.updateOperation)
		blanchimentGroup.Delete("/operations/:operationId", manage, rt.deleteOperation)
	}
}

func enterpriseIdQuery(c *fiber.Ctx) (string, error) {
	enterpriseId := c.Query("enterpriseId")
	if enterpriseId == "" {
		return "", httpx.WithRepErrMsg(c.Status(fiber.StatusBadRequest),
			httpx.EnterpriseIdIsEmpty.Code, httpx.EnterpriseIdIsEmpty.Msg, c.Path())
	}
	return enterpriseId, nil
}

func (rt *Router) getSetting(c *fiber.Ctx) error {
	enterpriseId, errRep := enterpriseIdQuery(c)
	if errRep != nil {
		return errRep
	}

	setting, err := rt.blanchimentService.GetSetting(enterpriseId)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, setting)
}

func (rt *Router) updateSetting(c *fiber.Ctx) error {
	enterpriseId, errRep := enterpriseIdQuery(c)
	if errRep != nil {
		return errRep
	}

	var req model.UpdateSettingReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	setting, err := rt.blanchimentService.UpdateSetting(recordCtx(c), enterpriseId, req)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, setting)
}

func (rt *Router) createOperation(c *fiber.Ctx) error {
	enterpriseId, errRep := enterpriseIdQuery(c)
	if errRep != nil {
		return errRep
	}

	var req model.AddOperationReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	op, err := rt.blanchimentService.CreateOperation(recordCtx(c), enterpriseId, req)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, op)
}

func (rt *Router) listOperations(c *fiber.Ctx) error {
	result, err := rt.blanchimentService.ListOperations(
		c.Query("enterpriseId"), c.Query("status"), pageQuery(c))
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) getOperation(c *fiber.Ctx) error {
	op, err := rt.blanchimentService.GetOperation(c.Params("operationId"))
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, op)
}

func (rt *Router) updateOperation(c *fiber.Ctx) error {
	var req model.UpdateOperationReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	op, err := rt.blanchimentService.UpdateOperation(recordCtx(c), c.Params("operationId"), req)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, op)
}

func (rt *Router) deleteOperation(c *fiber.Ctx) error {
	if err := rt.blanchimentService.DeleteOperation(recordCtx(c), c.Params("operationId")); err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}
