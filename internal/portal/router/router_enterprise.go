package router

import (
	"github.com/go-portal/portal/internal/portal/model"
	httpx "github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: router_enterprise.go
 * @description: enterprise and member administration routes
 */

func (rt *Router) enterpriseRouter(r fiber.Router, auth fiber.Handler) {
	staff := middleware.RequireRoles(model.RoleStaff)
	manage := middleware.RequireRoles(model.ManagerRoles...)

	enterpriseGroup := r.Group("/enterprise", auth)
	{
		enterpriseGroup.Post("", staff, rt.addEnterprise)
		enterpriseGroup.Get("/list", staff, rt.listEnterprises)
		enterpriseGroup.Get("/:enterpriseId", rt.getEnterprise)
		enterpriseGroup.Put("/:enterpriseId", staff, rt.updateEnterprise)

		enterpriseGroup.Get("/:enterpriseId/members", manage, rt.listMembers)
		enterpriseGroup.Put("/members/:userId/role", staff, rt.changeMemberRole)
	}
}

func (rt *Router) addEnterprise(c *fiber.Ctx) error {
	var req model.AddEnterpriseReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	enterprise, err := rt.enterpriseService.Add(recordCtx(c), req)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, enterprise)
}

func (rt *Router) listEnterprises(c *fiber.Ctx) error {
	result, err := rt.enterpriseService.List(pageQuery(c))
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) getEnterprise(c *fiber.Ctx) error {
	enterprise, err := rt.enterpriseService.Get(c.Params("enterpriseId"))
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, enterprise)
}

func (rt *Router) updateEnterprise(c *fiber.Ctx) error {
	var req model.AddEnterpriseReq
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	enterprise, err := rt.enterpriseService.Update(recordCtx(c), c.Params("enterpriseId"), req)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, enterprise)
}

func (rt *Router) listMembers(c *fiber.Ctx) error {
	result, err := rt.enterpriseService.ListMembers(c.Params("enterpriseId"), pageQuery(c))
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) changeMemberRole(c *fiber.Ctx) error {
	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	if err := rt.enterpriseService.ChangeMemberRole(recordCtx(c), c.Params("userId"), req.Role); err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}
