package router

import (
	"github.com/go-portal/portal/internal/portal/model"
	httpx "github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: router_audit.go
 * @description: audit trail routes
 */

func (rt *Router) auditRouter(r fiber.Router, auth fiber.Handler) {
	staff := middleware.RequireRoles(model.RoleStaff)

	auditGroup := r.Group("/audit", auth, staff)
	{
		auditGroup.Get("/list", rt.listAuditLogs)
	}
}

func (rt *Router) listAuditLogs(c *fiber.Ctx) error {
	q := model.AuditQuery{
		Pagination: pageQuery(c),
		UserId:     c.Query("userId"),
		Action:     c.Query("action"),
		TableName:  c.Query("tableName"),
	}

	result, err := rt.auditService.List(q)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}
