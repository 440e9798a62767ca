package middleware

import (
	"github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/http/jwt"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: permission.go
 * @description: role-based access middleware
 */

// RequireRoles restricts a route to users whose role is in the allowed
// set. It must run after AuthorizationMiddleware.
func RequireRoles(allowed ...string) fiber.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*jwt.AuthClaims)
		if !ok || claims == nil {
			return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
		}

		if _, ok := allowedSet[claims.Role]; !ok {
			return http.WithRepErrMsg(c, http.PermissionDenied.Code, http.PermissionDenied.Msg, c.Path())
		}

		return c.Next()
	}
}
