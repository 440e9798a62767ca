package router

import (
	httpx "github.com/go-portal/portal/pkg/http"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: router_auth.go
 * @description: Discord login, token refresh and session routes
 */

func (rt *Router) authRouter(r fiber.Router, auth fiber.Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.Get("/discord", rt.loginRedirect)
		authGroup.Get("/discord-url", rt.loginURL)
		authGroup.Post("/discord/callback", rt.callback)
		authGroup.Post("/refresh", rt.refresh)

		authGroup.Post("/logout", auth, rt.logout)
		authGroup.Get("/me", auth, rt.me)
		authGroup.Get("/check", auth, rt.check)
	}
}

func (rt *Router) loginRedirect(c *fiber.Ctx) error {
	return c.Redirect(rt.authService.LoginURL(c.Query("state")), fiber.StatusFound)
}

func (rt *Router) loginURL(c *fiber.Ctx) error {
	state := c.Query("state")
	return httpx.WithRepJSON(c, fiber.Map{
		"url": rt.authService.LoginURL(state),
	})
}

func (rt *Router) callback(c *fiber.Ctx) error {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}
	if req.Code == "" {
		return httpx.WithRepErrMsg(c.Status(fiber.StatusBadRequest),
			httpx.OAuthCodeIsRequired.Code, httpx.OAuthCodeIsRequired.Msg, c.Path())
	}

	resp, err := rt.authService.HandleCallback(c.Context(), req.Code, recordCtx(c))
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, resp)
}

func (rt *Router) refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.BodyParser(&req); err != nil {
		return repParseErr(c, err)
	}

	tokens, err := rt.authService.Refresh(req.RefreshToken)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, tokens)
}

// logout is client-side token deletion; the server only audits it.
func (rt *Router) logout(c *fiber.Ctx) error {
	rt.authService.Logout(recordCtx(c))
	return httpx.WithRepNotDetail(c)
}

func (rt *Router) me(c *fiber.Ctx) error {
	claims := claimsOf(c)
	info, err := rt.authService.Me(claims.UserId)
	if err != nil {
		return repErr(c, err)
	}
	return httpx.WithRepJSON(c, info)
}

// check confirms the access token is still valid.
func (rt *Router) check(c *fiber.Ctx) error {
	claims := claimsOf(c)
	return httpx.WithRepJSON(c, fiber.Map{
		"userId": claims.UserId,
		"role":   claims.Role,
	})
}
