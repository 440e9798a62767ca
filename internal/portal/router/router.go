package router

import (
	"github.com/go-portal/portal/internal/portal/consts"
	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/internal/portal/service"
	"github.com/go-portal/portal/pkg/apperr"
	httpx "github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/http/jwt"
	"github.com/go-portal/portal/pkg/http/middleware"
	"github.com/go-portal/portal/pkg/log"
	"github.com/go-portal/portal/pkg/version"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/**
 * @file: router.go
 * @description: route registration and the service wiring it needs
 */

type Router struct {
	Http *httpx.Http

	authService        *service.AuthService
	dotationService    *service.DotationService
	taxService         *service.TaxService
	blanchimentService *service.BlanchimentService
	enterpriseService  *service.EnterpriseService
	auditService       *service.AuditService
}

func NewRouter(httpConf *httpx.Http,
	authService *service.AuthService,
	dotationService *service.DotationService,
	taxService *service.TaxService,
	blanchimentService *service.BlanchimentService,
	enterpriseService *service.EnterpriseService,
	auditService *service.AuditService) *Router {
	return &Router{
		Http:               httpConf,
		authService:        authService,
		dotationService:    dotationService,
		taxService:         taxService,
		blanchimentService: blanchimentService,
		enterpriseService:  enterpriseService,
		auditService:       auditService,
	}
}

func (rt *Router) Router() *fiber.App {
	app := httpx.NewFiberApp(*rt.Http)

	app.Use(middleware.CorsMiddleware())
	app.Use(middleware.ExceptionMiddleware)
	app.Use(middleware.RealIPMiddleware())
	app.Use(middleware.RequestMiddleware())

	if rt.Http.AccessLog {
		app.Use(middleware.AccessLogMiddleware(rt.Http))
	}

	if rt.Http.PProf {
		app.Use(pprof.New(pprof.Config{Prefix: "/debug"}))
	}

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey, rt.lookupUser)

	rt.authRouter(api, auth)
	rt.dotationRouter(api, auth)
	rt.taxRouter(api, auth)
	rt.blanchimentRouter(api, auth)
	rt.enterpriseRouter(api, auth)
	rt.auditRouter(api, auth)

	return app
}

// lookupUser feeds the authorization middleware with the stored role
// and active flag, cache first.
func (rt *Router) lookupUser(userId string) (string, bool, error) {
	info, err := rt.authService.Me(userId)
	if err != nil {
		return "", false, err
	}
	return info.Role, info.IsActive, nil
}

// repErr translates a service error into the response envelope and the
// matching http status.
func repErr(c *fiber.Ctx, err error) error {
	var status, code int
	switch apperr.KindOf(err) {
	case apperr.KindOAuth:
		status, code = fiber.StatusBadRequest, httpx.TokenExchangeFailed.Code
	case apperr.KindAuthentication:
		status, code = fiber.StatusUnauthorized, httpx.Unauthorized.Code
	case apperr.KindPermission:
		status, code = fiber.StatusForbidden, httpx.PermissionDenied.Code
	case apperr.KindNotFound:
		status, code = fiber.StatusNotFound, httpx.NotFound.Code
	case apperr.KindValidation:
		status, code = fiber.StatusBadRequest, httpx.BadRequest.Code
	default:
		log.Errorf("internal error on %s: %v", c.Path(), err)
		status, code = fiber.StatusInternalServerError, httpx.InternalError.Code
	}
	return httpx.WithRepErrMsg(c.Status(status), code, err.Error(), c.Path())
}

func repParseErr(c *fiber.Ctx, err error) error {
	return httpx.WithRepErrMsg(c.Status(fiber.StatusBadRequest),
		httpx.RequestParameterParsingFailed.Code, err.Error(), c.Path())
}

// recordCtx builds the audit metadata of the current request.
func recordCtx(c *fiber.Ctx) service.RecordCtx {
	rc := service.RecordCtx{
		IpAddress: clientIp(c),
		UserAgent: c.Get("User-Agent"),
	}
	if claims, ok := c.Locals(consts.LocalsClaims).(*jwt.AuthClaims); ok && claims != nil {
		rc.UserId = claims.UserId
	}
	return rc
}

func clientIp(c *fiber.Ctx) string {
	if ip, ok := c.Locals(consts.LocalsIp).(string); ok && ip != "" {
		return ip
	}
	return c.IP()
}

func claimsOf(c *fiber.Ctx) *jwt.AuthClaims {
	claims, _ := c.Locals(consts.LocalsClaims).(*jwt.AuthClaims)
	return claims
}

func pageQuery(c *fiber.Ctx) model.Pagination {
	return model.Pagination{
		PageNum:  c.QueryInt("pageNum", 1),
		PageSize: c.QueryInt("pageSize", 20),
	}
}
