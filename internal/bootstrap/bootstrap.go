package bootstrap

import (
	"fmt"

	"github.com/go-portal/portal/internal/portal/conf"
	"github.com/go-portal/portal/internal/portal/model"
	"github.com/go-portal/portal/internal/portal/repo"
	"github.com/go-portal/portal/internal/portal/router"
	"github.com/go-portal/portal/internal/portal/service"
	"github.com/go-portal/portal/pkg/cache"
	"github.com/go-portal/portal/pkg/database"
	"github.com/go-portal/portal/pkg/discord"
	httpx "github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/log"
)

/**
 * @file: bootstrap.go
 * @description: dependency wiring and server startup
 */

// Run wires the application from its configuration and starts the http
// server. The returned hook blocks until shutdown completes.
func Run(appConf conf.AppConfig) (func(), error) {
	log.MustInit(&appConf.Log)

	gormDB, err := database.NewDatabase(appConf.Database)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	db := database.NewGormDB(gormDB)

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Enterprise{},
		&model.DotationReport{},
		&model.DotationRow{},
		&model.TaxBracket{},
		&model.TaxDeclaration{},
		&model.BlanchimentSetting{},
		&model.BlanchimentOperation{},
		&model.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Without a configured Redis the in-process cache takes over.
	var cacheIns cache.ICache
	if appConf.Redis.Mode != "" {
		redisClient, err := cache.NewRedis(appConf.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		cacheIns = cache.NewRedisCache(redisClient)
	} else {
		log.Info("redis not configured, using in-process cache")
		cacheIns = cache.NewFastCache(cache.FastCacheConfig{})
	}

	discordClient := discord.NewClient(appConf.Discord)

	userRepo := repo.NewUserRepo(db, cacheIns)
	enterpriseRepo := repo.NewEnterpriseRepo(db, cacheIns)
	dotationRepo := repo.NewDotationRepo(db)
	taxRepo := repo.NewTaxRepo(db, cacheIns)
	blanchimentRepo := repo.NewBlanchimentRepo(db)
	auditRepo := repo.NewAuditRepo(db)

	auditService := service.NewAuditService(auditRepo)
	authService := service.NewAuthService(userRepo, enterpriseRepo, discordClient, appConf.Http.Auth, auditService)
	dotationService := service.NewDotationService(dotationRepo, auditService)
	taxService := service.NewTaxService(taxRepo, auditService)
	blanchimentService := service.NewBlanchimentService(blanchimentRepo, auditService)
	enterpriseService := service.NewEnterpriseService(enterpriseRepo, userRepo, auditService)

	if err := taxService.EnsureDefaultBrackets(); err != nil {
		return nil, fmt.Errorf("seed tax brackets: %w", err)
	}

	route := router.NewRouter(&appConf.Http,
		authService, dotationService, taxService,
		blanchimentService, enterpriseService, auditService)

	shutdown := httpx.NewHttp(appConf.Http, route.Router())
	return shutdown, nil
}
