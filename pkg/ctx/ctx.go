package ctx

import (
	"context"

	"github.com/go-portal/portal/pkg/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

/**
 * @file: ctx.go
 * @description: Global context
 */

type Context struct {
	MySQLIns *gorm.DB
	CacheIns cache.ICache
	Ctx      context.Context
	Log      *zap.SugaredLogger
}

func NewContext(ctx context.Context, mysql *gorm.DB, c cache.ICache, log *zap.SugaredLogger) *Context {
	return &Context{
		MySQLIns: mysql,
		CacheIns: c,
		Ctx:      ctx,
		Log:      log,
	}
}

func (c *Context) GetCtx() context.Context {
	return c.Ctx
}

func (c *Context) SetMySQLIns(db *gorm.DB) {
	c.MySQLIns = db
}

func (c *Context) GetMySQLIns() *gorm.DB {
	return c.MySQLIns
}

func (c *Context) GetCacheIns() cache.ICache {
	return c.CacheIns
}
