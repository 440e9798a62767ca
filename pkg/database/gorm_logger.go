package database

import (
	"context"
	"errors"
	"time"

	"github.com/go-portal/portal/pkg/log"
	"gorm.io/gorm/logger"
)

/**
 * @file: gorm_logger.go
 * @description: gorm logging bridge to the global zap logger
 */

type GormLogger struct {
	Config logger.Config
	Level  logger.LogLevel
}

func NewGormLogger(config logger.Config) *GormLogger {
	return &GormLogger{
		Config: config,
		Level:  config.LogLevel,
	}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	l.Level = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.Level < logger.Info {
		return
	}
	log.Infof(msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.Level < logger.Warn {
		return
	}
	log.Warnf(msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.Level < logger.Error {
		return
	}
	log.Errorf(msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin).Seconds()
	sql, rows := fc()

	if err != nil && l.Config.LogLevel >= logger.Error && (!errors.Is(err, logger.ErrRecordNotFound) || !l.Config.IgnoreRecordNotFoundError) {
		log.Errorf("`%s` [rows: %d, elapsed: %.5f], err: %v", sql, rows, elapsed, err)
		return
	}

	if l.Config.SlowThreshold > 0 && elapsed > l.Config.SlowThreshold.Seconds() && l.Config.LogLevel >= logger.Warn {
		log.Warnf("`%s` [rows: %d, elapsed: %.5f]", sql, rows, elapsed)
		return
	}

	if l.Config.LogLevel == logger.Info {
		log.Debugf("`%s` [rows: %d, elapsed: %.5f]", sql, rows, elapsed)
	}
}
