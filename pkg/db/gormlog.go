package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/shopcart-backend/pkg/logger"
)

// gormLogger forwards GORM's trace callbacks to the service logger so SQL
// failures carry the request_id bound on the context. Not-found and unique
// violations are expected outcomes the callers translate, so they stay quiet.
type gormLogger struct {
	logg *logger.Logger
	slow time.Duration
}

func newGormLogger(logg *logger.Logger, slow time.Duration) gormlogger.Interface {
	if logg == nil {
		return gormlogger.Discard
	}
	return &gormLogger{logg: logg, slow: slow}
}

func (g *gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface { return g }

func (g *gormLogger) Info(ctx context.Context, msg string, args ...any) {}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...any) {}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...any) {}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	isErr := err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && !IsUniqueViolation(err, "")
	isSlow := g.slow > 0 && elapsed > g.slow
	if !isErr && !isSlow {
		return
	}

	sql, rows := fc()
	ctx = g.logg.WithFields(ctx, map[string]any{
		"sql":         sql,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})
	if isErr {
		g.logg.Error(ctx, "db.query_failed", err)
		return
	}
	g.logg.Warn(ctx, "db.slow_query")
}
