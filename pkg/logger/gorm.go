package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const maxStatementLength = 512

// GormLogger writes GORM output to a "gorm" child of the service logger.
// Statements are logged at debug, slow ones at warn, failures at error.
type GormLogger struct {
	log   *zap.Logger
	slow  time.Duration
	level gormlogger.LogLevel
}

// NewGormLogger maps the service log level onto GORM's levels. A zero slow
// threshold disables slow statement warnings.
func NewGormLogger(l *zap.Logger, slow time.Duration, level zapcore.Level) *GormLogger {
	return &GormLogger{
		log:   l.Named("gorm"),
		slow:  slow,
		level: gormLevel(level),
	}
}

func gormLevel(level zapcore.Level) gormlogger.LogLevel {
	switch {
	case level <= zapcore.InfoLevel:
		return gormlogger.Info
	case level == zapcore.WarnLevel:
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		WithContext(ctx, l.log).Info(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		WithContext(ctx, l.log).Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		WithContext(ctx, l.log).Error(fmt.Sprintf(msg, data...))
	}
}

// Trace logs one executed statement. Missing rows are normal lookups for the
// stub API (they become 404s) and are not reported as errors.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	stmt, rows := fc()
	if len(stmt) > maxStatementLength {
		stmt = stmt[:maxStatementLength] + "..."
	}

	log := WithContext(ctx, l.log).With(
		zap.String("statement", stmt),
		zap.Int64("rows", rows),
		zap.Int64("elapsed_ms", elapsed.Milliseconds()),
	)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		log.Error("statement failed", zap.Error(err))
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		log.Warn("slow statement", zap.Duration("threshold", l.slow))
	case l.level >= gormlogger.Info:
		log.Debug("statement executed")
	}
}
