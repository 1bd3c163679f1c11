package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel, slow time.Duration) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, slow), recorded
}

func sqlFn(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 3 }
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := WithRequestID(context.Background(), zap.NewNop(), "req-9")

	t.Run("query at info level is logged as debug", func(t *testing.T) {
		l, recorded := newObservedGorm(gormlogger.Info, time.Second)
		l.Trace(ctx, time.Now(), sqlFn("SELECT 1"), nil)

		entries := recorded.FilterMessage("SQL").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
		assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
	})

	t.Run("slow query is a warning", func(t *testing.T) {
		l, recorded := newObservedGorm(gormlogger.Warn, time.Millisecond)
		l.Trace(ctx, time.Now().Add(-time.Second), sqlFn("SELECT pg_sleep(1)"), nil)
		assert.Equal(t, 1, recorded.FilterMessage("Slow SQL").Len())
	})

	t.Run("errors are logged except record not found", func(t *testing.T) {
		l, recorded := newObservedGorm(gormlogger.Error, 0)
		l.Trace(ctx, time.Now(), sqlFn("SELECT x"), errors.New("syntax error"))
		l.Trace(ctx, time.Now(), sqlFn("SELECT y"), gormlogger.ErrRecordNotFound)
		assert.Equal(t, 1, recorded.FilterMessage("SQL error").Len())
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		l, recorded := newObservedGorm(gormlogger.Silent, 0)
		l.Trace(ctx, time.Now(), sqlFn("SELECT 1"), errors.New("x"))
		assert.Zero(t, recorded.Len())
	})
}

func TestGormLogger_LogMode(t *testing.T) {
	l, _ := newObservedGorm(gormlogger.Info, 0)
	quiet := l.LogMode(gormlogger.Error).(*GormLogger)

	assert.Equal(t, gormlogger.Info, l.level)
	assert.Equal(t, gormlogger.Error, quiet.level)
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
	assert.Equal(t, gormlogger.Error, GormLevel("ERROR"))
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
}
