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

func newGormTestLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func queryFunc(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_TraceQuery(t *testing.T) {
	l, logs := newGormTestLogger(gormlogger.Info)

	l.Trace(context.Background(), time.Now(), queryFunc("SELECT * FROM products", 3), nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.DebugLevel, entry.Level)
	assert.Equal(t, "query", entry.Message)
	assert.Equal(t, "SELECT * FROM products", entry.ContextMap()["sql"])
	assert.EqualValues(t, 3, entry.ContextMap()["rows"])
}

func TestGormLogger_TraceError(t *testing.T) {
	l, logs := newGormTestLogger(gormlogger.Error)

	l.Trace(context.Background(), time.Now(), queryFunc("INSERT INTO sales_orders ...", 0), errors.New("duplicate key"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "query failed", entry.Message)
}

func TestGormLogger_IgnoresRecordNotFound(t *testing.T) {
	l, logs := newGormTestLogger(gormlogger.Error)

	l.Trace(context.Background(), time.Now(), queryFunc("SELECT 1", 0), gormlogger.ErrRecordNotFound)

	assert.Equal(t, 0, logs.Len())
}

func TestGormLogger_LogsRecordNotFoundWhenConfigured(t *testing.T) {
	l, logs := newGormTestLogger(gormlogger.Error, WithIgnoreRecordNotFoundError(false))

	l.Trace(context.Background(), time.Now(), queryFunc("SELECT 1", 0), gormlogger.ErrRecordNotFound)

	assert.Equal(t, 1, logs.Len())
}

func TestGormLogger_SlowQuery(t *testing.T) {
	l, logs := newGormTestLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

	l.Trace(context.Background(), time.Now().Add(-time.Second), queryFunc("SELECT pg_sleep(1)", 1), nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "slow query", entry.Message)
}

func TestGormLogger_SilentLogsNothing(t *testing.T) {
	l, logs := newGormTestLogger(gormlogger.Silent)

	l.Trace(context.Background(), time.Now(), queryFunc("SELECT 1", 1), errors.New("boom"))
	l.Info(context.Background(), "info %s", "msg")
	l.Warn(context.Background(), "warn %s", "msg")
	l.Error(context.Background(), "error %s", "msg")

	assert.Equal(t, 0, logs.Len())
}

func TestGormLogger_TraceCarriesRequestID(t *testing.T) {
	l, logs := newGormTestLogger(gormlogger.Info)

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-42")
	l.Trace(ctx, time.Now(), queryFunc("SELECT 1", 1), nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-42", logs.All()[0].ContextMap()["request_id"])
}

func TestGormLogger_LogMode(t *testing.T) {
	l, _ := newGormTestLogger(gormlogger.Info)

	quieter := l.LogMode(gormlogger.Error)

	require.NotSame(t, l, quieter)
	assert.Equal(t, gormlogger.Info, l.level)
}
