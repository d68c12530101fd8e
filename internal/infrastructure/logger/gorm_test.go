package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func traceFn(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("logs errors", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)
		l.Trace(context.Background(), time.Now(), traceFn("UPDATE dues"), errors.New("deadlock"))
		assert.Equal(t, 1, logs.FilterMessage("SQL Error").Len())
	})

	t.Run("ignores record not found", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)
		l.Trace(context.Background(), time.Now(), traceFn("SELECT"), gormlogger.ErrRecordNotFound)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("warns on slow query", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Millisecond))
		l.Trace(context.Background(), time.Now().Add(-time.Second), traceFn("SELECT"), nil)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Silent)
		l.Trace(context.Background(), time.Now(), traceFn("SELECT"), errors.New("x"))
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("carries request and user ids", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Info)
		ctx := context.WithValue(context.Background(), RequestIDKey, "rid")
		ctx = context.WithValue(ctx, UserIDKey, "uid")
		l.Trace(ctx, time.Now(), traceFn("SELECT 1"), nil)

		entries := logs.All()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, "rid", entries[0].ContextMap()["request_id"])
			assert.Equal(t, "uid", entries[0].ContextMap()["user_id"])
		}
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	var _ gormlogger.Interface = NewGormLogger(zap.NewNop(), gormlogger.Warn)
}
