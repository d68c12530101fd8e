package persistence

import (
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aidat/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Type:       config.DatabaseSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "data", "aidat.db"),
	}

	db, err := NewDatabase(cfg, zap.NewNop(), "warn")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.AutoMigrate())
	assert.NoError(t, db.Ping())

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)

	var tables int64
	require.NoError(t, db.DB.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'dues'").Scan(&tables).Error)
	assert.Equal(t, int64(1), tables)
}

func TestNewDatabase_WithTracing(t *testing.T) {
	newDB := func(t *testing.T, tel config.TelemetryConfig) (*Database, *tracetest.SpanRecorder) {
		t.Helper()
		sr := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
		t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

		cfg := &config.DatabaseConfig{
			Type:       config.DatabaseSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "aidat.db"),
		}
		db, err := NewDatabase(cfg, nil, "warn", WithTracing(tel, otelgorm.WithTracerProvider(tp)))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return db, sr
	}

	t.Run("queries produce spans", func(t *testing.T) {
		db, sr := newDB(t, config.TelemetryConfig{Enabled: true, DBTraceEnabled: true})

		var one int
		require.NoError(t, db.DB.Raw("SELECT 1").Scan(&one).Error)
		assert.Equal(t, 1, one)
		assert.NotEmpty(t, sr.Ended())
	})

	t.Run("db tracing off registers nothing", func(t *testing.T) {
		db, sr := newDB(t, config.TelemetryConfig{Enabled: true})

		var one int
		require.NoError(t, db.DB.Raw("SELECT 1").Scan(&one).Error)
		assert.Empty(t, sr.Ended())
	})
}

func TestNewDatabase_UnsupportedType(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Type: "mysql"}, nil, "info")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

// newPingMockDatabase builds a Database over sqlmock with ping monitoring on
func newPingMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}),
		&gorm.Config{SkipDefaultTransaction: true, DisableAutomaticPing: true, Logger: logger.Discard})
	require.NoError(t, err)
	return &Database{DB: gdb}, mock
}

func TestDatabase_PingAndClose(t *testing.T) {
	db, mock := newPingMockDatabase(t)

	mock.ExpectPing()
	assert.NoError(t, db.Ping())

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_PingFailure(t *testing.T) {
	db, mock := newPingMockDatabase(t)

	mock.ExpectPing().WillReturnError(assert.AnError)
	assert.ErrorIs(t, db.Ping(), assert.AnError)
}
