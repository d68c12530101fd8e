package telemetry

import (
	"path/filepath"
	"testing"

	"github.com/aidat/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestInstrumentDB(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.TelemetryConfig
		wantSpans bool
	}{
		{"telemetry off", config.TelemetryConfig{DBTraceEnabled: true}, false},
		{"db tracing off", config.TelemetryConfig{Enabled: true}, false},
		{"both on", config.TelemetryConfig{Enabled: true, DBTraceEnabled: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
			t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

			db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "trace.db")), &gorm.Config{Logger: logger.Discard})
			require.NoError(t, err)

			require.NoError(t, InstrumentDB(db, tt.cfg, "sqlite", otelgorm.WithTracerProvider(tp)))

			var one int
			require.NoError(t, db.Raw("SELECT ?", 1).Scan(&one).Error)
			assert.Equal(t, 1, one)

			if tt.wantSpans {
				assert.NotEmpty(t, sr.Ended())
			} else {
				assert.Empty(t, sr.Ended())
			}
		})
	}
}
