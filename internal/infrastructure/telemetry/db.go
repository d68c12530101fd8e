package telemetry

import (
	"fmt"

	"github.com/aidat/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
)

// InstrumentDB registers the otelgorm plugin when telemetry and DB tracing are
// both on. Query variables are kept out of spans unless DBLogFullSQL is set.
func InstrumentDB(db *gorm.DB, cfg config.TelemetryConfig, dbSystem string, opts ...otelgorm.Option) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}
	opts = append([]otelgorm.Option{otelgorm.WithDBName(dbSystem)}, opts...)
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}
	return nil
}
