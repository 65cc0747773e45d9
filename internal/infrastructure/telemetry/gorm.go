package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// InstrumentGorm emits a span per SQL statement. Query arguments are never
// recorded. A nil tp uses the global tracer provider.
func InstrumentGorm(db *gorm.DB, dbName string, tp trace.TracerProvider) error {
	opts := []otelgorm.Option{
		otelgorm.WithDBName(dbName),
		otelgorm.WithoutQueryVariables(),
		otelgorm.WithoutMetrics(),
	}
	if tp != nil {
		opts = append(opts, otelgorm.WithTracerProvider(tp))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("failed to register gorm tracing: %w", err)
	}
	return nil
}
