package telemetry

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/bizdesk/backend"

// Metrics holds the application's instruments
type Metrics struct {
	requests     metric.Int64Counter
	duration     metric.Float64Histogram
	authAttempts metric.Int64Counter
	rateLimited  metric.Int64Counter
}

// NewMetrics creates the instruments on meter. A nil meter uses the global
// provider, which is a no-op until Setup installs one.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(meterName)
	}

	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	authAttempts, err := meter.Int64Counter("auth.attempts",
		metric.WithDescription("Authentication attempts by action and outcome"),
		metric.WithUnit("{attempt}"))
	if err != nil {
		return nil, err
	}
	rateLimited, err := meter.Int64Counter("http.server.rate_limited",
		metric.WithDescription("Requests rejected by the rate limiter"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requests:     requests,
		duration:     duration,
		authAttempts: authAttempts,
		rateLimited:  rateLimited,
	}, nil
}

// RecordRequest records one served request. route is the matched pattern,
// not the raw path.
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.String("http.status_code", strconv.Itoa(status)),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}

// RecordAuth records a login, registration or password reset outcome
func (m *Metrics) RecordAuth(ctx context.Context, action string, success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.authAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

// RecordRateLimited records a rejected request for limiter
func (m *Metrics) RecordRateLimited(ctx context.Context, limiter string) {
	if m == nil {
		return
	}
	m.rateLimited.Add(ctx, 1, metric.WithAttributes(attribute.String("limiter", limiter)))
}
