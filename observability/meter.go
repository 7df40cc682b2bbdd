package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/runkit/logger"
	"github.com/kbukum/runkit/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the application.
	ServiceName string
	// ServiceVersion is the version of the application.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Short(),
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds OpenTelemetry metric instruments for engine observability.
type Metrics struct {
	callTotal     metric.Int64Counter
	callDuration  metric.Float64Histogram
	itemTotal     metric.Int64Counter
	workersActive metric.Int64UpDownCounter
	errorTotal    metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	callTotal, err := meter.Int64Counter("runner.call.total",
		metric.WithDescription("Total number of engine invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runner.call.total counter: %w", err)
	}

	callDuration, err := meter.Float64Histogram("runner.call.duration",
		metric.WithDescription("Duration of engine invocations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runner.call.duration histogram: %w", err)
	}

	itemTotal, err := meter.Int64Counter("runner.item.total",
		metric.WithDescription("Total number of work items submitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runner.item.total counter: %w", err)
	}

	workersActive, err := meter.Int64UpDownCounter("runner.workers.active",
		metric.WithDescription("Number of currently spawned workers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runner.workers.active gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("runner.error.total",
		metric.WithDescription("Total number of failed invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runner.error.total counter: %w", err)
	}

	return &Metrics{
		callTotal:     callTotal,
		callDuration:  callDuration,
		itemTotal:     itemTotal,
		workersActive: workersActive,
		errorTotal:    errorTotal,
	}, nil
}

// RecordCall records a completed engine invocation. Nil-safe.
func (m *Metrics) RecordCall(ctx context.Context, status string, items int64, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrStatus, status))
	m.callTotal.Add(ctx, 1, attrs)
	m.callDuration.Record(ctx, duration.Seconds(), attrs)
	m.itemTotal.Add(ctx, items)
}

// RecordWorkers adjusts the active-worker gauge by delta. Nil-safe.
func (m *Metrics) RecordWorkers(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.workersActive.Add(ctx, delta)
}

// RecordError records a failed invocation or worker failure. Nil-safe.
func (m *Metrics) RecordError(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}
