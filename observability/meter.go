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

	"github.com/kbukum/reqkit/logger"
)

// Metric names.
const (
	MetricBuilds          = "reqkit.router.builds"
	MetricBuildErrors     = "reqkit.router.build_errors"
	MetricBuildDuration   = "reqkit.router.build_duration"
	MetricDispatches      = "reqkit.transport.dispatches"
	MetricDispatchLatency = "reqkit.transport.duration"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port, e.g. "localhost:4318".
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for local development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a periodic OTLP/HTTP meter provider as the global one.
// The caller must shut it down on exit.
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

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
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

// BuildMetrics holds the instruments recorded while building and dispatching
// requests.
type BuildMetrics struct {
	builds          metric.Int64Counter
	buildErrors     metric.Int64Counter
	buildDuration   metric.Float64Histogram
	dispatches      metric.Int64Counter
	dispatchLatency metric.Float64Histogram
}

// NewBuildMetrics creates the instruments on meter.
func NewBuildMetrics(meter metric.Meter) (*BuildMetrics, error) {
	builds, err := meter.Int64Counter(MetricBuilds,
		metric.WithDescription("Requests built by the router"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricBuilds, err)
	}

	buildErrors, err := meter.Int64Counter(MetricBuildErrors,
		metric.WithDescription("Request builds that failed, by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricBuildErrors, err)
	}

	buildDuration, err := meter.Float64Histogram(MetricBuildDuration,
		metric.WithDescription("Duration of request builds in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricBuildDuration, err)
	}

	dispatches, err := meter.Int64Counter(MetricDispatches,
		metric.WithDescription("Requests handed to the transport, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricDispatches, err)
	}

	dispatchLatency, err := meter.Float64Histogram(MetricDispatchLatency,
		metric.WithDescription("Round-trip time of dispatched requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricDispatchLatency, err)
	}

	return &BuildMetrics{
		builds:          builds,
		buildErrors:     buildErrors,
		buildDuration:   buildDuration,
		dispatches:      dispatches,
		dispatchLatency: dispatchLatency,
	}, nil
}

// RecordBuild records a successful build.
func (m *BuildMetrics) RecordBuild(ctx context.Context, method, task string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("task", task),
	)
	m.builds.Add(ctx, 1, attrs)
	m.buildDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordBuildError records a failed build.
func (m *BuildMetrics) RecordBuildError(ctx context.Context, method, code string) {
	if m == nil {
		return
	}
	m.buildErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("code", code),
	))
}

// RecordDispatch records a completed transport round trip. Outcome is
// "ok", "error" or "canceled".
func (m *BuildMetrics) RecordDispatch(ctx context.Context, method, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	)
	m.dispatches.Add(ctx, 1, attrs)
	m.dispatchLatency.Record(ctx, duration.Seconds(), attrs)
}
