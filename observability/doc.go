// Package observability wires OpenTelemetry tracing and metrics for reqkit.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("reqkit"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("reqkit"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewBuildMetrics(observability.Meter(observability.InstrumentationName))
//
// Without Init* calls the global no-op providers are used, so instrumented
// code never needs to check whether telemetry is enabled.
package observability
