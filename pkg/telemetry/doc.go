// Package telemetry provides the run's observability surface: the
// structured logger with its per-task buffered sinks and status records,
// Prometheus metrics, and the OpenTelemetry tracer.
package telemetry
