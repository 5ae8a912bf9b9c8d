// Package otel provides opt-in OpenTelemetry distributed tracing for
// the worker process and the command/query mediator.
//
// Tracing is controlled by two environment variables:
//
//   - REALMFORGE_OTEL_ENDPOINT — OTLP HTTP endpoint (e.g. http://jaeger:4318).
//     When empty, tracing is disabled and Setup returns a no-op.
//   - REALMFORGE_OTEL_ENABLED — set to "false" to explicitly disable
//     tracing even when an endpoint is configured.
//
// Call [Setup] early in cmd/worker's run function and defer the
// returned shutdown to flush pending spans on exit.
package otel
