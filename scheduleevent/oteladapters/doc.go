// Package oteladapters binds the dependency-free observability interfaces of the scheduleevent package
// to OpenTelemetry:
//   - MetricsCollector: histograms, counters and gauges created on demand from a metric.Meter
//   - TracingCollector: one span per store operation from a trace.Tracer
//   - SlogBridgeLogger: a ContextualLogger using the otelslog bridge for trace correlated logs
//   - OTelLogger: a ContextualLogger emitting log records through the OpenTelemetry log API directly
package oteladapters
