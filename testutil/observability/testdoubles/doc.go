// Package testdoubles provides test doubles (spies) for the observability interfaces of the schedule event stores.
//
//   - LogHandlerSpy: captures slog records, to be wrapped with slog.New
//   - ContextualLoggerSpy: captures context-aware log calls
//   - MetricsCollectorSpy / ContextualMetricsCollectorSpy: capture durations, counters and values
//   - TracingCollectorSpy: captures spans with their start and finish attributes
package testdoubles
