// Package instrumentation bundles logging, metrics and tracing for the schedule event engines.
//
// Every store operation starts an Observer, which records the SQL at debug level, and finishes it
// exactly once with either Succeeded or Failed.
package instrumentation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
)

const (
	MetricOperationDuration = "scheduleevent_operation_duration_seconds"
	MetricRowsProcessed     = "scheduleevent_rows_processed_total"
	MetricDatabaseErrors    = "scheduleevent_database_errors_total"

	SpanNamePrefix = "scheduleevent."

	OperationFindAll         = "find_all"
	OperationFindByCondition = "find_by_condition"
	OperationCreate          = "create"
	OperationUpdate          = "update"
	OperationDelete          = "delete"

	ErrorTypeBuildQuery    = "build_query"
	ErrorTypeDatabaseQuery = "database_query"
	ErrorTypeRowScan       = "row_scan"
	ErrorTypeDatabaseExec  = "database_exec"
	ErrorTypeRowsAffected  = "rows_affected"
	ErrorTypeNotFound      = "not_found"

	StatusSuccess = "success"
	StatusError   = "error"

	AttrOperation = "operation"
	AttrStatus    = "status"
	AttrErrorType = "error_type"
	AttrRowCount  = "row_count"
	AttrDBSystem  = "db.system"
	AttrDuration  = "duration_ms"

	logMsgSQLExecuted = "executed sql for: "
	logMsgOperation   = "scheduleevent operation: "
	logAttrError      = "error"
	logAttrQuery      = "query"
	logAttrDurationMS = "duration_ms"
)

// Instrumentation holds the optional observability collaborators of a store; all of them may be nil.
type Instrumentation struct {
	Logger           scheduleevent.Logger
	ContextualLogger scheduleevent.ContextualLogger
	MetricsCollector scheduleevent.MetricsCollector
	TracingCollector scheduleevent.TracingCollector
	DBSystem         string
}

// Observer tracks one store operation from start to finish.
type Observer struct {
	in        Instrumentation
	ctx       context.Context
	span      scheduleevent.SpanContext
	operation string
	start     time.Time
}

// Start opens a tracing span (if configured) and returns the context to pass on to the database.
func (in Instrumentation) Start(ctx context.Context, operation string) (context.Context, *Observer) {
	var span scheduleevent.SpanContext

	if in.TracingCollector != nil {
		ctx, span = in.TracingCollector.StartSpan(ctx, SpanNamePrefix+operation, map[string]string{
			AttrOperation: operation,
			AttrDBSystem:  in.DBSystem,
		})
	}

	return ctx, &Observer{
		in:        in,
		ctx:       ctx,
		span:      span,
		operation: operation,
		start:     time.Now(),
	}
}

// SQLExecuted logs the executed statement with its execution time at debug level.
func (o *Observer) SQLExecuted(sqlQuery string, duration time.Duration) {
	args := []any{logAttrDurationMS, ToMilliseconds(duration), logAttrQuery, sqlQuery}

	if o.in.Logger != nil {
		o.in.Logger.Debug(logMsgSQLExecuted+o.operation, args...)
	}

	if o.in.ContextualLogger != nil {
		o.in.ContextualLogger.DebugContext(o.ctx, logMsgSQLExecuted+o.operation, args...)
	}
}

// Warn reports a non-critical problem, e.g. failing to close rows.
func (o *Observer) Warn(msg string, err error) {
	if o.in.Logger != nil {
		o.in.Logger.Warn(msg, logAttrError, err.Error())
	}

	if o.in.ContextualLogger != nil {
		o.in.ContextualLogger.WarnContext(o.ctx, msg, logAttrError, err.Error())
	}
}

// Succeeded finishes the operation, rowCount is the number of returned or affected rows.
func (o *Observer) Succeeded(msg string, rowCount int64, args ...any) {
	duration := time.Since(o.start)

	allArgs := []any{AttrRowCount, rowCount, logAttrDurationMS, ToMilliseconds(duration)}
	allArgs = append(allArgs, args...)

	if o.in.Logger != nil {
		o.in.Logger.Info(logMsgOperation+msg, allArgs...)
	}

	if o.in.ContextualLogger != nil {
		o.in.ContextualLogger.InfoContext(o.ctx, logMsgOperation+msg, allArgs...)
	}

	labels := map[string]string{AttrOperation: o.operation, AttrStatus: StatusSuccess}
	o.recordDuration(duration, labels)
	o.recordValue(float64(rowCount), labels)

	o.finishSpan(StatusSuccess, map[string]string{
		AttrRowCount: fmt.Sprintf("%d", rowCount),
		AttrDuration: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
	})
}

// Failed finishes the operation with an error and returns err unchanged, so it can be used in return statements.
func (o *Observer) Failed(msg string, errorType string, err error, args ...any) error {
	duration := time.Since(o.start)

	allArgs := []any{logAttrError, err.Error(), AttrErrorType, errorType}
	allArgs = append(allArgs, args...)

	if o.in.Logger != nil {
		o.in.Logger.Error(msg, allArgs...)
	}

	if o.in.ContextualLogger != nil {
		o.in.ContextualLogger.ErrorContext(o.ctx, msg, allArgs...)
	}

	o.recordDuration(duration, map[string]string{AttrOperation: o.operation, AttrStatus: StatusError})
	o.incrementErrors(map[string]string{AttrOperation: o.operation, AttrStatus: StatusError, AttrErrorType: errorType})

	o.finishSpan(StatusError, map[string]string{
		AttrErrorType: errorType,
		AttrDuration:  fmt.Sprintf("%.2f", ToMilliseconds(duration)),
	})

	return err
}

// NotFound finishes an operation that completed but did not find its target row.
// It is not a database error, so no error counter is incremented.
func (o *Observer) NotFound(msg string, args ...any) {
	duration := time.Since(o.start)

	allArgs := []any{logAttrDurationMS, ToMilliseconds(duration)}
	allArgs = append(allArgs, args...)

	if o.in.Logger != nil {
		o.in.Logger.Info(logMsgOperation+msg, allArgs...)
	}

	if o.in.ContextualLogger != nil {
		o.in.ContextualLogger.InfoContext(o.ctx, logMsgOperation+msg, allArgs...)
	}

	o.recordDuration(duration, map[string]string{AttrOperation: o.operation, AttrStatus: StatusSuccess})

	o.finishSpan(StatusSuccess, map[string]string{
		AttrRowCount:  "0",
		AttrErrorType: ErrorTypeNotFound,
	})
}

func (o *Observer) recordDuration(duration time.Duration, labels map[string]string) {
	if o.in.MetricsCollector == nil {
		return
	}

	if contextualCollector, ok := o.in.MetricsCollector.(scheduleevent.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(o.ctx, MetricOperationDuration, duration, labels)
		return
	}

	o.in.MetricsCollector.RecordDuration(MetricOperationDuration, duration, labels)
}

func (o *Observer) recordValue(value float64, labels map[string]string) {
	if o.in.MetricsCollector == nil {
		return
	}

	if contextualCollector, ok := o.in.MetricsCollector.(scheduleevent.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(o.ctx, MetricRowsProcessed, value, labels)
		return
	}

	o.in.MetricsCollector.RecordValue(MetricRowsProcessed, value, labels)
}

func (o *Observer) incrementErrors(labels map[string]string) {
	if o.in.MetricsCollector == nil {
		return
	}

	if contextualCollector, ok := o.in.MetricsCollector.(scheduleevent.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(o.ctx, MetricDatabaseErrors, labels)
		return
	}

	o.in.MetricsCollector.IncrementCounter(MetricDatabaseErrors, labels)
}

func (o *Observer) finishSpan(status string, attrs map[string]string) {
	if o.in.TracingCollector == nil || o.span == nil {
		return
	}

	o.span.SetStatus(status)
	o.in.TracingCollector.FinishSpan(o.span, status, attrs)
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
