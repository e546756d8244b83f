package scheduleevent_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/scheduling-event-manager-go/scheduleevent"
	. "github.com/AntonStoeckl/scheduling-event-manager-go/testutil/helper"                   //nolint:revive
	. "github.com/AntonStoeckl/scheduling-event-manager-go/testutil/helper/storewrapper"      //nolint:revive
	. "github.com/AntonStoeckl/scheduling-event-manager-go/testutil/observability/testdoubles" //nolint:revive
)

func Test_Observability_Store_WithLogger_LogsQueries(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)

	wrapper := CreateWrapperWithTestConfig(t, WithLogger(slog.New(testHandler)))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	GivenScheduleEventsDueInDays(t, ctxWithTimeout, store, FakeClock(), 1, 2)
	testHandler.Reset()

	// act
	_, err := store.FindAll(ctxWithTimeout)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, testHandler.GetRecordCount(), "find_all should log exactly one SQL statement and one operational statement")
	assert.True(t,
		testHandler.HasDebugLogWithMessage("executed sql for: find_all").
			WithDurationMS().
			WithQuery().
			Assert(), "should log the SQL with duration_ms",
	)
	assert.True(t,
		testHandler.HasInfoLogWithMessage("scheduleevent operation: query completed").
			WithDurationMS().
			WithRowCount(2).
			Assert(), "should log query completion with duration and row count",
	)
}

func Test_Observability_Store_WithLogger_LogsWrites(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)

	wrapper := CreateWrapperWithTestConfig(t, WithLogger(slog.New(testHandler)))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	event := FixtureScheduleEvent(GivenUniqueDescription(t), false, FakeClock())

	// act
	createErr := store.Create(ctxWithTimeout, &event)
	replaced := event.OverwriteWith(FixtureScheduleEvent("done", true, FakeClock()))
	updateErr := store.Update(ctxWithTimeout, &replaced)
	_, deleteErr := store.Delete(ctxWithTimeout, event.ID)

	// assert
	assert.NoError(t, createErr)
	assert.NoError(t, updateErr)
	assert.NoError(t, deleteErr)
	assert.True(t, testHandler.HasDebugLogWithMessage("executed sql for: create").WithDurationMS().Assert())
	assert.True(t, testHandler.HasDebugLogWithMessage("executed sql for: update").WithDurationMS().Assert())
	assert.True(t, testHandler.HasDebugLogWithMessage("executed sql for: delete").WithDurationMS().Assert())
	assert.True(t,
		testHandler.HasInfoLogWithMessage("scheduleevent operation: schedule event created").
			WithID(event.ID).
			WithRowCount(1).
			Assert(), "should log the created id",
	)
	assert.True(t,
		testHandler.HasInfoLogWithMessage("scheduleevent operation: schedule event updated").
			WithID(event.ID).
			Assert(), "should log the updated id",
	)
	assert.True(t,
		testHandler.HasInfoLogWithMessage("scheduleevent operation: schedule event deleted").
			WithID(event.ID).
			WithDurationMS().
			Assert(), "should log the deleted id",
	)
}

func Test_Observability_Store_WithLogger_LogsNotFound(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)

	wrapper := CreateWrapperWithTestConfig(t, WithLogger(slog.New(testHandler)))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	missing := FixtureScheduleEvent(GivenUniqueDescription(t), false, FakeClock())
	missing.ID = 42

	// act
	updateErr := store.Update(ctxWithTimeout, &missing)
	deleted, deleteErr := store.Delete(ctxWithTimeout, missing.ID)

	// assert
	assert.ErrorIs(t, updateErr, scheduleevent.ErrScheduleEventNotFound)
	assert.NoError(t, deleteErr)
	assert.False(t, deleted)
	assert.True(t,
		testHandler.HasInfoLogWithMessage("scheduleevent operation: schedule event not found").
			WithID(42).
			Assert(), "should log the missing id",
	)
	assert.False(t, testHandler.HasErrorLogWithMessage("database statement execution failed").Assert(),
		"a missing event is no database error",
	)
}

func Test_Observability_Store_WithLogger_LogsErrors(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)

	wrapper := CreateWrapperWithTestConfig(t, WithTableName("non_existent_table"), WithLogger(slog.New(testHandler)))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// act
	_, err := store.FindAll(ctxWithTimeout)

	// assert
	assert.Error(t, err)
	assert.True(t,
		testHandler.HasErrorLogWithMessage("database query execution failed").
			WithErrorType("database_query").
			WithQuery().
			Assert(), "should log the failed query with its error type",
	)
}

func Test_Observability_Store_WithMetrics_RecordsQueryMetrics(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricsCollector := NewMetricsCollectorSpy(true)

	wrapper := CreateWrapperWithTestConfig(t, WithMetrics(metricsCollector))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	GivenScheduleEventsDueInDays(t, ctxWithTimeout, store, FakeClock(), 1, 2, 3)
	metricsCollector.Reset()
	filter := scheduleevent.BuildScheduleEventFilter().Matching().Completed(false).Finalize()

	// act
	_, err := store.FindByCondition(ctxWithTimeout, filter)

	// assert
	assert.NoError(t, err)
	assert.True(t, metricsCollector.HasDurationRecordForMetric("scheduleevent_operation_duration_seconds").
		WithOperation("find_by_condition").
		WithStatus("success").
		Assert(), "should record the query duration")
	assert.True(t, metricsCollector.HasValueRecordForMetric("scheduleevent_rows_processed_total").
		WithOperation("find_by_condition").
		WithValue(3).
		Assert(), "should record the number of returned rows")
	assert.Equal(t, 0, metricsCollector.GetCounterRecordCount(), "should not count errors")
}

func Test_Observability_Store_WithMetrics_RecordsWriteMetrics(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricsCollector := NewMetricsCollectorSpy(true)

	wrapper := CreateWrapperWithTestConfig(t, WithMetrics(metricsCollector))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	event := FixtureScheduleEvent(GivenUniqueDescription(t), false, FakeClock())

	// act
	createErr := store.Create(ctxWithTimeout, &event)
	_, deleteErr := store.Delete(ctxWithTimeout, event.ID)

	// assert
	assert.NoError(t, createErr)
	assert.NoError(t, deleteErr)
	for _, operation := range []string{"create", "delete"} {
		assert.True(t, metricsCollector.HasDurationRecordForMetric("scheduleevent_operation_duration_seconds").
			WithOperation(operation).
			WithStatus("success").
			Assert(), "should record the duration of "+operation)
		assert.True(t, metricsCollector.HasValueRecordForMetric("scheduleevent_rows_processed_total").
			WithOperation(operation).
			WithValue(1).
			Assert(), "should record one processed row for "+operation)
	}
}

func Test_Observability_Store_WithMetrics_RecordsErrorMetrics(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricsCollector := NewMetricsCollectorSpy(true)

	wrapper := CreateWrapperWithTestConfig(t, WithTableName("non_existent_table"), WithMetrics(metricsCollector))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// act
	_, err := store.FindAll(ctxWithTimeout)

	// assert
	assert.Error(t, err)
	assert.False(t, metricsCollector.SupportsContextual(), "basic spy should not support contextual interface")
	assert.True(t, metricsCollector.HasDurationRecordForMetric("scheduleevent_operation_duration_seconds").
		WithOperation("find_all").
		WithStatus("error").
		Assert(), "should record the duration of the failed query")
	assert.True(t, metricsCollector.HasCounterRecordForMetric("scheduleevent_database_errors_total").
		WithOperation("find_all").
		WithErrorType("database_query").
		Assert(), "should count the database error")
}

func Test_Observability_Store_WithContextualMetrics_UsesContextualPath(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricsCollector := NewContextualMetricsCollectorSpy(true)

	wrapper := CreateWrapperWithTestConfig(t, WithTableName("non_existent_table"), WithMetrics(metricsCollector))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// act
	_, err := store.Delete(ctxWithTimeout, 1)

	// assert
	assert.Error(t, err)
	assert.True(t, metricsCollector.SupportsContextual(), "contextual spy should support contextual interface")
	assert.Equal(t, 2, metricsCollector.GetContextualCallCount(), "duration and error counter should use the contextual methods")
	assert.True(t, metricsCollector.HasCounterRecordForMetric("scheduleevent_database_errors_total").
		WithOperation("delete").
		WithErrorType("database_exec").
		Assert(), "should count the database error via the contextual path")
}

func Test_Observability_Store_WithTracing_RecordsSpans(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tracingCollector := NewTracingCollectorSpy(true)

	wrapper := CreateWrapperWithTestConfig(t, WithTracing(tracingCollector))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	event := GivenScheduleEventWasCreated(t, ctxWithTimeout, store, GivenUniqueDescription(t), false, FakeClock())
	missing := event
	missing.ID = event.ID + 1

	// act
	_, findErr := store.FindAll(ctxWithTimeout)
	updateErr := store.Update(ctxWithTimeout, &missing)

	// assert
	assert.NoError(t, findErr)
	assert.ErrorIs(t, updateErr, scheduleevent.ErrScheduleEventNotFound)
	assert.Equal(t, 3, tracingCollector.GetSpanRecordCount(), "should record one span per operation")
	assert.True(t, tracingCollector.HasSpanRecordForName("scheduleevent.create").
		WithStatus("success").
		WithStartAttribute("operation", "create").
		Assert(), "should record the create span")
	assert.True(t, tracingCollector.HasSpanRecordForName("scheduleevent.find_all").
		WithStatus("success").
		WithEndAttribute("row_count", "1").
		Assert(), "should record the find_all span with its row count")
	assert.True(t, tracingCollector.HasSpanRecordForName("scheduleevent.update").
		WithEndAttribute("error_type", "not_found").
		Assert(), "should mark the update span as not found")
}

func Test_Observability_Store_WithTracing_RecordsErrorSpans(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tracingCollector := NewTracingCollectorSpy(true)

	wrapper := CreateWrapperWithTestConfig(t, WithTableName("non_existent_table"), WithTracing(tracingCollector))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// act
	_, err := store.FindByCondition(ctxWithTimeout, scheduleevent.BuildScheduleEventFilter().Matching().Completed(true).Finalize())

	// assert
	assert.Error(t, err)
	assert.True(t, tracingCollector.HasSpanRecordForName("scheduleevent.find_by_condition").
		WithStatus("error").
		WithEndAttribute("error_type", "database_query").
		Assert(), "should record the error span")
}

func Test_Observability_Store_WithContextualLogger_LogsOperations(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	contextualLogger := NewContextualLoggerSpy(true)

	wrapper := CreateWrapperWithTestConfig(t, WithContextualLogger(contextualLogger))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	event := FixtureScheduleEvent(GivenUniqueDescription(t), false, FakeClock())

	// act
	createErr := store.Create(ctxWithTimeout, &event)
	_, findErr := store.FindAll(ctxWithTimeout)

	// assert
	assert.NoError(t, createErr)
	assert.NoError(t, findErr)
	assert.True(t, contextualLogger.HasDebugLog("executed sql for: create"))
	assert.True(t, contextualLogger.HasDebugLog("executed sql for: find_all"))
	assert.True(t, contextualLogger.HasInfoLog("scheduleevent operation: schedule event created"))
	assert.True(t, contextualLogger.HasInfoLog("scheduleevent operation: query completed"))

	for _, record := range contextualLogger.GetRecords("info") {
		assert.NotNil(t, record.Context, "the context should be passed on for trace correlation")
	}
}

func Test_Observability_Store_WithContextualLogger_LogsErrors(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	contextualLogger := NewContextualLoggerSpy(true)

	wrapper := CreateWrapperWithTestConfig(t, WithTableName("non_existent_table"), WithContextualLogger(contextualLogger))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	event := FixtureScheduleEvent(GivenUniqueDescription(t), false, FakeClock())

	// act
	err := store.Create(ctxWithTimeout, &event)

	// assert
	assert.ErrorIs(t, err, scheduleevent.ErrInsertingFailed)
	assert.True(t, contextualLogger.HasErrorLog("database statement execution failed"))
}

func Test_Observability_Store_WithoutObservability_Works(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t, WithTableName("non_existent_table"))
	defer wrapper.Close()
	store := wrapper.GetStore()

	// act
	_, err := store.FindAll(ctxWithTimeout)

	// assert
	assert.ErrorIs(t, err, scheduleevent.ErrQueryingFailed, "errors should be returned without any observability configured")
}
