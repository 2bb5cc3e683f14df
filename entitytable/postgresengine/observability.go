package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

const (
	metricSelectDuration   = "entitytable_select_duration_seconds"
	metricSelectRows       = "entitytable_select_rows_total"
	metricDatabaseErrors   = "entitytable_database_errors_total"
	spanNameSelectRows     = "entitytable.select_rows"
	spanNameSelectRow      = "entitytable.select_row"
	spanAttrOperation      = "operation"
	spanAttrErrorType      = "error_type"
	spanAttrRowCount       = "row_count"
	spanAttrDurationMS     = "duration_ms"
	labelStatus            = "status"
	operationSelectRows    = "select_rows"
	operationSelectRow     = "select_row"
	statusSuccess          = "success"
	statusError            = "error"
	errorTypeBuildQuery    = "build_query"
	errorTypeDatabaseQuery = "database_query"
	errorTypeRowScan       = "row_scan"
	errorTypeCountRows     = "count_rows"
)

// logQueryWithDuration logs SQL queries with execution time at debug level.
func (db *Db) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, db.toMilliseconds(duration), logAttrQuery, sqlQuery}

	if db.logger != nil {
		db.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if db.contextualLogger != nil {
		db.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level.
func (db *Db) logOperation(ctx context.Context, action string, args ...any) {
	if db.logger != nil {
		db.logger.Info(logMsgOperation+action, args...)
	}

	if db.contextualLogger != nil {
		db.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

func (db *Db) logWarn(ctx context.Context, message string, args ...any) {
	if db.logger != nil {
		db.logger.Warn(message, args...)
	}

	if db.contextualLogger != nil {
		db.contextualLogger.WarnContext(ctx, message, args...)
	}
}

// logError logs error information at the error level.
func (db *Db) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if db.logger != nil {
		db.logger.Error(message, allArgs...)
	}

	if db.contextualLogger != nil {
		db.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (db *Db) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordErrorMetrics increments the database error counter, with context if the collector supports it.
func (db *Db) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	if db.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	}

	if contextualCollector, ok := db.metricsCollector.(entitytable.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		return
	}

	db.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
}

// recordDurationMetrics records duration metrics, with context if the collector supports it.
func (db *Db) recordDurationMetrics(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if db.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       status,
	}

	if contextualCollector, ok := db.metricsCollector.(entitytable.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		return
	}

	db.metricsCollector.RecordDuration(metricName, duration, labels)
}

// recordValueMetrics records value metrics, with context if the collector supports it.
func (db *Db) recordValueMetrics(
	ctx context.Context,
	metricName string,
	value float64,
	operation, status string,
) {
	if db.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       status,
	}

	if contextualCollector, ok := db.metricsCollector.(entitytable.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		return
	}

	db.metricsCollector.RecordValue(metricName, value, labels)
}

// startSelectSpan starts a tracing span if the tracing collector is configured.
func (db *Db) startSelectSpan(ctx context.Context, spanName, operation string) (context.Context, entitytable.SpanContext) {
	if db.tracingCollector == nil {
		return ctx, nil
	}

	return db.tracingCollector.StartSpan(ctx, spanName, map[string]string{spanAttrOperation: operation})
}

// finishSelectSpanSuccess finishes a successful select span with the row count.
func (db *Db) finishSelectSpanSuccess(span entitytable.SpanContext, rowCount int, duration time.Duration) {
	if db.tracingCollector == nil || span == nil {
		return
	}

	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))

	db.tracingCollector.FinishSpan(span, statusSuccess, map[string]string{
		spanAttrRowCount: fmt.Sprintf("%d", rowCount),
	})
}

// finishSelectSpanError finishes a select span with error details.
func (db *Db) finishSelectSpanError(span entitytable.SpanContext, errorType string, duration time.Duration) {
	if db.tracingCollector == nil || span == nil {
		return
	}

	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))

	db.tracingCollector.FinishSpan(span, statusError, map[string]string{
		spanAttrErrorType: errorType,
	})
}
