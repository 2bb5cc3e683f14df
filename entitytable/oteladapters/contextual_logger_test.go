package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/library-entitytable/entitytable/oteladapters"
)

func Test_SlogBridgeLogger_WritesAllLevels(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "executed sql for: select rows", "duration_ms", 1.5)
	logger.InfoContext(ctx, "entitytable operation: select completed", "row_count", 3)
	logger.WarnContext(ctx, "dropped unknown filter fields", "table", "items")
	logger.ErrorContext(ctx, "database query execution failed", "error", "boom")

	// assert
	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG"`)
	assert.Contains(t, output, `"row_count":3`)
	assert.Contains(t, output, `"table":"items"`)
	assert.Contains(t, output, `"error":"boom"`)
}

func Test_NewSlogBridgeLogger_UsesGlobalProvider(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("test")

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "entitytable operation: select completed", "row_count", 1)
	})
}

func Test_OTelLogger_EmitsWithoutPanicking(t *testing.T) {
	// arrange
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("test"))
	ctx := context.Background()

	// act & assert
	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "executed sql for: select row", "duration_ms", 0.25, "query", "select 1")
		logger.InfoContext(ctx, "entitytable operation: select completed", "row_count", 1, "total", int64(7))
		logger.WarnContext(ctx, "failed to close database rows", "dangling")
		logger.ErrorContext(ctx, "failed to scan database row", "error", "boom", "retry", false)
	})
}
