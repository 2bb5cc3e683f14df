package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/library-entitytable/entitytable/oteladapters"
)

func givenMetricsCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	t.Fatalf("metric %s not collected", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration_UsesSecondsHistogram(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"operation": "select_rows", "status": "success"}

	// act
	collector.RecordDuration("entitytable_select_duration_seconds", 250*time.Millisecond, labels)
	collector.RecordDurationContext(context.Background(), "entitytable_select_duration_seconds", 750*time.Millisecond, labels)

	// assert
	m := collectMetric(t, reader, "entitytable_select_duration_seconds")
	assert.Equal(t, "s", m.Unit)

	histogram, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(2), histogram.DataPoints[0].Count)
	assert.InDelta(t, 1.0, histogram.DataPoints[0].Sum, 0.0001)
}

func Test_MetricsCollector_IncrementCounter_CountsPerLabelSet(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	queryErrors := map[string]string{"operation": "select_rows", "error_type": "database_query"}
	scanErrors := map[string]string{"operation": "select_rows", "error_type": "row_scan"}

	// act
	collector.IncrementCounter("entitytable_database_errors_total", queryErrors)
	collector.IncrementCounterContext(context.Background(), "entitytable_database_errors_total", queryErrors)
	collector.IncrementCounter("entitytable_database_errors_total", scanErrors)

	// assert
	m := collectMetric(t, reader, "entitytable_database_errors_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.True(t, sum.IsMonotonic)

	var total int64
	for _, dataPoint := range sum.DataPoints {
		total += dataPoint.Value
	}
	assert.Len(t, sum.DataPoints, 2)
	assert.Equal(t, int64(3), total)
}

func Test_MetricsCollector_RecordValue_RecordsDistribution(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()

	// act
	collector.RecordValue("entitytable_select_rows_total", 3, map[string]string{"operation": "select_rows"})
	collector.RecordValueContext(context.Background(), "entitytable_select_rows_total", 5, map[string]string{"operation": "select_rows"})

	// assert
	m := collectMetric(t, reader, "entitytable_select_rows_total")
	histogram, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.InDelta(t, 8.0, histogram.DataPoints[0].Sum, 0.0001)
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	var wg sync.WaitGroup

	// act
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("entitytable_database_errors_total", nil)
		}()
	}
	wg.Wait()

	// assert
	m := collectMetric(t, reader, "entitytable_database_errors_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)
}
