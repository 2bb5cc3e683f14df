package oteladapters

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

// MetricsCollector implements entitytable.ContextualMetricsCollector using the OpenTelemetry metrics API:
//   - RecordDuration -> Float64Histogram in seconds
//   - IncrementCounter -> Int64Counter
//   - RecordValue -> Float64Histogram without unit
//
// Instruments are created on first use and cached by name. It is safe for concurrent use.
type MetricsCollector struct {
	meter      metric.Meter
	mu         sync.Mutex
	durations  map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
	valueDists map[string]metric.Float64Histogram
}

// NewMetricsCollector creates a metrics collector. The meter should come from your MeterProvider.
func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		meter:      meter,
		durations:  make(map[string]metric.Float64Histogram),
		counters:   make(map[string]metric.Int64Counter),
		valueDists: make(map[string]metric.Float64Histogram),
	}
}

func (m *MetricsCollector) RecordDuration(metricName string, duration time.Duration, labels map[string]string) {
	m.RecordDurationContext(context.Background(), metricName, duration, labels)
}

func (m *MetricsCollector) RecordDurationContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	labels map[string]string,
) {

	histogram := m.histogram(m.durations, metricName, "entitytable operation duration", "s")
	if histogram == nil {
		return
	}

	histogram.Record(ctx, duration.Seconds(), metric.WithAttributes(stringAttributes(labels)...))
}

func (m *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	m.IncrementCounterContext(context.Background(), metricName, labels)
}

func (m *MetricsCollector) IncrementCounterContext(ctx context.Context, metricName string, labels map[string]string) {
	counter := m.counter(metricName)
	if counter == nil {
		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(stringAttributes(labels)...))
}

// RecordValue records per-operation values such as returned row counts.
func (m *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	m.RecordValueContext(context.Background(), metricName, value, labels)
}

func (m *MetricsCollector) RecordValueContext(
	ctx context.Context,
	metricName string,
	value float64,
	labels map[string]string,
) {

	histogram := m.histogram(m.valueDists, metricName, "entitytable operation value", "")
	if histogram == nil {
		return
	}

	histogram.Record(ctx, value, metric.WithAttributes(stringAttributes(labels)...))
}

// histogram returns nil if the meter refuses to create the instrument.
func (m *MetricsCollector) histogram(
	cache map[string]metric.Float64Histogram,
	name, description, unit string,
) metric.Float64Histogram {

	m.mu.Lock()
	defer m.mu.Unlock()

	if histogram, exists := cache[name]; exists {
		return histogram
	}

	options := []metric.Float64HistogramOption{metric.WithDescription(description)}
	if unit != "" {
		options = append(options, metric.WithUnit(unit))
	}

	histogram, err := m.meter.Float64Histogram(name, options...)
	if err != nil {
		return nil
	}

	cache[name] = histogram

	return histogram
}

func (m *MetricsCollector) counter(name string) metric.Int64Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if counter, exists := m.counters[name]; exists {
		return counter
	}

	counter, err := m.meter.Int64Counter(name, metric.WithDescription("entitytable operation counter"))
	if err != nil {
		return nil
	}

	m.counters[name] = counter

	return counter
}

var _ entitytable.ContextualMetricsCollector = (*MetricsCollector)(nil)
