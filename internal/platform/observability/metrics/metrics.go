package metrics

import (
	"fmt"
	"sync"
	"time"
)

// Metrics defines the interface for metrics collection
type Metrics interface {
	IncrementCounter(name string, labels map[string]string)
	RecordValue(name string, value float64, labels map[string]string)
	RecordDuration(name string, duration time.Duration, labels map[string]string)
	SetGauge(name string, value float64, labels map[string]string)
}

// InMemoryMetrics implements Metrics with in-memory storage.
// In production you'd export these to Prometheus or StatsD; the /metrics
// debug endpoint serves the snapshot as JSON.
type InMemoryMetrics struct {
	serviceName string
	counters    map[string]*Counter
	gauges      map[string]*Gauge
	histograms  map[string]*Histogram
	mu          sync.RWMutex
}

// Counter represents a counter metric
type Counter struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels"`
	Value  int64             `json:"value"`
}

// Gauge represents a gauge metric
type Gauge struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels"`
	Value  float64           `json:"value"`
}

// Histogram represents a histogram metric
type Histogram struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels"`
	Count  int64             `json:"count"`
	Sum    float64           `json:"sum"`
}

// NewMetrics creates a new metrics instance
func NewMetrics(serviceName string) (Metrics, error) {
	return &InMemoryMetrics{
		serviceName: serviceName,
		counters:    make(map[string]*Counter),
		gauges:      make(map[string]*Gauge),
		histograms:  make(map[string]*Histogram),
	}, nil
}

// IncrementCounter increments a counter metric
func (m *InMemoryMetrics) IncrementCounter(name string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.metricKey(name, labels)

	if counter, exists := m.counters[key]; exists {
		counter.Value++
	} else {
		m.counters[key] = &Counter{
			Name:   name,
			Labels: m.copyLabels(labels),
			Value:  1,
		}
	}
}

// RecordValue records a value for a histogram metric
func (m *InMemoryMetrics) RecordValue(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.metricKey(name, labels)

	if histogram, exists := m.histograms[key]; exists {
		histogram.Count++
		histogram.Sum += value
	} else {
		m.histograms[key] = &Histogram{
			Name:   name,
			Labels: m.copyLabels(labels),
			Count:  1,
			Sum:    value,
		}
	}
}

// RecordDuration records a duration for a histogram metric
func (m *InMemoryMetrics) RecordDuration(name string, duration time.Duration, labels map[string]string) {
	m.RecordValue(name, duration.Seconds(), labels)
}

// SetGauge sets a gauge metric value
func (m *InMemoryMetrics) SetGauge(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.metricKey(name, labels)

	m.gauges[key] = &Gauge{
		Name:   name,
		Labels: m.copyLabels(labels),
		Value:  value,
	}
}

// GetMetrics returns all collected metrics (useful for debugging/monitoring endpoints)
func (m *InMemoryMetrics) GetMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counters := make(map[string]*Counter, len(m.counters))
	for k, v := range m.counters {
		counters[k] = &Counter{Name: v.Name, Labels: m.copyLabels(v.Labels), Value: v.Value}
	}

	gauges := make(map[string]*Gauge, len(m.gauges))
	for k, v := range m.gauges {
		gauges[k] = &Gauge{Name: v.Name, Labels: m.copyLabels(v.Labels), Value: v.Value}
	}

	histograms := make(map[string]*Histogram, len(m.histograms))
	for k, v := range m.histograms {
		histograms[k] = &Histogram{Name: v.Name, Labels: m.copyLabels(v.Labels), Count: v.Count, Sum: v.Sum}
	}

	return map[string]interface{}{
		"service":    m.serviceName,
		"counters":   counters,
		"gauges":     gauges,
		"histograms": histograms,
	}
}

// CounterValue returns the current value of a counter, 0 if it was never incremented.
func (m *InMemoryMetrics) CounterValue(name string, labels map[string]string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if counter, exists := m.counters[m.metricKey(name, labels)]; exists {
		return counter.Value
	}
	return 0
}

func (m *InMemoryMetrics) metricKey(name string, labels map[string]string) string {
	key := name
	for k, v := range labels {
		key += fmt.Sprintf("_%s_%s", k, v)
	}
	return key
}

func (m *InMemoryMetrics) copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}

	copied := make(map[string]string, len(labels))
	for k, v := range labels {
		copied[k] = v
	}
	return copied
}

// NoOpMetrics is a metrics implementation that does nothing (useful for testing)
type NoOpMetrics struct{}

// NewNoOpMetrics creates a no-op metrics instance
func NewNoOpMetrics() Metrics {
	return &NoOpMetrics{}
}

func (n *NoOpMetrics) IncrementCounter(name string, labels map[string]string)            {}
func (n *NoOpMetrics) RecordValue(name string, value float64, labels map[string]string)  {}
func (n *NoOpMetrics) RecordDuration(name string, d time.Duration, l map[string]string)  {}
func (n *NoOpMetrics) SetGauge(name string, value float64, labels map[string]string)     {}
