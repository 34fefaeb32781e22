// Package promadapters provides a Prometheus implementation of docquery.MetricsCollector.
package promadapters

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

var ErrNilRegisterer = errors.New("prometheus registerer must not be nil")

const (
	helpDuration = "docquery operation duration in seconds"
	helpCounter  = "docquery operation counter"
	helpValue    = "docquery last recorded value"
)

// MetricsCollector maps the docquery metrics onto Prometheus collectors, created on first use:
//   - RecordDuration -> HistogramVec in seconds
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
//
// The label names of a metric are fixed by its first recording. Later recordings fill
// missing labels with "" and drop unknown ones, since Prometheus needs a stable label set.
type MetricsCollector struct {
	mu               sync.Mutex
	registerer       prometheus.Registerer
	namespace        string
	durationBuckets  []float64
	histograms       map[string]*prometheus.HistogramVec
	counters         map[string]*prometheus.CounterVec
	gauges           map[string]*prometheus.GaugeVec
	labelNames       map[string][]string
	dropped          map[string]struct{}
	registrationErrs []error
}

// Option defines a functional option for configuring a MetricsCollector.
type Option func(*MetricsCollector) error

// WithRegisterer sets the registry the collectors are registered with.
// The default is prometheus.DefaultRegisterer.
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(m *MetricsCollector) error {
		if registerer == nil {
			return ErrNilRegisterer
		}

		m.registerer = registerer

		return nil
	}
}

// WithNamespace prefixes every metric name.
func WithNamespace(namespace string) Option {
	return func(m *MetricsCollector) error {
		m.namespace = namespace
		return nil
	}
}

// WithDurationBuckets replaces prometheus.DefBuckets for duration histograms.
func WithDurationBuckets(buckets ...float64) Option {
	return func(m *MetricsCollector) error {
		m.durationBuckets = buckets
		return nil
	}
}

// NewMetricsCollector creates a new Prometheus metrics collector.
func NewMetricsCollector(options ...Option) (*MetricsCollector, error) {
	m := &MetricsCollector{
		registerer:      prometheus.DefaultRegisterer,
		durationBuckets: prometheus.DefBuckets,
		histograms:      make(map[string]*prometheus.HistogramVec),
		counters:        make(map[string]*prometheus.CounterVec),
		gauges:          make(map[string]*prometheus.GaugeVec),
		labelNames:      make(map[string][]string),
		dropped:         make(map[string]struct{}),
	}

	for _, option := range options {
		if err := option(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordDuration observes the duration in seconds.
func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	histogram, names := m.histogram(metric, labels)
	if histogram == nil {
		return
	}

	histogram.WithLabelValues(labelValues(names, labels)...).Observe(duration.Seconds())
}

// IncrementCounter adds one to the counter.
func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counter, names := m.counter(metric, labels)
	if counter == nil {
		return
	}

	counter.WithLabelValues(labelValues(names, labels)...).Inc()
}

// RecordValue sets the gauge to value.
func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	gauge, names := m.gauge(metric, labels)
	if gauge == nil {
		return
	}

	gauge.WithLabelValues(labelValues(names, labels)...).Set(value)
}

// RegistrationErrors returns the errors of collectors that could not be registered.
// Recordings for those metrics are dropped.
func (m *MetricsCollector) RegistrationErrors() []error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]error(nil), m.registrationErrs...)
}

func (m *MetricsCollector) histogram(metric string, labels map[string]string) (*prometheus.HistogramVec, []string) {
	if histogram, exists := m.histograms[metric]; exists {
		return histogram, m.labelNames[metric]
	}

	names := m.namesFor(metric, labels)
	histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      metric,
		Help:      helpDuration,
		Buckets:   m.durationBuckets,
	}, names)

	if !m.register(metric, histogram) {
		return nil, nil
	}

	m.histograms[metric] = histogram

	return histogram, names
}

func (m *MetricsCollector) counter(metric string, labels map[string]string) (*prometheus.CounterVec, []string) {
	if counter, exists := m.counters[metric]; exists {
		return counter, m.labelNames[metric]
	}

	names := m.namesFor(metric, labels)
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      metric,
		Help:      helpCounter,
	}, names)

	if !m.register(metric, counter) {
		return nil, nil
	}

	m.counters[metric] = counter

	return counter, names
}

func (m *MetricsCollector) gauge(metric string, labels map[string]string) (*prometheus.GaugeVec, []string) {
	if gauge, exists := m.gauges[metric]; exists {
		return gauge, m.labelNames[metric]
	}

	names := m.namesFor(metric, labels)
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      metric,
		Help:      helpValue,
	}, names)

	if !m.register(metric, gauge) {
		return nil, nil
	}

	m.gauges[metric] = gauge

	return gauge, names
}

func (m *MetricsCollector) register(metric string, collector prometheus.Collector) bool {
	if _, isDropped := m.dropped[metric]; isDropped {
		return false
	}

	if err := m.registerer.Register(collector); err != nil {
		m.dropped[metric] = struct{}{}
		m.registrationErrs = append(m.registrationErrs, err)
		return false
	}

	return true
}

func (m *MetricsCollector) namesFor(metric string, labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for key := range labels {
		names = append(names, key)
	}

	sort.Strings(names)
	m.labelNames[metric] = names

	return names
}

func labelValues(names []string, labels map[string]string) []string {
	values := make([]string, 0, len(names))
	for _, name := range names {
		values = append(values, labels[name])
	}

	return values
}

// Ensure MetricsCollector implements docquery.MetricsCollector.
var _ docquery.MetricsCollector = (*MetricsCollector)(nil)
