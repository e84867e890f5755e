// Package telemetry exposes counters for settings validation, driver
// activation and hot reloads.
package telemetry

import (
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Validation failure kinds.
const (
	KindParse     = "parse"
	KindSemantic  = "semantic"
	KindTransport = "transport"
)

// Activation outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeFailed   = "failed"
	OutcomeMismatch = "readback_mismatch"
)

// Collector captures telemetry events emitted by the writer.
//
// Implementations may forward metrics to Prometheus, loggers or other
// monitoring systems. They are called inline with every apply.
type Collector interface {
	IncHotReload(file string)
	IncValidationFailure(kind string)
	IncActivation(outcome string)
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) IncHotReload(string)         {}
func (noopCollector) IncValidationFailure(string) {}
func (noopCollector) IncActivation(string)        {}

// PrometheusCollector exposes telemetry counters via Prometheus.
type PrometheusCollector struct {
	hotReloads  *prometheus.CounterVec
	failures    *prometheus.CounterVec
	activations *prometheus.CounterVec
}

var (
	countersMu sync.Mutex
	counters   = map[string]*prometheus.CounterVec{}
)

// registerCounter registers a counter once per process and reuses the
// collector that is already registered under the same name.
func registerCounter(reg prometheus.Registerer, opts prometheus.CounterOpts, labels ...string) (*prometheus.CounterVec, error) {
	countersMu.Lock()
	defer countersMu.Unlock()
	if existing, ok := counters[opts.Name]; ok {
		return existing, nil
	}
	counter := prometheus.NewCounterVec(opts, labels)
	if err := reg.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		counter = existing
	}
	counters[opts.Name] = counter
	return counter, nil
}

// NewPrometheusCollector registers the required metrics with the provided registerer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	hotReloads, err := registerCounter(reg, prometheus.CounterOpts{
		Name: "accelconf_settings_hot_reload_total",
		Help: "Number of hot reload operations triggered per watched file.",
	}, "file")
	if err != nil {
		return nil, err
	}
	failures, err := registerCounter(reg, prometheus.CounterOpts{
		Name: "accelconf_settings_rejected_total",
		Help: "Number of settings texts rejected, by failure kind.",
	}, "kind")
	if err != nil {
		return nil, err
	}
	activations, err := registerCounter(reg, prometheus.CounterOpts{
		Name: "accelconf_driver_activations_total",
		Help: "Number of driver record writes, by outcome.",
	}, "outcome")
	if err != nil {
		return nil, err
	}
	return &PrometheusCollector{
		hotReloads:  hotReloads,
		failures:    failures,
		activations: activations,
	}, nil
}

// IncHotReload increments the counter for the provided file path.
func (p *PrometheusCollector) IncHotReload(file string) {
	if p == nil || p.hotReloads == nil {
		return
	}
	p.hotReloads.WithLabelValues(file).Inc()
}

// IncValidationFailure counts a rejected settings text.
func (p *PrometheusCollector) IncValidationFailure(kind string) {
	if p == nil || p.failures == nil {
		return
	}
	p.failures.WithLabelValues(kind).Inc()
}

// IncActivation counts a driver write attempt.
func (p *PrometheusCollector) IncActivation(outcome string) {
	if p == nil || p.activations == nil {
		return
	}
	p.activations.WithLabelValues(outcome).Inc()
}

// Handler serves the metrics of g in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
