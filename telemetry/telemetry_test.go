package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func resetCounters() {
	countersMu.Lock()
	counters = map[string]*prometheus.CounterVec{}
	countersMu.Unlock()
}

func TestNoopCollector(t *testing.T) {
	collector := Noop()
	require.NotNil(t, collector)
	collector.IncHotReload("settings.yaml")
	collector.IncValidationFailure(KindParse)
	collector.IncActivation(OutcomeApplied)
}

func TestPrometheusCollectorRegistersAndReusesCounter(t *testing.T) {
	resetCounters()
	t.Cleanup(resetCounters)

	reg := prometheus.NewRegistry()
	collector, err := NewPrometheusCollector(reg)
	require.NoError(t, err)
	require.NotNil(t, collector)

	collector.IncHotReload("a.yaml")

	metric := findFamily(t, reg, "accelconf_settings_hot_reload_total")
	requireCounterValue(t, metric, 1)

	again, err := NewPrometheusCollector(reg)
	require.NoError(t, err)
	require.Same(t, collector.hotReloads, again.hotReloads)

	again.IncHotReload("a.yaml")
	requireCounterValue(t, findFamily(t, reg, "accelconf_settings_hot_reload_total"), 2)
}

func TestPrometheusCollectorReusesForeignRegistration(t *testing.T) {
	resetCounters()
	t.Cleanup(resetCounters)

	reg := prometheus.NewRegistry()
	first, err := NewPrometheusCollector(reg)
	require.NoError(t, err)

	resetCounters()
	second, err := NewPrometheusCollector(reg)
	require.NoError(t, err)
	require.Same(t, first.activations, second.activations)
}

func TestPrometheusCollectorCountsOutcomes(t *testing.T) {
	resetCounters()
	t.Cleanup(resetCounters)

	reg := prometheus.NewRegistry()
	collector, err := NewPrometheusCollector(reg)
	require.NoError(t, err)

	collector.IncValidationFailure(KindSemantic)
	collector.IncActivation(OutcomeApplied)

	requireCounterValue(t, findFamily(t, reg, "accelconf_settings_rejected_total"), 1)
	requireCounterValue(t, findFamily(t, reg, "accelconf_driver_activations_total"), 1)

	var nilCollector *PrometheusCollector
	nilCollector.IncActivation(OutcomeFailed)
}

func TestHandlerServesMetrics(t *testing.T) {
	resetCounters()
	t.Cleanup(resetCounters)

	reg := prometheus.NewRegistry()
	collector, err := NewPrometheusCollector(reg)
	require.NoError(t, err)
	collector.IncActivation(OutcomeMismatch)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `accelconf_driver_activations_total{outcome="readback_mismatch"} 1`))
}

func findFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return nil
}

func requireCounterValue(t *testing.T, mf *dto.MetricFamily, value float64) {
	t.Helper()
	require.Len(t, mf.Metric, 1)
	require.NotNil(t, mf.Metric[0].Counter)
	require.Equal(t, value, mf.Metric[0].Counter.GetValue())
}
