package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RepricerMetrics records metadata for repricing cycle executions.
type RepricerMetrics struct {
	duration  *prometheus.HistogramVec
	success   *prometheus.CounterVec
	failure   *prometheus.CounterVec
	repriced  prometheus.Gauge
	retired   prometheus.Counter
	insertion prometheus.Counter
}

// NewRepricerMetrics registers the cycle metrics on the provided registerer.
func NewRepricerMetrics(reg prometheus.Registerer) *RepricerMetrics {
	if reg == nil {
		return &RepricerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "repricer_cycle_duration_seconds",
		Help:    "Duration of repricing cycles in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "repricer_cycle_success",
		Help: "Successful repricing cycle executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "repricer_cycle_failure",
		Help: "Failed repricing cycle executions.",
	}, []string{"job"})
	repriced := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "repricer_products_repriced",
		Help: "Products repriced in the most recent cycle.",
	})
	retired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repricer_products_retired_total",
		Help: "Products soft-retired across all cycles.",
	})
	insertion := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repricer_products_discovered_total",
		Help: "Products inserted by the discovery step across all cycles.",
	})
	reg.MustRegister(duration, success, failure, repriced, retired, insertion)
	return &RepricerMetrics{
		duration:  duration,
		success:   success,
		failure:   failure,
		repriced:  repriced,
		retired:   retired,
		insertion: insertion,
	}
}

// ObserveDuration records the duration for the named job.
func (m *RepricerMetrics) ObserveDuration(job string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (m *RepricerMetrics) IncSuccess(job string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (m *RepricerMetrics) IncFailure(job string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// SetRepriced records how many products the latest cycle touched.
func (m *RepricerMetrics) SetRepriced(count int) {
	if m == nil || m.repriced == nil {
		return
	}
	m.repriced.Set(float64(count))
}

// AddRetired counts soft-retired products.
func (m *RepricerMetrics) AddRetired(count int) {
	if m == nil || m.retired == nil {
		return
	}
	m.retired.Add(float64(count))
}

// AddDiscovered counts discovery insertions.
func (m *RepricerMetrics) AddDiscovered(count int) {
	if m == nil || m.insertion == nil {
		return
	}
	m.insertion.Add(float64(count))
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
