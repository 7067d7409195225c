package metrics

import (
	"net/http"
	"sync"

	"github.com/cmt-technologies/otrmtv/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "otrmtv"

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// PairingMetrics follows orchestrator states and identity resolutions.
type PairingMetrics struct {
	Activations        prometheus.Counter
	Outcomes           *prometheus.CounterVec
	ActivationDuration prometheus.Histogram
	Resolutions        *prometheus.CounterVec
	CurrentGeneration  prometheus.Gauge

	mu        sync.Mutex
	loadingAt map[uint64]models.PairingState
}

func NewPairingMetrics(reg prometheus.Registerer) *PairingMetrics {
	m := &PairingMetrics{
		Activations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pairing",
			Name:      "activations_total",
			Help:      "Total number of pairing activations started.",
		}),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pairing",
			Name:      "outcomes_total",
			Help:      "Terminal pairing states by phase and reason.",
		}, []string{"phase", "reason"}),
		ActivationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pairing",
			Name:      "activation_duration_seconds",
			Help:      "Time from Loading to the terminal state of an activation.",
			Buckets:   prometheus.DefBuckets,
		}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "resolutions_total",
			Help:      "Identity resolutions by winning tier.",
		}, []string{"tier"}),
		CurrentGeneration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pairing",
			Name:      "current_generation",
			Help:      "Generation of the newest pairing activation.",
		}),
		loadingAt: make(map[uint64]models.PairingState),
	}

	reg.MustRegister(m.Activations, m.Outcomes, m.ActivationDuration, m.Resolutions, m.CurrentGeneration)
	return m
}

func (m *PairingMetrics) ObserveIdentity(id models.DeviceIdentity) {
	m.Resolutions.WithLabelValues(id.Tier.String()).Inc()
}

func (m *PairingMetrics) OnState(state models.PairingState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !state.Terminal() {
		m.Activations.Inc()
		m.CurrentGeneration.Set(float64(state.Generation))
		// superseded activations never reach a terminal state
		clear(m.loadingAt)
		m.loadingAt[state.Generation] = state
		return
	}

	m.Outcomes.WithLabelValues(string(state.Phase), string(state.Reason)).Inc()
	if loading, ok := m.loadingAt[state.Generation]; ok {
		m.ActivationDuration.Observe(state.At.Sub(loading.At).Seconds())
		delete(m.loadingAt, state.Generation)
	}
}
