// Package metrics provides Prometheus metrics for commit sessions.
package metrics

import (
	"math/big"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
)

var yoctoPerNear = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(24), nil))

var _ ports.CommitMetrics = (*Recorder)(nil)

// Recorder implements ports.CommitMetrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	sessionsActive   prometheus.Gauge
	sessionsTotal    *prometheus.CounterVec
	sessionDuration  *prometheus.HistogramVec
	payloadBytes     prometheus.Histogram
	depositNearTotal prometheus.Counter
}

// New creates a recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scribe_commit_sessions_active",
			Help: "Number of commit sessions in flight",
		}),
		sessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_commit_sessions_total",
				Help: "Total number of finished commit sessions",
			},
			[]string{"outcome"},
		),
		sessionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scribe_commit_session_duration_seconds",
				Help:    "Time from commit request to session end",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		payloadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scribe_commit_payload_bytes",
			Help:    "Serialized size of prepared commit payloads",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}),
		depositNearTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribe_commit_deposit_near_total",
			Help: "Total storage deposit attached to submitted commits, in NEAR",
		}),
	}
}

// SessionStarted implements ports.CommitMetrics.
func (r *Recorder) SessionStarted() {
	r.sessionsActive.Inc()
}

// SessionFinished implements ports.CommitMetrics.
func (r *Recorder) SessionFinished(outcome domain.CommitOutcome, elapsed time.Duration) {
	r.sessionsActive.Dec()
	r.sessionsTotal.WithLabelValues(string(outcome)).Inc()
	r.sessionDuration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
}

// PayloadPrepared implements ports.CommitMetrics.
func (r *Recorder) PayloadPrepared(bytes int64) {
	r.payloadBytes.Observe(float64(bytes))
}

// DepositSubmitted implements ports.CommitMetrics.
func (r *Recorder) DepositSubmitted(deposit *big.Int) {
	if deposit == nil || deposit.Sign() <= 0 {
		return
	}
	near, _ := new(big.Float).Quo(new(big.Float).SetInt(deposit), yoctoPerNear).Float64()
	r.depositNearTotal.Add(near)
}

// Registry returns the registry the metrics are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns the HTTP handler for the Prometheus metrics endpoint.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
