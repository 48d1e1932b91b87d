// Package metrics exposes Prometheus collectors for calculation requests
// sent to the remote service.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeHTTPError = "http_error"
	OutcomeMalformed = "malformed"
	OutcomeNetwork   = "network_error"
	OutcomeRejected  = "rejected"
)

// Collector bundles the client-side calculation metrics
type Collector struct {
	gatherer prometheus.Gatherer

	Requests  *prometheus.CounterVec
	Durations *prometheus.HistogramVec
	InFlight  *prometheus.GaugeVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wirelesscalc_requests_total",
		Help: "Calculation submissions, labeled by scenario and outcome.",
	}, []string{"scenario", "outcome"})
	requests, err := register(reg, requests)
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wirelesscalc_request_duration_seconds",
		Help:    "Round-trip latency of calculation requests in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"scenario"})
	durations, err = register(reg, durations)
	if err != nil {
		return nil, err
	}

	inFlight := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wirelesscalc_requests_in_flight",
		Help: "Calculation requests currently awaiting a response.",
	}, []string{"scenario"})
	inFlight, err = register(reg, inFlight)
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:  gatherer,
		Requests:  requests,
		Durations: durations,
		InFlight:  inFlight,
	}, nil
}

// register returns the already registered collector when one with the same
// descriptor exists, so a second Collector on the same registry shares series.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// Observe records one settled submission. A nil collector is a no-op.
func (c *Collector) Observe(scenario, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Requests.WithLabelValues(scenario, outcome).Inc()
	if elapsed > 0 {
		c.Durations.WithLabelValues(scenario).Observe(elapsed.Seconds())
	}
}

// Pending adjusts the in-flight gauge by delta
func (c *Collector) Pending(scenario string, delta float64) {
	if c == nil {
		return
	}
	c.InFlight.WithLabelValues(scenario).Add(delta)
}

// Handler exposes a ready-to-use /metrics handler
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
