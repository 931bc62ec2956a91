package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"tambola/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tambola"

// Metrics holds the Prometheus collectors of the service
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	draws         prometheus.Counter
	gameResets    prometheus.Counter
	winners       *prometheus.CounterVec
	payments      prometheus.Counter
	paymentAmount prometheus.Counter
}

// NewMetrics creates and registers every collector on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		draws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "numbers_drawn_total",
			Help:      "Total number of numbers drawn across games.",
		}),
		gameResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "resets_total",
			Help:      "Total number of game resets.",
		}),
		winners: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "winners_total",
			Help:      "Total number of recorded winners by pattern.",
		}, []string{"pattern"}),
		payments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewards",
			Name:      "payments_total",
			Help:      "Total number of reward payments made.",
		}),
		paymentAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewards",
			Name:      "paid_amount_total",
			Help:      "Total amount paid out in rewards.",
		}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.draws,
		m.gameResets,
		m.winners,
		m.payments,
		m.paymentAmount,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// RegisterGauge exposes a value computed at scrape time, such as live clients
func (m *Metrics) RegisterGauge(subsystem, name, help string, fn func() float64) {
	m.Registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, fn))
}

// StartRequest marks a request in flight and returns the function that records it
func (m *Metrics) StartRequest(method string) func(route string, status int) {
	start := time.Now()
	m.httpInFlight.Inc()
	return func(route string, status int) {
		m.httpInFlight.Dec()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Attach counts game activity from committed bus events
func (m *Metrics) Attach(bus *events.Bus) {
	bus.Subscribe(events.EventTypeNumberDrawn, func(context.Context, events.Event) {
		m.draws.Inc()
	})
	bus.Subscribe(events.EventTypeGameReset, func(context.Context, events.Event) {
		m.gameResets.Inc()
	})
	bus.Subscribe(events.EventTypeWinnersAnnounced, func(_ context.Context, e events.Event) {
		announced, ok := e.(events.WinnersAnnouncedEvent)
		if !ok {
			return
		}
		for _, w := range announced.Winners {
			for _, p := range w.Patterns {
				m.winners.WithLabelValues(string(p.Kind)).Inc()
			}
		}
	})
	bus.Subscribe(events.EventTypeRewardsDistributed, func(_ context.Context, e events.Event) {
		distributed, ok := e.(events.RewardsDistributedEvent)
		if !ok {
			return
		}
		m.payments.Add(float64(distributed.Count))
		m.paymentAmount.Add(float64(distributed.TotalAmount))
	})
}
