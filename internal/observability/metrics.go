package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/signupguard/signupguard/internal/logging"
)

type Metrics struct {
	commandsTotal          *prometheus.CounterVec
	commandDuration        *prometheus.HistogramVec
	eventsTotal            *prometheus.CounterVec
	framesTotal            *prometheus.CounterVec
	reconnectsTotal        prometheus.Counter
	handshakeFailuresTotal prometheus.Counter
	ratelimitHitsTotal     prometheus.Counter
	lastLiveness           prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "signupguard_commands_total", Help: "Total chat commands handled"},
			[]string{"command", "result", "error_kind"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signupguard_command_duration_seconds",
				Help:    "Command handling duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "signupguard_events_total", Help: "Total events forwarded to the rule engine"},
			[]string{"type"},
		),
		framesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "signupguard_frames_total", Help: "Total inbound chat frames"},
			[]string{"kind"},
		),
		reconnectsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "signupguard_reconnects_total", Help: "Total chat reconnect attempts"},
		),
		handshakeFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "signupguard_handshake_failures_total", Help: "Total failed chat handshakes"},
		),
		ratelimitHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "signupguard_ratelimit_hits_total", Help: "Total rate limited commands"},
		),
		lastLiveness: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "signupguard_last_liveness_timestamp_seconds", Help: "Unix time of the last chat liveness signal"},
		),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.commandsTotal,
		m.commandDuration,
		m.eventsTotal,
		m.framesTotal,
		m.reconnectsTotal,
		m.handshakeFailuresTotal,
		m.ratelimitHitsTotal,
		m.lastLiveness,
	)

	return m
}

func (m *Metrics) Handler(reg *prometheus.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveCommand(rec logging.CommandRecord) {
	if m == nil {
		return
	}
	m.commandsTotal.WithLabelValues(rec.Command, rec.Result, rec.ErrorKind).Inc()
	m.commandDuration.WithLabelValues(rec.Command).Observe((time.Duration(rec.DurationMS) * time.Millisecond).Seconds())
	if rec.Result == logging.ResultRateLimited {
		m.ratelimitHitsTotal.Inc()
	}
}

func (m *Metrics) ObserveEvent(eventType string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(eventType).Inc()
}

func (m *Metrics) ObserveFrame(kind string) {
	if m == nil {
		return
	}
	m.framesTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveReconnect() {
	if m == nil {
		return
	}
	m.reconnectsTotal.Inc()
}

func (m *Metrics) ObserveHandshakeFailure() {
	if m == nil {
		return
	}
	m.handshakeFailuresTotal.Inc()
}

func (m *Metrics) ObserveLiveness(at time.Time) {
	if m == nil {
		return
	}
	m.lastLiveness.Set(float64(at.Unix()))
}
