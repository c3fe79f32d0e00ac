package session

import "github.com/prometheus/client_golang/prometheus"

const (
	stopReasonOperator = "operator"
	stopReasonEngine   = "engine"
)

// Metrics are the controller's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	sessionsStarted  prometheus.Counter
	startFailures    prometheus.Counter
	packetsForwarded prometheus.Counter
	sessionsStopped  *prometheus.CounterVec
	state            prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "capture_sessions_started_total",
			Help: "Capture sessions the engine accepted",
		}),
		startFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "capture_session_start_failures_total",
			Help: "Capture sessions the engine refused to start",
		}),
		packetsForwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "capture_packets_forwarded_total",
			Help: "Packet events forwarded to the display sink",
		}),
		sessionsStopped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "capture_sessions_stopped_total",
			Help: "Capture sessions that returned to idle, by who ended them",
		}, []string{"reason"}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "capture_session_state",
			Help: "Current session state (0 idle, 1 starting, 2 running, 3 stopping)",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.sessionsStarted, m.startFailures, m.packetsForwarded, m.sessionsStopped, m.state)
	}
	return m
}

func (m *Metrics) started() {
	if m != nil {
		m.sessionsStarted.Inc()
	}
}

func (m *Metrics) startFailed() {
	if m != nil {
		m.startFailures.Inc()
	}
}

func (m *Metrics) forwarded() {
	if m != nil {
		m.packetsForwarded.Inc()
	}
}

func (m *Metrics) stopped(reason string) {
	if m != nil {
		m.sessionsStopped.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) setState(s State) {
	if m != nil {
		m.state.Set(float64(s))
	}
}
