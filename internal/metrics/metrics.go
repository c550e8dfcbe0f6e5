package metrics

import "github.com/prometheus/client_golang/prometheus"

// Channel instruments the client push channel. A nil *Channel is valid and
// records nothing.
type Channel struct {
	Attempts      prometheus.Counter
	Failures      prometheus.Counter
	Notifications prometheus.Counter
	Discarded     *prometheus.CounterVec
	PayloadErrors prometheus.Counter
}

func NewChannel(reg prometheus.Registerer) *Channel {
	m := &Channel{
		Attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wallet",
			Subsystem: "channel",
			Name:      "connect_attempts_total",
			Help:      "Push channel connection attempts.",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wallet",
			Subsystem: "channel",
			Name:      "failures_total",
			Help:      "Push channel transport failures.",
		}),
		Notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wallet",
			Subsystem: "channel",
			Name:      "notifications_total",
			Help:      "Notifications delivered to the store.",
		}),
		Discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wallet",
			Subsystem: "channel",
			Name:      "discarded_frames_total",
			Help:      "Frames dropped before reaching the store.",
		}, []string{"reason"}),
		PayloadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wallet",
			Subsystem: "channel",
			Name:      "payload_errors_total",
			Help:      "Frames whose payload could not be decoded.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Attempts, m.Failures, m.Notifications, m.Discarded, m.PayloadErrors)
	}
	return m
}

func (m *Channel) ObserveAttempt() {
	if m != nil {
		m.Attempts.Inc()
	}
}

func (m *Channel) ObserveFailure() {
	if m != nil {
		m.Failures.Inc()
	}
}

func (m *Channel) ObserveNotification() {
	if m != nil {
		m.Notifications.Inc()
	}
}

func (m *Channel) ObservePayloadError() {
	if m != nil {
		m.PayloadErrors.Inc()
	}
}

func (m *Channel) ObserveDiscard(reason string) {
	if m != nil {
		m.Discarded.WithLabelValues(reason).Inc()
	}
}

// Server instruments the platform emulator.
type Server struct {
	ConnectedClients prometheus.Gauge
	Published        *prometheus.CounterVec
	LoginFailures    prometheus.Counter
}

func NewServer(reg prometheus.Registerer) *Server {
	m := &Server{
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wallet",
			Subsystem: "emulator",
			Name:      "sse_connected_clients",
			Help:      "Open push channel subscriptions.",
		}),
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wallet",
			Subsystem: "emulator",
			Name:      "notifications_published_total",
			Help:      "Notifications broadcast to subscribers.",
		}, []string{"notification_type"}),
		LoginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wallet",
			Subsystem: "emulator",
			Name:      "login_failures_total",
			Help:      "Rejected login attempts.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ConnectedClients, m.Published, m.LoginFailures)
	}
	return m
}

func (m *Server) ObserveLoginFailure() {
	if m != nil {
		m.LoginFailures.Inc()
	}
}
