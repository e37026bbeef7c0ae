package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for chat turns.
type ConversationMetrics struct {
	turnsTotal      *prometheus.CounterVec
	routeDecisions  *prometheus.CounterVec
	bookingsTotal   prometheus.Counter
	generationTotal *prometheus.CounterVec
	turnLatency     prometheus.Histogram
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total chat turns by resolved intent",
		}, []string{"intent"}),
		routeDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "conversation",
			Name:      "route_decisions_total",
			Help:      "Dialogue router decisions by rule",
		}, []string{"rule"}),
		bookingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "conversation",
			Name:      "bookings_total",
			Help:      "Appointments committed from chat",
		}),
		generationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "conversation",
			Name:      "generation_total",
			Help:      "Text generation attempts by purpose and outcome",
		}, []string{"purpose", "outcome"}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinicdesk",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of a full chat turn",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.routeDecisions, m.bookingsTotal, m.generationTotal, m.turnLatency)
	return m
}

func (m *ConversationMetrics) ObserveTurn(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent).Inc()
	m.turnLatency.Observe(seconds)
}

func (m *ConversationMetrics) ObserveRoute(rule string) {
	if m == nil {
		return
	}
	m.routeDecisions.WithLabelValues(rule).Inc()
}

func (m *ConversationMetrics) ObserveBooking() {
	if m == nil {
		return
	}
	m.bookingsTotal.Inc()
}

// ObserveGeneration records a generation attempt; outcome is "generated" or "unavailable".
func (m *ConversationMetrics) ObserveGeneration(purpose string, generated bool) {
	if m == nil {
		return
	}
	outcome := "unavailable"
	if generated {
		outcome = "generated"
	}
	m.generationTotal.WithLabelValues(purpose, outcome).Inc()
}

// RegisterWebChatConnections exports the live web socket count as a gauge.
func RegisterWebChatConnections(reg prometheus.Registerer, open func() int64) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "clinicdesk",
		Subsystem: "webchat",
		Name:      "open_connections",
		Help:      "Web chat sockets currently open",
	}, func() float64 { return float64(open()) }))
}
