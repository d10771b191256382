package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the relay pipeline.
type BotMetrics struct {
	webhookTotal *prometheus.CounterVec
	repliesTotal *prometheus.CounterVec
	nluLatency   prometheus.Histogram
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sparkrelay",
			Subsystem: "bot",
			Name:      "webhook_events_total",
			Help:      "Inbound webhook events by terminal outcome",
		}, []string{"outcome"}),
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sparkrelay",
			Subsystem: "bot",
			Name:      "replies_total",
			Help:      "Outbound room replies by delivery status",
		}, []string{"status"}),
		nluLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sparkrelay",
			Subsystem: "bot",
			Name:      "nlu_request_seconds",
			Help:      "Latency of NLU backend queries",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.webhookTotal, m.repliesTotal, m.nluLatency)
	return m
}

func (m *BotMetrics) ObserveWebhook(outcome string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(outcome).Inc()
}

func (m *BotMetrics) ObserveReply(status string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(status).Inc()
}

func (m *BotMetrics) ObserveNLULatency(seconds float64) {
	if m == nil {
		return
	}
	m.nluLatency.Observe(seconds)
}
