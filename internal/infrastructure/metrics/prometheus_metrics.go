package metrics

import (
	"net/http"

	"propostas_service/internal/usecase/interfaces"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "propostas"

// PrometheusMetrics counts lifecycle activity on its own registry so tests
// can build as many as they like.
type PrometheusMetrics struct {
	registry      *prometheus.Registry
	transitions   *prometheus.CounterVec
	tokens        *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

var _ interfaces.IMetrics = (*PrometheusMetrics)(nil)

func New() *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Lifecycle operations by action and result.",
		}, []string{"action", "result"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_validations_total",
			Help:      "Public token validations by result.",
		}, []string{"result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification attempts by event kind and result.",
		}, []string{"kind", "result"}),
	}
	m.registry.MustRegister(
		m.transitions,
		m.tokens,
		m.notifications,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *PrometheusMetrics) TransitionRecorded(action, result string) {
	m.transitions.WithLabelValues(action, result).Inc()
}

func (m *PrometheusMetrics) TokenValidated(result string) {
	m.tokens.WithLabelValues(result).Inc()
}

func (m *PrometheusMetrics) NotificationSent(kind, result string) {
	m.notifications.WithLabelValues(kind, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
