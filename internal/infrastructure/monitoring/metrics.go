// Package monitoring wires Prometheus metrics and OpenTelemetry tracing.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector of the service. One instance
// is created at startup and handed to the layers that observe events.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	matrixBuildsTotal    *prometheus.CounterVec
	alertEvaluationTotal prometheus.Counter
	alertsActive         *prometheus.GaugeVec

	cacheOperationsTotal *prometheus.CounterVec
	exportsTotal         *prometheus.CounterVec
	auditEventsTotal     *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg registers on the
// default registry, which is what the server does; tests pass their own
// registry so repeated construction does not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rosreg_http_requests_total",
			Help: "HTTP requests processed, by method, route and status code.",
		}, []string{"method", "route", "status"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rosreg_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		matrixBuildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rosreg_matrix_builds_total",
			Help: "Risk matrix rebuilds, by view.",
		}, []string{"view"}),

		alertEvaluationTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "rosreg_alert_evaluations_total",
			Help: "Alert rule set evaluations.",
		}),

		alertsActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rosreg_alerts_active",
			Help: "Active alerts from the last evaluation, by severity.",
		}, []string{"severity"}),

		cacheOperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rosreg_cache_operations_total",
			Help: "Cache operations, by operation and result.",
		}, []string{"operation", "result"}),

		exportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rosreg_exports_total",
			Help: "Register exports generated, by format.",
		}, []string{"format"}),

		auditEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rosreg_audit_events_total",
			Help: "Audit events recorded, by event type.",
		}, []string{"event_type"}),
	}
}

// RecordHTTPRequest observes one handled request. The route label is
// the registered route pattern, not the raw path, to keep cardinality
// bounded.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordMatrixBuild counts a matrix rebuild for one view.
func (m *Metrics) RecordMatrixBuild(view string) {
	m.matrixBuildsTotal.WithLabelValues(view).Inc()
}

// RecordAlertEvaluation counts one alert rule set evaluation.
func (m *Metrics) RecordAlertEvaluation() {
	m.alertEvaluationTotal.Inc()
}

// SetActiveAlerts publishes the alert count of one severity.
func (m *Metrics) SetActiveAlerts(severity string, count int) {
	m.alertsActive.WithLabelValues(severity).Set(float64(count))
}

// RecordCacheOperation counts one cache operation.
func (m *Metrics) RecordCacheOperation(operation string, hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}
	m.cacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordExport counts one generated export.
func (m *Metrics) RecordExport(format string) {
	m.exportsTotal.WithLabelValues(format).Inc()
}

// RecordAuditEvent counts one recorded audit event.
func (m *Metrics) RecordAuditEvent(eventType string) {
	m.auditEventsTotal.WithLabelValues(eventType).Inc()
}
