// Package metrics exports ClubSphere metrics to Prometheus.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "clubsphere"

	methodLabel   = "method"
	routeLabel    = "route"
	codeLabel     = "code"
	decisionLabel = "decision"
	outcomeLabel  = "outcome"
	jobLabel      = "job"
)

// Metrics manages the metric information that ClubSphere measures. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	membershipRequests   *prometheus.CounterVec
	membershipDecisions  *prometheus.CounterVec
	notificationsTotal   *prometheus.CounterVec
	jobRunsTotal         *prometheus.CounterVec
	pendingRequestsGauge prometheus.Gauge
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	return &Metrics{
		registry: reg,
		httpRequestsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests completed, by route and status code.",
		}, []string{methodLabel, routeLabel, codeLabel}),
		httpRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "The response time of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{routeLabel}),
		membershipRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "membership",
			Name:      "requests_total",
			Help:      "The total count of membership requests submitted, by outcome.",
		}, []string{outcomeLabel}),
		membershipDecisions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "membership",
			Name:      "decisions_total",
			Help:      "The total count of membership requests approved or rejected.",
		}, []string{decisionLabel}),
		notificationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "emails_total",
			Help:      "The total count of notification emails, by outcome.",
		}, []string{outcomeLabel}),
		jobRunsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "The total count of scheduled job runs, by job and outcome.",
		}, []string{jobLabel, outcomeLabel}),
		pendingRequestsGauge: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "membership",
			Name:      "pending_requests",
			Help:      "Number of pending membership requests at the last digest run.",
		}),
	}, nil
}

// ObserveHTTPRequest records a completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// AddMembershipRequest records a membership request submission.
// outcome is "created" or an error category.
func (m *Metrics) AddMembershipRequest(outcome string) {
	if m == nil {
		return
	}
	m.membershipRequests.WithLabelValues(outcome).Inc()
}

// AddMembershipDecision records an approval or rejection.
func (m *Metrics) AddMembershipDecision(decision string) {
	if m == nil {
		return
	}
	m.membershipDecisions.WithLabelValues(decision).Inc()
}

// AddNotification records a notification email attempt.
func (m *Metrics) AddNotification(err error) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(outcome(err)).Inc()
}

// AddJobRun records a scheduled job run.
func (m *Metrics) AddJobRun(job string, err error) {
	if m == nil {
		return
	}
	m.jobRunsTotal.WithLabelValues(job, outcome(err)).Inc()
}

// SetPendingRequests records the number of pending requests.
func (m *Metrics) SetPendingRequests(n int) {
	if m == nil {
		return
	}
	m.pendingRequestsGauge.Set(float64(n))
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
