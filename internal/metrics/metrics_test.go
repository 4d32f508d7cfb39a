package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.ObserveHTTPRequest(http.MethodGet, "clubs.all", http.StatusOK, 10*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "clubs.all", http.StatusOK, 20*time.Millisecond)
	m.AddMembershipDecision("approved")
	m.AddNotification(errors.New("smtp down"))
	m.AddJobRun("pending_digest", nil)
	m.SetPendingRequests(3)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "clubs.all", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.membershipDecisions.WithLabelValues("approved")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.notificationsTotal.WithLabelValues("error")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.pendingRequestsGauge))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "clubsphere_http_requests_total")
	assert.Contains(t, string(body), "clubsphere_membership_decisions_total")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest(http.MethodGet, "x", 200, time.Second)
		m.AddMembershipRequest("created")
		m.AddMembershipDecision("rejected")
		m.AddNotification(nil)
		m.AddJobRun("x", nil)
		m.SetPendingRequests(1)
	})
}
