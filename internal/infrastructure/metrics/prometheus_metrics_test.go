package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_Counters(t *testing.T) {
	m := New()

	m.TransitionRecorded("send", "success")
	m.TransitionRecorded("send", "success")
	m.TransitionRecorded("approve", "conflict")
	m.TokenValidated("invalid")
	m.NotificationSent("SENT", "failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("send", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("approve", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tokens.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("SENT", "failed")))
}

func TestPrometheusMetrics_Handler(t *testing.T) {
	m := New()
	m.TransitionRecorded("sign", "success")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `propostas_transitions_total{action="sign",result="success"} 1`)
}
