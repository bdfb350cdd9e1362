package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/user/{username}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	h := m.Middleware(mux)

	for _, path := range []string{"/api/v1/user/alice", "/api/v1/user/bob", "/ok", "/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.requests.WithLabelValues("GET", "GET /api/v1/user/{username}", "500")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requests.WithLabelValues("GET", "GET /ok", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requests.WithLabelValues("GET", unmatchedRoute, "404")), 0)
}

func TestObserveLogin(t *testing.T) {
	m := New()
	m.ObserveLogin(ResultSuccess)
	m.ObserveLogin(ResultDenied)
	m.ObserveLogin(ResultDenied)

	assert.InDelta(t, 1, testutil.ToFloat64(m.logins.WithLabelValues(ResultSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.logins.WithLabelValues(ResultDenied)), 0)

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveLogin(ResultError) })
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.ObserveLogin(ResultSuccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `localauth_auth_logins_total{result="success"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
