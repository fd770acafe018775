package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2beens/workouttracker/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMetrics(t *testing.T) {
	metricsManager, reg := metrics.NewTestManagerAndRegistry()

	r := mux.NewRouter()
	r.HandleFunc("/exercises/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("GET")
	r.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
	r.Use(RequestMetrics(metricsManager))

	for _, path := range []string{"/state", "/state", "/exercises/a", "/exercises/b"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(
		metricsManager.CounterRequests.With(prometheus.Labels{"method": "GET", "status": "200"})),
	)
	assert.Equal(t, float64(2), testutil.ToFloat64(
		metricsManager.CounterRequests.With(prometheus.Labels{"method": "GET", "status": "404"})),
	)
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.GaugeRequests))

	families, err := reg.Gather()
	require.NoError(t, err)
	var routes []string
	for _, f := range families {
		if !strings.HasSuffix(f.GetName(), "request_duration_seconds") {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "route" {
					routes = append(routes, l.GetValue())
				}
			}
		}
	}
	// one series per template, not per raw path
	assert.ElementsMatch(t, []string{"/state", "/exercises/{id}"}, routes)
}

func TestResponseWriter_KeepsFirstStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rr, statusCode: http.StatusOK}

	_, _ = rw.Write([]byte("body"))
	rw.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusOK, rw.statusCode)
}

func TestDrainAndCloseRequest(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader("unread body")}
	handler := DrainAndCloseRequest()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("POST", "/sessions", nil)
	req.Body = body
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, body.closed)
	rest, _ := io.ReadAll(body.Reader)
	assert.Empty(t, rest)
}

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}
