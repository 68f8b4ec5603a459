package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoachimHamraoui/bibliomania/internal/metrics"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	m := metrics.NewMetrics()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/vote/{voteId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vote/abc", nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}

	got := testutil.ToFloat64(m.RequestCounter.WithLabelValues(http.MethodGet, "/vote/{voteId}", "418"))
	assert.Equal(t, 2.0, got)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsInFlight))
}

func TestVoteCounters(t *testing.T) {
	m := metrics.NewMetrics()

	m.VoteTransition("CLOSED")
	m.VoteTransition("CLOSED")
	m.BallotCast()
	m.AssignmentFailed(3)
	m.AssignmentFailed(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.VoteTransitions.WithLabelValues("CLOSED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BallotsCast))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.AssignFailures))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.VoteTransition("OPEN")
		m.BallotCast()
		m.AssignmentFailed(1)
	})

	called := false
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := metrics.NewMetrics()
	m.BallotCast()

	rec := httptest.NewRecorder()
	m.Handler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "bibliomania_vote_ballots_total 1")
}
