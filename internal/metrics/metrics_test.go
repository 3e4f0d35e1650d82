package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersRecord(t *testing.T) {
	m := New()

	m.PlayerSaved("create")
	m.PlayerSaved("create")
	m.EntryAppended("notes")
	m.SaveFailed("already_exists")
	m.AppendRetried()
	m.SetActiveSessions(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PlayersSaved.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EntriesAppended.WithLabelValues("notes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SaveFailures.WithLabelValues("already_exists")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppendRetries))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/api/v1/players", http.StatusOK, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/v1/players", "200")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	m.PlayerSaved("edit")
	m.EntryAppended("tells")
	m.SaveFailed("unknown")
	m.AppendRetried()
	m.SetActiveSessions(1)
	m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.PlayerSaved("create")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pokernotes_players_saved_total{op="create"} 1`)
}
