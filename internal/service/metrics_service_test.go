package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshotAggregates(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/students/:id", http.StatusOK, 10*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/students/:id", http.StatusNotFound, 30*time.Millisecond)
	m.ObserveDBQuery("students.find", 4*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.ObserveLinkSigning("image", true, time.Millisecond)
	m.ObserveLinkSigning("document", false, time.Millisecond)

	s := m.Snapshot()
	assert.Equal(t, uint64(2), s.RequestsTotal)
	assert.InDelta(t, 20.0, s.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), s.DBQueryCount)
	assert.InDelta(t, 4.0, s.AverageDBQueryDurationMs, 0.001)
	assert.Equal(t, uint64(2), s.CacheHits)
	assert.Equal(t, uint64(1), s.CacheMisses)
	assert.InDelta(t, 2.0/3.0, s.CacheHitRatio, 0.0001)
	assert.Equal(t, uint64(1), s.LinksSigned)
	assert.Equal(t, uint64(1), s.LinkFailures)
	assert.Greater(t, s.Goroutines, 0)
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveLinkSigning("document", false, time.Millisecond)
	m.RecordDegradedLookup("house")
	m.RecordLogin("invalid")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "storage_sign_total")
	assert.Contains(t, string(body), "profile_lookup_degraded_total")
	assert.Contains(t, string(body), "auth_login_total")
}

func TestMetricsNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.ObserveLinkSigning("image", true, time.Millisecond)
	m.RecordDegradedLookup("guardian")
	m.RecordLogin("success")
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}
