package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

func TestObserveClassification(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveClassification(triangle.Scalene, time.Millisecond)
	m.ObserveClassification(triangle.Scalene, time.Millisecond)
	m.ObserveClassification(triangle.Invalid, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Classifications.WithLabelValues("SCALENE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Classifications.WithLabelValues("INVALID")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Classifications.WithLabelValues("EQUILATERAL")))
	assert.Equal(t, 4, testutil.CollectAndCount(m.Classifications))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ClassifyDuration))
}

func TestObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("/classify", http.StatusOK)
	m.ObserveRequest("/classify", http.StatusBadRequest)
	m.ObserveRequest("/classify", http.StatusOK)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/classify", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/classify", "400")))
}

func TestHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveClassification(triangle.Equilateral, time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `triangle_classifications_total{type="EQUILATERAL"} 1`)
	assert.Contains(t, w.Body.String(), "triangle_classify_duration_seconds_bucket")
}

func TestNew_NilRegistererIsPrivate(t *testing.T) {
	var first, second *Metrics
	require.NotPanics(t, func() {
		first = New(nil)
		second = New(nil)
	})

	first.ObserveClassification(triangle.Scalene, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.Classifications.WithLabelValues("SCALENE")))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.Classifications.WithLabelValues("SCALENE")))

	w := httptest.NewRecorder()
	first.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
	assert.Contains(t, w.Body.String(), `triangle_classifications_total{type="SCALENE"} 1`)
}
