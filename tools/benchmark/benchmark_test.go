package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muliwe/go-triangle-classifier/internal/classifier"
	"github.com/muliwe/go-triangle-classifier/internal/logging"
	"github.com/muliwe/go-triangle-classifier/internal/metrics"
	"github.com/muliwe/go-triangle-classifier/internal/server"
	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

func TestBuildTargets(t *testing.T) {
	targets, err := buildTargets("http://localhost:8080/classify", triangle.Samples()[:2])
	require.NoError(t, err)
	require.Len(t, targets, 2)

	assert.Equal(t, "http://localhost:8080/classify?a=1&b=2&c=9", targets[0].url)
	assert.Equal(t, "http://localhost:8080/classify?a=1&b=9&c=2", targets[1].url)
	assert.Equal(t, triangle.Invalid, targets[0].want)

	_, err = buildTargets("/classify", nil)
	assert.Error(t, err)
}

func TestClassifyAgainstServer(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	h := server.NewHandler(classifier.New(classifier.DefaultConfig()), nil, m)
	h.SetLogger(logging.NewNop())
	h.SetQuiet(true)

	ts := httptest.NewServer(h.Routes(false))
	defer ts.Close()

	targets, err := buildTargets(ts.URL+"/classify", triangle.Samples())
	require.NoError(t, err)

	for _, tg := range targets {
		got, err := classify(ts.Client(), tg.url)
		require.NoError(t, err)
		assert.Equal(t, tg.want, got, tg.url)
	}

	_, err = classify(ts.Client(), ts.URL+"/classify?a=1")
	assert.Error(t, err)

	_, err = classify(http.DefaultClient, "http://127.0.0.1:0/classify")
	assert.Error(t, err)
}
