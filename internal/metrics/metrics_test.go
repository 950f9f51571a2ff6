package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/meridian/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.ObserveRequest("census_address", 120*time.Millisecond, nil)
	m.ObserveRequest("census_address", 80*time.Millisecond, nil)
	m.ObserveRequest("census_address", time.Second, assert.AnError)

	assert.InDelta(t, 2, testutil.ToFloat64(m.Requests.WithLabelValues("census_address", metrics.OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Requests.WithLabelValues("census_address", metrics.OutcomeError)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestSeconds))
}

func TestNewMetrics_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.BatchChunks.Inc()
	m.StagedFiles.Set(0)

	expected := `
# HELP geocoder_batch_chunks_total Total number of chunks submitted to the batch service.
# TYPE geocoder_batch_chunks_total counter
geocoder_batch_chunks_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "geocoder_batch_chunks_total"))

	assert.Panics(t, func() { metrics.NewMetrics(reg) })
}
