package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Batch row statuses.
const (
	RowMatched   = "matched"
	RowUnmatched = "unmatched"
	RowMissing   = "missing"
)

type Metrics struct {
	Requests       *prometheus.CounterVec
	RequestSeconds *prometheus.HistogramVec
	BatchChunks    prometheus.Counter
	BatchRows      *prometheus.CounterVec
	StagedFiles    prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoder_requests_total",
			Help: "Total number of requests sent to the geocoding services.",
		}, []string{"service", "outcome"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geocoder_request_duration_seconds",
			Help:    "Duration of requests to the geocoding services.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
		BatchChunks: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geocoder_batch_chunks_total",
			Help: "Total number of chunks submitted to the batch service.",
		}),
		BatchRows: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoder_batch_rows_total",
			Help: "Total number of batch rows by result status.",
		}, []string{"status"}),
		StagedFiles: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "geocoder_staged_files",
			Help: "Current number of staged chunk files on disk.",
		}),
	}
}

// ObserveRequest records the outcome and duration of one service call.
func (m *Metrics) ObserveRequest(service string, duration time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.Requests.WithLabelValues(service, outcome).Inc()
	m.RequestSeconds.WithLabelValues(service).Observe(duration.Seconds())
}
