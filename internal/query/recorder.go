package query

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder observes search activity.
type Recorder interface {
	ScanCompleted(results int, took time.Duration)
	ScanCancelled()
}

type nopRecorder struct{}

func (nopRecorder) ScanCompleted(int, time.Duration) {}
func (nopRecorder) ScanCancelled()                   {}

type Metrics struct {
	Scans     prometheus.Counter
	Cancelled prometheus.Counter
	Results   prometheus.Histogram
	Latency   prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Scans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_search_scans_total",
			Help: "Completed catalog scans",
		}),
		Cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_search_cancelled_total",
			Help: "Pending scans superseded before they ran",
		}),
		Results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_search_results",
			Help:    "Items matched per scan",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 500},
		}),
		Latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_search_duration_seconds",
			Help:    "Scan latency",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}

	reg.MustRegister(m.Scans, m.Cancelled, m.Results, m.Latency)
	return m
}

func (m *Metrics) ScanCompleted(results int, took time.Duration) {
	m.Scans.Inc()
	m.Results.Observe(float64(results))
	m.Latency.Observe(took.Seconds())
}

func (m *Metrics) ScanCancelled() { m.Cancelled.Inc() }
