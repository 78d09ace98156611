package fetcher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imagebind",
			Subsystem: "fetch",
			Name:      "total",
			Help:      "Total number of image fetches by outcome",
		},
		[]string{"outcome"},
	)

	fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "imagebind",
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Duration of image fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	fetchBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "imagebind",
			Subsystem: "fetch",
			Name:      "bytes_total",
			Help:      "Total payload bytes of successful fetches",
		},
	)
)

func init() {
	prometheus.MustRegister(fetchTotal, fetchDuration, fetchBytes)
}

const outcomeOK = "ok"

func observe(start time.Time, err error, size int64) {
	outcome := outcomeOK
	if err != nil {
		outcome = KindOf(err).String()
	} else {
		fetchBytes.Add(float64(size))
	}
	fetchTotal.WithLabelValues(outcome).Inc()
	fetchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
