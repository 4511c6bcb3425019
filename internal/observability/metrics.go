package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	rpcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nlm",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Total batchexecute requests.",
		},
		[]string{"host", "rpcids", "status"},
	)
	rpcDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nlm",
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "Batchexecute request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"host", "rpcids", "status"},
	)
	decodeRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nlm",
			Subsystem: "decode",
			Name:      "records_total",
			Help:      "Response records kept per decode mode.",
		},
		[]string{"mode"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nlm",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests served by local helpers.",
		},
		[]string{"app", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(rpcRequests, rpcDuration, decodeRecords, httpRequests)
	})
}

func RecordRPC(host, rpcids string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	rpcRequests.WithLabelValues(host, rpcids, statusLabel).Inc()
	rpcDuration.WithLabelValues(host, rpcids, statusLabel).Observe(duration.Seconds())
}

func RecordDecode(mode string, kept int) {
	RegisterMetrics()
	decodeRecords.WithLabelValues(mode).Add(float64(kept))
}

func RecordHTTPRequest(app, method, path string, status int) {
	RegisterMetrics()
	httpRequests.WithLabelValues(app, method, path, strconv.Itoa(status)).Inc()
}
