package monitor

import (
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	buildInfoGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "chatapi",
		Name:      "build_info",
		Help:      "Build metadata, value fixed at 1.",
	}, []string{"version", "go_version", "start_time"})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatapi",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chatapi",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	statEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatapi",
		Subsystem: "stats",
		Name:      "events_total",
		Help:      "Usage statistics events recorded, by outcome.",
	}, []string{"outcome"})

	sweepRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatapi",
		Subsystem: "sweep",
		Name:      "rows_total",
		Help:      "Rows touched by scheduled maintenance sweeps, by sweep name.",
	}, []string{"sweep"})
)

// InitPrometheusMonitoring registers all collectors and stamps the build info
// gauge. Must run once before the metrics endpoint is exposed.
func InitPrometheusMonitoring(version string, goVersion string, startTime time.Time) error {
	for _, collector := range []prometheus.Collector{
		buildInfoGauge,
		httpRequestsTotal,
		httpRequestDuration,
		statEventsTotal,
		sweepRowsTotal,
	} {
		if err := prometheus.Register(collector); err != nil {
			return errors.Wrap(err, "register prometheus collector")
		}
	}
	buildInfoGauge.WithLabelValues(version, goVersion, startTime.Format(time.RFC3339)).Set(1)
	return nil
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route, status string, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveStatEvent records the outcome of one statistics Record call.
func ObserveStatEvent(outcome string) {
	statEventsTotal.WithLabelValues(outcome).Inc()
}

// ObserveSweep records how many rows a maintenance sweep touched.
func ObserveSweep(sweep string, rows int64) {
	sweepRowsTotal.WithLabelValues(sweep).Add(float64(rows))
}
