// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	SimulationsRun     *prometheus.CounterVec
	SimulationErrors   *prometheus.CounterVec
	SimulationDuration *prometheus.HistogramVec
	PathsSimulated     prometheus.Counter

	// Portfolio metrics
	AggregationsComputed prometheus.Counter
	FrontiersComputed    prometheus.Counter
	RebalancePlans       prometheus.Counter

	// Stress metrics
	StressRuns *prometheus.CounterVec

	// API metrics
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	StreamsActive    prometheus.Gauge
	StreamFramesSent prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulSimulation prometheus.Gauge
	UptimeSeconds            prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "portfolio_sim_lab"
	}

	return &Metrics{
		// Simulation metrics
		SimulationsRun: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of simulation runs by kind",
		}, []string{"kind"}),
		SimulationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "errors_total",
			Help:      "Total number of simulation errors by kind",
		}, []string{"kind"}),
		SimulationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "duration_seconds",
			Help:      "Simulation execution duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}, []string{"kind"}),
		PathsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "paths_total",
			Help:      "Total number of Monte Carlo paths simulated",
		}),

		// Portfolio metrics
		AggregationsComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "aggregations_total",
			Help:      "Total number of portfolio aggregations computed",
		}),
		FrontiersComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "frontiers_total",
			Help:      "Total number of efficient frontiers computed",
		}),
		RebalancePlans: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "rebalance_plans_total",
			Help:      "Total number of rebalance plans generated",
		}),

		// Stress metrics
		StressRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stress",
			Name:      "runs_total",
			Help:      "Total number of stress tests by scenario",
		}, []string{"scenario"}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by path and status",
		}, []string{"path", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "http_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		StreamsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "streams_active",
			Help:      "Number of active simulation stream connections",
		}),
		StreamFramesSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "stream_frames_sent_total",
			Help:      "Total number of frames sent over simulation streams",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulSimulation: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_simulation_timestamp",
			Help:      "Unix timestamp of last successful simulation",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSimulation records a finished simulation run.
func RecordSimulation(kind string, paths int, seconds float64, err error) {
	if err != nil {
		DefaultMetrics.SimulationErrors.WithLabelValues(kind).Inc()
		return
	}
	DefaultMetrics.SimulationsRun.WithLabelValues(kind).Inc()
	DefaultMetrics.SimulationDuration.WithLabelValues(kind).Observe(seconds)
	DefaultMetrics.PathsSimulated.Add(float64(paths))
}

// RecordStressRun increments the stress test counter for a scenario.
func RecordStressRun(scenarioID string) {
	DefaultMetrics.StressRuns.WithLabelValues(scenarioID).Inc()
}

// RecordAggregation increments the portfolio aggregation counter.
func RecordAggregation() {
	DefaultMetrics.AggregationsComputed.Inc()
}

// RecordHTTPRequest records an API request.
func RecordHTTPRequest(path, status string, seconds float64) {
	DefaultMetrics.HTTPRequests.WithLabelValues(path, status).Inc()
	DefaultMetrics.HTTPDuration.WithLabelValues(path).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
