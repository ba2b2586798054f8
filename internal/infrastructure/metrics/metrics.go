package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	LedgerEntries     prometheus.Gauge
	LedgerDroppedRows prometheus.Gauge

	// Computation metrics
	Computations        prometheus.Counter
	ComputationDuration prometheus.Histogram
	ResultRows          prometheus.Histogram
	RangeErrors         *prometheus.CounterVec

	// Export metrics
	ExportsCreated    prometheus.Counter
	ExportBytes       prometheus.Histogram
	ExportStoreOps    *prometheus.CounterVec
	ExportStoreErrors *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates the metrics and registers them on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LedgerEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerrange_ledger_entries",
			Help: "Number of entries in the loaded ledger",
		}),
		LedgerDroppedRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerrange_ledger_dropped_rows",
			Help: "Rows dropped at load time because their date did not parse",
		}),

		Computations: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerrange_computations_total",
			Help: "Total number of range computations",
		}),
		ComputationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerrange_computation_duration_seconds",
			Help:    "Duration of range computations",
			Buckets: prometheus.DefBuckets,
		}),
		ResultRows: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerrange_result_rows",
			Help:    "Rows per computed result",
			Buckets: []float64{0, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		RangeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerrange_range_errors_total",
				Help: "Rejected date ranges by reason",
			},
			[]string{"reason"},
		),

		ExportsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerrange_exports_created_total",
			Help: "Total number of spreadsheets generated",
		}),
		ExportBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerrange_export_bytes",
			Help:    "Size of generated spreadsheets",
			Buckets: prometheus.ExponentialBuckets(4096, 4, 8),
		}),
		ExportStoreOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerrange_export_store_operations_total",
				Help: "Export store operations by kind: save, load or miss",
			},
			[]string{"operation"},
		),
		ExportStoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerrange_export_store_errors_total",
				Help: "Export store errors",
			},
			[]string{"operation"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerrange_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerrange_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerrange_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
	}
}
