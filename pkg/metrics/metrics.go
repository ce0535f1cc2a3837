package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// FetchTotal counts upstream fetches by resource and result
	// ("success"/"error").
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bitpanda_fetch_total",
			Help: "Total number of Bitpanda API fetches by resource and result.",
		},
		[]string{"resource", "result"},
	)

	// FetchDuration observes upstream fetch latency per resource.
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bitpanda_fetch_duration_seconds",
			Help:    "Duration of Bitpanda API fetches.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	// LastUpdateSuccess is 1 while the cadence's most recent refresh
	// succeeded, 0 otherwise. Labels: cadence="price"|"wallet".
	LastUpdateSuccess = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bitpanda_last_update_success",
			Help: "Whether the last refresh of a cadence succeeded.",
		},
		[]string{"cadence"},
	)

	// TrackedWallets reports how many wallet keys are configured.
	TrackedWallets = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bitpanda_tracked_wallets",
			Help: "Number of tracked wallet keys.",
		},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once from main.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		FetchTotal,
		FetchDuration,
		LastUpdateSuccess,
		TrackedWallets,
	)
}
