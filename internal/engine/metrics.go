package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opportunitiesDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_intel_opportunities_detected_total",
			Help: "Total number of opportunities detected, by type",
		},
		[]string{"type"},
	)

	opportunityProfitPct = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arb_intel_opportunity_profit_pct",
		Help:    "Opportunity expected profit percentage",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 50},
	})

	scanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arb_intel_scan_duration_seconds",
		Help:    "Duration of one scan cycle",
		Buckets: prometheus.DefBuckets,
	})

	marketsScannedTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_intel_markets_scanned",
		Help: "Number of canonical markets ingested in the most recent scan",
	})

	subscriberErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_intel_subscriber_errors_total",
		Help: "Total number of subscriber callback panics recovered",
	})
)
