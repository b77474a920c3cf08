package ingestion

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var adapterFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "arb_intel_adapter_failures_total",
		Help: "Total number of adapter fetch failures, by adapter",
	},
	[]string{"adapter"},
)

var adapterMarketsFetched = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "arb_intel_adapter_markets_fetched",
		Help: "Number of markets returned by the most recent fetch, by adapter",
	},
	[]string{"adapter"},
)
