// Package metrics registers the AutoShop collectors in the default Prometheus
// registry. They are exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoshop_ticks_total",
			Help: "Total number of scheduler ticks by outcome",
		},
		[]string{"outcome"}, // selected, skipped_budget, skipped_no_candidate, ...
	)

	ledgerOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoshop_ledger_operations_total",
			Help: "Total number of ledger mutations by kind",
		},
		[]string{"kind"}, // credit, reserve, spend, refund
	)

	ledgerCoins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoshop_ledger_coins_total",
			Help: "Total coins moved by the ledger by kind",
		},
		[]string{"kind"},
	)

	activeTimers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "autoshop_active_timers",
			Help: "Number of armed session timers",
		},
	)

	txRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoshop_store_tx_retries_total",
			Help: "Total number of durable store transactions replayed by reason",
		},
		[]string{"reason"}, // serialization_failure, deadlock
	)

	catalogFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "autoshop_catalog_fetch_duration_seconds",
			Help:    "Duration of product catalog fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"result"}, // ok, error
	)
)

func ObserveTick(outcome string) {
	ticksTotal.WithLabelValues(outcome).Inc()
}

func ObserveLedger(kind string, amount int64) {
	ledgerOperations.WithLabelValues(kind).Inc()
	ledgerCoins.WithLabelValues(kind).Add(float64(amount))
}

func SetActiveTimers(n int) {
	activeTimers.Set(float64(n))
}

func ObserveCatalogFetch(seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	catalogFetchDuration.WithLabelValues(result).Observe(seconds)
}

func ObserveTxRetry(reason string) {
	txRetries.WithLabelValues(reason).Inc()
}
