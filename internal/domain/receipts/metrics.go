package receipts

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	receiptsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "receipts",
		Name:      "processed_total",
		Help:      "Receipts processed, by outcome and winning extraction strategy.",
	}, []string{"outcome", "strategy"})

	processingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "receipts",
		Name:      "processing_duration_seconds",
		Help:      "End-to-end processing time of one receipt.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"outcome"})

	unresolvedCategories = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "receipts",
		Name:      "unresolved_categories_total",
		Help:      "Item category labels that matched no canonical category.",
	})

	dispatchDeduplicated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "receipts",
		Name:      "dispatch_deduplicated_total",
		Help:      "Enqueue calls dropped because the receipt was already in flight.",
	})

	dispatchInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "receipts",
		Name:      "dispatch_in_flight",
		Help:      "Receipts currently being processed.",
	})
)

const (
	outcomeCompleted = "completed"
	outcomeFailed    = "failed"
	outcomeSkipped   = "skipped"
)
