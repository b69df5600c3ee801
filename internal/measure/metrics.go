package measure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registered on the default registry, which the metrics endpoint serves.
var (
	// requestsTotal counts measurements by outcome.
	//
	// Labels:
	//   - status: "success", "empty" or "error"
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commentcov",
			Subsystem: "measure",
			Name:      "requests_total",
			Help:      "Total number of coverage measurements.",
		},
		[]string{"status"},
	)

	// itemsTotal counts reported coverage items by scope name.
	itemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commentcov",
			Subsystem: "measure",
			Name:      "items_total",
			Help:      "Total coverage items reported, by scope.",
		},
		[]string{"scope"},
	)

	// filesTotal counts program files.
	//
	// Labels:
	//   - status: "measured", "duplicate" (already visited) or "skipped" (unreadable)
	filesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commentcov",
			Subsystem: "measure",
			Name:      "files_total",
			Help:      "Total files seen while measuring, by outcome.",
		},
		[]string{"status"},
	)

	measureDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "commentcov",
			Subsystem: "measure",
			Name:      "duration_seconds",
			Help:      "Duration of coverage measurements in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

const (
	statusSuccess   = "success"
	statusEmpty     = "empty"
	statusError     = "error"
	statusMeasured  = "measured"
	statusDuplicate = "duplicate"
	statusSkipped   = "skipped"
)
