package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wireworld_ticks_total",
		Help: "Total simulation ticks executed across all sessions",
	})

	cellChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wireworld_cell_changes_total",
		Help: "Total cell transitions committed by ticks, spawns and edits",
	})

	activeCells = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wireworld_active_cells",
		Help:    "Size of the active set evaluated per tick",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	exerciseOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wireworld_exercise_outcomes_total",
		Help: "Exercise outcomes by result",
	}, []string{"outcome"})

	editsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wireworld_edits_total",
		Help: "Player edits by result",
	}, []string{"result"})
)
