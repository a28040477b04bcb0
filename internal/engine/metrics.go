package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	simulationAttempts = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "axiom_txflow",
		Subsystem: "engine",
		Name:      "simulation_attempts",
		Help:      "Predicate calls needed per simulation",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 75, 100},
	})

	simulationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "axiom_txflow",
		Subsystem: "engine",
		Name:      "simulation_counter",
		Help:      "The total number of simulations by result",
	}, []string{"mode", "result"})

	submittedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "axiom_txflow",
		Subsystem: "engine",
		Name:      "submitted_tx_counter",
		Help:      "The total number of submitted transactions",
	}, []string{"kind"})

	confirmationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "axiom_txflow",
		Subsystem: "engine",
		Name:      "confirmation_wait_seconds",
		Help:      "Time spent waiting for a transaction to reach a terminal state",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"strategy", "state"})

	deadlineExtensionCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "axiom_txflow",
		Subsystem: "engine",
		Name:      "deadline_extension_counter",
		Help:      "The total number of soft deadline extensions",
	})

	sequenceTaskCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "axiom_txflow",
		Subsystem: "engine",
		Name:      "sequence_task_counter",
		Help:      "The total number of sequence tasks by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(simulationAttempts)
	prometheus.MustRegister(simulationCounter)
	prometheus.MustRegister(submittedCounter)
	prometheus.MustRegister(confirmationDuration)
	prometheus.MustRegister(deadlineExtensionCounter)
	prometheus.MustRegister(sequenceTaskCounter)
}
