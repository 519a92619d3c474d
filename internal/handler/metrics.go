package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	advancesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenario_advances_total",
			Help: "Total number of scenario advance calls by resulting status.",
		},
		[]string{"status"},
	)

	completionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scenario_completions_total",
		Help: "Total number of scenario completions.",
	})

	checkpointsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scenario_checkpoints_total",
		Help: "Total number of saved checkpoints.",
	})

	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Total number of successful user registrations.",
	})
)
