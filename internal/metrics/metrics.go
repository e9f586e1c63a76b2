// Package metrics содержит счётчики prometheus для квотного движка
// и сверки. Метрики отдаются по /metrics основного приложения.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contact_agency"

var (
	// QuotaDecisions считает решения квотного движка по исходам:
	// free, charged, rejected.
	QuotaDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_decisions_total",
			Help:      "Total quota engine decisions by outcome",
		},
		[]string{"decision"},
	)

	// ReconcileCorrections считает счётчики, исправленные сверкой.
	ReconcileCorrections = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_corrections_total",
			Help:      "Total daily counters corrected against the view event log",
		},
	)

	// ReconcileRuns считает завершённые прогоны сверки.
	ReconcileRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Total completed reconciliation runs",
		},
	)
)
