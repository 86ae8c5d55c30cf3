// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of generation runs by final status",
		},
		[]string{"status"},
	)

	StageFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_failures_total",
			Help: "Total number of non-fatal stage failures",
		},
		[]string{"stage"},
	)

	GenerationCallsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generation_calls_total",
			Help: "Total number of content-generation service calls",
		},
	)

	GenerationCostTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generation_cost_usd_total",
			Help: "Coarse cumulative cost estimate of generation calls",
		},
	)

	VerificationTrustScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "verification_trust_score",
			Help:    "Distribution of trust scores across verification runs",
			Buckets: []float64{0, 30, 40, 70, 100},
		},
	)

	BatchEscalationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "batch_escalations_total",
			Help: "Total number of batch runs escalated for low success rate",
		},
	)
)
