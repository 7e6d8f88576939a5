package model

import (
	"errors"
	"time"

	"github.com/huangsam/gradepoint/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// evaluationsTotal counts variable evaluations by alias and outcome
	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradepoint_variable_evaluations_total",
		Help: "Total variable evaluations by alias and outcome",
	}, []string{"alias", "outcome"})

	// evaluationDuration tracks variable evaluation latency, dependencies included
	evaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gradepoint_variable_evaluation_duration_seconds",
		Help:    "Variable evaluation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
	}, []string{"alias"})

	// modelBuildsTotal counts evaluation model instances built by the cache
	modelBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradepoint_model_builds_total",
		Help: "Total evaluation models built by model type",
	}, []string{"model"})
)

func outcome(err error) string {
	switch {
	case err == nil:
		return string(schema.StatusOK)
	case errors.Is(err, schema.ErrDataNotReady):
		return string(schema.StatusPending)
	case errors.Is(err, schema.ErrVariable):
		return string(schema.StatusNA)
	default:
		return string(schema.StatusError)
	}
}

func observeEvaluation(alias string, err error, took time.Duration) {
	evaluationsTotal.WithLabelValues(alias, outcome(err)).Inc()
	evaluationDuration.WithLabelValues(alias).Observe(took.Seconds())
}

// Outcome classifies an evaluation error into a rating status.
func Outcome(err error) schema.RatingStatus { return schema.RatingStatus(outcome(err)) }
