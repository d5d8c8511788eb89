package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "spamdefend_evaluation_duration_sec",
	Help: "Total duration of spam-likeness evaluations",
})

var evaluationCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "spamdefend_evaluations",
	Help: "Number of evaluations performed, by verdict",
}, []string{"verdict"})

var evaluationErrorCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "spamdefend_evaluation_errors",
	Help: "Number of evaluations which failed outright",
})

var fetchErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "spamdefend_fetch_errors",
	Help: "Number of reputation lookups handled fail-open, by source",
}, []string{"source"})
