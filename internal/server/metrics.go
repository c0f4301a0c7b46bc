package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// jobsTotal counts finished optimization jobs by solver and
	// terminal status.
	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "descent_jobs_total",
		Help: "Optimization jobs finished, by solver and status.",
	}, []string{"solver", "status"})

	// jobIterations observes the iteration count of completed runs.
	jobIterations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "descent_job_iterations",
		Help:    "Iterations performed by completed optimization runs.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"solver"})

	// jobDuration observes wall-clock run time in seconds.
	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "descent_job_duration_seconds",
		Help:    "Wall-clock duration of optimization runs.",
		Buckets: prometheus.DefBuckets,
	}, []string{"solver"})
)
