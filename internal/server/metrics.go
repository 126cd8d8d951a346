package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// apiMetrics holds the server's prometheus instruments on a private
// registry, so embedding the server never collides with a host process's
// default registry.
type apiMetrics struct {
	registry     *prometheus.Registry
	runsStarted  prometheus.Counter
	runsFinished *prometheus.CounterVec
	runDuration  prometheus.Histogram
}

func newAPIMetrics() *apiMetrics {
	m := &apiMetrics{
		registry: prometheus.NewRegistry(),
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pipesim",
			Name:      "runs_started_total",
			Help:      "Simulation runs accepted by the API.",
		}),
		runsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pipesim",
			Name:      "runs_finished_total",
			Help:      "Simulation runs finished, by terminal status.",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pipesim",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of simulation runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
	m.registry.MustRegister(m.runsStarted, m.runsFinished, m.runDuration)
	return m
}
