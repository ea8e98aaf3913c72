package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterProgramCacheHits   prometheus.Counter
	CounterProgramCacheMisses prometheus.Counter
	CounterProgramFetches     *prometheus.CounterVec
	CounterProgressRecords    *prometheus.CounterVec
	CounterPreloadedImages    *prometheus.CounterVec
	CounterSessionTransitions *prometheus.CounterVec

	// gauges
	GaugeActiveSessions prometheus.Gauge

	// histograms
	HistProgramFetchDuration prometheus.Histogram
	HistBoutDuration         prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitcoach", "test_client", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitcoach", "test_client", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterProgramCacheHits := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "program_cache_hits",
		Help:      "The total number of workout program reads served from the cache",
	})
	counterProgramCacheMisses := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "program_cache_misses",
		Help:      "The total number of workout program reads that missed the cache (absent or expired)",
	})
	counterProgramFetches := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "program_fetches",
		Help:      "The total number of workout program fetches from the coaching backend",
	}, []string{"status"})
	counterProgressRecords := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "progress_records",
		Help:      "The total number of submitted exercise progress records",
	}, []string{"status"})
	counterPreloadedImages := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "preloaded_images",
		Help:      "The total number of warmed media urls",
	}, []string{"status"})
	counterSessionTransitions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "session_transitions",
		Help:      "The total number of training session step transitions",
	}, []string{"step"})

	gaugeActiveSessions := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "active_sessions",
		Help:      "Current number of open training sessions",
	})

	histProgramFetchDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "program_fetch_duration_seconds",
		Help:      "Histogram of workout program fetch time in seconds",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
	})
	histBoutDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "bout_duration_seconds",
		Help:      "Histogram of exercise / superset bout durations in seconds",
		Buckets:   []float64{10, 30, 60, 120, 240, 480, 900, 1800, 3600},
	})

	return &Manager{
		CounterProgramCacheHits:   counterProgramCacheHits,
		CounterProgramCacheMisses: counterProgramCacheMisses,
		CounterProgramFetches:     counterProgramFetches,
		CounterProgressRecords:    counterProgressRecords,
		CounterPreloadedImages:    counterPreloadedImages,
		CounterSessionTransitions: counterSessionTransitions,
		GaugeActiveSessions:       gaugeActiveSessions,
		HistProgramFetchDuration:  histProgramFetchDuration,
		HistBoutDuration:          histBoutDuration,
	}
}
