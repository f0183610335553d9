package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "comptree_analysis_seconds",
		Help:    "Time spent analyzing one root component file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"extractor"})

	FilesReadTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comptree_files_read_total",
		Help: "Total number of source files read for line counting and import extraction.",
	})

	SourceCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comptree_source_cache_hits_total",
		Help: "Total number of source reads served from the content cache.",
	})

	NodeCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comptree_node_cache_hits_total",
		Help: "Total number of component expansions served from the per-run node cache.",
	})

	CircularDependenciesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comptree_circular_dependencies_total",
		Help: "Total number of circular import edges encountered during traversal.",
	})

	UnresolvedImportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comptree_unresolved_imports_total",
		Help: "Total number of relative imports that did not resolve to a file.",
	})

	TreeFiles = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "comptree_tree_files",
		Help: "Distinct files counted in the most recent analysis of a root.",
	}, []string{"root"})

	TreeLines = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "comptree_tree_lines",
		Help: "Total reachable lines in the most recent analysis of a root.",
	}, []string{"root"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comptree_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatchRunsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comptree_watch_runs_skipped_total",
		Help: "Total number of change batches folded into an already pending re-analysis.",
	})
)
