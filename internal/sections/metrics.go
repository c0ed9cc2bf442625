package sections

import "github.com/prometheus/client_golang/prometheus"

var (
	chunksAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goodsections_chunks_appended_total",
			Help: "Total number of chunk reports appended",
		},
		[]string{"series"},
	)

	mergesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goodsections_merges_total",
			Help: "Total number of merge passes, by outcome",
		},
		[]string{"outcome"},
	)

	snapshotsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "goodsections_snapshots_total",
			Help: "Total number of cache snapshots written",
		},
	)

	snapshotErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "goodsections_snapshot_errors_total",
			Help: "Total number of failed cache snapshot writes",
		},
	)

	seriesTracked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "goodsections_series_tracked",
			Help: "Number of series currently held in memory",
		},
	)
)

func init() {
	prometheus.MustRegister(chunksAppended)
	prometheus.MustRegister(mergesTotal)
	prometheus.MustRegister(snapshotsTotal)
	prometheus.MustRegister(snapshotErrors)
	prometheus.MustRegister(seriesTracked)
}
