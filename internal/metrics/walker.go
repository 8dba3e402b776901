package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	walkerEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockfeed7000",
		Subsystem: "walker",
		Name:      "events_total",
		Help:      "Count of chain events emitted by the walker.",
	}, []string{"network", "event"})

	walkerEventDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockfeed7000",
		Subsystem: "walker",
		Name:      "event_duration_seconds",
		Help:      "Time spent producing one chain event.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "event"})

	walkerExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockfeed7000",
		Subsystem: "walker",
		Name:      "exhausted_total",
		Help:      "Count of times the walker caught up with the source tip.",
	}, []string{"network"})

	walkerReorgsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockfeed7000",
		Subsystem: "walker",
		Name:      "reorgs_total",
		Help:      "Count of chain reorganizations handled.",
	}, []string{"network"})

	walkerReorgDepth = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockfeed7000",
		Subsystem: "walker",
		Name:      "reorg_depth",
		Help:      "Number of blocks rolled back per reorganization.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1..128
	}, []string{"network"})
)

// Walker tracks metrics for the chain walker.
type Walker struct {
	network string
}

// NewWalker constructs a walker metrics collector for one network.
func NewWalker(network string) *Walker {
	if network == "" {
		network = "unknown"
	}
	return &Walker{network: network}
}

// ObserveEvent records an emitted chain event and its production time.
func (m Walker) ObserveEvent(eventType string, started time.Time) {
	walkerEventsTotal.WithLabelValues(m.network, eventType).Inc()
	walkerEventDuration.WithLabelValues(m.network, eventType).
		Observe(time.Since(started).Seconds())
}

// ObserveExhausted records the walker reaching the source tip.
func (m Walker) ObserveExhausted() {
	walkerExhaustedTotal.WithLabelValues(m.network).Inc()
}

// ObserveReorg records a handled reorganization and its depth.
func (m Walker) ObserveReorg(depth int) {
	walkerReorgsTotal.WithLabelValues(m.network).Inc()
	walkerReorgDepth.WithLabelValues(m.network).Observe(float64(depth))
}
