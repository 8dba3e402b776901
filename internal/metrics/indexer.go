package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/store/model"
)

var (
	indexerChainHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockfeed7000",
		Subsystem: "indexer",
		Name:      "chain_height",
		Help:      "Height of the last block queued for indexing.",
	}, []string{"network"})

	indexerOrphanedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockfeed7000",
		Subsystem: "indexer",
		Name:      "orphaned_blocks_total",
		Help:      "Count of blocks marked orphaned after reorganizations.",
	}, []string{"network"})
)

// Indexer tracks indexing progress.
type Indexer struct{}

// NewIndexer constructs the indexer metrics collector.
func NewIndexer() *Indexer {
	return &Indexer{}
}

// SetChainHeight records the height of the last queued block.
func (Indexer) SetChainHeight(network model.Network, height uint64) {
	indexerChainHeight.WithLabelValues(string(network)).Set(float64(height))
}

// ObserveOrphaned records one block rolled back by a reorganization.
func (Indexer) ObserveOrphaned(network model.Network) {
	indexerOrphanedTotal.WithLabelValues(string(network)).Inc()
}
