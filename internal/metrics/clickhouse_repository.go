package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/store/model"
)

var (
	repoOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockfeed7000",
		Subsystem: "clickhouse_repository",
		Name:      "operations_total",
		Help:      "Count of ClickHouse repository operations.",
	}, []string{"operation", "network", "status"})

	repoOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockfeed7000",
		Subsystem: "clickhouse_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ClickHouse repository operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
)

// ClickHouseRepository tracks metrics for repository queries.
type ClickHouseRepository struct{}

// NewClickHouseRepository constructs the repository metrics collector.
func NewClickHouseRepository() *ClickHouseRepository {
	return &ClickHouseRepository{}
}

// Observe records one repository operation outcome and duration.
func (ClickHouseRepository) Observe(operation string, network model.Network, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	label := string(network)
	if label == "" {
		label = "unknown"
	}
	repoOperationsTotal.WithLabelValues(operation, label, status).Inc()
	repoOperationDuration.WithLabelValues(operation, label, status).
		Observe(time.Since(started).Seconds())
}
