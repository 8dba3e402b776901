// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockfeed7000",
		Subsystem: "rpc_client",
		Name:      "requests_total",
		Help:      "Count of bitcoind RPC requests.",
	}, []string{"operation", "network", "status"})

	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockfeed7000",
		Subsystem: "rpc_client",
		Name:      "request_duration_seconds",
		Help:      "Duration of bitcoind RPC requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
)

// RPCClient tracks metrics for bitcoind RPC calls.
type RPCClient struct {
	network string
}

// NewRPCClient constructs an RPC metrics collector for one network.
func NewRPCClient(network string) *RPCClient {
	if network == "" {
		network = "unknown"
	}
	return &RPCClient{network: network}
}

// Observe records one RPC call outcome and duration.
func (m RPCClient) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	rpcRequestsTotal.WithLabelValues(operation, m.network, status).Inc()
	rpcRequestDuration.WithLabelValues(operation, m.network, status).
		Observe(time.Since(started).Seconds())
}
