// Package clickhouse persists indexed blocks and the resume cursor.
package clickhouse

import (
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/store/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Metrics records repository query outcomes.
	Metrics interface {
		Observe(operation string, network model.Network, err error, started time.Time)
	}
)

// Repository stores feed rows in ClickHouse.
type Repository struct {
	conn    clickhouse.Conn
	metrics Metrics
}

// NewRepository opens a ClickHouse connection from a DSN.
func NewRepository(dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &Repository{conn: conn, metrics: metrics}, nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	return r.conn.Close()
}

func firstNetwork[T any](rows []T) model.Network {
	if len(rows) == 0 {
		return ""
	}
	switch v := any(rows[0]).(type) {
	case model.Block:
		return v.Network
	case model.Transaction:
		return v.Network
	default:
		return ""
	}
}
