// Package index consumes chain events and persists them as ClickHouse rows.
package index

import (
	"context"

	feedmodel "github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/model"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/store/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// EventSource yields the chain event sequence the indexer replays.
	EventSource interface {
		Next(ctx context.Context) (feedmodel.ChainEvent, error)
		Cursor() *feedmodel.Cursor
	}

	// Repository persists indexed rows and the resume cursor.
	Repository interface {
		InsertBlocks(ctx context.Context, blocks []model.Block) error
		InsertTransactions(ctx context.Context, txs []model.Transaction) error
		MarkBlockOrphaned(ctx context.Context, network model.Network, height uint64, hash string) error
		SaveCursor(ctx context.Context, cursor model.Cursor) error
	}

	// BlockWriter buffers indexed blocks and flushes them in batches.
	BlockWriter interface {
		Add(ctx context.Context, block model.IndexedBlock) error
		Flush(ctx context.Context) error
	}

	// Metrics records indexing progress.
	Metrics interface {
		SetChainHeight(network model.Network, height uint64)
		ObserveOrphaned(network model.Network)
	}
)
