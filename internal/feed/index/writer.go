package index

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/store/model"
	"github.com/goodnatureofminers/blockfeed7000-backend/pkg/batcher"
)

// WriterConfig controls batching of indexed blocks.
type WriterConfig struct {
	BatchSize     int
	FlushInterval time.Duration
	FlushRPS      int
}

// DefaultWriterConfig returns sane writer defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     100,
		FlushInterval: 5 * time.Second,
		FlushRPS:      10,
	}
}

// Writer batches indexed blocks and persists each flushed batch together
// with the cursor of its last block. The cursor therefore never runs ahead
// of the rows, so a crash between flushes re-indexes at most one batch and
// ReplacingMergeTree deduplicates the overlap.
type Writer struct {
	repo    Repository
	batcher *batcher.Batcher[model.IndexedBlock]
	logger  *zap.Logger
}

// NewWriter builds a Writer on top of the generic batcher.
func NewWriter(logger *zap.Logger, repo Repository, cfg WriterConfig) *Writer {
	if cfg.BatchSize <= 0 || cfg.FlushInterval <= 0 || cfg.FlushRPS <= 0 {
		cfg = DefaultWriterConfig()
	}

	w := &Writer{repo: repo, logger: logger}
	w.batcher = batcher.New(logger, w.flush, cfg.BatchSize, cfg.FlushInterval, cfg.FlushRPS)
	return w
}

// Start begins background flushing.
func (w *Writer) Start(ctx context.Context) {
	w.batcher.Start(ctx)
}

// Add queues an indexed block for persistence.
func (w *Writer) Add(ctx context.Context, block model.IndexedBlock) error {
	return w.batcher.Add(ctx, block)
}

// Flush forces the pending batch out and waits for the result.
func (w *Writer) Flush(ctx context.Context) error {
	return w.batcher.Flush(ctx)
}

// Stop flushes the remainder and reports the first flush failure, if any.
func (w *Writer) Stop() error {
	return w.batcher.Stop()
}

func (w *Writer) flush(ctx context.Context, batch []model.IndexedBlock) error {
	blocks := make([]model.Block, 0, len(batch))
	var txs []model.Transaction
	for _, item := range batch {
		blocks = append(blocks, item.Block)
		txs = append(txs, item.Txs...)
	}

	if err := w.repo.InsertBlocks(ctx, blocks); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	if err := w.repo.InsertTransactions(ctx, txs); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}

	last := blocks[len(blocks)-1]
	cursor := model.Cursor{Network: last.Network, Height: last.Height, Hash: last.Hash}
	if err := w.repo.SaveCursor(ctx, cursor); err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}

	w.logger.Debug("indexed batch persisted",
		zap.String("network", string(last.Network)),
		zap.Uint64("last_height", last.Height),
		zap.Int("blocks", len(blocks)),
		zap.Int("transactions", len(txs)))
	return nil
}
