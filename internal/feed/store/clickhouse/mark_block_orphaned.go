package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/store/model"
)

// MarkBlockOrphaned flags a rolled-back block and its transactions as no
// longer on the best chain. Reorgs are rare enough that a mutation per
// disconnected block is acceptable.
func (r *Repository) MarkBlockOrphaned(ctx context.Context, network model.Network, height uint64, hash string) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("mark_block_orphaned", network, err, start)
	}()

	const blocksQuery = `
ALTER TABLE feed_blocks
UPDATE status = 'orphaned'
WHERE network = ? AND height = ? AND hash = ?`

	if err = r.conn.Exec(ctx, blocksQuery, string(network), height, hash); err != nil {
		return fmt.Errorf("mark block %d orphaned: %w", height, err)
	}
	return nil
}
