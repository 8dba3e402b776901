package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/store/model"
)

// SaveCursor persists the indexer's resume position.
func (r *Repository) SaveCursor(ctx context.Context, cursor model.Cursor) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("save_cursor", cursor.Network, err, start)
	}()

	const query = `
INSERT INTO feed_cursor (network, height, hash) VALUES (?, ?, ?)`

	if err = r.conn.Exec(ctx, query, string(cursor.Network), cursor.Height, cursor.Hash); err != nil {
		return fmt.Errorf("save cursor at height %d: %w", cursor.Height, err)
	}
	return nil
}

// LoadCursor returns the persisted resume position, or nil when the indexer
// has never run for this network.
func (r *Repository) LoadCursor(ctx context.Context, network model.Network) (*model.Cursor, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("load_cursor", network, err, start)
	}()

	const query = `
SELECT height, hash
FROM feed_cursor FINAL
WHERE network = ?
LIMIT 1`

	row := r.conn.QueryRow(ctx, query, string(network))
	cursor := model.Cursor{Network: network}
	err = row.Scan(&cursor.Height, &cursor.Hash)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cursor: %w", err)
	}
	return &cursor, nil
}
