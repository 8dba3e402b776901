// Package source abstracts where raw block bytes come from: a node's RPC
// interface or a directory of local block files.
package source

import (
	"context"
	"errors"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var (
	// ErrNotFound means the block does not exist at this hash on any chain.
	// Permanent.
	ErrNotFound = errors.New("block not found")
	// ErrNotYetAvailable means the requested height is beyond the source's
	// current tip. Transient: a later call may succeed as the chain grows.
	ErrNotYetAvailable = errors.New("block not yet available")
	// ErrCorrupt means a file-backed source hit truncated or damaged block
	// data that no writer is still appending to. Permanent.
	ErrCorrupt = errors.New("block data corrupt")
)

// BlockSource provides raw block bytes and best-chain lookups. Implementations
// are stateless with respect to callers and safe for concurrent use; transient
// connection failures are retried internally before being surfaced.
type BlockSource interface {
	// BestHeight returns the source's current best-chain tip height.
	BestHeight(ctx context.Context) (uint64, error)
	// BlockHash returns the best-chain block hash at the given height, or
	// ErrNotYetAvailable when height is beyond the tip.
	BlockHash(ctx context.Context, height uint64) (chainhash.Hash, error)
	// RawBlock returns the consensus-serialized bytes of the block with the
	// given hash, or ErrNotFound for an unknown hash.
	RawBlock(ctx context.Context, hash chainhash.Hash) ([]byte, error)
}
