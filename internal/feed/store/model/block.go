// Package model defines the row types persisted by the block index.
package model

import "time"

// BlockStatus describes whether an indexed block is still on the best chain.
type BlockStatus string

var (
	// BlockConnected marks a block currently part of the accepted chain.
	BlockConnected BlockStatus = "connected"
	// BlockOrphaned marks a block rolled back by a reorg.
	BlockOrphaned BlockStatus = "orphaned"
)

// Block is a block row persisted to ClickHouse.
type Block struct {
	Network    Network
	Height     uint64
	Hash       string
	PrevHash   string
	Timestamp  time.Time
	Version    uint32
	MerkleRoot string
	Bits       uint32
	Nonce      uint32
	Size       uint32
	TXCount    uint32
	Status     BlockStatus
}
