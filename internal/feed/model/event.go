package model

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// EventType discriminates the two chain event variants.
type EventType string

const (
	// EventConnected extends the accepted chain with a new block.
	EventConnected EventType = "connected"
	// EventDisconnected rolls a previously connected block back.
	EventDisconnected EventType = "disconnected"
)

// ChainEvent is a single step of the accepted chain's evolution. Connected
// events carry the full block; disconnected events only the rolled-back hash.
// Replaying all Connected events minus later-Disconnected heights always
// yields a state consistent with a single best chain.
type ChainEvent struct {
	Type   EventType
	Height uint64
	Hash   chainhash.Hash
	// Block is set for Connected events, nil for Disconnected.
	Block *Block
}

// Connected builds a connect event for a block at the given height.
func Connected(height uint64, block *Block) ChainEvent {
	return ChainEvent{
		Type:   EventConnected,
		Height: height,
		Hash:   block.Header.Hash,
		Block:  block,
	}
}

// Disconnected builds a rollback event for the block hash at the given height.
func Disconnected(height uint64, hash chainhash.Hash) ChainEvent {
	return ChainEvent{
		Type:   EventDisconnected,
		Height: height,
		Hash:   hash,
	}
}
