// Package model defines the chain data model shared by the feed components.
package model

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockHeader holds the decoded fields of an 80-byte block header together
// with the header hash. The hash is computed once at decode time; it is a
// pure function of the other fields and is never recomputed afterwards.
type BlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  time.Time
	Bits       uint32
	Nonce      uint32
	Hash       chainhash.Hash
}

// Block is a header plus its transactions in consensus order. A Block owns
// its transactions exclusively; values are immutable once decoded.
type Block struct {
	Header       BlockHeader
	Transactions []Transaction
	// Size is the serialized byte length of the block as decoded.
	Size int
}

// TxCount returns the number of transactions in the block.
func (b *Block) TxCount() int {
	return len(b.Transactions)
}
