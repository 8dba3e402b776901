package model

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Cursor is the walker's resumable position: the height and hash of the last
// emitted event. It has a single owner (the walker) and a single writer; the
// caller persists it to resume iteration across restarts.
type Cursor struct {
	Height uint64
	Hash   chainhash.Hash
}
