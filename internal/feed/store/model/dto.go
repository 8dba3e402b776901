package model

// IndexedBlock groups a block row with its transaction rows and the cursor
// to persist once the batch containing it has been flushed.
type IndexedBlock struct {
	Block Block
	Txs   []Transaction
}

// Cursor is the persisted resume position of the indexer.
type Cursor struct {
	Network Network
	Height  uint64
	Hash    string
}
