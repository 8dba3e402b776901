package model

import "time"

// Transaction is a transaction row persisted to ClickHouse.
type Transaction struct {
	Network     Network
	TxID        string
	BlockHeight uint64
	BlockHash   string
	Timestamp   time.Time
	Index       uint32
	Version     uint32
	LockTime    uint32
	InputCount  uint32
	OutputCount uint32
	// OutputValue is the sum of output values in satoshis.
	OutputValue uint64
	IsCoinbase  bool
	HasWitness  bool
}
