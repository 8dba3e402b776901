package model

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// TxIn references a previous transaction output being spent.
type TxIn struct {
	PrevTxID        chainhash.Hash
	PrevIndex       uint32
	SignatureScript []byte
	Witness         [][]byte
	Sequence        uint32
}

// TxOut is a value locked behind a spend condition.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// Transaction is a decoded transaction. Input and output ordering is
// significant and preserved exactly as decoded; it participates in TxID.
// Both hashes are computed once at decode time: TxID over the non-witness
// serialization, WTxID over the full one (they are equal for transactions
// without witness data).
type Transaction struct {
	Version  int32
	LockTime uint32
	Inputs   []TxIn
	Outputs  []TxOut
	TxID     chainhash.Hash
	WTxID    chainhash.Hash
}

// HasWitness reports whether any input carries witness data.
func (t *Transaction) HasWitness() bool {
	for i := range t.Inputs {
		if len(t.Inputs[i].Witness) > 0 {
			return true
		}
	}
	return false
}

// IsCoinbase reports whether the transaction is the block reward transaction.
func (t *Transaction) IsCoinbase() bool {
	return len(t.Inputs) == 1 &&
		t.Inputs[0].PrevTxID == (chainhash.Hash{}) &&
		t.Inputs[0].PrevIndex == 0xffffffff
}
