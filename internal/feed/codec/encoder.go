package codec

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/model"
)

// Encode re-serializes a decoded block to consensus wire format. For any
// well-formed input, Decode(Encode(Decode(raw))) reproduces the same block.
func Encode(block *model.Block) ([]byte, error) {
	msg := wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:    block.Header.Version,
			PrevBlock:  block.Header.PrevBlock,
			MerkleRoot: block.Header.MerkleRoot,
			Timestamp:  block.Header.Timestamp,
			Bits:       block.Header.Bits,
			Nonce:      block.Header.Nonce,
		},
	}
	for i := range block.Transactions {
		msg.AddTransaction(toWireTx(&block.Transactions[i]))
	}

	var buf bytes.Buffer
	if err := msg.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("serialize block %s: %w", block.Header.Hash, err)
	}
	return buf.Bytes(), nil
}

func toWireTx(tx *model.Transaction) *wire.MsgTx {
	mtx := wire.NewMsgTx(tx.Version)
	mtx.LockTime = tx.LockTime
	for _, in := range tx.Inputs {
		mtx.AddTxIn(&wire.TxIn{
			PreviousOutPoint: wire.OutPoint{Hash: in.PrevTxID, Index: in.PrevIndex},
			SignatureScript:  in.SignatureScript,
			Witness:          in.Witness,
			Sequence:         in.Sequence,
		})
	}
	for _, out := range tx.Outputs {
		mtx.AddTxOut(&wire.TxOut{Value: out.Value, PkScript: out.PkScript})
	}
	return mtx
}
