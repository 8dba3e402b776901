// Package codec decodes raw consensus-serialized blocks into the feed data
// model. Decoding is pure and stateless; the functions here are safe for
// concurrent use from any number of goroutines.
package codec

import (
	"bytes"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/model"
)

const (
	headerLen = 80

	// minTxLen is the structural floor for a serialized transaction:
	// 4 version + 1 input count + 1 output count + 4 locktime. Used only to
	// reject var-int counts that cannot possibly fit the remaining buffer.
	minTxLen = 10
)

// Decode parses a consensus-serialized block. It validates structure as it
// goes: declared counts must fit the remaining buffer, every byte must be
// consumed, and no read ever goes past the end of the input.
func Decode(raw []byte) (*model.Block, error) {
	r := bytes.NewReader(raw)
	offset := func() int { return len(raw) - r.Len() }

	if len(raw) < headerLen {
		return nil, decodeErrf(0, "header", "need %d bytes, have %d", headerLen, len(raw))
	}
	var hdr wire.BlockHeader
	if err := hdr.Deserialize(r); err != nil {
		return nil, &DecodeError{Offset: 0, Field: "header", Err: err}
	}
	hash := hdr.BlockHash()

	countOffset := offset()
	txCount, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, &DecodeError{Offset: countOffset, Field: "transaction count", Err: err}
	}
	// Compare by division so a huge declared count cannot overflow the
	// multiplication and slip past the bound.
	if txCount > uint64(r.Len())/minTxLen {
		return nil, decodeErrf(countOffset, "transaction count",
			"declared %d transactions exceed %d remaining bytes", txCount, r.Len())
	}

	txs := make([]model.Transaction, 0, txCount)
	for i := uint64(0); i < txCount; i++ {
		txOffset := offset()
		var mtx wire.MsgTx
		if err := mtx.Deserialize(r); err != nil {
			return nil, &DecodeError{Offset: txOffset, Field: txField(i), Err: err}
		}
		txs = append(txs, fromWireTx(&mtx))
	}

	if r.Len() != 0 {
		return nil, decodeErrf(offset(), "block", "%d trailing bytes after last transaction", r.Len())
	}

	return &model.Block{
		Header: model.BlockHeader{
			Version:    hdr.Version,
			PrevBlock:  hdr.PrevBlock,
			MerkleRoot: hdr.MerkleRoot,
			Timestamp:  hdr.Timestamp,
			Bits:       hdr.Bits,
			Nonce:      hdr.Nonce,
			Hash:       hash,
		},
		Transactions: txs,
		Size:         len(raw),
	}, nil
}

// DecodeWithHash decodes like Decode and additionally verifies that the
// header hashes to want. A mismatch means the source handed us bytes for a
// different block, which is as permanent as any other structural failure.
func DecodeWithHash(raw []byte, want chainhash.Hash) (*model.Block, error) {
	block, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if block.Header.Hash != want {
		return nil, decodeErrf(0, "header hash", "got %s, want %s", block.Header.Hash, want)
	}
	return block, nil
}

func fromWireTx(mtx *wire.MsgTx) model.Transaction {
	inputs := make([]model.TxIn, 0, len(mtx.TxIn))
	for _, in := range mtx.TxIn {
		witness := make([][]byte, 0, len(in.Witness))
		for _, item := range in.Witness {
			witness = append(witness, append([]byte(nil), item...))
		}
		inputs = append(inputs, model.TxIn{
			PrevTxID:        in.PreviousOutPoint.Hash,
			PrevIndex:       in.PreviousOutPoint.Index,
			SignatureScript: append([]byte(nil), in.SignatureScript...),
			Witness:         witness,
			Sequence:        in.Sequence,
		})
	}
	outputs := make([]model.TxOut, 0, len(mtx.TxOut))
	for _, out := range mtx.TxOut {
		outputs = append(outputs, model.TxOut{
			Value:    out.Value,
			PkScript: append([]byte(nil), out.PkScript...),
		})
	}
	return model.Transaction{
		Version:  mtx.Version,
		LockTime: mtx.LockTime,
		Inputs:   inputs,
		Outputs:  outputs,
		TxID:     mtx.TxHash(),
		WTxID:    mtx.WitnessHash(),
	}
}

func txField(i uint64) string {
	return "transaction " + strconv.FormatUint(i, 10)
}
