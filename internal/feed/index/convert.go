package index

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"

	feedmodel "github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/model"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/store/model"
	"github.com/goodnatureofminers/blockfeed7000-backend/pkg/safe"
)

// convertBlock maps a decoded block at a height onto its ClickHouse rows.
func convertBlock(network model.Network, height uint64, block *feedmodel.Block) (model.IndexedBlock, error) {
	size, err := safe.Uint32(block.Size)
	if err != nil {
		return model.IndexedBlock{}, fmt.Errorf("block %d size: %w", height, err)
	}
	txCount, err := safe.Uint32(block.TxCount())
	if err != nil {
		return model.IndexedBlock{}, fmt.Errorf("block %d tx count: %w", height, err)
	}

	hash := block.Header.Hash.String()
	row := model.Block{
		Network:    network,
		Height:     height,
		Hash:       hash,
		PrevHash:   block.Header.PrevBlock.String(),
		Timestamp:  block.Header.Timestamp.UTC(),
		Version:    uint32(block.Header.Version),
		MerkleRoot: block.Header.MerkleRoot.String(),
		Bits:       block.Header.Bits,
		Nonce:      block.Header.Nonce,
		Size:       size,
		TXCount:    txCount,
		Status:     model.BlockConnected,
	}

	txs := make([]model.Transaction, 0, len(block.Transactions))
	for i := range block.Transactions {
		tx := &block.Transactions[i]

		outputValue, err := sumOutputs(tx)
		if err != nil {
			return model.IndexedBlock{}, fmt.Errorf("block %d tx %s: %w", height, tx.TxID, err)
		}
		index, err := safe.Uint32(i)
		if err != nil {
			return model.IndexedBlock{}, fmt.Errorf("block %d tx index: %w", height, err)
		}
		inputCount, err := safe.Uint32(len(tx.Inputs))
		if err != nil {
			return model.IndexedBlock{}, fmt.Errorf("block %d tx %s input count: %w", height, tx.TxID, err)
		}
		outputCount, err := safe.Uint32(len(tx.Outputs))
		if err != nil {
			return model.IndexedBlock{}, fmt.Errorf("block %d tx %s output count: %w", height, tx.TxID, err)
		}

		txs = append(txs, model.Transaction{
			Network:     network,
			TxID:        tx.TxID.String(),
			BlockHeight: height,
			BlockHash:   hash,
			Timestamp:   row.Timestamp,
			Index:       index,
			Version:     uint32(tx.Version),
			LockTime:    tx.LockTime,
			InputCount:  inputCount,
			OutputCount: outputCount,
			OutputValue: outputValue,
			IsCoinbase:  tx.IsCoinbase(),
			HasWitness:  tx.HasWitness(),
		})
	}

	return model.IndexedBlock{Block: row, Txs: txs}, nil
}

func sumOutputs(tx *feedmodel.Transaction) (uint64, error) {
	var total btcutil.Amount
	for i, out := range tx.Outputs {
		if out.Value < 0 || out.Value > int64(btcutil.MaxSatoshi) {
			return 0, fmt.Errorf("output %d value %d out of range", i, out.Value)
		}
		total += btcutil.Amount(out.Value)
	}
	return safe.Uint64(int64(total))
}
