package walker

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/codec"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/model"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/pipeline"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/source"
)

// fetched is one height's raw bytes as pulled by the driver, or the fetch
// error that occurred at that position.
type fetched struct {
	height uint64
	hash   chainhash.Hash
	raw    []byte
	err    error
}

// item is one decoded block in height order.
type item struct {
	height uint64
	hash   chainhash.Hash
	block  *model.Block
}

// stream is a run of consecutive heights being fetched and decoded. Fetching
// is sequential in a single driver goroutine (BlockSource calls are never
// parallelized); decoding fans out through the ordered pipeline. The walker
// tears a stream down and starts a new one whenever the chain shape changes.
type stream struct {
	pipe   *pipeline.Ordered[fetched, item]
	cancel context.CancelFunc
	done   chan struct{}
}

func newStream(src source.BlockSource, start uint64, workerCount, window int, logger *zap.Logger) *stream {
	ctx, cancel := context.WithCancel(context.Background())
	s := &stream{
		pipe:   pipeline.New(decodeFetched, workerCount, window),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.drive(ctx, src, start, logger)
	return s
}

// drive requests hash and raw bytes per height, ascending, and submits decode
// tasks until an error ends the run. The error is submitted as the item at
// its own height so the consumer observes it in order, after every block that
// precedes it.
func (s *stream) drive(ctx context.Context, src source.BlockSource, start uint64, logger *zap.Logger) {
	defer close(s.done)
	for height := start; ; height++ {
		hash, err := src.BlockHash(ctx, height)
		if err != nil {
			s.submitErr(ctx, height, err)
			return
		}
		raw, err := src.RawBlock(ctx, hash)
		if err != nil {
			s.submitErr(ctx, height, err)
			return
		}
		if err := s.pipe.Submit(ctx, fetched{height: height, hash: hash, raw: raw}); err != nil {
			return
		}
		logger.Debug("fetched block", zap.Uint64("height", height), zap.Int("bytes", len(raw)))
	}
}

func (s *stream) submitErr(ctx context.Context, height uint64, err error) {
	_ = s.pipe.Submit(ctx, fetched{height: height, err: err})
}

func (s *stream) next(ctx context.Context) (item, error) {
	return s.pipe.Next(ctx)
}

// close stops the driver and the decode workers. In-flight decodes drain and
// are discarded; no further source requests are issued once close returns.
func (s *stream) close() {
	s.cancel()
	s.pipe.Close()
	<-s.done
}

func decodeFetched(f fetched) (item, error) {
	if f.err != nil {
		return item{height: f.height}, f.err
	}
	block, err := codec.DecodeWithHash(f.raw, f.hash)
	if err != nil {
		return item{height: f.height}, fmt.Errorf("decode block at height %d: %w", f.height, err)
	}
	return item{height: f.height, hash: f.hash, block: block}, nil
}
