// Package walker turns a block source into an ordered, reorg-aware sequence
// of chain events.
package walker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/codec"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/model"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/source"
)

var (
	// ErrExhausted means the walker caught up with the source's tip. Not
	// terminal: a later Next call re-polls for new blocks.
	ErrExhausted = errors.New("no new blocks available")
	// ErrReorgLimitExceeded means a rollback walked past the configured
	// depth cap without finding the fork point. Terminal.
	ErrReorgLimitExceeded = errors.New("reorg depth limit exceeded")
)

// Metrics records walker progress. Implementations must be safe for reuse;
// a nil Metrics disables instrumentation.
type Metrics interface {
	ObserveEvent(eventType string, started time.Time)
	ObserveExhausted()
	ObserveReorg(depth int)
}

// Config tunes the walker. Zero values fall back to the defaults.
type Config struct {
	// WorkerCount is the number of parallel decode workers.
	WorkerCount int
	// Window bounds how many blocks may be in flight between the source
	// driver and the consumer.
	Window int
	// MaxReorgDepth caps how many blocks a single reorg may roll back
	// before the walker gives up with ErrReorgLimitExceeded.
	MaxReorgDepth int
}

const (
	defaultWorkerCount   = 8
	defaultWindow        = 64
	defaultMaxReorgDepth = 100

	// minHashWindow matches the prev-hash tracking window of the upstream
	// node's download pipeline; the recent-hash map never holds fewer
	// entries than the reorg cap requires.
	minHashWindow = 1000
)

func (c *Config) setDefaults() {
	if c.WorkerCount == 0 {
		c.WorkerCount = defaultWorkerCount
	}
	if c.Window == 0 {
		c.Window = defaultWindow
	}
	if c.MaxReorgDepth == 0 {
		c.MaxReorgDepth = defaultMaxReorgDepth
	}
}

// Walker drives iteration over the chain. It owns the Cursor exclusively:
// no other component reads or mutates it, so reorg handling needs no locks.
// Walker is not safe for concurrent use; a single consumer pulls events.
type Walker struct {
	source  source.BlockSource
	cfg     Config
	logger  *zap.Logger
	metrics Metrics

	cursor     *model.Cursor
	recent     map[uint64]chainhash.Hash
	hashWindow uint64
	queue      []queuedEvent
	stream     *stream
	failed     error
}

// queuedEvent pairs a rollback event with the cursor that becomes current
// once the event is emitted, so the cursor never runs ahead of the consumer.
type queuedEvent struct {
	event  model.ChainEvent
	cursor model.Cursor
}

// New builds a walker. A nil resume cursor starts iteration at genesis;
// otherwise the first emitted event follows resume, and resuming from the
// cursor of the last emitted event always reproduces the uninterrupted
// sequence for an unchanged chain.
func New(src source.BlockSource, resume *model.Cursor, cfg Config, logger *zap.Logger, metrics Metrics) *Walker {
	cfg.setDefaults()
	w := &Walker{
		source:     src,
		cfg:        cfg,
		logger:     logger.Named("walker"),
		metrics:    metrics,
		recent:     make(map[uint64]chainhash.Hash),
		hashWindow: uint64(max(cfg.MaxReorgDepth, minHashWindow)),
	}
	if resume != nil {
		c := *resume
		w.cursor = &c
		w.remember(c.Height, c.Hash)
	}
	return w
}

// Cursor returns a copy of the walker's position after the last emitted
// event, or nil before the first one. Callers persist it to resume later.
func (w *Walker) Cursor() *model.Cursor {
	if w.cursor == nil {
		return nil
	}
	c := *w.cursor
	return &c
}

// Close stops the fetch/decode machinery. No further source requests are
// issued once Close returns.
func (w *Walker) Close() {
	w.closeStream()
}

// Next returns the next chain event. The sequence ends permanently with the
// first non-ErrExhausted error; the cursor always reflects the last emitted
// event, so resumption after any error is safe.
func (w *Walker) Next(ctx context.Context) (model.ChainEvent, error) {
	if w.failed != nil {
		return model.ChainEvent{}, w.failed
	}
	started := time.Now()
	if len(w.queue) > 0 {
		return w.pop(started), nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return model.ChainEvent{}, err
		}
		if w.stream == nil {
			w.startStream()
		}

		it, err := w.stream.next(ctx)
		switch {
		case errors.Is(err, source.ErrNotYetAvailable):
			w.closeStream()
			if w.metrics != nil {
				w.metrics.ObserveExhausted()
			}
			return model.ChainEvent{}, ErrExhausted
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return model.ChainEvent{}, err
		case err != nil:
			w.fail(err)
			return model.ChainEvent{}, err
		}

		if w.cursor == nil || it.block.Header.PrevBlock == w.cursor.Hash {
			ev := model.Connected(it.height, it.block)
			w.cursor = &model.Cursor{Height: it.height, Hash: it.hash}
			w.remember(it.height, it.hash)
			w.observe(ev, started)
			return ev, nil
		}

		// The block at cursor+1 no longer extends our tip: a reorg
		// replaced some suffix of the chain we already emitted.
		w.logger.Info("reorg detected",
			zap.Uint64("height", it.height),
			zap.Stringer("hash", it.hash),
			zap.Stringer("prev", it.block.Header.PrevBlock),
			zap.Stringer("cursorHash", w.cursor.Hash),
		)
		w.closeStream()
		if err := w.rollback(ctx); err != nil {
			w.fail(err)
			return model.ChainEvent{}, err
		}
		if len(w.queue) > 0 {
			return w.pop(started), nil
		}
	}
}

// rollback walks backward along the stale chain from the cursor, queueing
// Disconnected events (heights strictly decreasing) until a block that still
// matches the source's current chain. Each queued event carries the cursor
// that applies once the consumer has seen it, landing on the fork point with
// the last one; the following stream then connects forward along the new
// chain.
func (w *Walker) rollback(ctx context.Context) error {
	height := w.cursor.Height
	hash := w.cursor.Hash
	depth := 0
	for {
		current, err := w.source.BlockHash(ctx, height)
		if err != nil && !errors.Is(err, source.ErrNotYetAvailable) {
			return err
		}
		if err == nil && current == hash {
			break
		}

		// A rollback of exactly MaxReorgDepth blocks is allowed; one more
		// disconnect would exceed it.
		if depth >= w.cfg.MaxReorgDepth {
			return fmt.Errorf("rolled back %d blocks without finding fork point: %w", depth, ErrReorgLimitExceeded)
		}
		if height == 0 {
			return fmt.Errorf("genesis block replaced: %w", source.ErrCorrupt)
		}

		prev, err := w.prevHash(ctx, height, hash)
		if err != nil {
			return err
		}
		w.queue = append(w.queue, queuedEvent{
			event:  model.Disconnected(height, hash),
			cursor: model.Cursor{Height: height - 1, Hash: prev},
		})
		delete(w.recent, height)
		height--
		hash = prev
		depth++
	}

	w.logger.Info("fork point found",
		zap.Uint64("height", height),
		zap.Int("depth", len(w.queue)),
	)
	if w.metrics != nil {
		w.metrics.ObserveReorg(len(w.queue))
	}
	return nil
}

// prevHash returns the parent hash of a stale block, from the remembered
// window when possible, otherwise by refetching the stale block itself
// (nodes keep stale blocks addressable by hash). Resuming mid-rollback takes
// the refetch path: a fresh walker only remembers its resume cursor.
func (w *Walker) prevHash(ctx context.Context, height uint64, hash chainhash.Hash) (chainhash.Hash, error) {
	if prev, ok := w.recent[height-1]; ok {
		return prev, nil
	}
	raw, err := w.source.RawBlock(ctx, hash)
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("refetch stale block %s: %w", hash, err)
	}
	block, err := codec.DecodeWithHash(raw, hash)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return block.Header.PrevBlock, nil
}

func (w *Walker) startStream() {
	start := uint64(0)
	if w.cursor != nil {
		start = w.cursor.Height + 1
	}
	w.stream = newStream(w.source, start, w.cfg.WorkerCount, w.cfg.Window, w.logger)
}

func (w *Walker) closeStream() {
	if w.stream != nil {
		w.stream.close()
		w.stream = nil
	}
}

func (w *Walker) fail(err error) {
	w.failed = err
	w.closeStream()
}

func (w *Walker) pop(started time.Time) model.ChainEvent {
	q := w.queue[0]
	w.queue = w.queue[1:]
	c := q.cursor
	w.cursor = &c
	w.observe(q.event, started)
	return q.event
}

func (w *Walker) remember(height uint64, hash chainhash.Hash) {
	w.recent[height] = hash
	if height >= w.hashWindow {
		delete(w.recent, height-w.hashWindow)
	}
}

func (w *Walker) observe(ev model.ChainEvent, started time.Time) {
	if w.metrics != nil {
		w.metrics.ObserveEvent(string(ev.Type), started)
	}
}
