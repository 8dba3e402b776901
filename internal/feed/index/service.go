package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockfeed7000-backend/internal/clock"
	feedmodel "github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/model"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/store/model"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/walker"
)

// Config holds indexer service parameters.
type Config struct {
	Network model.Network
	// PollInterval is how long to wait after the source is exhausted
	// before asking for new blocks again.
	PollInterval time.Duration
}

// Indexer drains a chain event source into the repository.
type Indexer struct {
	events  EventSource
	writer  BlockWriter
	repo    Repository
	metrics Metrics
	logger  *zap.Logger
	cfg     Config
}

// New builds the indexer service.
func New(events EventSource, writer BlockWriter, repo Repository, metrics Metrics, logger *zap.Logger, cfg Config) *Indexer {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &Indexer{
		events:  events,
		writer:  writer,
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Run consumes chain events until the context is canceled or the event
// source fails. Reaching the chain tip is not terminal: the source is
// re-polled after PollInterval.
func (s *Indexer) Run(ctx context.Context) error {
	for {
		event, err := s.events.Next(ctx)
		switch {
		case errors.Is(err, walker.ErrExhausted):
			if err := s.writer.Flush(ctx); err != nil {
				return fmt.Errorf("flush at chain tip: %w", err)
			}
			s.logger.Debug("chain tip reached",
				zap.String("network", string(s.cfg.Network)))
			if err := clock.SleepWithContext(ctx, s.cfg.PollInterval); err != nil {
				return err
			}
			continue
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("next chain event: %w", err)
		}

		switch event.Type {
		case feedmodel.EventConnected:
			if err := s.connect(ctx, event); err != nil {
				return err
			}
		case feedmodel.EventDisconnected:
			if err := s.disconnect(ctx, event); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown chain event type %q", event.Type)
		}
	}
}

func (s *Indexer) connect(ctx context.Context, event feedmodel.ChainEvent) error {
	row, err := convertBlock(s.cfg.Network, event.Height, event.Block)
	if err != nil {
		return fmt.Errorf("convert block %d: %w", event.Height, err)
	}
	if err := s.writer.Add(ctx, row); err != nil {
		return fmt.Errorf("queue block %d: %w", event.Height, err)
	}
	s.metrics.SetChainHeight(s.cfg.Network, event.Height)
	return nil
}

// disconnect flushes pending Connected rows first so the orphaned block is
// guaranteed to exist before the mutation, then rewinds the cursor to the
// walker's post-rollback position.
func (s *Indexer) disconnect(ctx context.Context, event feedmodel.ChainEvent) error {
	if err := s.writer.Flush(ctx); err != nil {
		return fmt.Errorf("flush before rollback: %w", err)
	}

	hash := event.Hash.String()
	if err := s.repo.MarkBlockOrphaned(ctx, s.cfg.Network, event.Height, hash); err != nil {
		return err
	}
	s.metrics.ObserveOrphaned(s.cfg.Network)

	s.logger.Warn("block rolled back",
		zap.String("network", string(s.cfg.Network)),
		zap.Uint64("height", event.Height),
		zap.String("hash", hash))

	cursor := s.events.Cursor()
	if cursor == nil {
		return nil
	}
	saved := model.Cursor{
		Network: s.cfg.Network,
		Height:  cursor.Height,
		Hash:    cursor.Hash.String(),
	}
	if err := s.repo.SaveCursor(ctx, saved); err != nil {
		return fmt.Errorf("save cursor after rollback: %w", err)
	}
	return nil
}
