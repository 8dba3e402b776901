package source

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockfeed7000-backend/pkg/safe"
)

// RPCConfig bounds the internal retry policy for transient connection
// failures. Zero values fall back to the defaults.
type RPCConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries     uint64
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

const (
	defaultMaxRetries     = 8
	defaultInitialBackoff = 100 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
)

func (c *RPCConfig) setDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = defaultInitialBackoff
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
}

// RPCSource implements BlockSource against a node's RPC interface.
// Connection failures are retried with capped exponential backoff up to the
// configured bound; ErrNotFound and ErrNotYetAvailable surface immediately.
type RPCSource struct {
	client RPCClient
	cfg    RPCConfig
	logger *zap.Logger
}

// NewRPCSource builds an RPC-backed block source.
func NewRPCSource(client RPCClient, cfg RPCConfig, logger *zap.Logger) *RPCSource {
	cfg.setDefaults()
	return &RPCSource{
		client: client,
		cfg:    cfg,
		logger: logger.Named("rpcSource"),
	}
}

// BestHeight returns the node's current block count.
func (s *RPCSource) BestHeight(ctx context.Context) (uint64, error) {
	var count int64
	err := s.retry(ctx, "get_block_count", func() error {
		var err error
		count, err = s.client.GetBlockCount()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", err)
	}
	height, err := safe.Uint64(count)
	if err != nil {
		return 0, fmt.Errorf("block count overflow: %w", err)
	}
	return height, nil
}

// BlockHash returns the best-chain hash at height. A height beyond the
// node's tip maps to ErrNotYetAvailable.
func (s *RPCSource) BlockHash(ctx context.Context, height uint64) (chainhash.Hash, error) {
	if height > math.MaxInt64 {
		return chainhash.Hash{}, fmt.Errorf("block height %d exceeds rpc limit", height)
	}
	var hash *chainhash.Hash
	err := s.retry(ctx, "get_block_hash", func() error {
		var err error
		hash, err = s.client.GetBlockHash(int64(height))
		return err
	})
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("get block hash at height %d: %w", height, err)
	}
	return *hash, nil
}

// RawBlock fetches the serialized block bytes for hash.
func (s *RPCSource) RawBlock(ctx context.Context, hash chainhash.Hash) ([]byte, error) {
	var raw []byte
	err := s.retry(ctx, "get_block_raw", func() error {
		var err error
		raw, err = s.client.GetBlockRaw(&hash)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", hash, err)
	}
	return raw, nil
}

func (s *RPCSource) retry(ctx context.Context, operation string, f func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.cfg.InitialBackoff
	policy.MaxInterval = s.cfg.MaxBackoff
	policy.MaxElapsedTime = 0

	attempt := 0
	return backoff.Retry(func() error {
		err := f()
		if err == nil {
			return nil
		}
		err = mapRPCErr(err)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotYetAvailable) ||
			errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		attempt++
		s.logger.Debug("rpc call failed; retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, s.cfg.MaxRetries), ctx))
}

// mapRPCErr translates node RPC errors into the source error taxonomy.
// Heights beyond the tip are transient (the node may still be syncing or the
// block simply not mined yet); an unknown hash is permanent.
func mapRPCErr(err error) error {
	var rpcErr *btcjson.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}
	switch {
	case rpcErr.Code == btcjson.ErrRPCBlockNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, rpcErr.Message)
	case rpcErr.Code == btcjson.ErrRPCInvalidParameter && strings.Contains(rpcErr.Message, "out of range"):
		return fmt.Errorf("%w: %s", ErrNotYetAvailable, rpcErr.Message)
	case strings.Contains(rpcErr.Message, "Block height out of range"):
		return fmt.Errorf("%w: %s", ErrNotYetAvailable, rpcErr.Message)
	}
	return err
}
