package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/index"
	feedmodel "github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/model"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/source"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/store/clickhouse"
	storemodel "github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/store/model"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/feed/walker"
	"github.com/goodnatureofminers/blockfeed7000-backend/internal/metrics"
)

type config struct {
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"FEED_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	Network       string        `long:"network" env:"FEED_NETWORK" description:"bitcoin network (mainnet, testnet, regtest)" default:"mainnet"`
	RPCURL        string        `long:"rpc-url" env:"FEED_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser       string        `long:"rpc-user" env:"FEED_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword   string        `long:"rpc-password" env:"FEED_RPC_PASSWORD" description:"Bitcoin RPC password"`
	BlocksDir     string        `long:"blocks-dir" env:"FEED_BLOCKS_DIR" description:"read blk*.dat files from this directory instead of RPC"`
	Workers       int           `long:"workers" env:"FEED_WORKERS" description:"parallel block decode workers" default:"8"`
	Window        int           `long:"window" env:"FEED_WINDOW" description:"max blocks in flight" default:"64"`
	ReorgDepth    int           `long:"reorg-depth" env:"FEED_REORG_DEPTH" description:"max rollback depth before giving up" default:"100"`
	PollInterval  time.Duration `long:"poll-interval" env:"FEED_POLL_INTERVAL" description:"wait between polls at the chain tip" default:"5s"`
	BatchSize     int           `long:"batch-size" env:"FEED_BATCH_SIZE" description:"blocks per ClickHouse batch" default:"100"`
	FlushInterval time.Duration `long:"flush-interval" env:"FEED_FLUSH_INTERVAL" description:"max time a batch stays buffered" default:"5s"`
	MetricsAddr   string        `long:"metrics-addr" env:"FEED_METRICS_ADDR" description:"prometheus listen address" default:":9090"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("indexer failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	params, network, err := networkParams(cfg.Network)
	if err != nil {
		return err
	}

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickHouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		_ = repo.Close()
	}()

	src, shutdown, err := newBlockSource(cfg, params, logger)
	if err != nil {
		return err
	}
	defer shutdown()

	resume, err := loadCursor(ctx, repo, network)
	if err != nil {
		return err
	}
	if resume != nil {
		logger.Info("resuming from cursor",
			zap.Uint64("height", resume.Height),
			zap.String("hash", resume.Hash.String()))
	}

	w := walker.New(src, resume, walker.Config{
		WorkerCount:   cfg.Workers,
		Window:        cfg.Window,
		MaxReorgDepth: cfg.ReorgDepth,
	}, logger, metrics.NewWalker(cfg.Network))
	defer w.Close()

	writer := index.NewWriter(logger, repo, index.WriterConfig{
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		FlushRPS:      10,
	})
	writer.Start(ctx)

	go serveMetrics(ctx, cfg.MetricsAddr, logger)

	svc := index.New(w, writer, repo, metrics.NewIndexer(), logger, index.Config{
		Network:      network,
		PollInterval: cfg.PollInterval,
	})

	runErr := svc.Run(ctx)
	if stopErr := writer.Stop(); stopErr != nil && runErr == nil {
		runErr = stopErr
	}
	return runErr
}

func networkParams(network string) (*chaincfg.Params, storemodel.Network, error) {
	switch network {
	case "mainnet":
		return &chaincfg.MainNetParams, storemodel.Mainnet, nil
	case "testnet":
		return &chaincfg.TestNet3Params, storemodel.Testnet, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, storemodel.Regtest, nil
	default:
		return nil, "", fmt.Errorf("unknown network %q", network)
	}
}

func newBlockSource(cfg config, params *chaincfg.Params, logger *zap.Logger) (source.BlockSource, func(), error) {
	if cfg.BlocksDir != "" {
		return source.NewFileSource(cfg.BlocksDir, params, logger), func() {}, nil
	}

	client, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("init rpc client: %w", err)
	}
	shutdown := func() {
		client.Shutdown()
		client.WaitForShutdown()
	}
	observed := source.NewObservedClient(client, metrics.NewRPCClient(cfg.Network))
	return source.NewRPCSource(observed, source.RPCConfig{}, logger), shutdown, nil
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}

func loadCursor(ctx context.Context, repo *clickhouse.Repository, network storemodel.Network) (*feedmodel.Cursor, error) {
	saved, err := repo.LoadCursor(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("load cursor: %w", err)
	}
	if saved == nil {
		return nil, nil
	}
	hash, err := chainhash.NewHashFromStr(saved.Hash)
	if err != nil {
		return nil, fmt.Errorf("parse cursor hash %q: %w", saved.Hash, err)
	}
	return &feedmodel.Cursor{Height: saved.Height, Hash: *hash}, nil
}

func serveMetrics(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", zap.Error(err))
	}
}
