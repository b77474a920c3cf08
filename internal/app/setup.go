package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arb-intel/engine/internal/engine"
	"github.com/arb-intel/engine/internal/ingestion"
	"github.com/arb-intel/engine/internal/model"
	"github.com/arb-intel/engine/internal/storage"
	"github.com/arb-intel/engine/pkg/config"
	"github.com/arb-intel/engine/pkg/healthprobe"
	"github.com/arb-intel/engine/pkg/httpserver"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := setupHealthChecker()

	appStorage, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	adapters := setupAdapters(cfg, logger)

	scanEngine := setupEngine(cfg, logger, adapters, appStorage)
	scanEngine.Subscribe(func(r model.ScanResult) {
		healthChecker.RecordScan(r.Timestamp)
	})

	httpServer := setupHTTPServer(cfg, logger, healthChecker, scanEngine)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		engine:        scanEngine,
		storage:       appStorage,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupHealthChecker() *healthprobe.Probe {
	return healthprobe.New()
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.Probe,
	scanEngine *engine.Engine,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Engine:        scanEngine,
	})
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

// setupAdapters constructs the configured set of venue adapters. PredictIt's
// constructor is the only one that can fail (it allocates a ristretto TTL
// cache); when it does, the rest of the pipeline still runs with one fewer
// venue rather than aborting startup. The Betfair adapter is constructed
// with an empty session token, so it makes no requests and contributes no
// markets.
func setupAdapters(cfg *config.Config, logger *zap.Logger) []ingestion.Adapter {
	adapters := []ingestion.Adapter{
		ingestion.NewPolymarketAdapter(),
		ingestion.NewManifoldAdapter(cfg.ManifoldAPIKey),
		ingestion.NewKalshiAdapter(cfg.KalshiAPIKeyID, cfg.KalshiKeyPEMPath),
		ingestion.NewBetfairAdapter(cfg.BetfairAPIKey, ""),
		ingestion.NewSportsbookAdapter(cfg.OddsAPIKey),
	}

	predictIt, err := ingestion.NewPredictItAdapter()
	if err != nil {
		logger.Warn("predictit-adapter-unavailable", zap.Error(err))
	} else {
		adapters = append(adapters, predictIt)
	}

	return adapters
}

func setupEngine(cfg *config.Config, logger *zap.Logger, adapters []ingestion.Adapter, appStorage storage.Storage) *engine.Engine {
	return engine.New(engine.Config{
		ScanInterval:          cfg.ScanInterval(),
		MinArbitrageProfitPct: cfg.MinArbitrageProfitPct,
		MinEVPct:              cfg.MinEVPct,
		DefaultStakeUSD:       cfg.DefaultStakeUSD,
		MatchThreshold:        cfg.MatchThreshold,
		AdapterTimeout:        cfg.AdapterTimeout(),
		AdapterFailureLimit:   cfg.AdapterFailureThreshold,
		AdapterCooldown:       cfg.AdapterFailureCooldown(),
	}, adapters, appStorage, logger)
}
