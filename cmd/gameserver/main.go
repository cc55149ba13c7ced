// Package main provides the game server binary: it owns the store, the
// rules engine, and the cooldown sweep loop.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/deltaland/internal/config"
	"github.com/cory-johannsen/deltaland/internal/game/dice"
	"github.com/cory-johannsen/deltaland/internal/game/engine"
	"github.com/cory-johannsen/deltaland/internal/game/quest"
	"github.com/cory-johannsen/deltaland/internal/notify"
	"github.com/cory-johannsen/deltaland/internal/observability"
	"github.com/cory-johannsen/deltaland/internal/server"
	"github.com/cory-johannsen/deltaland/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server")

	questStart := time.Now()
	catalog, err := quest.LoadCatalogFromDir(cfg.Game.QuestsDir)
	if err != nil {
		logger.Fatal("loading quest catalog", zap.Error(err))
	}
	logger.Info("quest catalog loaded",
		zap.Int("quests", len(catalog.All())),
		zap.Duration("elapsed", time.Since(questStart)),
	)

	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	eng := engine.New(
		postgres.NewStore(pool),
		notify.NewLogNotifier(logger),
		engine.SystemClock{},
		dice.NewCryptoSource(),
		catalog,
		engine.Options{
			DiceFee:     cfg.Game.DiceFee,
			DiceMaxWait: cfg.Game.DiceMaxWait,
			NoticeWatch: cfg.Game.NoticeWatch,
		},
		logger,
	)

	if err := eng.EnsureWorld(ctx); err != nil {
		logger.Fatal("creating world records", zap.Error(err))
	}

	lc := server.NewLifecycle(logger)
	lc.Add("sweeper", server.NewSweeper(cfg.Game.SweepInterval, eng.Sweep, logger))

	logger.Info("game server ready",
		zap.Duration("startup", time.Since(start)),
	)
	if err := lc.Run(ctx); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
}
