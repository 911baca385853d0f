package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/manaforge/engine/internal/catalog"
	"github.com/manaforge/engine/internal/config"
)

var (
	configPath = flag.String("config", "config/simulate.yaml", "path to configuration file")
	csvPath    = flag.String("csv", "data/cards_export.csv", "card export to import")
	replace    = flag.Bool("replace", false, "truncate the cards table before importing")
	batchSize  = flag.Int("batch", 1000, "rows per transaction")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dsn := cfg.Simulation.CatalogDSN
	if dsn == "" {
		logger.Fatal("simulation.catalog_dsn is not set")
	}
	absPath, err := filepath.Abs(*csvPath)
	if err != nil {
		logger.Fatal("failed to resolve CSV path", zap.Error(err))
	}

	ctx := context.Background()
	store, err := catalog.NewPostgresStore(ctx, dsn, logger)
	if err != nil {
		logger.Fatal("failed to open catalog", zap.Error(err))
	}
	defer store.Close()

	file, err := os.Open(absPath)
	if err != nil {
		logger.Fatal("failed to open CSV file", zap.String("path", absPath), zap.Error(err))
	}
	defer file.Close()

	result, err := store.ImportCSV(ctx, file, catalog.ImportOptions{BatchSize: *batchSize, Replace: *replace})
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	total, err := store.Count(ctx)
	if err != nil {
		logger.Warn("failed to verify import", zap.Error(err))
	}
	rate := 0.0
	if secs := result.Duration.Seconds(); secs > 0 {
		rate = float64(result.Imported) / secs
	}
	logger.Info("import finished",
		zap.String("path", absPath),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
		zap.Int64("total", total),
		zap.Float64("cards_per_second", rate),
	)
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
