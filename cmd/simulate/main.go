package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/manaforge/engine/internal/autopilot"
	"github.com/manaforge/engine/internal/catalog"
	"github.com/manaforge/engine/internal/config"
	"github.com/manaforge/engine/internal/game"
	"github.com/manaforge/engine/internal/game/event"
	"github.com/manaforge/engine/internal/game/state"
	"github.com/manaforge/engine/internal/game/watchers"
)

var (
	configPath = flag.String("config", "config/simulate.yaml", "path to configuration file")
	seed       = flag.Int64("seed", 0, "override simulation.seed")
	replayPath = flag.String("replay", "", "re-run a saved replay instead of playing a new game")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting simulator",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Int64("seed", cfg.Simulation.Seed),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var final *state.GameState
	if *replayPath != "" {
		final, err = rerun(*replayPath, logger)
	} else {
		final, err = simulate(ctx, cfg, logger)
	}
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}

	sum, err := game.Checksum(final)
	if err != nil {
		logger.Fatal("failed to compute checksum", zap.Error(err))
	}
	logger.Info("simulation finished",
		zap.String("game_id", final.ID),
		zap.String("status", string(final.Status)),
		zap.String("winner", final.WinnerID),
		zap.Int("turn", final.Turn),
	)
	fmt.Println(sum)
}

func simulate(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*state.GameState, error) {
	source, closeSource, err := openCatalog(ctx, cfg.Simulation.CatalogDSN, logger)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	players, err := loadPlayers(ctx, cfg.Simulation.Decks, source)
	if err != nil {
		return nil, err
	}

	started := time.Now().UTC()
	engine := game.NewEngine(logger,
		game.WithSeed(cfg.Simulation.Seed),
		game.WithRules(cfg.Rules),
		game.WithClock(func() time.Time { return started }),
	)
	gs, err := engine.CreateGame(players)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	bus := event.NewBus()
	bus.Subscribe(func(e event.Event) {
		logger.Info(e.Type.String(), eventFields(e)...)
	})
	spells := watchers.NewSpellsCastWatcher(watchers.ScopeGame)
	deaths := watchers.NewCreaturesDiedWatcher(watchers.ScopeGame)
	draws := watchers.NewCardsDrawnWatcher(watchers.ScopeGame)
	life := watchers.NewLifeWatcher(watchers.ScopeGame)
	watchers.NewSet(spells, deaths, draws, life).Attach(bus)
	bus.PublishAll(event.Diff(nil, gs))

	replay := game.NewReplay(cfg.Simulation.Seed, started, engine.Rules(), players)
	final, err := autopilot.New(logger.Named("autopilot")).Play(ctx, engine, gs, autopilot.PlayOptions{
		MaxTurns: cfg.Simulation.MaxTurns,
		Replay:   replay,
		OnStep: func(prev, next *state.GameState) {
			bus.PublishAll(event.Diff(prev, next))
		},
	})
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		logger.Info("player summary",
			zap.String("player_id", p.ID),
			zap.String("deck", p.Name),
			zap.Int("spells_cast", spells.Count(p.ID)),
			zap.Int("cards_drawn", draws.Count(p.ID)),
			zap.Int("creatures_lost", deaths.AmountByOwner(p.ID)),
			zap.Int("life_lost", life.Lost(p.ID)),
			zap.Int("life_gained", life.Gained(p.ID)),
		)
	}

	if path := cfg.Simulation.ReplayPath; path != "" {
		if err := replay.SaveToFile(path); err != nil {
			return nil, fmt.Errorf("failed to save replay: %w", err)
		}
		logger.Info("replay saved", zap.String("path", path), zap.Int("actions", replay.Size()))
	}
	return final, nil
}

func rerun(path string, logger *zap.Logger) (*state.GameState, error) {
	replay, err := game.LoadReplayFile(path)
	if err != nil {
		return nil, err
	}
	logger.Info("replaying", zap.String("path", path), zap.Int("actions", replay.Size()))
	return replay.Run(logger)
}

// openCatalog uses the Postgres catalog when a DSN is configured and the
// built-in starter set otherwise.
func openCatalog(ctx context.Context, dsn string, logger *zap.Logger) (catalog.Source, func(), error) {
	if dsn == "" {
		return catalog.NewStarterSet(), func() {}, nil
	}
	store, err := catalog.NewPostgresStore(ctx, dsn, logger.Named("catalog"))
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

// loadPlayers resolves each configured deck, by starter name or by path.
func loadPlayers(ctx context.Context, decks []string, source catalog.Source) ([]game.PlayerSetup, error) {
	if len(decks) == 0 {
		decks = []string{"green-stompy", "red-rush"}
	}
	players := make([]game.PlayerSetup, 0, len(decks))
	for i, name := range decks {
		var (
			deck catalog.Deck
			err  error
		)
		if list, ok := catalog.StarterDecks[name]; ok {
			deck, err = catalog.Build(ctx, source, list)
		} else {
			deck, err = catalog.LoadDeck(ctx, name, source)
		}
		if err != nil {
			return nil, err
		}
		players = append(players, game.PlayerSetup{
			ID:   fmt.Sprintf("player-%d", i+1),
			Name: deck.Name,
			Deck: deck.Cards,
		})
	}
	return players, nil
}

func eventFields(e event.Event) []zap.Field {
	fields := []zap.Field{
		zap.Int("turn", e.Turn),
		zap.String("phase", string(e.Phase)),
	}
	if e.PlayerID != "" {
		fields = append(fields, zap.String("player_id", e.PlayerID))
	}
	if e.CardID != "" {
		fields = append(fields, zap.String("card_id", e.CardID))
	}
	if e.TargetID != "" {
		fields = append(fields, zap.String("target_id", e.TargetID))
	}
	if e.Amount != 0 {
		fields = append(fields, zap.Int("amount", e.Amount))
	}
	return fields
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
