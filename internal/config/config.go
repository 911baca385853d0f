// Package config loads engine and simulator settings from defaults, an
// optional YAML file and MANAFORGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// MANAFORGE_RULES_STARTING_LIFE.
const EnvPrefix = "MANAFORGE"

// Config is the root configuration.
type Config struct {
	Rules      Rules            `mapstructure:"rules"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Rules holds the game constants the engine applies when creating games.
type Rules struct {
	StartingLife int `mapstructure:"starting_life"`
	OpeningHand  int `mapstructure:"opening_hand"`
	MaxHandSize  int `mapstructure:"max_hand_size"`
	MinPlayers   int `mapstructure:"min_players"`
	MaxPlayers   int `mapstructure:"max_players"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SimulationConfig drives cmd/simulate.
type SimulationConfig struct {
	Seed       int64    `mapstructure:"seed"`
	MaxTurns   int      `mapstructure:"max_turns"`
	Decks      []string `mapstructure:"decks"`
	CatalogDSN string   `mapstructure:"catalog_dsn"`
	ReplayPath string   `mapstructure:"replay_path"`
}

// DefaultRules returns the standard constructed-game constants.
func DefaultRules() Rules {
	return Rules{
		StartingLife: 20,
		OpeningHand:  7,
		MaxHandSize:  7,
		MinPlayers:   2,
		MaxPlayers:   4,
	}
}

// Validate checks that the rules are internally consistent.
func (r Rules) Validate() error {
	if r.StartingLife <= 0 {
		return fmt.Errorf("starting_life must be positive, got %d", r.StartingLife)
	}
	if r.OpeningHand < 0 {
		return fmt.Errorf("opening_hand must not be negative, got %d", r.OpeningHand)
	}
	if r.MinPlayers < 2 || r.MaxPlayers < r.MinPlayers {
		return fmt.Errorf("invalid player range %d..%d", r.MinPlayers, r.MaxPlayers)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	rules := DefaultRules()
	v.SetDefault("rules.starting_life", rules.StartingLife)
	v.SetDefault("rules.opening_hand", rules.OpeningHand)
	v.SetDefault("rules.max_hand_size", rules.MaxHandSize)
	v.SetDefault("rules.min_players", rules.MinPlayers)
	v.SetDefault("rules.max_players", rules.MaxPlayers)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.max_turns", 50)
	v.SetDefault("simulation.decks", []string{})
	v.SetDefault("simulation.catalog_dsn", "")
	v.SetDefault("simulation.replay_path", "")
}

// Load reads configuration. An empty path, or a path that does not exist,
// falls back to defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return &cfg, nil
}
