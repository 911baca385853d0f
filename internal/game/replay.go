package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/manaforge/engine/internal/config"
	"github.com/manaforge/engine/internal/game/state"
)

const replayVersion = 1

// Replay is everything needed to reproduce a game: the seed, the rules,
// the decks, the start time and every accepted action in order.
type Replay struct {
	Version   int
	Seed      int64
	StartedAt time.Time
	Rules     config.Rules
	Players   []PlayerSetup
	Actions   []Record

	mu sync.Mutex
}

// NewReplay starts a recording for a game created with these inputs.
func NewReplay(seed int64, startedAt time.Time, rules config.Rules, players []PlayerSetup) *Replay {
	return &Replay{
		Version:   replayVersion,
		Seed:      seed,
		StartedAt: startedAt,
		Rules:     rules,
		Players:   players,
		Actions:   make([]Record, 0),
	}
}

// Record appends an accepted action.
func (r *Replay) Record(playerID string, action Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Actions = append(r.Actions, NewRecord(playerID, action))
}

// Size returns the number of recorded actions.
func (r *Replay) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Actions)
}

// Engine returns an engine configured exactly as the recorded one. Its clock
// is frozen at StartedAt.
func (r *Replay) Engine(logger *zap.Logger) *Engine {
	started := r.StartedAt
	return NewEngine(logger,
		WithSeed(r.Seed),
		WithRules(r.Rules),
		WithClock(func() time.Time { return started }),
	)
}

// Run replays the game from scratch and returns the final snapshot.
func (r *Replay) Run(logger *zap.Logger) (*state.GameState, error) {
	r.mu.Lock()
	actions := append([]Record(nil), r.Actions...)
	r.mu.Unlock()

	engine := r.Engine(logger)
	gs, err := engine.CreateGame(r.Players)
	if err != nil {
		return nil, fmt.Errorf("replay create game: %w", err)
	}
	for i, rec := range actions {
		action, err := rec.Action()
		if err != nil {
			return nil, fmt.Errorf("replay action %d: %w", i, err)
		}
		gs, err = engine.ProcessAction(gs, rec.PlayerID, action)
		if err != nil {
			return nil, fmt.Errorf("replay action %d (%s by %s): %w", i, rec.Kind, rec.PlayerID, err)
		}
	}
	return gs, nil
}

// replayFile is the encoded form of a Replay.
type replayFile struct {
	Version   int
	Seed      int64
	StartedAt time.Time
	Rules     config.Rules
	Players   []PlayerSetup
	Actions   []Record
}

// Save writes the replay as gzip-compressed gob.
func (r *Replay) Save(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	gzipWriter := gzip.NewWriter(w)
	file := replayFile{
		Version:   r.Version,
		Seed:      r.Seed,
		StartedAt: r.StartedAt,
		Rules:     r.Rules,
		Players:   r.Players,
		Actions:   r.Actions,
	}
	if err := gob.NewEncoder(gzipWriter).Encode(&file); err != nil {
		gzipWriter.Close()
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	return nil
}

// LoadReplay reads a replay written by Save.
func LoadReplay(rd io.Reader) (*Replay, error) {
	gzipReader, err := gzip.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	var file replayFile
	if err := gob.NewDecoder(gzipReader).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if file.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", file.Version)
	}
	return &Replay{
		Version:   file.Version,
		Seed:      file.Seed,
		StartedAt: file.StartedAt,
		Rules:     file.Rules,
		Players:   file.Players,
		Actions:   file.Actions,
	}, nil
}

// SaveToFile writes the replay to path, creating parent directories.
func (r *Replay) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := r.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadReplayFile reads a replay from path.
func LoadReplayFile(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return LoadReplay(f)
}
