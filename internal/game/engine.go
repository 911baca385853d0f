// Package game is the rules engine entry point. It creates games, validates
// and applies player actions, and detects the end of the game. Every call
// takes a snapshot and returns a new one; inputs are never modified.
package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/manaforge/engine/internal/config"
	"github.com/manaforge/engine/internal/game/abilities"
	"github.com/manaforge/engine/internal/game/mana"
	"github.com/manaforge/engine/internal/game/state"
)

// PlayerSetup describes one seat at game creation.
type PlayerSetup struct {
	ID   string
	Name string
	Deck []*state.CardTemplate
}

// Engine applies the game rules. It holds no per-game state, so one engine
// can serve any number of games.
type Engine struct {
	logger   *zap.Logger
	rules    config.Rules
	triggers *abilities.Registry
	clock    func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for shuffling and game ids.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithSeed is WithRand over a new source seeded with seed.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithClock sets the time source for snapshot timestamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithRules overrides the default game constants.
func WithRules(rules config.Rules) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// WithTriggers installs handlers for triggered abilities.
func WithTriggers(registry *abilities.Registry) Option {
	return func(e *Engine) {
		e.triggers = registry
	}
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger: logger,
		rules:  config.DefaultRules(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(e.clock().UnixNano()))
	}
	return e
}

// Rules returns the game constants in effect.
func (e *Engine) Rules() config.Rules {
	return e.rules
}

// CreateGame shuffles each deck, deals opening hands and returns the first
// snapshot: turn 1, untap phase, first seat active with priority.
func (e *Engine) CreateGame(players []PlayerSetup) (*state.GameState, error) {
	if n := len(players); n < e.rules.MinPlayers || n > e.rules.MaxPlayers {
		return nil, fmt.Errorf("%w: game needs %d-%d players, got %d",
			state.ErrStructural, e.rules.MinPlayers, e.rules.MaxPlayers, n)
	}
	seen := make(map[string]bool, len(players))
	for i, p := range players {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: player at seat %d has no id", state.ErrStructural, i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate player id %s", state.ErrStructural, p.ID)
		}
		seen[p.ID] = true
		for j, tmpl := range p.Deck {
			if tmpl == nil {
				return nil, fmt.Errorf("%w: player %s deck slot %d is empty", state.ErrStructural, p.ID, j)
			}
		}
	}

	e.mu.Lock()
	gameID, err := uuid.NewRandomFromReader(e.rng)
	if err != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("generate game id: %w", err)
	}
	orders := make([][]int, len(players))
	for i, p := range players {
		orders[i] = e.shuffle(len(p.Deck))
	}
	e.mu.Unlock()

	now := e.clock()
	gs := &state.GameState{
		ID:               gameID.String(),
		Players:          make([]*state.Player, 0, len(players)),
		ActivePlayer:     0,
		PriorityPlayerID: players[0].ID,
		Phase:            state.PhaseUntap,
		Turn:             1,
		Stack:            []state.StackItem{},
		Combat:           state.NewCombatState(),
		Status:           state.StatusInProgress,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for i, setup := range players {
		name := setup.Name
		if name == "" {
			name = setup.ID
		}
		player := &state.Player{
			ID:          setup.ID,
			Name:        name,
			Life:        e.rules.StartingLife,
			ManaPool:    mana.NewPool(),
			MaxHandSize: e.rules.MaxHandSize,
			Library:     make([]*state.CardInPlay, 0, len(setup.Deck)),
			Hand:        []*state.CardInPlay{},
			Battlefield: []*state.CardInPlay{},
			Graveyard:   []*state.CardInPlay{},
			Exile:       []*state.CardInPlay{},
		}
		for _, slot := range orders[i] {
			player.Library = append(player.Library, &state.CardInPlay{
				InstanceID:   instanceID(gameID, setup.ID, slot),
				Template:     setup.Deck[slot],
				Zone:         state.ZoneLibrary,
				OwnerID:      setup.ID,
				ControllerID: setup.ID,
			})
		}
		gs.Players = append(gs.Players, player)
		for range e.rules.OpeningHand {
			gs.DrawCard(player)
		}
	}

	e.logger.Info("game created",
		zap.String("game_id", gs.ID),
		zap.Int("players", len(gs.Players)),
		zap.String("active_player", gs.PriorityPlayerID),
	)
	return gs, nil
}

// shuffle returns a Fisher-Yates permutation of 0..n-1. Callers hold e.mu.
func (e *Engine) shuffle(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// instanceID derives a stable id for the card in a player's deck slot.
func instanceID(gameID uuid.UUID, playerID string, slot int) string {
	return uuid.NewSHA1(gameID, fmt.Appendf(nil, "%s:%d", playerID, slot)).String()
}

// CheckGameEnd completes the game when at most one player has life left.
// One survivor wins; none is a draw. Otherwise gs is returned as is.
func (e *Engine) CheckGameEnd(gs *state.GameState) *state.GameState {
	if gs == nil || gs.IsOver() {
		return gs
	}
	var alive []*state.Player
	for _, p := range gs.Players {
		if p.Life > 0 {
			alive = append(alive, p)
		}
	}
	if len(alive) > 1 {
		return gs
	}

	next := gs.Clone()
	next.Status = state.StatusCompleted
	next.WinnerID = ""
	if len(alive) == 1 {
		next.WinnerID = alive[0].ID
	}
	next.Touch(e.clock())

	e.logger.Info("game over",
		zap.String("game_id", next.ID),
		zap.String("winner_id", next.WinnerID),
		zap.Int("turn", next.Turn),
	)
	return next
}
