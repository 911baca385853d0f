package autopilot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/manaforge/engine/internal/game"
	"github.com/manaforge/engine/internal/game/state"
)

// PlayOptions bounds and observes a self-played game.
type PlayOptions struct {
	// MaxTurns stops the game once this turn is over. Zero means no limit.
	MaxTurns int
	// MaxActions guards against a pilot that never advances the game.
	MaxActions int
	// Replay, when set, records every accepted action.
	Replay *game.Replay
	// OnStep is called after every accepted action.
	OnStep func(prev, next *state.GameState)
}

const defaultMaxActions = 20000

// Play lets the pilot act for every seat until the game is over, the turn
// limit passes or ctx is done. It returns the last snapshot reached.
func (p *Pilot) Play(ctx context.Context, engine *game.Engine, gs *state.GameState, opts PlayOptions) (*state.GameState, error) {
	if opts.MaxActions <= 0 {
		opts.MaxActions = defaultMaxActions
	}

	for actions := 0; !gs.IsOver(); actions++ {
		if opts.MaxTurns > 0 && gs.Turn > opts.MaxTurns {
			p.logger.Info("turn limit reached", zap.String("game_id", gs.ID), zap.Int("max_turns", opts.MaxTurns))
			break
		}
		if actions >= opts.MaxActions {
			return gs, fmt.Errorf("game %s exceeded %d actions", gs.ID, opts.MaxActions)
		}
		if err := ctx.Err(); err != nil {
			return gs, err
		}

		playerID, action, ok := p.pick(gs)
		if !ok {
			return gs, fmt.Errorf("%w: no player can act in game %s during %s", state.ErrStructural, gs.ID, gs.Phase)
		}
		next, err := engine.ProcessAction(gs, playerID, action)
		if err != nil {
			return gs, fmt.Errorf("%s by %s: %w", action.Kind(), playerID, err)
		}
		if opts.Replay != nil {
			opts.Replay.Record(playerID, action)
		}
		if opts.OnStep != nil {
			opts.OnStep(gs, next)
		}
		gs = next
	}
	return gs, nil
}

// pick asks every seat in order and returns the first decision.
func (p *Pilot) pick(gs *state.GameState) (string, game.Action, bool) {
	for _, player := range gs.Players {
		if action, ok := p.Next(gs, player.ID); ok {
			return player.ID, action, true
		}
	}
	return "", nil, false
}
