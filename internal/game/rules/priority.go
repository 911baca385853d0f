package rules

import (
	"fmt"

	"github.com/manaforge/engine/internal/game/state"
)

// Speed is the timing class of an action.
type Speed string

const (
	SpeedSorcery Speed = "sorcery"
	SpeedLand    Speed = "land"
	SpeedInstant Speed = "instant"
	SpeedAbility Speed = "ability"
)

// PassPriority hands priority to the next player in seat order. When it
// comes back around to the active player with an empty stack the phase
// advances.
func PassPriority(gs *state.GameState) *state.GameState {
	if len(gs.Players) == 0 {
		return gs.Clone()
	}
	active := gs.Active()

	holder := gs.PlayerIndex(gs.PriorityPlayerID)
	if holder < 0 {
		holder = gs.ActivePlayer
	}
	nextID := gs.Players[(holder+1)%len(gs.Players)].ID

	if active != nil && nextID == active.ID && len(gs.Stack) == 0 {
		return AdvancePhase(gs)
	}
	next := gs.Clone()
	next.PriorityPlayerID = nextID
	return next
}

// CheckAction returns nil if playerID may act at speed right now. All
// actions need priority. Sorcery and land speed also need a main phase, an
// empty stack and the active player.
func CheckAction(gs *state.GameState, playerID string, speed Speed) error {
	if gs.PriorityPlayerID != playerID {
		return fmt.Errorf("%w: player %s does not hold priority", state.ErrTiming, playerID)
	}
	switch speed {
	case SpeedInstant, SpeedAbility:
		return nil
	case SpeedSorcery, SpeedLand:
		if !gs.Phase.IsMain() {
			return fmt.Errorf("%w: %s speed action during %s", state.ErrTiming, speed, gs.Phase)
		}
		if len(gs.Stack) > 0 {
			return fmt.Errorf("%w: stack is not empty", state.ErrTiming)
		}
		if active := gs.Active(); active == nil || active.ID != playerID {
			return fmt.Errorf("%w: player %s is not the active player", state.ErrTiming, playerID)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown action speed %q", state.ErrStructural, speed)
	}
}

// CanTakeAction is CheckAction as a predicate.
func CanTakeAction(gs *state.GameState, playerID string, speed Speed) bool {
	return CheckAction(gs, playerID, speed) == nil
}
