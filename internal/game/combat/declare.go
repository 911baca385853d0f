// Package combat implements declaring attackers and blockers and resolving
// combat damage over immutable game snapshots.
package combat

import (
	"fmt"

	"github.com/manaforge/engine/internal/game/abilities"
	"github.com/manaforge/engine/internal/game/state"
)

// Block pairs a blocking creature with the attacker it blocks.
type Block struct {
	BlockerID  string
	AttackerID string
}

// DefendingPlayer returns the player seated after the active player. Only
// one defender per combat is supported.
func DefendingPlayer(gs *state.GameState) (*state.Player, error) {
	if len(gs.Players) < 2 {
		return nil, fmt.Errorf("%w: no defending player", state.ErrStructural)
	}
	if gs.Active() == nil {
		return nil, fmt.Errorf("%w: active player index %d out of range", state.ErrStructural, gs.ActivePlayer)
	}
	return gs.Players[(gs.ActivePlayer+1)%len(gs.Players)], nil
}

// DeclareAttackers records attackerIDs[i] attacking defenderIDs[i]. Each
// attacker taps unless it has vigilance. On success the combat step moves
// to declare_blockers.
func DeclareAttackers(gs *state.GameState, attackerIDs, defenderIDs []string) (*state.GameState, error) {
	if gs.Phase != state.PhaseCombatDeclareAttackers {
		return nil, fmt.Errorf("%w: cannot declare attackers during %s", state.ErrTiming, gs.Phase)
	}
	if gs.Combat.Step != state.CombatStepNone && gs.Combat.Step != state.CombatStepDeclareAttackers {
		return nil, fmt.Errorf("%w: attackers already declared", state.ErrTiming)
	}
	if len(attackerIDs) != len(defenderIDs) {
		return nil, fmt.Errorf("%w: %d attackers but %d defenders", state.ErrStructural, len(attackerIDs), len(defenderIDs))
	}

	next := gs.Clone()
	active := next.Active()
	if active == nil {
		return nil, fmt.Errorf("%w: active player index %d out of range", state.ErrStructural, gs.ActivePlayer)
	}

	for i, creatureID := range attackerIDs {
		defenderID := defenderIDs[i]
		if creatureID == "" || defenderID == "" {
			return nil, fmt.Errorf("%w: empty attacker or defender at index %d", state.ErrStructural, i)
		}
		creature, ok := active.Find(state.ZoneBattlefield, creatureID)
		if !ok {
			return nil, fmt.Errorf("%w: creature %s not on %s's battlefield", state.ErrStructural, creatureID, active.ID)
		}
		if next.Combat.IsAttacking(creatureID) {
			return nil, fmt.Errorf("%w: creature %s is already attacking", state.ErrRuleViolation, creatureID)
		}
		if !abilities.CanAttack(creature) {
			return nil, fmt.Errorf("%w: creature %s cannot attack", state.ErrRuleViolation, creatureID)
		}
		if defenderID == active.ID {
			return nil, fmt.Errorf("%w: player %s cannot attack themselves", state.ErrRuleViolation, defenderID)
		}
		if _, ok := next.Player(defenderID); !ok {
			return nil, fmt.Errorf("%w: defender %s not found", state.ErrStructural, defenderID)
		}

		if !abilities.HasVigilance(creature) {
			creature.Tapped = true
		}
		next.Combat.Attackers = append(next.Combat.Attackers, state.Attacker{
			CreatureID: creatureID,
			DefenderID: defenderID,
			BlockedBy:  []string{},
		})
	}

	next.Combat.Step = state.CombatStepDeclareBlockers
	return next, nil
}

// DeclareBlockers records blocks by the defending player. Each blocker taps
// and is appended to its attacker's blocker list in declaration order. On
// success the combat step moves to damage. When no attackers were declared
// the defender may still declare, which can only be an empty declaration.
func DeclareBlockers(gs *state.GameState, blocks []Block) (*state.GameState, error) {
	if gs.Phase != state.PhaseCombatDeclareBlockers {
		return nil, fmt.Errorf("%w: cannot declare blockers during %s", state.ErrTiming, gs.Phase)
	}
	switch gs.Combat.Step {
	case state.CombatStepDeclareBlockers:
	case state.CombatStepNone, state.CombatStepDeclareAttackers:
		if len(gs.Combat.Attackers) > 0 {
			return nil, fmt.Errorf("%w: combat is at step %s, not declare_blockers", state.ErrTiming, gs.Combat.Step)
		}
	default:
		return nil, fmt.Errorf("%w: blockers already declared", state.ErrTiming)
	}

	next := gs.Clone()
	defender, err := DefendingPlayer(next)
	if err != nil {
		return nil, err
	}

	for _, block := range blocks {
		blocker, ok := defender.Find(state.ZoneBattlefield, block.BlockerID)
		if !ok {
			return nil, fmt.Errorf("%w: blocker %s not on %s's battlefield", state.ErrStructural, block.BlockerID, defender.ID)
		}
		attackerEntry, ok := next.Combat.Attacker(block.AttackerID)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not attacking", state.ErrStructural, block.AttackerID)
		}
		attacker, _, ok := next.FindBattlefield(block.AttackerID)
		if !ok {
			return nil, fmt.Errorf("%w: attacker %s not on the battlefield", state.ErrStructural, block.AttackerID)
		}
		if next.Combat.IsBlocking(block.BlockerID) {
			return nil, fmt.Errorf("%w: creature %s is already blocking", state.ErrRuleViolation, block.BlockerID)
		}
		if !abilities.CanBlock(blocker, attacker) {
			return nil, fmt.Errorf("%w: creature %s cannot block %s", state.ErrRuleViolation, block.BlockerID, block.AttackerID)
		}

		blocker.Tapped = true
		next.Combat.Blockers = append(next.Combat.Blockers, state.Blocker{
			CreatureID: block.BlockerID,
			AttackerID: block.AttackerID,
		})
		attackerEntry.BlockedBy = append(attackerEntry.BlockedBy, block.BlockerID)
	}

	next.Combat.Step = state.CombatStepDamage
	return next, nil
}
