package combat

import (
	"fmt"

	"github.com/manaforge/engine/internal/game/abilities"
	"github.com/manaforge/engine/internal/game/state"
)

type damagePass int

const (
	firstStrikePass damagePass = iota
	regularPass
)

func (p damagePass) dealsDamage(card *state.CardInPlay) bool {
	if p == firstStrikePass {
		return abilities.HasFirstStrike(card)
	}
	return !abilities.HasFirstStrike(card) || abilities.HasDoubleStrike(card)
}

// ResolveDamage runs the first-strike pass, the regular pass and cleanup.
// Creatures with lethal damage after cleanup have moved to their owner's
// graveyard. The combat step ends at end.
func ResolveDamage(gs *state.GameState) (*state.GameState, error) {
	if gs.Phase != state.PhaseCombatDamage {
		return nil, fmt.Errorf("%w: cannot resolve combat damage during %s", state.ErrTiming, gs.Phase)
	}

	next := gs.Clone()
	next.Combat.Step = state.CombatStepDamage

	resolvePass(next, firstStrikePass)
	resolvePass(next, regularPass)
	if err := Cleanup(next); err != nil {
		return nil, err
	}

	next.Combat.Step = state.CombatStepEnd
	return next, nil
}

// resolvePass deals the damage of one pass in attacker declaration order.
// Creatures already lethally damaged when the pass starts neither deal nor
// receive damage in it.
func resolvePass(gs *state.GameState, pass damagePass) {
	dead := make(map[string]bool)
	for _, p := range gs.Players {
		for _, card := range p.Battlefield {
			if card.IsCreature() && abilities.ShouldDie(card) {
				dead[card.InstanceID] = true
			}
		}
	}
	live := func(id string) *state.CardInPlay {
		if dead[id] {
			return nil
		}
		card, _, ok := gs.FindBattlefield(id)
		if !ok {
			return nil
		}
		return card
	}

	for _, atk := range gs.Combat.Attackers {
		attacker := live(atk.CreatureID)
		if attacker == nil {
			continue
		}

		if pass.dealsDamage(attacker) {
			var blockers []*state.CardInPlay
			for _, id := range atk.BlockedBy {
				if b := live(id); b != nil {
					blockers = append(blockers, b)
				}
			}
			assignAttackerDamage(gs, atk, attacker, blockers)
		}

		for _, id := range atk.BlockedBy {
			blocker := live(id)
			if blocker == nil || !pass.dealsDamage(blocker) {
				continue
			}
			dealToCreature(gs, blocker, attacker, abilities.Power(blocker))
		}
	}
}

// assignAttackerDamage splits the attacker's power across its live blockers
// in order, giving each lethal damage before moving on. Without trample the
// last blocker takes whatever is left. With trample the excess goes to the
// defending player, as does all of it when every blocker is gone.
func assignAttackerDamage(gs *state.GameState, atk state.Attacker, attacker *state.CardInPlay, blockers []*state.CardInPlay) {
	power := abilities.Power(attacker)
	if power <= 0 {
		return
	}
	trample := abilities.HasTrample(attacker)
	deathtouch := abilities.HasDeathtouch(attacker)

	if len(atk.BlockedBy) == 0 {
		dealToPlayer(gs, attacker, atk.DefenderID, power)
		return
	}
	if len(blockers) == 0 {
		if trample {
			dealToPlayer(gs, attacker, atk.DefenderID, power)
		}
		return
	}

	remaining := power
	for i, blocker := range blockers {
		if remaining == 0 {
			break
		}
		assign := abilities.Toughness(blocker) - blocker.DamageMarked
		if deathtouch {
			assign = 1
		}
		assign = max(min(assign, remaining), 1)
		if i == len(blockers)-1 && !trample {
			assign = remaining
		}
		dealToCreature(gs, attacker, blocker, assign)
		remaining -= assign
	}
	if remaining > 0 && trample {
		dealToPlayer(gs, attacker, atk.DefenderID, remaining)
	}
}

// dealToCreature marks amount damage from source on target. Deathtouch
// raises the mark to the target's full toughness. Lifelink gains the
// source's controller the unmodified amount.
func dealToCreature(gs *state.GameState, source, target *state.CardInPlay, amount int) {
	if amount <= 0 {
		return
	}
	mark := amount
	if abilities.HasDeathtouch(source) {
		mark = max(mark, abilities.Toughness(target))
	}
	target.DamageMarked += mark
	lifelink(gs, source, amount)
}

func dealToPlayer(gs *state.GameState, source *state.CardInPlay, playerID string, amount int) {
	if amount <= 0 {
		return
	}
	player, ok := gs.Player(playerID)
	if !ok {
		return
	}
	player.Life -= amount
	lifelink(gs, source, amount)
}

func lifelink(gs *state.GameState, source *state.CardInPlay, amount int) {
	if !abilities.HasLifelink(source) {
		return
	}
	if controller, ok := gs.Player(source.ControllerID); ok {
		controller.Life += amount
	}
}

// Cleanup moves every creature that should die from the battlefield it is on
// to its owner's graveyard. It modifies gs in place.
func Cleanup(gs *state.GameState) error {
	var dying []string
	for _, p := range gs.Players {
		for _, card := range p.Battlefield {
			if card.IsCreature() && abilities.ShouldDie(card) {
				dying = append(dying, card.InstanceID)
			}
		}
	}
	for _, id := range dying {
		if _, err := gs.MoveCard(id, state.ZoneBattlefield, state.ZoneGraveyard); err != nil {
			return err
		}
	}
	return nil
}
