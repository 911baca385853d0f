package event

import (
	"github.com/manaforge/engine/internal/game/state"
)

type location struct {
	zone   state.Zone
	holder string
	card   *state.CardInPlay
}

func index(gs *state.GameState) map[string]location {
	idx := make(map[string]location)
	for _, p := range gs.Players {
		for _, zone := range []state.Zone{state.ZoneLibrary, state.ZoneHand, state.ZoneBattlefield, state.ZoneGraveyard, state.ZoneExile} {
			for _, card := range p.Cards(zone) {
				idx[card.InstanceID] = location{zone: zone, holder: p.ID, card: card}
			}
		}
	}
	return idx
}

// Diff derives the events that explain how prev became next. A nil prev
// yields GAME_STARTED. Events are ordered by kind, then by seat and zone
// order, so the result is deterministic.
//
// DAMAGE_DEALT is only derived for creatures still on a battlefield whose
// marked damage rose. A creature that died in the same transition has had
// its damage cleared, so it yields CREATURE_DIED alone. Damage to players
// shows up as LIFE_CHANGED.
func Diff(prev, next *state.GameState) []Event {
	if next == nil {
		return nil
	}
	mk := func(typ Type) Event {
		return Event{Type: typ, GameID: next.ID, Phase: next.Phase, Turn: next.Turn}
	}
	if prev == nil {
		evt := mk(GameStarted)
		if active := next.Active(); active != nil {
			evt.PlayerID = active.ID
		}
		return []Event{evt}
	}

	var events []Event
	if next.Turn != prev.Turn {
		evt := mk(TurnStarted)
		if active := next.Active(); active != nil {
			evt.PlayerID = active.ID
		}
		events = append(events, evt)
	}
	if next.Phase != prev.Phase || next.Turn != prev.Turn {
		events = append(events, mk(PhaseChanged))
	}

	before := index(prev)
	engaged := func(id string) bool {
		return next.Combat.IsAttacking(id) || next.Combat.IsBlocking(id)
	}

	for _, p := range next.Players {
		for _, card := range p.Hand {
			if loc, ok := before[card.InstanceID]; ok && loc.zone == state.ZoneLibrary {
				evt := mk(CardDrawn)
				evt.PlayerID, evt.CardID = p.ID, card.InstanceID
				events = append(events, evt)
			}
		}
		for _, zone := range []state.Zone{state.ZoneBattlefield, state.ZoneGraveyard} {
			for _, card := range p.Cards(zone) {
				loc, ok := before[card.InstanceID]
				if !ok || loc.zone != state.ZoneHand {
					continue
				}
				typ := SpellCast
				if card.Class() == state.ClassLand {
					typ = CardPlayed
				}
				evt := mk(typ)
				evt.PlayerID, evt.CardID = loc.holder, card.InstanceID
				events = append(events, evt)
			}
		}
		for _, card := range p.Battlefield {
			loc, ok := before[card.InstanceID]
			if !ok || loc.zone != state.ZoneBattlefield {
				continue
			}
			if card.Tapped && !loc.card.Tapped && !engaged(card.InstanceID) {
				evt := mk(AbilityActivated)
				evt.PlayerID, evt.CardID = card.ControllerID, card.InstanceID
				events = append(events, evt)
			}
		}
	}

	for _, atk := range next.Combat.Attackers {
		if prev.Combat.IsAttacking(atk.CreatureID) {
			continue
		}
		evt := mk(CreatureAttacked)
		evt.CardID, evt.TargetID = atk.CreatureID, atk.DefenderID
		if loc, ok := before[atk.CreatureID]; ok {
			evt.PlayerID = loc.card.ControllerID
		}
		events = append(events, evt)
	}
	for _, blk := range next.Combat.Blockers {
		if prev.Combat.IsBlocking(blk.CreatureID) {
			continue
		}
		evt := mk(CreatureBlocked)
		evt.CardID, evt.TargetID = blk.CreatureID, blk.AttackerID
		if loc, ok := before[blk.CreatureID]; ok {
			evt.PlayerID = loc.card.ControllerID
		}
		events = append(events, evt)
	}

	for _, p := range next.Players {
		for _, card := range p.Battlefield {
			if loc, ok := before[card.InstanceID]; ok && loc.zone == state.ZoneBattlefield && card.DamageMarked > loc.card.DamageMarked {
				evt := mk(DamageDealt)
				evt.PlayerID, evt.CardID = card.ControllerID, card.InstanceID
				evt.Amount = card.DamageMarked - loc.card.DamageMarked
				events = append(events, evt)
			}
		}
	}
	for _, p := range next.Players {
		old, ok := prev.Player(p.ID)
		if !ok || old.Life == p.Life {
			continue
		}
		evt := mk(LifeChanged)
		evt.PlayerID, evt.Amount = p.ID, p.Life-old.Life
		events = append(events, evt)
	}
	for _, card := range Died(prev, next) {
		evt := mk(CreatureDied)
		evt.PlayerID, evt.CardID = card.OwnerID, card.InstanceID
		events = append(events, evt)
	}

	if next.Status == state.StatusCompleted && prev.Status != state.StatusCompleted {
		evt := mk(GameEnded)
		evt.PlayerID = next.WinnerID
		events = append(events, evt)
	}
	return events
}

// Died returns the creatures that moved from a battlefield to a graveyard
// between prev and next, in seat order.
func Died(prev, next *state.GameState) []*state.CardInPlay {
	before := index(prev)
	var out []*state.CardInPlay
	for _, p := range next.Players {
		for _, card := range p.Graveyard {
			if loc, ok := before[card.InstanceID]; ok && loc.zone == state.ZoneBattlefield && card.IsCreature() {
				out = append(out, card)
			}
		}
	}
	return out
}
