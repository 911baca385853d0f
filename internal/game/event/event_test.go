package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manaforge/engine/internal/game/gametest"
	"github.com/manaforge/engine/internal/game/state"
)

func types(events []Event) []Type {
	out := make([]Type, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestDiff_NilPrevStartsGame(t *testing.T) {
	h := gametest.New(t)
	events := Diff(nil, h.State)
	require.Len(t, events, 1)
	assert.Equal(t, GameStarted, events[0].Type)
	assert.Equal(t, "alice", events[0].PlayerID)
	assert.Nil(t, Diff(h.State, nil))
}

func TestDiff_TurnDrawAndPlay(t *testing.T) {
	h := gametest.New(t).InPhase(state.PhaseEnd)
	h.AddCard("bob", state.ZoneLibrary, "top", gametest.Land("Island", "U"))
	h.AddCard("alice", state.ZoneHand, "forest", gametest.Land("Forest", "G"))
	h.AddCard("alice", state.ZoneHand, "bolt", gametest.Spell("Bolt", state.ClassInstant, "R"))
	prev := h.State

	next := prev.Clone()
	next.Turn = 2
	next.Phase = state.PhaseDraw
	next.ActivePlayer = 1
	_, err := next.MoveCard("top", state.ZoneLibrary, state.ZoneHand)
	require.NoError(t, err)
	_, err = next.MoveCard("forest", state.ZoneHand, state.ZoneBattlefield)
	require.NoError(t, err)
	_, err = next.MoveCard("bolt", state.ZoneHand, state.ZoneGraveyard)
	require.NoError(t, err)

	events := Diff(prev, next)
	assert.Equal(t, []Type{TurnStarted, PhaseChanged, CardPlayed, SpellCast, CardDrawn}, types(events))
	assert.Equal(t, "bob", events[0].PlayerID)
	assert.Equal(t, "forest", events[2].CardID)
	assert.Equal(t, "top", events[4].CardID)
	assert.Equal(t, 2, events[4].Turn)
}

func TestDiff_CombatOutcome(t *testing.T) {
	h := gametest.New(t).InPhase(state.PhaseCombatDeclareBlockers)
	h.Creature("wurm", "alice", 7, 7)
	h.Creature("bear", "bob", 2, 2)
	prev := h.State

	next := prev.Clone()
	next.Phase = state.PhaseCombatDamage
	next.Combat.Attackers = []state.Attacker{{CreatureID: "wurm", DefenderID: "bob", BlockedBy: []string{"bear"}}}
	next.Combat.Blockers = []state.Blocker{{CreatureID: "bear", AttackerID: "wurm"}}
	wurm, _, _ := next.FindBattlefield("wurm")
	wurm.DamageMarked = 2
	wurm.Tapped = true
	_, err := next.MoveCard("bear", state.ZoneBattlefield, state.ZoneGraveyard)
	require.NoError(t, err)
	next.Players[1].Life = 15
	next.Status = state.StatusCompleted
	next.WinnerID = "alice"

	events := Diff(prev, next)
	assert.Equal(t, []Type{PhaseChanged, CreatureAttacked, CreatureBlocked, DamageDealt, LifeChanged, CreatureDied, GameEnded}, types(events))
	assert.Equal(t, "bob", events[1].TargetID)
	assert.Equal(t, "alice", events[1].PlayerID)
	assert.Equal(t, 2, events[3].Amount)
	assert.Equal(t, -5, events[4].Amount)
	assert.Equal(t, "bear", events[5].CardID)
	assert.Equal(t, "alice", events[6].PlayerID)
}

func TestDiff_DamageOnlyForSurvivors(t *testing.T) {
	h := gametest.New(t).InPhase(state.PhaseCombatDamage)
	h.Creature("ogre", "alice", 3, 3)
	h.Creature("bear", "bob", 2, 2)
	prev := h.State

	next := prev.Clone()
	ogre, _, _ := next.FindBattlefield("ogre")
	ogre.DamageMarked = 2
	bear, _, _ := next.FindBattlefield("bear")
	bear.DamageMarked = 3
	_, err := next.MoveCard("bear", state.ZoneBattlefield, state.ZoneGraveyard)
	require.NoError(t, err)
	next.Players[1].Life = 17

	events := Diff(prev, next)
	assert.Equal(t, []Type{DamageDealt, LifeChanged, CreatureDied}, types(events))
	assert.Equal(t, "ogre", events[0].CardID)
	assert.Equal(t, 2, events[0].Amount)
	assert.Equal(t, "bob", events[1].PlayerID)
	assert.Equal(t, -3, events[1].Amount)
	assert.Equal(t, "bear", events[2].CardID)
}

func TestDiff_TappingForManaIsAbility(t *testing.T) {
	h := gametest.New(t)
	h.AddCard("alice", state.ZoneBattlefield, "forest", gametest.Land("Forest", "G"))
	prev := h.State
	next := prev.Clone()
	next.Players[0].Battlefield[0].Tapped = true

	events := Diff(prev, next)
	require.Len(t, events, 1)
	assert.Equal(t, AbilityActivated, events[0].Type)
	assert.Equal(t, "forest", events[0].CardID)
}

func TestBus_PublishOrderAndFiltering(t *testing.T) {
	bus := NewBus()

	var all []Type
	var died int
	bus.Subscribe(func(e Event) { all = append(all, e.Type) })
	handle := bus.SubscribeTyped(CreatureDied, func(e Event) { died++ })
	assert.Equal(t, -1, bus.Subscribe(nil))

	bus.PublishAll([]Event{{Type: PhaseChanged}, {Type: CreatureDied}})
	assert.Equal(t, []Type{PhaseChanged, CreatureDied}, all)
	assert.Equal(t, 1, died)

	bus.Unsubscribe(handle)
	bus.Publish(Event{Type: CreatureDied})
	assert.Equal(t, 1, died)
	assert.Len(t, all, 3)
}

func TestEvent_String(t *testing.T) {
	e := Event{Type: LifeChanged, PlayerID: "bob", Amount: -3, Phase: state.PhaseCombatDamage, Turn: 3}
	assert.Equal(t, "turn 3 combat_damage LIFE_CHANGED player=bob amount=-3", e.String())
}
