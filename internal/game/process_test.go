package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manaforge/engine/internal/game/abilities"
	"github.com/manaforge/engine/internal/game/combat"
	"github.com/manaforge/engine/internal/game/gametest"
	"github.com/manaforge/engine/internal/game/mana"
	"github.com/manaforge/engine/internal/game/state"
)

// mainPhase returns a harness in alice's first main phase with two forests
// on the battlefield and a forest, a bear and a shock in hand.
func mainPhase(t *testing.T) *gametest.Harness {
	t.Helper()
	h := gametest.New(t)
	h.AddCard("alice", state.ZoneBattlefield, "f1", forest)
	h.AddCard("alice", state.ZoneBattlefield, "f2", forest)
	h.AddCard("alice", state.ZoneHand, "f3", forest)
	h.AddCard("alice", state.ZoneHand, "bear", bears)
	h.AddCard("alice", state.ZoneHand, "shock", gametest.Spell("Shock", state.ClassInstant, "R"))
	h.AddCard("alice", state.ZoneHand, "growth", gametest.Spell("Giant Growth", state.ClassInstant, "G"))
	h.AddCard("alice", state.ZoneHand, "ponder", gametest.Spell("Divination", state.ClassSorcery, "2"))
	return h
}

func TestProcessAction_PlayLand(t *testing.T) {
	h := mainPhase(t)
	engine := newTestEngine(t)

	gs, err := engine.ProcessAction(h.State, "alice", PlayLand{InstanceID: "f3"})
	require.NoError(t, err)
	alice := gs.Players[0]
	assert.True(t, alice.LandPlayed)
	assert.Len(t, alice.Battlefield, 3)
	assert.Len(t, alice.Hand, 4)

	// prior snapshot untouched
	assert.False(t, h.State.Players[0].LandPlayed)
	assert.Len(t, h.State.Players[0].Hand, 5)

	gs.Players[0].Hand = append(gs.Players[0].Hand, &state.CardInPlay{InstanceID: "f4", Template: forest, Zone: state.ZoneHand, OwnerID: "alice", ControllerID: "alice"})
	_, err = engine.ProcessAction(gs, "alice", PlayLand{InstanceID: "f4"})
	assert.ErrorIs(t, err, state.ErrRuleViolation)
}

func TestProcessAction_PlayLandRejections(t *testing.T) {
	tests := []struct {
		name    string
		player  string
		card    string
		phase   state.Phase
		wantErr error
	}{
		{"not a land", "alice", "bear", state.PhaseMain1, state.ErrRuleViolation},
		{"not in hand", "alice", "f1", state.PhaseMain1, state.ErrStructural},
		{"no priority", "bob", "f3", state.PhaseMain1, state.ErrTiming},
		{"wrong phase", "alice", "f3", state.PhaseUpkeep, state.ErrTiming},
		{"unknown player", "carol", "f3", state.PhaseMain1, state.ErrStructural},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := mainPhase(t).InPhase(tt.phase)
			_, err := newTestEngine(t).ProcessAction(h.State, tt.player, PlayLand{InstanceID: tt.card})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProcessAction_TapForManaAndCast(t *testing.T) {
	h := mainPhase(t)
	engine := newTestEngine(t)

	gs, err := engine.ProcessAction(h.State, "alice", ActivateAbility{InstanceID: "f1", AbilityCode: "TAP_FOR_G"})
	require.NoError(t, err)
	assert.Equal(t, 1, gs.Players[0].ManaPool.Green)

	_, err = engine.ProcessAction(gs, "alice", CastSpell{InstanceID: "bear"})
	assert.ErrorIs(t, err, state.ErrRuleViolation)

	_, err = engine.ProcessAction(gs, "alice", ActivateAbility{InstanceID: "f1", AbilityCode: "TAP_FOR_G"})
	assert.ErrorIs(t, err, state.ErrRuleViolation)

	gs, err = engine.ProcessAction(gs, "alice", ActivateAbility{InstanceID: "f2", AbilityCode: "TAP_FOR_G"})
	require.NoError(t, err)

	gs, err = engine.ProcessAction(gs, "alice", CastSpell{InstanceID: "bear"})
	require.NoError(t, err)
	alice := gs.Players[0]
	assert.Equal(t, 0, alice.ManaPool.Total())
	bear, ok := alice.Find(state.ZoneBattlefield, "bear")
	require.True(t, ok)
	assert.True(t, bear.SummoningSick)
	assert.False(t, abilities.CanAttack(bear))
}

func TestProcessAction_NonPermanentGoesToGraveyard(t *testing.T) {
	h := mainPhase(t)
	h.State.Players[0].ManaPool = h.State.Players[0].ManaPool.With(mana.ManaGreen, 1)

	gs, err := newTestEngine(t).ProcessAction(h.State, "alice", CastSpell{InstanceID: "growth", Targets: []string{"f1"}})
	require.NoError(t, err)
	alice := gs.Players[0]
	_, ok := alice.Find(state.ZoneGraveyard, "growth")
	assert.True(t, ok)
	assert.Empty(t, gs.Stack)
}

func TestProcessAction_CastTiming(t *testing.T) {
	h := mainPhase(t).InPhase(state.PhaseCombatBegin)
	h.State.Players[0].ManaPool = h.State.Players[0].ManaPool.With(mana.ManaRed, 1).With(mana.ManaColorless, 2)
	engine := newTestEngine(t)

	_, err := engine.ProcessAction(h.State, "alice", CastSpell{InstanceID: "ponder"})
	assert.ErrorIs(t, err, state.ErrTiming)

	gs, err := engine.ProcessAction(h.State, "alice", CastSpell{InstanceID: "shock"})
	require.NoError(t, err)
	assert.Equal(t, 2, gs.Players[0].ManaPool.Total())

	_, err = engine.ProcessAction(h.State, "alice", CastSpell{InstanceID: "f3"})
	assert.ErrorIs(t, err, state.ErrTiming)

	_, err = engine.ProcessAction(h.InPhase(state.PhaseMain1).State, "alice", CastSpell{InstanceID: "f3"})
	assert.ErrorIs(t, err, state.ErrRuleViolation)
}

func TestProcessAction_Unsupported(t *testing.T) {
	h := mainPhase(t)
	tmpl := gametest.CreatureTemplate("Prodigal Sorcerer", 1, 1)
	tmpl.Abilities = append(tmpl.Abilities, state.Ability{Code: "PING", Kind: state.AbilityActivated, Params: map[string]string{"damage": "1"}})
	h.AddCard("alice", state.ZoneBattlefield, "tim", tmpl)
	engine := newTestEngine(t)

	_, err := engine.ProcessAction(h.State, "alice", ActivateAbility{InstanceID: "tim", AbilityCode: "PING"})
	assert.ErrorIs(t, err, state.ErrUnsupported)

	_, err = engine.ProcessAction(h.State, "alice", ActivateAbility{InstanceID: "tim", AbilityCode: "NOPE"})
	assert.ErrorIs(t, err, state.ErrStructural)

	_, err = engine.ProcessAction(h.State, "alice", Mulligan{})
	assert.ErrorIs(t, err, state.ErrUnsupported)

	_, err = engine.ProcessAction(h.State, "alice", nil)
	assert.ErrorIs(t, err, state.ErrUnsupported)
}

func TestProcessAction_PassPriorityAndPhase(t *testing.T) {
	h := gametest.New(t).InPhase(state.PhaseMain1)
	engine := newTestEngine(t)

	_, err := engine.ProcessAction(h.State, "bob", PassPhase{})
	assert.ErrorIs(t, err, state.ErrTiming)

	gs, err := engine.ProcessAction(h.State, "alice", PassPriority{})
	require.NoError(t, err)
	assert.Equal(t, "bob", gs.PriorityPlayerID)

	gs, err = engine.ProcessAction(gs, "bob", PassPriority{})
	require.NoError(t, err)
	assert.Equal(t, state.PhaseCombatBegin, gs.Phase)
	assert.Equal(t, "alice", gs.PriorityPlayerID)

	gs, err = engine.ProcessAction(gs, "alice", PassPhase{})
	require.NoError(t, err)
	assert.Equal(t, state.PhaseCombatDeclareAttackers, gs.Phase)
}

func TestProcessAction_CombatThroughPhases(t *testing.T) {
	h := gametest.New(t).InPhase(state.PhaseCombatDeclareAttackers)
	h.Creature("wurm", "alice", 7, 7, abilities.CodeTrample)
	h.Creature("ogre", "alice", 3, 3)
	h.Creature("bear", "bob", 2, 2)
	engine := newTestEngine(t)

	_, err := engine.ProcessAction(h.State, "bob", DeclareAttackers{Attackers: []string{"bear"}})
	assert.ErrorIs(t, err, state.ErrTiming)

	gs, err := engine.ProcessAction(h.State, "alice", DeclareAttackers{Attackers: []string{"wurm", "ogre"}})
	require.NoError(t, err)
	assert.Equal(t, "bob", gs.Combat.Attackers[0].DefenderID)

	gs, err = engine.ProcessAction(gs, "alice", PassPhase{})
	require.NoError(t, err)
	require.Equal(t, state.PhaseCombatDeclareBlockers, gs.Phase)

	_, err = engine.ProcessAction(gs, "alice", DeclareBlockers{Blocks: []combat.Block{{BlockerID: "bear", AttackerID: "wurm"}}})
	assert.ErrorIs(t, err, state.ErrTiming)

	gs, err = engine.ProcessAction(gs, "bob", DeclareBlockers{Blocks: []combat.Block{{BlockerID: "bear", AttackerID: "wurm"}}})
	require.NoError(t, err)

	gs, err = engine.ProcessAction(gs, "alice", PassPhase{})
	require.NoError(t, err)
	assert.Equal(t, state.PhaseCombatDamage, gs.Phase)
	assert.Equal(t, state.CombatStepEnd, gs.Combat.Step)
	assert.Equal(t, 12, gs.Players[1].Life)
	_, ok := gs.Players[1].Find(state.ZoneGraveyard, "bear")
	assert.True(t, ok)

	gs, err = engine.ProcessAction(gs, "alice", PassPhase{})
	require.NoError(t, err)
	gs, err = engine.ProcessAction(gs, "alice", PassPhase{})
	require.NoError(t, err)
	assert.Equal(t, state.PhaseMain2, gs.Phase)
	assert.Equal(t, state.CombatStepNone, gs.Combat.Step)
	assert.Empty(t, gs.Combat.Attackers)
}

func TestProcessAction_NoBlocksAfterNoAttack(t *testing.T) {
	h := gametest.New(t).InPhase(state.PhaseCombatBegin)
	h.Creature("bear", "alice", 2, 2)
	h.Creature("wall", "bob", 0, 4)
	engine := newTestEngine(t)

	gs, err := engine.ProcessAction(h.State, "alice", PassPhase{})
	require.NoError(t, err)
	gs, err = engine.ProcessAction(gs, "alice", PassPhase{})
	require.NoError(t, err)
	require.Equal(t, state.PhaseCombatDeclareBlockers, gs.Phase)

	gs, err = engine.ProcessAction(gs, "bob", DeclareBlockers{})
	require.NoError(t, err)
	assert.Equal(t, state.CombatStepDamage, gs.Combat.Step)

	_, err = engine.ProcessAction(gs, "bob", DeclareBlockers{})
	assert.ErrorIs(t, err, state.ErrTiming)

	gs, err = engine.ProcessAction(gs, "alice", PassPhase{})
	require.NoError(t, err)
	assert.Equal(t, state.PhaseCombatDamage, gs.Phase)
	assert.Equal(t, 20, gs.Players[1].Life)
}

func TestProcessAction_LethalCombatEndsGame(t *testing.T) {
	h := gametest.New(t).InPhase(state.PhaseCombatDeclareAttackers)
	h.Creature("bear", "alice", 2, 2)
	h.State.Players[1].Life = 2
	engine := newTestEngine(t)

	gs, err := engine.ProcessAction(h.State, "alice", DeclareAttackers{Attackers: []string{"bear"}})
	require.NoError(t, err)
	gs, err = engine.ProcessAction(gs, "alice", PassPhase{})
	require.NoError(t, err)
	gs, err = engine.ProcessAction(gs, "alice", PassPhase{})
	require.NoError(t, err)

	assert.Equal(t, state.StatusCompleted, gs.Status)
	assert.Equal(t, "alice", gs.WinnerID)

	_, err = engine.ProcessAction(gs, "alice", PassPhase{})
	assert.ErrorIs(t, err, state.ErrTerminal)
	_, err = engine.ProcessAction(gs, "bob", Concede{})
	assert.ErrorIs(t, err, state.ErrTerminal)
}

func TestProcessAction_Concede(t *testing.T) {
	h := gametest.New(t, "p1", "p2", "p3").InPhase(state.PhaseMain1)
	h.State.ActivePlayer = 2
	h.State.PriorityPlayerID = "p3"
	engine := newTestEngine(t)

	gs, err := engine.ProcessAction(h.State, "p1", Concede{})
	require.NoError(t, err)
	require.Len(t, gs.Players, 2)
	assert.Equal(t, 1, gs.ActivePlayer)
	assert.Equal(t, "p3", gs.Active().ID)
	assert.Equal(t, state.StatusInProgress, gs.Status)

	gs, err = engine.ProcessAction(gs, "p3", Concede{})
	require.NoError(t, err)
	assert.Equal(t, state.StatusCompleted, gs.Status)
	assert.Equal(t, "p2", gs.WinnerID)
	assert.Equal(t, "p2", gs.PriorityPlayerID)
	assert.Len(t, h.State.Players, 3)
}

func TestProcessAction_ActiveConcedeStartsNextTurn(t *testing.T) {
	h := gametest.New(t, "alice", "bob", "carol").InPhase(state.PhaseMain1)
	h.CreateCreature(gametest.CreatureSpec{ID: "bear", Controller: "bob", Power: 2, Toughness: 2, Tapped: true})
	h.State.Players[1].LandPlayed = true
	engine := newTestEngine(t)

	gs, err := engine.ProcessAction(h.State, "alice", Concede{})
	require.NoError(t, err)
	require.Len(t, gs.Players, 2)
	assert.Equal(t, "bob", gs.Active().ID)
	assert.Equal(t, "bob", gs.PriorityPlayerID)
	assert.Equal(t, state.PhaseUntap, gs.Phase)
	assert.Equal(t, 2, gs.Turn)
	assert.Equal(t, state.StatusInProgress, gs.Status)

	bob := gs.Players[0]
	assert.False(t, bob.Battlefield[0].Tapped)
	assert.False(t, bob.LandPlayed)
}

func TestProcessAction_Triggers(t *testing.T) {
	registry := abilities.NewRegistry()
	registry.Register("SOUL_WARDEN", func(gs *state.GameState, source *state.CardInPlay, ability state.Ability) error {
		p, _ := gs.Player(source.ControllerID)
		p.Life++
		return nil
	})
	registry.Register("BLOOD_PRICE", func(gs *state.GameState, source *state.CardInPlay, ability state.Ability) error {
		p, _ := gs.Player(source.OwnerID)
		p.Life -= 2
		return nil
	})
	engine := newTestEngine(t, WithTriggers(registry))

	warden := gametest.CreatureTemplate("Warden", 1, 1)
	warden.ManaCost = "W"
	warden.Abilities = append(warden.Abilities, state.Ability{Code: "SOUL_WARDEN", Kind: state.AbilityTriggered, Params: map[string]string{"on": "ETB"}})
	martyr := gametest.CreatureTemplate("Martyr", 1, 1)
	martyr.Abilities = append(martyr.Abilities, state.Ability{Code: "BLOOD_PRICE", Kind: state.AbilityTriggered, Params: map[string]string{"on": "DIES"}})

	h := gametest.New(t)
	h.AddCard("alice", state.ZoneHand, "warden", warden)
	h.State.Players[0].ManaPool = h.State.Players[0].ManaPool.With(mana.ManaWhite, 1)
	h.AddCard("bob", state.ZoneBattlefield, "martyr", martyr)
	h.Creature("ogre", "alice", 3, 3)

	gs, err := engine.ProcessAction(h.State, "alice", CastSpell{InstanceID: "warden"})
	require.NoError(t, err)
	assert.Equal(t, 21, gs.Players[0].Life)

	gs.Phase = state.PhaseCombatDeclareAttackers
	gs, err = engine.ProcessAction(gs, "alice", DeclareAttackers{Attackers: []string{"ogre"}})
	require.NoError(t, err)
	gs, err = engine.ProcessAction(gs, "alice", PassPhase{})
	require.NoError(t, err)
	gs, err = engine.ProcessAction(gs, "bob", DeclareBlockers{Blocks: []combat.Block{{BlockerID: "martyr", AttackerID: "ogre"}}})
	require.NoError(t, err)
	gs, err = engine.ProcessAction(gs, "alice", PassPhase{})
	require.NoError(t, err)

	assert.Equal(t, 18, gs.Players[1].Life)
}
