package autopilot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/manaforge/engine/internal/catalog"
	"github.com/manaforge/engine/internal/game"
	"github.com/manaforge/engine/internal/game/abilities"
	"github.com/manaforge/engine/internal/game/combat"
	"github.com/manaforge/engine/internal/game/gametest"
	"github.com/manaforge/engine/internal/game/state"
)

func newEngine(t *testing.T, seed int64) *game.Engine {
	return game.NewEngine(zaptest.NewLogger(t),
		game.WithSeed(seed),
		game.WithClock(func() time.Time { return gametest.Epoch }),
	)
}

func starterPlayers(t *testing.T, decks ...string) []game.PlayerSetup {
	t.Helper()
	set := catalog.NewStarterSet()
	players := make([]game.PlayerSetup, 0, len(decks))
	for i, name := range decks {
		deck, err := catalog.Build(context.Background(), set, catalog.StarterDecks[name])
		require.NoError(t, err)
		id := string(rune('a' + i))
		players = append(players, game.PlayerSetup{ID: id, Name: name, Deck: deck.Cards})
	}
	return players
}

func TestPilot_MainPhaseCastsCreature(t *testing.T) {
	set := catalog.NewStarterSet()
	forest, _ := set.Template(context.Background(), "forest")
	bears, _ := set.Template(context.Background(), "grizzly-bears")
	bolt, _ := set.Template(context.Background(), "lightning-bolt")

	h := gametest.New(t)
	h.AddCard("alice", state.ZoneBattlefield, "f1", forest)
	h.AddCard("alice", state.ZoneHand, "f2", forest)
	h.AddCard("alice", state.ZoneHand, "bear", bears)
	h.AddCard("alice", state.ZoneHand, "bolt", bolt)

	pilot := New(zaptest.NewLogger(t))
	engine := newEngine(t, 1)

	action, ok := pilot.Next(h.State, "alice")
	require.True(t, ok)
	assert.Equal(t, game.PlayLand{InstanceID: "f2"}, action)

	_, ok = pilot.Next(h.State, "bob")
	assert.False(t, ok)

	gs := h.State
	var kinds []game.ActionKind
	for gs.Phase == state.PhaseMain1 {
		action, ok := pilot.Next(gs, "alice")
		require.True(t, ok)
		kinds = append(kinds, action.Kind())
		next, err := engine.ProcessAction(gs, "alice", action)
		require.NoError(t, err)
		gs = next
	}

	assert.Equal(t, []game.ActionKind{
		game.KindPlayLand,
		game.KindActivateAbility,
		game.KindActivateAbility,
		game.KindCastSpell,
		game.KindPassPhase,
	}, kinds)
	_, ok = gs.Players[0].Find(state.ZoneBattlefield, "bear")
	assert.True(t, ok)
	_, ok = gs.Players[0].Find(state.ZoneHand, "bolt")
	assert.True(t, ok)
}

func TestPilot_Attacks(t *testing.T) {
	h := gametest.New(t).InPhase(state.PhaseCombatDeclareAttackers)
	h.Creature("bear", "alice", 2, 2)
	h.Creature("wall", "alice", 0, 8)
	h.CreateCreature(gametest.CreatureSpec{ID: "sick", Controller: "alice", Power: 3, Toughness: 3, SummoningSick: true})

	action, ok := New(nil).Next(h.State, "alice")
	require.True(t, ok)
	assert.Equal(t, game.DeclareAttackers{Attackers: []string{"bear"}}, action)
}

func TestPilot_Blocks(t *testing.T) {
	h := gametest.New(t).InPhase(state.PhaseCombatDeclareAttackers)
	h.Creature("bear", "alice", 2, 2)
	h.Creature("rats", "alice", 1, 1, abilities.CodeDeathtouch)
	h.Creature("angel", "alice", 4, 4, abilities.CodeFlying)
	h.Creature("spider", "bob", 2, 4, abilities.CodeReach)
	h.Creature("elf", "bob", 1, 1)

	gs, err := combat.DeclareAttackers(h.State, []string{"bear", "rats", "angel"}, []string{"bob", "bob", "bob"})
	require.NoError(t, err)
	gs.Phase = state.PhaseCombatDeclareBlockers
	pilot := New(zaptest.NewLogger(t))

	_, ok := pilot.Next(gs, "alice")
	assert.False(t, ok, "attacker waits for blocks")

	action, ok := pilot.Next(gs, "bob")
	require.True(t, ok)
	assert.Equal(t, game.DeclareBlockers{Blocks: []combat.Block{{BlockerID: "spider", AttackerID: "bear"}}}, action)
}

func TestPilot_NonActivePasses(t *testing.T) {
	h := gametest.New(t)
	h.State.PriorityPlayerID = "bob"

	action, ok := New(nil).Next(h.State, "bob")
	require.True(t, ok)
	assert.Equal(t, game.PassPriority{}, action)

	h.State.Status = state.StatusCompleted
	_, ok = New(nil).Next(h.State, "bob")
	assert.False(t, ok)
}

func TestPlay_FullGame(t *testing.T) {
	players := starterPlayers(t, "green-stompy", "red-rush")
	engine := newEngine(t, 42)
	gs, err := engine.CreateGame(players)
	require.NoError(t, err)

	replay := game.NewReplay(42, gametest.Epoch, engine.Rules(), players)
	steps := 0
	final, err := New(zaptest.NewLogger(t)).Play(context.Background(), engine, gs, PlayOptions{
		MaxTurns: 60,
		Replay:   replay,
		OnStep:   func(prev, next *state.GameState) { steps++ },
	})
	require.NoError(t, err)
	assert.Equal(t, steps, replay.Size())
	assert.Greater(t, final.Turn, 1)
	if final.Status == state.StatusCompleted {
		assert.NotEmpty(t, final.WinnerID)
	}

	replayed, err := replay.Run(zaptest.NewLogger(t))
	require.NoError(t, err)
	want, _ := game.Checksum(final)
	got, _ := game.Checksum(replayed)
	assert.Equal(t, want, got)
}

func TestPlay_TurnLimitAndCancel(t *testing.T) {
	engine := newEngine(t, 3)
	gs, err := engine.CreateGame(starterPlayers(t, "orzhov-skies", "orzhov-skies"))
	require.NoError(t, err)

	final, err := New(nil).Play(context.Background(), engine, gs, PlayOptions{MaxTurns: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, final.Turn)
	assert.Equal(t, state.PhaseUntap, final.Phase)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(nil).Play(ctx, engine, gs, PlayOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
