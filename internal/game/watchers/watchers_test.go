package watchers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manaforge/engine/internal/game/event"
)

func TestSpellsCastWatcher(t *testing.T) {
	w := NewSpellsCastWatcher(ScopeGame)
	assert.False(t, w.ConditionMet())
	assert.Zero(t, w.Count("p1"))

	w.Watch(event.Event{Type: event.SpellCast, PlayerID: "p1", CardID: "bear"})
	w.Watch(event.Event{Type: event.SpellCast, PlayerID: "p1", CardID: "bolt"})
	w.Watch(event.Event{Type: event.CardPlayed, PlayerID: "p1", CardID: "forest"})

	assert.True(t, w.ConditionMet())
	assert.Equal(t, []string{"bear", "bolt"}, w.SpellsCast("p1"))

	w.Reset()
	assert.False(t, w.ConditionMet())
	assert.Zero(t, w.Count("p1"))
}

func TestCreaturesDiedWatcher(t *testing.T) {
	w := NewCreaturesDiedWatcher(ScopeGame)
	w.Watch(event.Event{Type: event.CreatureDied, PlayerID: "p1", CardID: "a"})
	w.Watch(event.Event{Type: event.CreatureDied, PlayerID: "p2", CardID: "b"})
	w.Watch(event.Event{Type: event.CreatureDied, PlayerID: "p2", CardID: "c"})

	assert.Equal(t, 1, w.AmountByOwner("p1"))
	assert.Equal(t, 2, w.AmountByOwner("p2"))
	assert.Equal(t, 3, w.Total())
}

func TestLifeWatcher(t *testing.T) {
	w := NewLifeWatcher(ScopeGame)
	w.Watch(event.Event{Type: event.LifeChanged, PlayerID: "p1", Amount: -3})
	w.Watch(event.Event{Type: event.LifeChanged, PlayerID: "p1", Amount: 2})
	w.Watch(event.Event{Type: event.LifeChanged, PlayerID: "p1", Amount: -4})

	assert.Equal(t, 7, w.Lost("p1"))
	assert.Equal(t, 2, w.Gained("p1"))
	assert.Zero(t, w.Lost("p2"))
}

func TestSet_TurnScopeResets(t *testing.T) {
	game := NewCardsDrawnWatcher(ScopeGame)
	turn := NewCardsDrawnWatcher(ScopeTurn)
	set := NewSet(game, turn)
	bus := event.NewBus()
	set.Attach(bus)

	bus.PublishAll([]event.Event{
		{Type: event.CardDrawn, PlayerID: "p1"},
		{Type: event.CardDrawn, PlayerID: "p1"},
		{Type: event.TurnStarted, PlayerID: "p2", Turn: 2},
		{Type: event.CardDrawn, PlayerID: "p1"},
	})

	assert.Equal(t, 3, game.Count("p1"))
	assert.Equal(t, 1, turn.Count("p1"))

	got, ok := set.Get("CardsDrawn/turn")
	require.True(t, ok)
	assert.Same(t, turn, got)
	assert.Equal(t, ScopeTurn, got.Scope())
}

func TestSet_AddReplacesKey(t *testing.T) {
	first := NewLifeWatcher(ScopeGame)
	second := NewLifeWatcher(ScopeGame)
	set := NewSet(first)
	set.Add(second)

	set.Watch(event.Event{Type: event.LifeChanged, PlayerID: "p1", Amount: -1})
	assert.Zero(t, first.Lost("p1"))
	assert.Equal(t, 1, second.Lost("p1"))
}
