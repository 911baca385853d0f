package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/manaforge/engine/internal/config"
	"github.com/manaforge/engine/internal/game/gametest"
	"github.com/manaforge/engine/internal/game/state"
)

var (
	forest = gametest.Land("Forest", "G")
	bears  = gametest.CreatureTemplate("Grizzly Bears", 2, 2)
)

func init() {
	bears.ManaCost = "1G"
}

// greenDeck returns a 40-card deck of 17 forests and 23 bears.
func greenDeck() []*state.CardTemplate {
	deck := make([]*state.CardTemplate, 0, 40)
	for range 17 {
		deck = append(deck, forest)
	}
	for range 23 {
		deck = append(deck, bears)
	}
	return deck
}

func fixedClock() time.Time {
	return gametest.Epoch
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithSeed(7), WithClock(fixedClock)}, opts...)
	return NewEngine(zaptest.NewLogger(t), opts...)
}

func twoPlayers() []PlayerSetup {
	return []PlayerSetup{
		{ID: "p1", Name: "Alice", Deck: greenDeck()},
		{ID: "p2", Name: "Bob", Deck: greenDeck()},
	}
}

func TestCreateGame_FortyCardDecks(t *testing.T) {
	engine := newTestEngine(t)

	gs, err := engine.CreateGame(twoPlayers())
	require.NoError(t, err)

	require.Len(t, gs.Players, 2)
	for _, p := range gs.Players {
		assert.Len(t, p.Library, 33, p.ID)
		assert.Len(t, p.Hand, 7, p.ID)
		assert.Equal(t, 20, p.Life)
		assert.Equal(t, 7, p.MaxHandSize)
		assert.Equal(t, 0, p.ManaPool.Total())
		for _, c := range p.Hand {
			assert.Equal(t, state.ZoneHand, c.Zone)
			assert.Equal(t, p.ID, c.OwnerID)
		}
	}
	assert.Equal(t, 1, gs.Turn)
	assert.Equal(t, state.PhaseUntap, gs.Phase)
	assert.Equal(t, state.StatusInProgress, gs.Status)
	assert.Equal(t, 0, gs.ActivePlayer)
	assert.Equal(t, "p1", gs.PriorityPlayerID)
	assert.Equal(t, state.CombatStepNone, gs.Combat.Step)
	assert.Equal(t, gametest.Epoch, gs.CreatedAt)
	assert.NotEmpty(t, gs.ID)

	ids := make(map[string]bool)
	for _, p := range gs.Players {
		for _, zone := range []state.Zone{state.ZoneLibrary, state.ZoneHand} {
			for _, c := range p.Cards(zone) {
				assert.False(t, ids[c.InstanceID], "duplicate instance id %s", c.InstanceID)
				ids[c.InstanceID] = true
			}
		}
	}
	assert.Len(t, ids, 80)
}

func TestCreateGame_Deterministic(t *testing.T) {
	a, err := newTestEngine(t).CreateGame(twoPlayers())
	require.NoError(t, err)
	b, err := newTestEngine(t).CreateGame(twoPlayers())
	require.NoError(t, err)
	c, err := newTestEngine(t, WithSeed(8)).CreateGame(twoPlayers())
	require.NoError(t, err)

	sumA, err := Checksum(a)
	require.NoError(t, err)
	sumB, err := Checksum(b)
	require.NoError(t, err)
	sumC, err := Checksum(c)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, sumA, sumB)
	assert.NotEqual(t, sumA, sumC)
}

func TestCreateGame_PlayerCount(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.CreateGame(twoPlayers()[:1])
	assert.ErrorIs(t, err, state.ErrStructural)

	five := make([]PlayerSetup, 5)
	for i := range five {
		five[i] = PlayerSetup{ID: string(rune('a' + i)), Deck: greenDeck()}
	}
	_, err = engine.CreateGame(five)
	assert.ErrorIs(t, err, state.ErrStructural)

	_, err = engine.CreateGame(five[:4])
	assert.NoError(t, err)

	dup := twoPlayers()
	dup[1].ID = "p1"
	_, err = engine.CreateGame(dup)
	assert.ErrorIs(t, err, state.ErrStructural)

	holes := twoPlayers()
	holes[0].Deck[3] = nil
	_, err = engine.CreateGame(holes)
	assert.ErrorIs(t, err, state.ErrStructural)
}

func TestCreateGame_CustomRules(t *testing.T) {
	rules := config.DefaultRules()
	rules.StartingLife = 30
	rules.OpeningHand = 5
	engine := newTestEngine(t, WithRules(rules))

	gs, err := engine.CreateGame(twoPlayers())
	require.NoError(t, err)
	assert.Equal(t, 30, gs.Players[0].Life)
	assert.Len(t, gs.Players[0].Hand, 5)
	assert.Len(t, gs.Players[0].Library, 35)
	assert.Equal(t, rules, engine.Rules())
}

func TestCheckGameEnd_SingleSurvivorWins(t *testing.T) {
	h := gametest.New(t, "p1", "p2", "p3")
	h.State.Players[0].Life = 0
	h.State.Players[1].Life = 15
	h.State.Players[2].Life = 0

	gs := newTestEngine(t).CheckGameEnd(h.State)
	assert.Equal(t, state.StatusCompleted, gs.Status)
	assert.Equal(t, "p2", gs.WinnerID)
	assert.Equal(t, state.StatusInProgress, h.State.Status)
}

func TestCheckGameEnd_Draw(t *testing.T) {
	h := gametest.New(t)
	h.State.Players[0].Life = -2
	h.State.Players[1].Life = 0

	gs := newTestEngine(t).CheckGameEnd(h.State)
	assert.Equal(t, state.StatusCompleted, gs.Status)
	assert.Empty(t, gs.WinnerID)
}

func TestCheckGameEnd_Idempotent(t *testing.T) {
	h := gametest.New(t)
	h.State.Players[1].Life = 4
	before := h.State.Clone()
	engine := newTestEngine(t)

	gs := engine.CheckGameEnd(h.State)
	assert.Equal(t, before, gs)
	gs = engine.CheckGameEnd(gs)
	assert.Equal(t, before, gs)

	done := engine.CheckGameEnd(gametest.New(t).State)
	done.Status = state.StatusCompleted
	assert.Same(t, done, engine.CheckGameEnd(done))
}
