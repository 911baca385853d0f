// Package gametest builds hand-crafted game states for tests.
package gametest

import (
	"fmt"
	"testing"
	"time"

	"github.com/manaforge/engine/internal/game/mana"
	"github.com/manaforge/engine/internal/game/state"
)

// Epoch is the fixed timestamp used by harness states.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// CreatureSpec defines the properties of a test creature.
type CreatureSpec struct {
	ID            string
	Name          string
	Power         int
	Toughness     int
	Controller    string
	Abilities     []string // ability codes, e.g. "FLYING"
	Tapped        bool
	SummoningSick bool
	PlusOne       int
	MinusOne      int
	Damage        int
}

// Harness wraps a two-or-more player state under construction.
type Harness struct {
	t     *testing.T
	State *state.GameState
}

// New creates a harness with the given player ids, the first one active
// and holding priority in phase main1 of turn 1.
func New(t *testing.T, playerIDs ...string) *Harness {
	t.Helper()
	if len(playerIDs) == 0 {
		playerIDs = []string{"alice", "bob"}
	}
	players := make([]*state.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		players = append(players, &state.Player{
			ID:          id,
			Name:        id,
			Life:        20,
			ManaPool:    mana.NewPool(),
			MaxHandSize: 7,
			Library:     []*state.CardInPlay{},
			Hand:        []*state.CardInPlay{},
			Battlefield: []*state.CardInPlay{},
			Graveyard:   []*state.CardInPlay{},
			Exile:       []*state.CardInPlay{},
		})
	}
	return &Harness{
		t: t,
		State: &state.GameState{
			ID:               "test-game",
			Players:          players,
			PriorityPlayerID: playerIDs[0],
			Phase:            state.PhaseMain1,
			Turn:             1,
			Stack:            []state.StackItem{},
			Combat:           state.NewCombatState(),
			Status:           state.StatusInProgress,
			CreatedAt:        Epoch,
			UpdatedAt:        Epoch,
		},
	}
}

// InPhase sets the current phase.
func (h *Harness) InPhase(phase state.Phase) *Harness {
	h.State.Phase = phase
	return h
}

func (h *Harness) player(id string) *state.Player {
	h.t.Helper()
	p, ok := h.State.Player(id)
	if !ok {
		h.t.Fatalf("unknown player %s", id)
	}
	return p
}

// CreatureTemplate builds a creature template with keyword abilities.
func CreatureTemplate(name string, power, toughness int, codes ...string) *state.CardTemplate {
	p, t := state.Stats(power, toughness)
	abilities := make([]state.Ability, 0, len(codes))
	for _, code := range codes {
		abilities = append(abilities, state.Ability{Code: code, Name: code, Kind: state.AbilityKeyword})
	}
	return &state.CardTemplate{
		Slug:      name,
		Name:      name,
		Class:     state.ClassCreature,
		ManaCost:  fmt.Sprintf("%d", power),
		Power:     p,
		Toughness: t,
		Abilities: abilities,
	}
}

// CreateCreature puts a creature onto its controller's battlefield.
func (h *Harness) CreateCreature(spec CreatureSpec) *state.CardInPlay {
	h.t.Helper()
	name := spec.Name
	if name == "" {
		name = spec.ID
	}
	card := &state.CardInPlay{
		InstanceID:    spec.ID,
		Template:      CreatureTemplate(name, spec.Power, spec.Toughness, spec.Abilities...),
		Zone:          state.ZoneBattlefield,
		OwnerID:       spec.Controller,
		ControllerID:  spec.Controller,
		Tapped:        spec.Tapped,
		SummoningSick: spec.SummoningSick,
		DamageMarked:  spec.Damage,
	}
	card.Counters.PlusOne = spec.PlusOne
	card.Counters.MinusOne = spec.MinusOne
	p := h.player(spec.Controller)
	p.Battlefield = append(p.Battlefield, card)
	return card
}

// Creature is shorthand for CreateCreature.
func (h *Harness) Creature(id, controller string, power, toughness int, codes ...string) *state.CardInPlay {
	h.t.Helper()
	return h.CreateCreature(CreatureSpec{
		ID:         id,
		Controller: controller,
		Power:      power,
		Toughness:  toughness,
		Abilities:  codes,
	})
}

// AddCard places an instance of tmpl into a player's zone.
func (h *Harness) AddCard(playerID string, zone state.Zone, id string, tmpl *state.CardTemplate) *state.CardInPlay {
	h.t.Helper()
	card := &state.CardInPlay{
		InstanceID:   id,
		Template:     tmpl,
		Zone:         zone,
		OwnerID:      playerID,
		ControllerID: playerID,
	}
	p := h.player(playerID)
	switch zone {
	case state.ZoneLibrary:
		p.Library = append(p.Library, card)
	case state.ZoneHand:
		p.Hand = append(p.Hand, card)
	case state.ZoneBattlefield:
		p.Battlefield = append(p.Battlefield, card)
	case state.ZoneGraveyard:
		p.Graveyard = append(p.Graveyard, card)
	case state.ZoneExile:
		p.Exile = append(p.Exile, card)
	default:
		h.t.Fatalf("cannot place card in zone %s", zone)
	}
	return card
}

// Card returns the battlefield permanent with the given id.
func (h *Harness) Card(id string) *state.CardInPlay {
	h.t.Helper()
	card, _, ok := h.State.FindBattlefield(id)
	if !ok {
		h.t.Fatalf("card %s not on any battlefield", id)
	}
	return card
}

// Land builds a basic land template for a mana symbol.
func Land(name, symbol string) *state.CardTemplate {
	return &state.CardTemplate{
		Slug:     name,
		Name:     name,
		Class:    state.ClassLand,
		ManaCost: "",
		Abilities: []state.Ability{{
			Code:   "TAP_FOR_" + symbol,
			Name:   "Add " + symbol,
			Kind:   state.AbilityActivated,
			Params: map[string]string{"mana": symbol},
		}},
	}
}

// Spell builds a non-creature spell template.
func Spell(name string, class state.CardClass, cost string) *state.CardTemplate {
	return &state.CardTemplate{
		Slug:     name,
		Name:     name,
		Class:    class,
		ManaCost: cost,
	}
}
