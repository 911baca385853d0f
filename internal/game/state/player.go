package state

import (
	"github.com/manaforge/engine/internal/game/mana"
)

// Player is one seat in a game.
type Player struct {
	ID          string
	Name        string
	Life        int
	ManaPool    mana.Pool
	MaxHandSize int
	LandPlayed  bool

	Library     []*CardInPlay
	Hand        []*CardInPlay
	Battlefield []*CardInPlay
	Graveyard   []*CardInPlay
	Exile       []*CardInPlay
}

// Cards returns the player's collection for zone. Stack returns nil.
func (p *Player) Cards(zone Zone) []*CardInPlay {
	if ptr := p.zonePtr(zone); ptr != nil {
		return *ptr
	}
	return nil
}

func (p *Player) zonePtr(zone Zone) *[]*CardInPlay {
	switch zone {
	case ZoneLibrary:
		return &p.Library
	case ZoneHand:
		return &p.Hand
	case ZoneBattlefield:
		return &p.Battlefield
	case ZoneGraveyard:
		return &p.Graveyard
	case ZoneExile:
		return &p.Exile
	default:
		return nil
	}
}

// Find returns the card with instanceID in zone.
func (p *Player) Find(zone Zone, instanceID string) (*CardInPlay, bool) {
	for _, card := range p.Cards(zone) {
		if card.InstanceID == instanceID {
			return card, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the player including every zone.
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	cpy := *p
	cpy.Library = cloneCards(p.Library)
	cpy.Hand = cloneCards(p.Hand)
	cpy.Battlefield = cloneCards(p.Battlefield)
	cpy.Graveyard = cloneCards(p.Graveyard)
	cpy.Exile = cloneCards(p.Exile)
	return &cpy
}

func cloneCards(cards []*CardInPlay) []*CardInPlay {
	cpy := make([]*CardInPlay, len(cards))
	for i, card := range cards {
		cpy[i] = card.Clone()
	}
	return cpy
}

func removeCard(cards []*CardInPlay, instanceID string) ([]*CardInPlay, *CardInPlay) {
	for i, card := range cards {
		if card.InstanceID == instanceID {
			out := make([]*CardInPlay, 0, len(cards)-1)
			out = append(out, cards[:i]...)
			out = append(out, cards[i+1:]...)
			return out, card
		}
	}
	return cards, nil
}
