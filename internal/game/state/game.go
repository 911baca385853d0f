package state

import (
	"fmt"
	"slices"
	"time"
)

// GameState is the aggregate root of one game. Transitions never modify a
// GameState in place; they clone it and return the clone.
type GameState struct {
	ID               string
	Players          []*Player
	ActivePlayer     int
	PriorityPlayerID string
	Phase            Phase
	Turn             int
	Stack            []StackItem
	Combat           CombatState
	Status           Status
	WinnerID         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Clone returns a deep copy sharing only card templates with gs.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	cpy := *gs
	cpy.Players = make([]*Player, len(gs.Players))
	for i, p := range gs.Players {
		cpy.Players[i] = p.Clone()
	}
	cpy.Stack = make([]StackItem, len(gs.Stack))
	for i, item := range gs.Stack {
		item.Targets = slices.Clone(item.Targets)
		cpy.Stack[i] = item
	}
	cpy.Combat = gs.Combat.Clone()
	return &cpy
}

// Active returns the active player, or nil if the index is out of range.
func (gs *GameState) Active() *Player {
	if gs.ActivePlayer < 0 || gs.ActivePlayer >= len(gs.Players) {
		return nil
	}
	return gs.Players[gs.ActivePlayer]
}

// Player returns the player with the given id.
func (gs *GameState) Player(id string) (*Player, bool) {
	i := gs.PlayerIndex(id)
	if i < 0 {
		return nil, false
	}
	return gs.Players[i], true
}

// PlayerIndex returns the seat of the player with the given id, or -1.
func (gs *GameState) PlayerIndex(id string) int {
	return slices.IndexFunc(gs.Players, func(p *Player) bool { return p.ID == id })
}

// IsOver reports whether the game has completed.
func (gs *GameState) IsOver() bool {
	return gs.Status == StatusCompleted
}

// FindBattlefield returns a permanent on any player's battlefield along with
// the player whose battlefield holds it.
func (gs *GameState) FindBattlefield(instanceID string) (*CardInPlay, *Player, bool) {
	for _, p := range gs.Players {
		if card, ok := p.Find(ZoneBattlefield, instanceID); ok {
			return card, p, true
		}
	}
	return nil, nil, false
}

// MoveCard moves an instance between zones. The card is searched in the
// from zone of every player and placed in the to zone of its owner, or of
// the player holding it if the owner has left the game. Leaving the
// battlefield clears marked damage, tapped state and attachments and
// returns control to the owner.
func (gs *GameState) MoveCard(instanceID string, from, to Zone) (*CardInPlay, error) {
	if from == ZoneStack || to == ZoneStack {
		return nil, fmt.Errorf("%w: stack zone is not tracked", ErrUnsupported)
	}
	var probe Player
	if probe.zonePtr(from) == nil || probe.zonePtr(to) == nil {
		return nil, fmt.Errorf("%w: unknown zone %q -> %q", ErrStructural, from, to)
	}
	for _, holder := range gs.Players {
		src := holder.zonePtr(from)
		rest, card := removeCard(*src, instanceID)
		if card == nil {
			continue
		}
		dest := holder
		if owner, ok := gs.Player(card.OwnerID); ok {
			dest = owner
		}
		*src = rest
		card.Zone = to
		if from == ZoneBattlefield && to != ZoneBattlefield {
			card.DamageMarked = 0
			card.Tapped = false
			card.AttachedTo = ""
			card.ControllerID = card.OwnerID
		}
		dst := dest.zonePtr(to)
		*dst = append(*dst, card)
		return card, nil
	}
	return nil, fmt.Errorf("%w: card %s not found in %s", ErrStructural, instanceID, from)
}

// DrawCard moves the top card of p's library into its owner's hand. It
// returns nil when the library is empty.
func (gs *GameState) DrawCard(p *Player) *CardInPlay {
	if len(p.Library) == 0 {
		return nil
	}
	card, err := gs.MoveCard(p.Library[0].InstanceID, ZoneLibrary, ZoneHand)
	if err != nil {
		return nil
	}
	return card
}

// Touch stamps the update time.
func (gs *GameState) Touch(now time.Time) {
	gs.UpdatedAt = now
}
