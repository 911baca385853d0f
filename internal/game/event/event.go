// Package event defines the observable game events and derives them from
// consecutive game snapshots.
package event

import (
	"fmt"

	"github.com/manaforge/engine/internal/game/state"
)

// Type indicates the category of a game event.
type Type string

const (
	GameStarted      Type = "GAME_STARTED"
	TurnStarted      Type = "TURN_STARTED"
	PhaseChanged     Type = "PHASE_CHANGED"
	CardDrawn        Type = "CARD_DRAWN"
	CardPlayed       Type = "CARD_PLAYED"
	SpellCast        Type = "SPELL_CAST"
	AbilityActivated Type = "ABILITY_ACTIVATED"
	CreatureAttacked Type = "CREATURE_ATTACKED"
	CreatureBlocked  Type = "CREATURE_BLOCKED"
	DamageDealt      Type = "DAMAGE_DEALT"
	LifeChanged      Type = "LIFE_CHANGED"
	CreatureDied     Type = "CREATURE_DIED"
	GameEnded        Type = "GAME_ENDED"
)

func (t Type) String() string {
	return string(t)
}

// Event is a single observable change between two snapshots.
type Event struct {
	Type     Type
	GameID   string
	PlayerID string
	CardID   string
	// TargetID is the defender for attacks and the attacker for blocks.
	TargetID string
	Amount   int
	Phase    state.Phase
	Turn     int
}

func (e Event) String() string {
	s := fmt.Sprintf("turn %d %s %s", e.Turn, e.Phase, e.Type)
	if e.PlayerID != "" {
		s += " player=" + e.PlayerID
	}
	if e.CardID != "" {
		s += " card=" + e.CardID
	}
	if e.TargetID != "" {
		s += " target=" + e.TargetID
	}
	if e.Amount != 0 {
		s += fmt.Sprintf(" amount=%d", e.Amount)
	}
	return s
}
