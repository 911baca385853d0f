package game

import (
	"fmt"

	"github.com/manaforge/engine/internal/game/combat"
	"github.com/manaforge/engine/internal/game/state"
)

// ActionKind is the wire name of an action variant.
type ActionKind string

const (
	KindPassPriority     ActionKind = "PASS_PRIORITY"
	KindPassPhase        ActionKind = "PASS_PHASE"
	KindPlayLand         ActionKind = "PLAY_LAND"
	KindCastSpell        ActionKind = "CAST_SPELL"
	KindActivateAbility  ActionKind = "ACTIVATE_ABILITY"
	KindDeclareAttackers ActionKind = "DECLARE_ATTACKERS"
	KindDeclareBlockers  ActionKind = "DECLARE_BLOCKERS"
	KindConcede          ActionKind = "CONCEDE"
	KindMulligan         ActionKind = "MULLIGAN"
)

// Action is a player action. The set of variants is closed: only types in
// this package implement it.
type Action interface {
	Kind() ActionKind
	isAction()
}

// PassPriority passes priority to the next player.
type PassPriority struct{}

// PassPhase moves the game to the next phase.
type PassPhase struct{}

// PlayLand puts a land from hand onto the battlefield.
type PlayLand struct {
	InstanceID string
}

// CastSpell casts a card from hand.
type CastSpell struct {
	InstanceID string
	Targets    []string
}

// ActivateAbility activates an ability of a permanent the player controls.
type ActivateAbility struct {
	InstanceID  string
	AbilityCode string
	Targets     []string
}

// DeclareAttackers declares the active player's attackers. Each attacks the
// defending player.
type DeclareAttackers struct {
	Attackers []string
}

// DeclareBlockers declares the defending player's blocks.
type DeclareBlockers struct {
	Blocks []combat.Block
}

// Concede removes the player from the game.
type Concede struct{}

// Mulligan is declared for completeness and always rejected.
type Mulligan struct{}

func (PassPriority) Kind() ActionKind     { return KindPassPriority }
func (PassPhase) Kind() ActionKind        { return KindPassPhase }
func (PlayLand) Kind() ActionKind         { return KindPlayLand }
func (CastSpell) Kind() ActionKind        { return KindCastSpell }
func (ActivateAbility) Kind() ActionKind  { return KindActivateAbility }
func (DeclareAttackers) Kind() ActionKind { return KindDeclareAttackers }
func (DeclareBlockers) Kind() ActionKind  { return KindDeclareBlockers }
func (Concede) Kind() ActionKind          { return KindConcede }
func (Mulligan) Kind() ActionKind         { return KindMulligan }

func (PassPriority) isAction()     {}
func (PassPhase) isAction()        {}
func (PlayLand) isAction()         {}
func (CastSpell) isAction()        {}
func (ActivateAbility) isAction()  {}
func (DeclareAttackers) isAction() {}
func (DeclareBlockers) isAction()  {}
func (Concede) isAction()          {}
func (Mulligan) isAction()         {}

// Record is the flat, serializable form of an action, tagged by Kind.
type Record struct {
	PlayerID    string
	Kind        ActionKind
	InstanceID  string
	AbilityCode string
	Targets     []string
	Attackers   []string
	Blocks      []combat.Block
}

// NewRecord flattens an action taken by playerID.
func NewRecord(playerID string, action Action) Record {
	rec := Record{PlayerID: playerID}
	if action == nil {
		return rec
	}
	rec.Kind = action.Kind()
	switch a := action.(type) {
	case PlayLand:
		rec.InstanceID = a.InstanceID
	case CastSpell:
		rec.InstanceID = a.InstanceID
		rec.Targets = a.Targets
	case ActivateAbility:
		rec.InstanceID = a.InstanceID
		rec.AbilityCode = a.AbilityCode
		rec.Targets = a.Targets
	case DeclareAttackers:
		rec.Attackers = a.Attackers
	case DeclareBlockers:
		rec.Blocks = a.Blocks
	}
	return rec
}

// Action rebuilds the action the record describes.
func (r Record) Action() (Action, error) {
	switch r.Kind {
	case KindPassPriority:
		return PassPriority{}, nil
	case KindPassPhase:
		return PassPhase{}, nil
	case KindPlayLand:
		return PlayLand{InstanceID: r.InstanceID}, nil
	case KindCastSpell:
		return CastSpell{InstanceID: r.InstanceID, Targets: r.Targets}, nil
	case KindActivateAbility:
		return ActivateAbility{InstanceID: r.InstanceID, AbilityCode: r.AbilityCode, Targets: r.Targets}, nil
	case KindDeclareAttackers:
		return DeclareAttackers{Attackers: r.Attackers}, nil
	case KindDeclareBlockers:
		return DeclareBlockers{Blocks: r.Blocks}, nil
	case KindConcede:
		return Concede{}, nil
	case KindMulligan:
		return Mulligan{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown action kind %q", state.ErrStructural, r.Kind)
	}
}
