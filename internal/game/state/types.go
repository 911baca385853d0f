package state

import "fmt"

// CardClass is the card type of a template.
type CardClass string

const (
	ClassCreature     CardClass = "Creature"
	ClassSorcery      CardClass = "Sorcery"
	ClassInstant      CardClass = "Instant"
	ClassArtifact     CardClass = "Artifact"
	ClassEnchantment  CardClass = "Enchantment"
	ClassLand         CardClass = "Land"
	ClassPlaneswalker CardClass = "Planeswalker"
)

// IsPermanent reports whether cards of this class stay on the battlefield
// once they resolve.
func (c CardClass) IsPermanent() bool {
	switch c {
	case ClassCreature, ClassArtifact, ClassEnchantment, ClassLand, ClassPlaneswalker:
		return true
	default:
		return false
	}
}

// Color is a card color.
type Color string

const (
	ColorWhite     Color = "White"
	ColorBlue      Color = "Blue"
	ColorBlack     Color = "Black"
	ColorRed       Color = "Red"
	ColorGreen     Color = "Green"
	ColorColorless Color = "Colorless"
)

// AbilityKind classifies an ability.
type AbilityKind string

const (
	AbilityKeyword   AbilityKind = "Keyword"
	AbilityActivated AbilityKind = "Activated"
	AbilityTriggered AbilityKind = "Triggered"
	AbilityStatic    AbilityKind = "Static"
)

// Zone identifies where a card instance currently is.
type Zone string

const (
	ZoneLibrary     Zone = "library"
	ZoneHand        Zone = "hand"
	ZoneBattlefield Zone = "battlefield"
	ZoneGraveyard   Zone = "graveyard"
	ZoneExile       Zone = "exile"
	// ZoneStack is reserved; spells currently resolve without passing through it.
	ZoneStack Zone = "stack"
)

// Phase is a step of the turn.
type Phase string

const (
	PhaseUntap                  Phase = "untap"
	PhaseUpkeep                 Phase = "upkeep"
	PhaseDraw                   Phase = "draw"
	PhaseMain1                  Phase = "main1"
	PhaseCombatBegin            Phase = "combat_begin"
	PhaseCombatDeclareAttackers Phase = "combat_declare_attackers"
	PhaseCombatDeclareBlockers  Phase = "combat_declare_blockers"
	PhaseCombatDamage           Phase = "combat_damage"
	PhaseCombatEnd              Phase = "combat_end"
	PhaseMain2                  Phase = "main2"
	PhaseEnd                    Phase = "end"
)

// IsCombat reports whether the phase belongs to the combat phase.
func (p Phase) IsCombat() bool {
	switch p {
	case PhaseCombatBegin, PhaseCombatDeclareAttackers, PhaseCombatDeclareBlockers,
		PhaseCombatDamage, PhaseCombatEnd:
		return true
	default:
		return false
	}
}

// IsMain reports whether the phase is one of the two main phases.
func (p Phase) IsMain() bool {
	return p == PhaseMain1 || p == PhaseMain2
}

// CombatStep tags the progress of the current combat.
type CombatStep string

const (
	CombatStepNone             CombatStep = "none"
	CombatStepDeclareAttackers CombatStep = "declare_attackers"
	CombatStepDeclareBlockers  CombatStep = "declare_blockers"
	CombatStepDamage           CombatStep = "damage"
	CombatStepEnd              CombatStep = "end"
)

// Status is the overall lifecycle state of a game.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

// StackItemKind describes the type of object on the stack.
type StackItemKind string

const (
	StackItemSpell     StackItemKind = "SPELL"
	StackItemActivated StackItemKind = "ACTIVATED"
	StackItemTriggered StackItemKind = "TRIGGERED"
)

// StackItem is a pending spell or ability. The engine records these but does
// not resolve their effects.
type StackItem struct {
	ID         string
	Kind       StackItemKind
	SourceID   string
	Controller string
	Targets    []string
}

func (si StackItem) String() string {
	return fmt.Sprintf("%s %s (%s)", si.Kind, si.SourceID, si.Controller)
}
