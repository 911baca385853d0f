package state

import (
	"maps"
	"slices"

	"github.com/manaforge/engine/internal/game/counters"
)

// Ability is a single ability printed on a card template.
type Ability struct {
	Code   string
	Name   string
	Kind   AbilityKind
	Params map[string]string
	Text   string
}

// CardTemplate is the immutable definition of a card as supplied by the card
// catalog. Templates are shared between game snapshots and must never be
// modified once a game has been created from them.
type CardTemplate struct {
	ID        int
	Slug      string
	Name      string
	Class     CardClass
	Colors    []Color
	ManaCost  string
	Text      string
	Power     *int
	Toughness *int
	Abilities []Ability
}

// Stats is a convenience for building creature templates.
func Stats(power, toughness int) (*int, *int) {
	return &power, &toughness
}

// CardInPlay is a per-game instance of a template.
type CardInPlay struct {
	InstanceID    string
	Template      *CardTemplate
	Zone          Zone
	OwnerID       string
	ControllerID  string
	Tapped        bool
	Counters      counters.Counters
	DamageMarked  int
	SummoningSick bool
	// AttachedTo is the instance id of the permanent an aura or equipment
	// is attached to. It records the relation only.
	AttachedTo string
}

// Name returns the template name, or the instance id for a bare instance.
func (c *CardInPlay) Name() string {
	if c.Template == nil {
		return c.InstanceID
	}
	return c.Template.Name
}

// Class returns the template class.
func (c *CardInPlay) Class() CardClass {
	if c.Template == nil {
		return ""
	}
	return c.Template.Class
}

// IsCreature reports whether the instance is a creature card.
func (c *CardInPlay) IsCreature() bool {
	return c.Class() == ClassCreature
}

// Clone returns a deep copy of the instance. The template is shared.
func (c *CardInPlay) Clone() *CardInPlay {
	if c == nil {
		return nil
	}
	cpy := *c
	cpy.Counters = c.Counters.Copy()
	return &cpy
}

// Clone returns a deep copy of an ability.
func (a Ability) Clone() Ability {
	a.Params = maps.Clone(a.Params)
	return a
}

// Clone returns a deep copy of a template, for catalog code that builds
// variants of an existing card.
func (t *CardTemplate) Clone() *CardTemplate {
	if t == nil {
		return nil
	}
	cpy := *t
	cpy.Colors = slices.Clone(t.Colors)
	if t.Power != nil {
		p := *t.Power
		cpy.Power = &p
	}
	if t.Toughness != nil {
		tg := *t.Toughness
		cpy.Toughness = &tg
	}
	cpy.Abilities = make([]Ability, len(t.Abilities))
	for i, a := range t.Abilities {
		cpy.Abilities[i] = a.Clone()
	}
	return &cpy
}
