package state

import "slices"

// Attacker is one attacking creature.
type Attacker struct {
	CreatureID string
	DefenderID string
	BlockedBy  []string
}

// Blocker is one blocking creature and the attacker it blocks.
type Blocker struct {
	CreatureID string
	AttackerID string
}

// CombatState is the transient combat sub-state of a game.
type CombatState struct {
	Step      CombatStep
	Attackers []Attacker
	Blockers  []Blocker
}

// NewCombatState returns an idle combat state.
func NewCombatState() CombatState {
	return CombatState{
		Step:      CombatStepNone,
		Attackers: []Attacker{},
		Blockers:  []Blocker{},
	}
}

// Attacker returns the attacker entry for creatureID.
func (cs *CombatState) Attacker(creatureID string) (*Attacker, bool) {
	for i := range cs.Attackers {
		if cs.Attackers[i].CreatureID == creatureID {
			return &cs.Attackers[i], true
		}
	}
	return nil, false
}

// IsAttacking reports whether creatureID has been declared as an attacker.
func (cs CombatState) IsAttacking(creatureID string) bool {
	return slices.ContainsFunc(cs.Attackers, func(a Attacker) bool {
		return a.CreatureID == creatureID
	})
}

// IsBlocking reports whether creatureID has been declared as a blocker.
func (cs CombatState) IsBlocking(creatureID string) bool {
	return slices.ContainsFunc(cs.Blockers, func(b Blocker) bool {
		return b.CreatureID == creatureID
	})
}

// Clone returns a deep copy of the combat state.
func (cs CombatState) Clone() CombatState {
	cpy := CombatState{
		Step:      cs.Step,
		Attackers: make([]Attacker, len(cs.Attackers)),
		Blockers:  slices.Clone(cs.Blockers),
	}
	if cpy.Blockers == nil {
		cpy.Blockers = []Blocker{}
	}
	for i, a := range cs.Attackers {
		a.BlockedBy = slices.Clone(a.BlockedBy)
		if a.BlockedBy == nil {
			a.BlockedBy = []string{}
		}
		cpy.Attackers[i] = a
	}
	return cpy
}
