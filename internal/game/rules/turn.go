package rules

import (
	"slices"

	"github.com/manaforge/engine/internal/game/mana"
	"github.com/manaforge/engine/internal/game/state"
)

// Sequence is the fixed phase order of a turn. After the last phase the
// next turn starts again at the first.
var Sequence = []state.Phase{
	state.PhaseUntap,
	state.PhaseUpkeep,
	state.PhaseDraw,
	state.PhaseMain1,
	state.PhaseCombatBegin,
	state.PhaseCombatDeclareAttackers,
	state.PhaseCombatDeclareBlockers,
	state.PhaseCombatDamage,
	state.PhaseCombatEnd,
	state.PhaseMain2,
	state.PhaseEnd,
}

// NextPhase returns the phase after p and whether moving there starts a new
// turn. Unknown phases restart the sequence.
func NextPhase(p state.Phase) (state.Phase, bool) {
	i := slices.Index(Sequence, p)
	if i < 0 || i == len(Sequence)-1 {
		return Sequence[0], i >= 0
	}
	return Sequence[i+1], false
}

// AdvancePhase moves gs to the next phase and returns the new snapshot.
// Leaving the end phase starts the next turn with the next seat active.
// Priority always reverts to the active player.
func AdvancePhase(gs *state.GameState) *state.GameState {
	next := gs.Clone()

	phase, newTurn := NextPhase(next.Phase)
	if newTurn {
		next.Turn++
		if len(next.Players) > 0 {
			next.ActivePlayer = (next.ActivePlayer + 1) % len(next.Players)
		}
	}
	leaving := next.Phase
	next.Phase = phase

	active := next.Active()
	if active != nil {
		next.PriorityPlayerID = active.ID
		enterPhase(next, active, phase)
	}

	if leaving.IsCombat() && !phase.IsCombat() {
		next.Combat = state.NewCombatState()
	}
	if phase == state.PhaseCombatDeclareAttackers && next.Combat.Step == state.CombatStepNone {
		next.Combat.Step = state.CombatStepDeclareAttackers
	}
	return next
}

// BeginTurn starts a new turn for the seat that is already active, at the
// untap phase with combat cleared. It is used when the active seat changes
// outside the normal phase cycle.
func BeginTurn(gs *state.GameState) *state.GameState {
	next := gs.Clone()
	next.Turn++
	next.Phase = state.PhaseUntap
	next.Combat = state.NewCombatState()
	if active := next.Active(); active != nil {
		next.PriorityPlayerID = active.ID
		enterPhase(next, active, state.PhaseUntap)
	}
	return next
}

// enterPhase applies the turn-based actions of phase to the active player.
func enterPhase(gs *state.GameState, active *state.Player, phase state.Phase) {
	switch phase {
	case state.PhaseUntap:
		for _, card := range active.Battlefield {
			card.Tapped = false
			card.SummoningSick = false
		}
		active.LandPlayed = false
	case state.PhaseDraw:
		// An empty library is not a loss.
		gs.DrawCard(active)
	case state.PhaseEnd:
		active.ManaPool = mana.Empty(active.ManaPool)
	}
}
