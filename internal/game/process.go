package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/manaforge/engine/internal/game/abilities"
	"github.com/manaforge/engine/internal/game/combat"
	"github.com/manaforge/engine/internal/game/event"
	"github.com/manaforge/engine/internal/game/mana"
	"github.com/manaforge/engine/internal/game/rules"
	"github.com/manaforge/engine/internal/game/state"
)

// ManaParam is the ability parameter holding the mana a mana ability adds,
// written as cost symbols such as "G" or "WU".
const ManaParam = "mana"

// ProcessAction validates action for playerID against gs and returns the
// resulting snapshot. On error gs is still the current state.
func (e *Engine) ProcessAction(gs *state.GameState, playerID string, action Action) (*state.GameState, error) {
	next, err := e.apply(gs, playerID, action)
	if err != nil {
		e.logger.Debug("action rejected",
			zap.String("game_id", gameID(gs)),
			zap.String("player_id", playerID),
			zap.String("action", actionName(action)),
			zap.Error(err),
		)
		return nil, err
	}
	next = e.CheckGameEnd(next)
	next.Touch(e.clock())

	e.logger.Debug("action applied",
		zap.String("game_id", next.ID),
		zap.String("player_id", playerID),
		zap.String("action", actionName(action)),
		zap.Int("turn", next.Turn),
		zap.String("phase", string(next.Phase)),
	)
	return next, nil
}

func gameID(gs *state.GameState) string {
	if gs == nil {
		return ""
	}
	return gs.ID
}

func actionName(action Action) string {
	if action == nil {
		return "<nil>"
	}
	return string(action.Kind())
}

func (e *Engine) apply(gs *state.GameState, playerID string, action Action) (*state.GameState, error) {
	if gs == nil {
		return nil, fmt.Errorf("%w: nil game state", state.ErrStructural)
	}
	if gs.IsOver() {
		return nil, fmt.Errorf("%w: game %s is %s", state.ErrTerminal, gs.ID, gs.Status)
	}
	if gs.Status != state.StatusInProgress {
		return nil, fmt.Errorf("%w: game %s is %s", state.ErrTiming, gs.ID, gs.Status)
	}
	if _, ok := gs.Player(playerID); !ok {
		return nil, fmt.Errorf("%w: player %s not in game %s", state.ErrStructural, playerID, gs.ID)
	}

	switch a := action.(type) {
	case PassPriority:
		if err := e.requirePriority(gs, playerID); err != nil {
			return nil, err
		}
		return e.afterPhaseChange(gs, rules.PassPriority(gs))
	case PassPhase:
		if err := e.requirePriority(gs, playerID); err != nil {
			return nil, err
		}
		return e.afterPhaseChange(gs, rules.AdvancePhase(gs))
	case PlayLand:
		return e.playLand(gs, playerID, a)
	case CastSpell:
		return e.castSpell(gs, playerID, a)
	case ActivateAbility:
		return e.activateAbility(gs, playerID, a)
	case DeclareAttackers:
		return e.declareAttackers(gs, playerID, a)
	case DeclareBlockers:
		return e.declareBlockers(gs, playerID, a)
	case Concede:
		return e.concede(gs, playerID)
	case Mulligan:
		return nil, fmt.Errorf("%w: %s", state.ErrUnsupported, KindMulligan)
	default:
		return nil, fmt.Errorf("%w: unknown action %T", state.ErrUnsupported, action)
	}
}

func (e *Engine) requirePriority(gs *state.GameState, playerID string) error {
	return rules.CheckAction(gs, playerID, rules.SpeedInstant)
}

// afterPhaseChange resolves combat damage when next has just entered the
// combat damage phase and fires death triggers for the casualties.
func (e *Engine) afterPhaseChange(prev, next *state.GameState) (*state.GameState, error) {
	if next.Phase != state.PhaseCombatDamage || prev.Phase == state.PhaseCombatDamage {
		return next, nil
	}
	resolved, err := combat.ResolveDamage(next)
	if err != nil {
		return nil, err
	}
	for _, card := range event.Died(next, resolved) {
		if err := e.triggers.Fire(resolved, card, abilities.TriggerDies); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func (e *Engine) playLand(gs *state.GameState, playerID string, a PlayLand) (*state.GameState, error) {
	if err := rules.CheckAction(gs, playerID, rules.SpeedLand); err != nil {
		return nil, err
	}
	player, _ := gs.Player(playerID)
	if player.LandPlayed {
		return nil, fmt.Errorf("%w: player %s already played a land this turn", state.ErrRuleViolation, playerID)
	}
	card, ok := player.Find(state.ZoneHand, a.InstanceID)
	if !ok {
		return nil, fmt.Errorf("%w: card %s not in %s's hand", state.ErrStructural, a.InstanceID, playerID)
	}
	if card.Class() != state.ClassLand {
		return nil, fmt.Errorf("%w: card %s is a %s, not a Land", state.ErrRuleViolation, a.InstanceID, card.Class())
	}

	next := gs.Clone()
	moved, err := next.MoveCard(a.InstanceID, state.ZoneHand, state.ZoneBattlefield)
	if err != nil {
		return nil, err
	}
	p, _ := next.Player(playerID)
	p.LandPlayed = true
	if err := e.triggers.Fire(next, moved, abilities.TriggerETB); err != nil {
		return nil, err
	}
	return next, nil
}

func (e *Engine) castSpell(gs *state.GameState, playerID string, a CastSpell) (*state.GameState, error) {
	player, _ := gs.Player(playerID)
	card, ok := player.Find(state.ZoneHand, a.InstanceID)
	if !ok {
		return nil, fmt.Errorf("%w: card %s not in %s's hand", state.ErrStructural, a.InstanceID, playerID)
	}
	speed := rules.SpeedSorcery
	if card.Class() == state.ClassInstant {
		speed = rules.SpeedInstant
	}
	if err := rules.CheckAction(gs, playerID, speed); err != nil {
		return nil, err
	}
	if card.Class() == state.ClassLand {
		return nil, fmt.Errorf("%w: card %s is a Land and must be played, not cast", state.ErrRuleViolation, a.InstanceID)
	}
	cost := mana.ParseCost(card.Template.ManaCost)
	pool, ok := mana.Pay(player.ManaPool, cost)
	if !ok {
		return nil, fmt.Errorf("%w: cannot pay %s for %s with %d mana", state.ErrRuleViolation,
			mana.Format(cost), a.InstanceID, player.ManaPool.Total())
	}

	next := gs.Clone()
	p, _ := next.Player(playerID)
	p.ManaPool = pool

	if !card.Class().IsPermanent() {
		// No effect engine: the spell goes straight to the graveyard.
		if _, err := next.MoveCard(a.InstanceID, state.ZoneHand, state.ZoneGraveyard); err != nil {
			return nil, err
		}
		return next, nil
	}
	moved, err := next.MoveCard(a.InstanceID, state.ZoneHand, state.ZoneBattlefield)
	if err != nil {
		return nil, err
	}
	moved.SummoningSick = moved.IsCreature()
	if err := e.triggers.Fire(next, moved, abilities.TriggerETB); err != nil {
		return nil, err
	}
	return next, nil
}

// activateAbility handles mana abilities: tap the permanent and add its
// mana to the controller's pool. Other activated abilities are unsupported.
func (e *Engine) activateAbility(gs *state.GameState, playerID string, a ActivateAbility) (*state.GameState, error) {
	card, _, ok := gs.FindBattlefield(a.InstanceID)
	if !ok || card.ControllerID != playerID {
		return nil, fmt.Errorf("%w: %s controls no permanent %s", state.ErrStructural, playerID, a.InstanceID)
	}
	var ability *state.Ability
	for i := range card.Template.Abilities {
		if card.Template.Abilities[i].Code == a.AbilityCode {
			ability = &card.Template.Abilities[i]
			break
		}
	}
	if ability == nil {
		return nil, fmt.Errorf("%w: card %s has no ability %s", state.ErrStructural, a.InstanceID, a.AbilityCode)
	}
	produces := ability.Params[ManaParam]
	if ability.Kind != state.AbilityActivated || produces == "" {
		return nil, fmt.Errorf("%w: ability %s of %s is not a mana ability", state.ErrUnsupported, a.AbilityCode, a.InstanceID)
	}
	if err := rules.CheckAction(gs, playerID, rules.SpeedAbility); err != nil {
		return nil, err
	}
	if card.Tapped {
		return nil, fmt.Errorf("%w: permanent %s is already tapped", state.ErrRuleViolation, a.InstanceID)
	}
	if card.IsCreature() && card.SummoningSick && !abilities.HasHaste(card) {
		return nil, fmt.Errorf("%w: creature %s has summoning sickness", state.ErrRuleViolation, a.InstanceID)
	}

	next := gs.Clone()
	tapped, _, _ := next.FindBattlefield(a.InstanceID)
	tapped.Tapped = true
	p, _ := next.Player(playerID)
	p.ManaPool = mana.Add(p.ManaPool, ProducedMana(produces))
	return next, nil
}

// ProducedMana turns a symbol string into the mana it adds. Digits produce
// colorless mana.
func ProducedMana(symbols string) mana.Pool {
	cost := mana.ParseCost(symbols)
	pool := mana.NewPool()
	for _, mt := range mana.Types {
		pool = pool.With(mt, cost.Pips(mt))
	}
	return pool.With(mana.ManaColorless, pool.Colorless+cost.Generic)
}

func (e *Engine) declareAttackers(gs *state.GameState, playerID string, a DeclareAttackers) (*state.GameState, error) {
	if active := gs.Active(); active == nil || active.ID != playerID {
		return nil, fmt.Errorf("%w: only the active player declares attackers, not %s", state.ErrTiming, playerID)
	}
	defender, err := combat.DefendingPlayer(gs)
	if err != nil {
		return nil, err
	}
	defenders := make([]string, len(a.Attackers))
	for i := range defenders {
		defenders[i] = defender.ID
	}
	next, err := combat.DeclareAttackers(gs, a.Attackers, defenders)
	if err != nil {
		return nil, err
	}
	for _, id := range a.Attackers {
		card, _, _ := next.FindBattlefield(id)
		if err := e.triggers.Fire(next, card, abilities.TriggerAttack); err != nil {
			return nil, err
		}
	}
	return next, nil
}

func (e *Engine) declareBlockers(gs *state.GameState, playerID string, a DeclareBlockers) (*state.GameState, error) {
	defender, err := combat.DefendingPlayer(gs)
	if err != nil {
		return nil, err
	}
	if defender.ID != playerID {
		return nil, fmt.Errorf("%w: only the defending player declares blockers, not %s", state.ErrTiming, playerID)
	}
	next, err := combat.DeclareBlockers(gs, a.Blocks)
	if err != nil {
		return nil, err
	}
	for _, block := range a.Blocks {
		card, _, _ := next.FindBattlefield(block.BlockerID)
		if err := e.triggers.Fire(next, card, abilities.TriggerBlock); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// concede removes the player and everything in their zones. The last
// remaining player wins. When the active player concedes, the next seat
// starts a fresh turn.
func (e *Engine) concede(gs *state.GameState, playerID string) (*state.GameState, error) {
	next := gs.Clone()
	idx := next.PlayerIndex(playerID)
	wasActive := idx == next.ActivePlayer
	next.Players = append(next.Players[:idx:idx], next.Players[idx+1:]...)

	switch {
	case idx < next.ActivePlayer:
		next.ActivePlayer--
	case idx == next.ActivePlayer && len(next.Players) > 0:
		next.ActivePlayer %= len(next.Players)
	}
	if next.PlayerIndex(next.PriorityPlayerID) < 0 {
		if active := next.Active(); active != nil {
			next.PriorityPlayerID = active.ID
		} else {
			next.PriorityPlayerID = ""
		}
	}
	next.Combat = state.NewCombatState()

	e.logger.Info("player conceded",
		zap.String("game_id", next.ID),
		zap.String("player_id", playerID),
		zap.Int("remaining", len(next.Players)),
	)

	if len(next.Players) == 1 {
		next.Status = state.StatusCompleted
		next.WinnerID = next.Players[0].ID
		return next, nil
	}
	if wasActive {
		next = rules.BeginTurn(next)
	}
	return next, nil
}
