// Package autopilot plays a simple, always-legal strategy: drop a land,
// cast the biggest affordable permanent, attack with everything able and
// block only when the blocker survives.
package autopilot

import (
	"go.uber.org/zap"

	"github.com/manaforge/engine/internal/game"
	"github.com/manaforge/engine/internal/game/abilities"
	"github.com/manaforge/engine/internal/game/combat"
	"github.com/manaforge/engine/internal/game/mana"
	"github.com/manaforge/engine/internal/game/state"
)

// Pilot picks actions for any seat.
type Pilot struct {
	logger *zap.Logger
}

// New creates a pilot. A nil logger disables logging.
func New(logger *zap.Logger) *Pilot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pilot{logger: logger}
}

// Next returns the action playerID should take in gs, or false when the
// player has nothing to decide right now.
func (p *Pilot) Next(gs *state.GameState, playerID string) (game.Action, bool) {
	if gs == nil || gs.IsOver() {
		return nil, false
	}
	player, ok := gs.Player(playerID)
	if !ok {
		return nil, false
	}

	if blocks, ok := p.blocks(gs, player); ok {
		return game.DeclareBlockers{Blocks: blocks}, true
	}
	if gs.PriorityPlayerID != playerID || awaitingBlocks(gs) {
		return nil, false
	}

	active := gs.Active()
	if active == nil || active.ID != playerID {
		return game.PassPriority{}, true
	}

	if gs.Phase.IsMain() && len(gs.Stack) == 0 {
		if action, ok := p.mainPhase(gs, player); ok {
			return action, true
		}
	}
	if gs.Phase == state.PhaseCombatDeclareAttackers && undeclared(gs.Combat.Step) {
		if attackers := attackers(player); len(attackers) > 0 {
			p.logger.Debug("attacking", zap.String("player_id", playerID), zap.Strings("attackers", attackers))
			return game.DeclareAttackers{Attackers: attackers}, true
		}
	}
	return game.PassPhase{}, true
}

func (p *Pilot) mainPhase(gs *state.GameState, player *state.Player) (game.Action, bool) {
	if !player.LandPlayed {
		for _, card := range player.Hand {
			if card.Class() == state.ClassLand {
				return game.PlayLand{InstanceID: card.InstanceID}, true
			}
		}
	}

	spell := p.bestSpell(player)
	if spell == nil {
		return nil, false
	}
	cost := mana.ParseCost(spell.Template.ManaCost)
	if mana.CanPay(player.ManaPool, cost) {
		p.logger.Debug("casting", zap.String("player_id", player.ID), zap.String("card", spell.Name()))
		return game.CastSpell{InstanceID: spell.InstanceID}, true
	}
	source, ability := nextManaSource(player, cost)
	if source == nil {
		return nil, false
	}
	return game.ActivateAbility{InstanceID: source.InstanceID, AbilityCode: ability.Code}, true
}

// bestSpell returns the permanent in hand with the highest mana value that
// the pool plus every untapped mana source can pay for.
func (p *Pilot) bestSpell(player *state.Player) *state.CardInPlay {
	available := player.ManaPool
	for _, src := range manaSources(player) {
		available = mana.Add(available, game.ProducedMana(src.ability.Params[game.ManaParam]))
	}

	var best *state.CardInPlay
	bestCMC := -1
	for _, card := range player.Hand {
		if card.Class() == state.ClassLand || !card.Class().IsPermanent() {
			continue
		}
		cost := mana.ParseCost(card.Template.ManaCost)
		if cost.CMC() > bestCMC && mana.CanPay(available, cost) {
			best, bestCMC = card, cost.CMC()
		}
	}
	return best
}

type manaSource struct {
	card    *state.CardInPlay
	ability state.Ability
}

// manaSources lists untapped permanents with a usable mana ability.
func manaSources(player *state.Player) []manaSource {
	var out []manaSource
	for _, card := range player.Battlefield {
		if card.Tapped || card.ControllerID != player.ID {
			continue
		}
		if card.IsCreature() && card.SummoningSick && !abilities.HasHaste(card) {
			continue
		}
		for _, ability := range card.Template.Abilities {
			if ability.Kind == state.AbilityActivated && ability.Params[game.ManaParam] != "" {
				out = append(out, manaSource{card: card, ability: ability})
				break
			}
		}
	}
	return out
}

// nextManaSource prefers a source producing a color the cost still lacks.
func nextManaSource(player *state.Player, cost mana.Cost) (*state.CardInPlay, state.Ability) {
	sources := manaSources(player)
	if len(sources) == 0 {
		return nil, state.Ability{}
	}
	for _, src := range sources {
		produced := game.ProducedMana(src.ability.Params[game.ManaParam])
		for _, mt := range mana.Types {
			if produced.Get(mt) > 0 && cost.Pips(mt) > player.ManaPool.Get(mt) {
				return src.card, src.ability
			}
		}
	}
	return sources[0].card, sources[0].ability
}

func undeclared(step state.CombatStep) bool {
	return step == state.CombatStepNone || step == state.CombatStepDeclareAttackers
}

func awaitingBlocks(gs *state.GameState) bool {
	return gs.Phase == state.PhaseCombatDeclareBlockers && gs.Combat.Step == state.CombatStepDeclareBlockers
}

func attackers(player *state.Player) []string {
	var ids []string
	for _, card := range player.Battlefield {
		if abilities.CanAttack(card) && abilities.Power(card) > 0 {
			ids = append(ids, card.InstanceID)
		}
	}
	return ids
}

func damageFrom(attacker *state.CardInPlay) int {
	if abilities.HasDoubleStrike(attacker) {
		return 2 * abilities.Power(attacker)
	}
	return abilities.Power(attacker)
}

// blocks returns the pilot's blocks when player must declare them now.
func (p *Pilot) blocks(gs *state.GameState, player *state.Player) ([]combat.Block, bool) {
	if !awaitingBlocks(gs) {
		return nil, false
	}
	defender, err := combat.DefendingPlayer(gs)
	if err != nil || defender.ID != player.ID {
		return nil, false
	}

	used := make(map[string]bool)
	blocks := make([]combat.Block, 0)
	for _, atk := range gs.Combat.Attackers {
		attacker, _, ok := gs.FindBattlefield(atk.CreatureID)
		if !ok || abilities.HasDeathtouch(attacker) {
			continue
		}
		for _, blocker := range player.Battlefield {
			if used[blocker.InstanceID] || !abilities.CanBlock(blocker, attacker) {
				continue
			}
			if abilities.Toughness(blocker)-blocker.DamageMarked <= damageFrom(attacker) {
				continue
			}
			used[blocker.InstanceID] = true
			blocks = append(blocks, combat.Block{BlockerID: blocker.InstanceID, AttackerID: atk.CreatureID})
			break
		}
	}
	p.logger.Debug("blocking", zap.String("player_id", player.ID), zap.Int("blocks", len(blocks)))
	return blocks, true
}
