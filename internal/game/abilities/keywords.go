package abilities

import (
	"github.com/manaforge/engine/internal/game/state"
)

// Keyword ability codes recognised by the combat rules.
const (
	CodeFlying       = "FLYING"
	CodeReach        = "REACH"
	CodeHaste        = "HASTE"
	CodeVigilance    = "VIGILANCE"
	CodeTrample      = "TRAMPLE"
	CodeDeathtouch   = "DEATHTOUCH"
	CodeLifelink     = "LIFELINK"
	CodeDefender     = "DEFENDER"
	CodeFirstStrike  = "FIRST_STRIKE"
	CodeDoubleStrike = "DOUBLE_STRIKE"
)

// Has reports whether the card's template lists an ability with the given code.
func Has(card *state.CardInPlay, code string) bool {
	if card == nil || card.Template == nil {
		return false
	}
	for _, ability := range card.Template.Abilities {
		if ability.Code == code {
			return true
		}
	}
	return false
}

func HasFlying(card *state.CardInPlay) bool { return Has(card, CodeFlying) }
func HasReach(card *state.CardInPlay) bool { return Has(card, CodeReach) }
func HasHaste(card *state.CardInPlay) bool { return Has(card, CodeHaste) }
func HasVigilance(card *state.CardInPlay) bool { return Has(card, CodeVigilance) }
func HasTrample(card *state.CardInPlay) bool { return Has(card, CodeTrample) }
func HasDeathtouch(card *state.CardInPlay) bool { return Has(card, CodeDeathtouch) }
func HasLifelink(card *state.CardInPlay) bool { return Has(card, CodeLifelink) }
func HasDefender(card *state.CardInPlay) bool { return Has(card, CodeDefender) }

// HasDoubleStrike checks the exact double strike code.
func HasDoubleStrike(card *state.CardInPlay) bool {
	return Has(card, CodeDoubleStrike)
}

// HasFirstStrike is true for first strike or double strike, since both
// deal damage in the first-strike step.
func HasFirstStrike(card *state.CardInPlay) bool {
	return Has(card, CodeFirstStrike) || HasDoubleStrike(card)
}

// CanAttack checks that a creature is untapped, is not a defender, and
// either came under its controller's control before this turn or has haste.
func CanAttack(card *state.CardInPlay) bool {
	if card == nil || !card.IsCreature() || card.Tapped {
		return false
	}
	if HasDefender(card) {
		return false
	}
	return !card.SummoningSick || HasHaste(card)
}

// CanBlock checks whether blocker may legally block attacker. A flying
// attacker can only be blocked by creatures with flying or reach.
func CanBlock(blocker, attacker *state.CardInPlay) bool {
	if blocker == nil || attacker == nil {
		return false
	}
	if !blocker.IsCreature() || blocker.Tapped {
		return false
	}
	if HasFlying(attacker) && !HasFlying(blocker) && !HasReach(blocker) {
		return false
	}
	return true
}

// Power returns the effective power: base plus +1/+1 minus -1/-1 counters,
// never below zero.
func Power(card *state.CardInPlay) int {
	if card == nil || card.Template == nil {
		return 0
	}
	return effective(card.Template.Power, card)
}

// Toughness returns the effective toughness, computed like Power.
func Toughness(card *state.CardInPlay) int {
	if card == nil || card.Template == nil {
		return 0
	}
	return effective(card.Template.Toughness, card)
}

func effective(base *int, card *state.CardInPlay) int {
	value := 0
	if base != nil {
		value = *base
	}
	value += card.Counters.PlusOne - card.Counters.MinusOne
	return max(value, 0)
}

// ShouldDie reports whether the creature has zero toughness or lethal damage.
func ShouldDie(card *state.CardInPlay) bool {
	toughness := Toughness(card)
	return toughness <= 0 || card.DamageMarked >= toughness
}
