package catalog

import (
	"strings"

	"github.com/manaforge/engine/internal/game"
	"github.com/manaforge/engine/internal/game/abilities"
	"github.com/manaforge/engine/internal/game/state"
)

var keywordCodes = map[string]string{
	"flying":        abilities.CodeFlying,
	"reach":         abilities.CodeReach,
	"haste":         abilities.CodeHaste,
	"vigilance":     abilities.CodeVigilance,
	"trample":       abilities.CodeTrample,
	"deathtouch":    abilities.CodeDeathtouch,
	"lifelink":      abilities.CodeLifelink,
	"defender":      abilities.CodeDefender,
	"first strike":  abilities.CodeFirstStrike,
	"double strike": abilities.CodeDoubleStrike,
}

// ParseKeywords extracts keyword abilities from rules text. Only segments
// that are exactly a keyword count, so "Flying, vigilance" yields two and
// "Creatures you control gain flying" yields none.
func ParseKeywords(text string) []state.Ability {
	var out []state.Ability
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		for _, part := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ';' }) {
			name := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), ".")))
			code, ok := keywordCodes[name]
			if !ok || seen[code] {
				continue
			}
			seen[code] = true
			out = append(out, state.Ability{
				Code: code,
				Name: strings.ToUpper(name[:1]) + name[1:],
				Kind: state.AbilityKeyword,
			})
		}
	}
	return out
}

// BasicLand builds a land template whose only ability taps for symbol.
func BasicLand(name, symbol string) *state.CardTemplate {
	return &state.CardTemplate{
		Name:      name,
		Slug:      Slug(name),
		Class:     state.ClassLand,
		Abilities: []state.Ability{ManaAbility(symbol)},
	}
}

// ManaAbility is the activated ability "{T}: Add symbol".
func ManaAbility(symbol string) state.Ability {
	return state.Ability{
		Code:   "TAP_FOR_" + symbol,
		Name:   "Add " + symbol,
		Kind:   state.AbilityActivated,
		Params: map[string]string{game.ManaParam: symbol},
		Text:   "{T}: Add {" + symbol + "}.",
	}
}
