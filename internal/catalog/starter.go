package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/manaforge/engine/internal/game/state"
)

// StarterSet is a small built-in card pool: the basic lands, a spread of
// keyword creatures and a few spells without effects.
type StarterSet struct {
	cards map[string]*state.CardTemplate
}

type starterCard struct {
	name     string
	class    state.CardClass
	colors   []state.Color
	cost     string
	power    int
	tough    int
	keywords string
}

var starterCards = []starterCard{
	{"Grizzly Bears", state.ClassCreature, []state.Color{state.ColorGreen}, "1G", 2, 2, ""},
	{"Giant Spider", state.ClassCreature, []state.Color{state.ColorGreen}, "3G", 2, 4, "Reach"},
	{"Craw Wurm", state.ClassCreature, []state.Color{state.ColorGreen}, "4GG", 6, 4, ""},
	{"Colossal Dreadmaw", state.ClassCreature, []state.Color{state.ColorGreen}, "4GG", 6, 6, "Trample"},
	{"Serra Angel", state.ClassCreature, []state.Color{state.ColorWhite}, "3WW", 4, 4, "Flying, vigilance"},
	{"White Knight", state.ClassCreature, []state.Color{state.ColorWhite}, "WW", 2, 2, "First strike"},
	{"Fencing Ace", state.ClassCreature, []state.Color{state.ColorWhite}, "1W", 1, 1, "Double strike"},
	{"Typhoid Rats", state.ClassCreature, []state.Color{state.ColorBlack}, "B", 1, 1, "Deathtouch"},
	{"Vampire Nighthawk", state.ClassCreature, []state.Color{state.ColorBlack}, "1BB", 2, 3, "Flying, deathtouch, lifelink"},
	{"Goblin Piker", state.ClassCreature, []state.Color{state.ColorRed}, "1R", 2, 1, ""},
	{"Raging Goblin", state.ClassCreature, []state.Color{state.ColorRed}, "R", 1, 1, "Haste"},
	{"Wall of Stone", state.ClassCreature, []state.Color{state.ColorRed}, "1RR", 0, 8, "Defender"},
	{"Wind Drake", state.ClassCreature, []state.Color{state.ColorBlue}, "2U", 2, 2, "Flying"},
	{"Giant Growth", state.ClassInstant, []state.Color{state.ColorGreen}, "G", 0, 0, ""},
	{"Lightning Bolt", state.ClassInstant, []state.Color{state.ColorRed}, "R", 0, 0, ""},
	{"Divination", state.ClassSorcery, []state.Color{state.ColorBlue}, "2U", 0, 0, ""},
}

var basicLands = map[string]string{
	"Plains":   "W",
	"Island":   "U",
	"Swamp":    "B",
	"Mountain": "R",
	"Forest":   "G",
}

// NewStarterSet builds the starter pool.
func NewStarterSet() *StarterSet {
	s := &StarterSet{cards: make(map[string]*state.CardTemplate)}
	id := 1
	add := func(tmpl *state.CardTemplate) {
		tmpl.ID = id
		tmpl.Slug = Slug(tmpl.Name)
		s.cards[tmpl.Slug] = tmpl
		id++
	}

	for _, name := range []string{"Plains", "Island", "Swamp", "Mountain", "Forest"} {
		add(BasicLand(name, basicLands[name]))
	}
	for _, c := range starterCards {
		tmpl := &state.CardTemplate{
			Name:      c.name,
			Class:     c.class,
			Colors:    c.colors,
			ManaCost:  c.cost,
			Text:      c.keywords,
			Abilities: ParseKeywords(c.keywords),
		}
		if c.class == state.ClassCreature {
			tmpl.Power, tmpl.Toughness = state.Stats(c.power, c.tough)
		}
		add(tmpl)
	}
	return s
}

// Template implements Source. The returned template is shared and must not
// be modified.
func (s *StarterSet) Template(_ context.Context, slug string) (*state.CardTemplate, error) {
	tmpl, ok := s.cards[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return tmpl, nil
}

// Slugs lists every card in the set, sorted.
func (s *StarterSet) Slugs() []string {
	out := make([]string, 0, len(s.cards))
	for slug := range s.cards {
		out = append(out, slug)
	}
	slices.Sort(out)
	return out
}

// StarterDecks are 40-card lists built from the starter set.
var StarterDecks = map[string]Decklist{
	"green-stompy": {
		Name: "green-stompy",
		Cards: []DeckEntry{
			{Slug: "forest", Count: 17},
			{Slug: "grizzly-bears", Count: 6},
			{Slug: "giant-spider", Count: 4},
			{Slug: "craw-wurm", Count: 4},
			{Slug: "colossal-dreadmaw", Count: 4},
			{Slug: "giant-growth", Count: 5},
		},
	},
	"orzhov-skies": {
		Name: "orzhov-skies",
		Cards: []DeckEntry{
			{Slug: "plains", Count: 9},
			{Slug: "swamp", Count: 8},
			{Slug: "serra-angel", Count: 4},
			{Slug: "white-knight", Count: 4},
			{Slug: "fencing-ace", Count: 4},
			{Slug: "typhoid-rats", Count: 5},
			{Slug: "vampire-nighthawk", Count: 6},
		},
	},
	"red-rush": {
		Name: "red-rush",
		Cards: []DeckEntry{
			{Slug: "mountain", Count: 17},
			{Slug: "raging-goblin", Count: 8},
			{Slug: "goblin-piker", Count: 8},
			{Slug: "wall-of-stone", Count: 3},
			{Slug: "lightning-bolt", Count: 4},
		},
	},
}

// StarterDeckNames returns the keys of StarterDecks, sorted.
func StarterDeckNames() []string {
	names := make([]string, 0, len(StarterDecks))
	for name := range StarterDecks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
