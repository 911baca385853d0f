// Package catalog resolves card slugs to templates and turns decklists into
// the template slices the engine deals from.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/manaforge/engine/internal/game/state"
)

// ErrNotFound is returned when a source has no card for a slug.
var ErrNotFound = errors.New("card not found")

// Source looks up card templates by slug.
type Source interface {
	Template(ctx context.Context, slug string) (*state.CardTemplate, error)
}

// DeckEntry is one line of a decklist.
type DeckEntry struct {
	Slug  string `mapstructure:"slug"`
	Count int    `mapstructure:"count"`
}

// Decklist names cards by slug and count.
type Decklist struct {
	Name  string      `mapstructure:"name"`
	Cards []DeckEntry `mapstructure:"cards"`
}

// Size returns the number of cards in the list.
func (d Decklist) Size() int {
	n := 0
	for _, e := range d.Cards {
		n += e.Count
	}
	return n
}

// Deck is a resolved decklist. Repeated entries share one template.
type Deck struct {
	Name  string
	Cards []*state.CardTemplate
}

// Build resolves every entry of list against src.
func Build(ctx context.Context, src Source, list Decklist) (Deck, error) {
	deck := Deck{Name: list.Name, Cards: make([]*state.CardTemplate, 0, list.Size())}
	for _, entry := range list.Cards {
		if entry.Count <= 0 {
			return Deck{}, fmt.Errorf("deck %q: %s has count %d", list.Name, entry.Slug, entry.Count)
		}
		tmpl, err := src.Template(ctx, entry.Slug)
		if err != nil {
			return Deck{}, fmt.Errorf("deck %q: %w", list.Name, err)
		}
		for range entry.Count {
			deck.Cards = append(deck.Cards, tmpl)
		}
	}
	if len(deck.Cards) == 0 {
		return Deck{}, fmt.Errorf("deck %q is empty", list.Name)
	}
	return deck, nil
}

// Slug lowercases name and joins its alphanumeric runs with dashes, so
// "Serra Angel" becomes "serra-angel".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
