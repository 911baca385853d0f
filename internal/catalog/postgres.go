package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/manaforge/engine/internal/game/mana"
	"github.com/manaforge/engine/internal/game/state"
)

// PostgresStore reads templates from the cards table filled by ImportCSV.
// Templates are cached per slug for the life of the store.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]*state.CardTemplate
}

// NewPostgresStore connects to dsn and verifies the connection.
func NewPostgresStore(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	stats := pool.Stat()
	logger.Info("card catalog connected",
		zap.Int32("total_conns", stats.TotalConns()),
		zap.Int32("max_conns", stats.MaxConns()),
	)
	return &PostgresStore{
		pool:   pool,
		logger: logger,
		cache:  make(map[string]*state.CardTemplate),
	}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

const templateQuery = `
	SELECT id, name, card_type, mana_cost, power, toughness, rules_text
	FROM cards
	WHERE trim(both '-' from regexp_replace(lower(name), '[^a-z0-9]+', '-', 'g')) = $1
	ORDER BY id
	LIMIT 1`

// Template implements Source.
func (s *PostgresStore) Template(ctx context.Context, slug string) (*state.CardTemplate, error) {
	s.mu.RLock()
	tmpl, ok := s.cache[slug]
	s.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	var row cardRow
	err := s.pool.QueryRow(ctx, templateQuery, slug).Scan(
		&row.ID, &row.Name, &row.CardType, &row.ManaCost, &row.Power, &row.Toughness, &row.RulesText,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query card %s: %w", slug, err)
	}
	tmpl, err = row.template()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[slug] = tmpl
	s.mu.Unlock()
	s.logger.Debug("card loaded", zap.String("slug", slug), zap.Int("id", tmpl.ID))
	return tmpl, nil
}

// Count returns the number of rows in the cards table.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM cards").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

// cardRow is one row of the cards table as the engine needs it.
type cardRow struct {
	ID        int64
	Name      string
	CardType  string
	ManaCost  string
	Power     string
	Toughness string
	RulesText string
}

// classOrder is checked left to right, so "Artifact Creature" is a creature.
var classOrder = []state.CardClass{
	state.ClassCreature,
	state.ClassPlaneswalker,
	state.ClassLand,
	state.ClassInstant,
	state.ClassSorcery,
	state.ClassArtifact,
	state.ClassEnchantment,
}

// ClassFromType picks the card class from a type line such as
// "Legendary Artifact Creature — Golem".
func ClassFromType(typeLine string) (state.CardClass, bool) {
	main, _, _ := strings.Cut(typeLine, "—")
	words := strings.Fields(main)
	for _, class := range classOrder {
		for _, w := range words {
			if strings.EqualFold(w, string(class)) {
				return class, true
			}
		}
	}
	return "", false
}

// ColorsFromCost derives colors from the pips of a mana cost.
func ColorsFromCost(cost string) []state.Color {
	parsed := mana.ParseCost(cost)
	colors := make([]state.Color, 0, 2)
	for _, pair := range []struct {
		mt    mana.ManaType
		color state.Color
	}{
		{mana.ManaWhite, state.ColorWhite},
		{mana.ManaBlue, state.ColorBlue},
		{mana.ManaBlack, state.ColorBlack},
		{mana.ManaRed, state.ColorRed},
		{mana.ManaGreen, state.ColorGreen},
	} {
		if parsed.Pips(pair.mt) > 0 {
			colors = append(colors, pair.color)
		}
	}
	if len(colors) == 0 {
		colors = append(colors, state.ColorColorless)
	}
	return colors
}

func (r cardRow) template() (*state.CardTemplate, error) {
	class, ok := ClassFromType(r.CardType)
	if !ok {
		return nil, fmt.Errorf("%w: card %s has unsupported type %q", state.ErrUnsupported, r.Name, r.CardType)
	}
	tmpl := &state.CardTemplate{
		ID:        int(r.ID),
		Slug:      Slug(r.Name),
		Name:      r.Name,
		Class:     class,
		Colors:    ColorsFromCost(r.ManaCost),
		ManaCost:  r.ManaCost,
		Text:      r.RulesText,
		Abilities: ParseKeywords(r.RulesText),
	}
	if class == state.ClassCreature {
		// "*" and friends read as 0
		p, _ := strconv.Atoi(strings.TrimSpace(r.Power))
		t, _ := strconv.Atoi(strings.TrimSpace(r.Toughness))
		tmpl.Power, tmpl.Toughness = state.Stats(p, t)
	}
	if symbol, ok := basicLands[r.Name]; ok && class == state.ClassLand {
		tmpl.Abilities = append(tmpl.Abilities, ManaAbility(symbol))
	}
	return tmpl, nil
}
