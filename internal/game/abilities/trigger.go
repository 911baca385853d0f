package abilities

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/manaforge/engine/internal/game/state"
)

// TriggerKind is the game moment a triggered ability listens for. It is
// matched against the ability's "on" parameter.
type TriggerKind string

const (
	TriggerETB    TriggerKind = "ETB"
	TriggerDies   TriggerKind = "DIES"
	TriggerAttack TriggerKind = "ATTACK"
	TriggerBlock  TriggerKind = "BLOCK"
)

// TriggerParam is the ability parameter naming the trigger kind.
const TriggerParam = "on"

// Handler applies the effect of a triggered ability to gs. gs is a working
// copy owned by the caller and may be modified in place.
type Handler func(gs *state.GameState, source *state.CardInPlay, ability state.Ability) error

type registration struct {
	id      string
	code    string
	handler Handler
}

// Registry maps ability codes to effect handlers. The zero-handler registry
// detects triggers and does nothing with them.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]registration),
	}
}

// Register installs the handler for an ability code, replacing any previous
// one, and returns a registration id.
func (r *Registry) Register(code string, handler Handler) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.handlers[code] = registration{id: id, code: code, handler: handler}
	return id
}

// Unregister removes a handler by registration id.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, reg := range r.handlers {
		if reg.id == id {
			delete(r.handlers, code)
			return
		}
	}
}

// Codes returns the registered ability codes in sorted order.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.handlers))
	for code := range r.handlers {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Matching returns the card's triggered abilities that listen for kind, in
// template order.
func Matching(card *state.CardInPlay, kind TriggerKind) []state.Ability {
	if card == nil || card.Template == nil {
		return nil
	}
	var out []state.Ability
	for _, ability := range card.Template.Abilities {
		if ability.Kind != state.AbilityTriggered {
			continue
		}
		if TriggerKind(ability.Params[TriggerParam]) == kind {
			out = append(out, ability)
		}
	}
	return out
}

// Fire runs the handlers for card's abilities that trigger on kind, in
// template order, and stops at the first error. Abilities without a
// registered handler are skipped. A nil registry fires nothing.
func (r *Registry) Fire(gs *state.GameState, card *state.CardInPlay, kind TriggerKind) error {
	if r == nil {
		return nil
	}
	for _, ability := range Matching(card, kind) {
		r.mu.RLock()
		reg, ok := r.handlers[ability.Code]
		r.mu.RUnlock()
		if !ok || reg.handler == nil {
			continue
		}
		if err := reg.handler(gs, card, ability); err != nil {
			return fmt.Errorf("trigger %s of %s: %w", ability.Code, card.InstanceID, err)
		}
	}
	return nil
}
