// Package watchers tallies what happened in a game by observing the events
// derived from successive snapshots.
package watchers

import (
	"sync"

	"github.com/manaforge/engine/internal/game/event"
)

// Scope defines when a watcher forgets what it has seen.
type Scope int

const (
	// ScopeGame keeps counts for the whole game.
	ScopeGame Scope = iota
	// ScopeTurn clears counts whenever a new turn starts.
	ScopeTurn
)

func (s Scope) String() string {
	switch s {
	case ScopeGame:
		return "GAME"
	case ScopeTurn:
		return "TURN"
	default:
		return "UNKNOWN"
	}
}

// Watcher observes events and tracks a condition.
type Watcher interface {
	Watch(evt event.Event)
	Reset()
	ConditionMet() bool
	Scope() Scope
	Key() string
}

type base struct {
	scope     Scope
	key       string
	condition bool
}

func (b *base) Scope() Scope        { return b.scope }
func (b *base) Key() string         { return b.key }
func (b *base) ConditionMet() bool  { return b.condition }
func (b *base) reset()              { b.condition = false }
func (b *base) setCondition(v bool) { b.condition = v }

func keyFor(name string, scope Scope) string {
	if scope == ScopeTurn {
		return name + "/turn"
	}
	return name
}

// SpellsCastWatcher tracks spells cast per player.
type SpellsCastWatcher struct {
	base
	spellsCast map[string][]string
}

// NewSpellsCastWatcher creates a spells cast watcher.
func NewSpellsCastWatcher(scope Scope) *SpellsCastWatcher {
	return &SpellsCastWatcher{
		base:       base{scope: scope, key: keyFor("SpellsCast", scope)},
		spellsCast: make(map[string][]string),
	}
}

func (w *SpellsCastWatcher) Watch(evt event.Event) {
	if evt.Type != event.SpellCast || evt.PlayerID == "" || evt.CardID == "" {
		return
	}
	w.spellsCast[evt.PlayerID] = append(w.spellsCast[evt.PlayerID], evt.CardID)
	w.setCondition(true)
}

func (w *SpellsCastWatcher) Reset() {
	w.reset()
	w.spellsCast = make(map[string][]string)
}

// SpellsCast returns the instance ids cast by a player, in order.
func (w *SpellsCastWatcher) SpellsCast(playerID string) []string {
	return w.spellsCast[playerID]
}

// Count returns the number of spells cast by a player.
func (w *SpellsCastWatcher) Count(playerID string) int {
	return len(w.spellsCast[playerID])
}

// CreaturesDiedWatcher counts creatures put into a graveyard from the
// battlefield, by owner.
type CreaturesDiedWatcher struct {
	base
	byOwner map[string]int
}

// NewCreaturesDiedWatcher creates a creatures died watcher.
func NewCreaturesDiedWatcher(scope Scope) *CreaturesDiedWatcher {
	return &CreaturesDiedWatcher{
		base:    base{scope: scope, key: keyFor("CreaturesDied", scope)},
		byOwner: make(map[string]int),
	}
}

func (w *CreaturesDiedWatcher) Watch(evt event.Event) {
	if evt.Type != event.CreatureDied {
		return
	}
	w.byOwner[evt.PlayerID]++
	w.setCondition(true)
}

func (w *CreaturesDiedWatcher) Reset() {
	w.reset()
	w.byOwner = make(map[string]int)
}

// AmountByOwner returns how many of the owner's creatures died.
func (w *CreaturesDiedWatcher) AmountByOwner(ownerID string) int {
	return w.byOwner[ownerID]
}

// Total returns the number of creatures that died.
func (w *CreaturesDiedWatcher) Total() int {
	total := 0
	for _, n := range w.byOwner {
		total += n
	}
	return total
}

// CardsDrawnWatcher counts cards drawn per player.
type CardsDrawnWatcher struct {
	base
	drawn map[string]int
}

// NewCardsDrawnWatcher creates a cards drawn watcher.
func NewCardsDrawnWatcher(scope Scope) *CardsDrawnWatcher {
	return &CardsDrawnWatcher{
		base:  base{scope: scope, key: keyFor("CardsDrawn", scope)},
		drawn: make(map[string]int),
	}
}

func (w *CardsDrawnWatcher) Watch(evt event.Event) {
	if evt.Type != event.CardDrawn {
		return
	}
	w.drawn[evt.PlayerID]++
	w.setCondition(true)
}

func (w *CardsDrawnWatcher) Reset() {
	w.reset()
	w.drawn = make(map[string]int)
}

// Count returns the number of cards a player drew.
func (w *CardsDrawnWatcher) Count(playerID string) int {
	return w.drawn[playerID]
}

// LifeWatcher sums life lost and gained per player.
type LifeWatcher struct {
	base
	lost   map[string]int
	gained map[string]int
}

// NewLifeWatcher creates a life watcher.
func NewLifeWatcher(scope Scope) *LifeWatcher {
	return &LifeWatcher{
		base:   base{scope: scope, key: keyFor("Life", scope)},
		lost:   make(map[string]int),
		gained: make(map[string]int),
	}
}

func (w *LifeWatcher) Watch(evt event.Event) {
	if evt.Type != event.LifeChanged || evt.Amount == 0 {
		return
	}
	if evt.Amount < 0 {
		w.lost[evt.PlayerID] -= evt.Amount
	} else {
		w.gained[evt.PlayerID] += evt.Amount
	}
	w.setCondition(true)
}

func (w *LifeWatcher) Reset() {
	w.reset()
	w.lost = make(map[string]int)
	w.gained = make(map[string]int)
}

// Lost returns the total life a player lost.
func (w *LifeWatcher) Lost(playerID string) int { return w.lost[playerID] }

// Gained returns the total life a player gained.
func (w *LifeWatcher) Gained(playerID string) int { return w.gained[playerID] }

// Set feeds events to a group of watchers and clears turn-scoped ones at
// the start of each turn. It is safe for concurrent use.
type Set struct {
	mu       sync.Mutex
	watchers []Watcher
	byKey    map[string]Watcher
}

// NewSet creates a set holding ws.
func NewSet(ws ...Watcher) *Set {
	s := &Set{byKey: make(map[string]Watcher)}
	for _, w := range ws {
		s.Add(w)
	}
	return s
}

// Add registers a watcher, replacing any with the same key.
func (s *Set) Add(w Watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byKey[w.Key()]; ok {
		for i, existing := range s.watchers {
			if existing == old {
				s.watchers = append(s.watchers[:i:i], s.watchers[i+1:]...)
				break
			}
		}
	}
	s.byKey[w.Key()] = w
	s.watchers = append(s.watchers, w)
}

// Get returns the watcher registered under key.
func (s *Set) Get(key string) (Watcher, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.byKey[key]
	return w, ok
}

// Watch delivers one event to every watcher.
func (s *Set) Watch(evt event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.watchers {
		if evt.Type == event.TurnStarted && w.Scope() == ScopeTurn {
			w.Reset()
		}
		w.Watch(evt)
	}
}

// Attach subscribes the set to bus and returns the subscription handle.
func (s *Set) Attach(bus *event.Bus) int {
	return bus.Subscribe(s.Watch)
}
