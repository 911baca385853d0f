package counters

import "sort"

// Counters holds the counters on a card in play. The two power/toughness
// boost kinds are plain fields; every other kind lives in Named.
type Counters struct {
	PlusOne  int
	MinusOne int
	Named    map[string]int
}

// Add adds amount counters of the given kind. Non-positive amounts are ignored.
func (cs *Counters) Add(kind CounterType, amount int) {
	if amount <= 0 {
		return
	}
	switch kind {
	case CounterTypeP1P1:
		cs.PlusOne += amount
	case CounterTypeM1M1:
		cs.MinusOne += amount
	default:
		if cs.Named == nil {
			cs.Named = make(map[string]int)
		}
		cs.Named[string(kind)] += amount
	}
}

// Remove removes up to amount counters of the given kind and reports whether
// any were removed. Counts never drop below zero.
func (cs *Counters) Remove(kind CounterType, amount int) bool {
	if amount <= 0 {
		return false
	}
	current := cs.Get(kind)
	if current == 0 {
		return false
	}
	next := max(current-amount, 0)

	switch kind {
	case CounterTypeP1P1:
		cs.PlusOne = next
	case CounterTypeM1M1:
		cs.MinusOne = next
	default:
		if next == 0 {
			delete(cs.Named, string(kind))
		} else {
			cs.Named[string(kind)] = next
		}
	}
	return true
}

// Get returns the count of counters of the given kind.
func (cs Counters) Get(kind CounterType) int {
	switch kind {
	case CounterTypeP1P1:
		return cs.PlusOne
	case CounterTypeM1M1:
		return cs.MinusOne
	default:
		return cs.Named[string(kind)]
	}
}

// Has returns true if there are any counters of the given kind.
func (cs Counters) Has(kind CounterType) bool {
	return cs.Get(kind) > 0
}

// Total returns the number of counters of every kind.
func (cs Counters) Total() int {
	total := cs.PlusOne + cs.MinusOne
	for _, n := range cs.Named {
		total += n
	}
	return total
}

// Names returns the named counter kinds present, sorted.
func (cs Counters) Names() []string {
	names := make([]string, 0, len(cs.Named))
	for name := range cs.Named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Copy creates a deep copy of the counters.
func (cs Counters) Copy() Counters {
	cpy := Counters{PlusOne: cs.PlusOne, MinusOne: cs.MinusOne}
	if len(cs.Named) > 0 {
		cpy.Named = make(map[string]int, len(cs.Named))
		for name, n := range cs.Named {
			cpy.Named[name] = n
		}
	}
	return cpy
}
