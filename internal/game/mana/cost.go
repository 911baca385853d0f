package mana

import (
	"math"
	"strconv"
	"strings"
)

// Cost represents a parsed mana cost.
type Cost struct {
	Generic   int
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
}

// Pips returns the colored requirement for a single mana type.
func (c Cost) Pips(mt ManaType) int {
	return c.colored().Get(mt)
}

func (c Cost) colored() Pool {
	return Pool{
		White:     c.White,
		Blue:      c.Blue,
		Black:     c.Black,
		Red:       c.Red,
		Green:     c.Green,
		Colorless: c.Colorless,
	}
}

// CMC returns the converted mana cost: generic plus every colored pip.
func (c Cost) CMC() int {
	return saturatingAdd(c.Generic, c.colored().Total())
}

// IsZero reports whether the cost requires no mana at all.
func (c Cost) IsZero() bool {
	return c.CMC() == 0
}

// String returns the canonical representation of the cost.
func (c Cost) String() string {
	return Format(c)
}

// ParseCost parses a mana cost string such as "2RR", "{1}{G}" or "12U".
//
// The string is scanned left to right. Every run of digits is read as one
// number and added to the generic requirement, so "12" is twelve. Each of the
// letters W, U, B, R, G and C adds one pip of that type. Anything else,
// including braces and hybrid or Phyrexian notation, is ignored. Generic
// amounts too large for an int saturate at math.MaxInt, which no pool can pay.
func ParseCost(costStr string) Cost {
	var (
		cost   Cost
		digits strings.Builder
	)

	flush := func() {
		if digits.Len() == 0 {
			return
		}
		n, err := strconv.Atoi(digits.String())
		if err != nil {
			// Only digits reach here, so the run is out of range.
			n = math.MaxInt
		}
		cost.Generic = saturatingAdd(cost.Generic, n)
		digits.Reset()
	}

	for _, r := range costStr {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			continue
		}
		flush()
		if mt, ok := TypeForSymbol(r); ok {
			cost = cost.addPip(mt)
		}
	}
	flush()

	return cost
}

func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func (c Cost) addPip(mt ManaType) Cost {
	switch mt {
	case ManaWhite:
		c.White++
	case ManaBlue:
		c.Blue++
	case ManaBlack:
		c.Black++
	case ManaRed:
		c.Red++
	case ManaGreen:
		c.Green++
	case ManaColorless:
		c.Colorless++
	}
	return c
}

// CMC returns the converted mana cost of cost.
func CMC(cost Cost) int {
	return cost.CMC()
}

// Format renders cost canonically: generic digits first, then one letter per
// pip in W, U, B, R, G, C order. An empty cost renders as "0".
func Format(cost Cost) string {
	if cost.IsZero() {
		return "0"
	}

	var b strings.Builder
	if cost.Generic > 0 {
		b.WriteString(strconv.Itoa(cost.Generic))
	}
	for _, mt := range Types {
		b.WriteString(strings.Repeat(mt.Symbol(), cost.Pips(mt)))
	}
	return b.String()
}
