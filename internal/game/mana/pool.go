package mana

// ManaType represents a type of mana.
type ManaType string

const (
	ManaWhite     ManaType = "WHITE"
	ManaBlue      ManaType = "BLUE"
	ManaBlack     ManaType = "BLACK"
	ManaRed       ManaType = "RED"
	ManaGreen     ManaType = "GREEN"
	ManaColorless ManaType = "COLORLESS"
)

// Types lists every mana type in canonical W, U, B, R, G, C order.
var Types = []ManaType{ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen, ManaColorless}

// Symbol returns the single-letter symbol used in cost strings.
func (mt ManaType) Symbol() string {
	switch mt {
	case ManaWhite:
		return "W"
	case ManaBlue:
		return "U"
	case ManaBlack:
		return "B"
	case ManaRed:
		return "R"
	case ManaGreen:
		return "G"
	case ManaColorless:
		return "C"
	default:
		return ""
	}
}

// TypeForSymbol maps a cost letter (case-insensitive) to its mana type.
func TypeForSymbol(r rune) (ManaType, bool) {
	switch r {
	case 'W', 'w':
		return ManaWhite, true
	case 'U', 'u':
		return ManaBlue, true
	case 'B', 'b':
		return ManaBlack, true
	case 'R', 'r':
		return ManaRed, true
	case 'G', 'g':
		return ManaGreen, true
	case 'C', 'c':
		return ManaColorless, true
	default:
		return "", false
	}
}

// Pool is a player's mana pool. It is a plain value: every operation returns
// a new pool and never modifies its argument.
type Pool struct {
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
}

// NewPool creates a new empty mana pool.
func NewPool() Pool {
	return Pool{}
}

// Get returns the amount of a single mana type.
func (p Pool) Get(mt ManaType) int {
	switch mt {
	case ManaWhite:
		return p.White
	case ManaBlue:
		return p.Blue
	case ManaBlack:
		return p.Black
	case ManaRed:
		return p.Red
	case ManaGreen:
		return p.Green
	case ManaColorless:
		return p.Colorless
	default:
		return 0
	}
}

// With returns a copy of the pool with the given mana type set to amount.
func (p Pool) With(mt ManaType, amount int) Pool {
	switch mt {
	case ManaWhite:
		p.White = amount
	case ManaBlue:
		p.Blue = amount
	case ManaBlack:
		p.Black = amount
	case ManaRed:
		p.Red = amount
	case ManaGreen:
		p.Green = amount
	case ManaColorless:
		p.Colorless = amount
	}
	return p
}

// Total returns the total mana count across all types.
func (p Pool) Total() int {
	return p.White + p.Blue + p.Black + p.Red + p.Green + p.Colorless
}

// Add returns pool plus delta, type by type.
func Add(pool, delta Pool) Pool {
	return Pool{
		White:     pool.White + delta.White,
		Blue:      pool.Blue + delta.Blue,
		Black:     pool.Black + delta.Black,
		Red:       pool.Red + delta.Red,
		Green:     pool.Green + delta.Green,
		Colorless: pool.Colorless + delta.Colorless,
	}
}

// Empty returns a fresh empty pool. The argument is ignored.
func Empty(Pool) Pool {
	return Pool{}
}

// Total returns the total mana in pool.
func Total(pool Pool) int {
	return pool.Total()
}
