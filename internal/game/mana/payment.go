package mana

// genericOrder is the order in which leftover mana is spent on generic costs.
var genericOrder = []ManaType{ManaColorless, ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen}

// CanPay reports whether pool covers cost.
// Colored pips must be paid with exactly that type; generic may use any
// mana left after the pips are taken out.
func CanPay(pool Pool, cost Cost) bool {
	colored := 0
	for _, mt := range Types {
		need := cost.Pips(mt)
		if pool.Get(mt) < need {
			return false
		}
		colored += need
	}
	return pool.Total()-colored >= cost.Generic
}

// Pay returns the pool left after paying cost. Colored pips are deducted
// directly, then generic is taken from colorless first and afterwards from
// W, U, B, R, G in that order. The boolean is false when the cost cannot be
// paid, in which case the returned pool must not be used.
func Pay(pool Pool, cost Cost) (Pool, bool) {
	if !CanPay(pool, cost) {
		return Pool{}, false
	}

	paid := pool
	for _, mt := range Types {
		paid = paid.With(mt, paid.Get(mt)-cost.Pips(mt))
	}

	remaining := cost.Generic
	for _, mt := range genericOrder {
		if remaining == 0 {
			break
		}
		spend := min(paid.Get(mt), remaining)
		paid = paid.With(mt, paid.Get(mt)-spend)
		remaining -= spend
	}

	return paid, true
}
