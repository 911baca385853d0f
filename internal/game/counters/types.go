package counters

// CounterType names a kind of counter.
type CounterType string

const (
	// Power/toughness boost counters
	CounterTypeP1P1 CounterType = "+1/+1"
	CounterTypeM1M1 CounterType = "-1/-1"

	CounterTypeLoyalty CounterType = "loyalty"
	CounterTypePoison  CounterType = "poison"
	CounterTypeCharge  CounterType = "charge"
	CounterTypeTime    CounterType = "time"
	CounterTypeShield  CounterType = "shield"
	CounterTypeStun    CounterType = "stun"
)

// String returns the string representation of the counter type.
func (ct CounterType) String() string {
	return string(ct)
}

// IsBoost reports whether the kind modifies power and toughness.
func (ct CounterType) IsBoost() bool {
	return ct == CounterTypeP1P1 || ct == CounterTypeM1M1
}
