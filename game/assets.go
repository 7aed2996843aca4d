package game

import "time"

// AssetBalance represents a participant's asset balance. Immutable value
// type: Add and Subtract return new balances. Subtraction is a primitive,
// not a validated transaction - affordability checks are the caller's job.
type AssetBalance struct {
	Technical float64 `json:"technical_capability" yaml:"technical_capability"`
	Capital   float64 `json:"capital" yaml:"capital"`
	Human     float64 `json:"human" yaml:"human"`
}

func (a AssetBalance) Add(b AssetBalance) AssetBalance {
	return AssetBalance{
		Technical: a.Technical + b.Technical,
		Capital:   a.Capital + b.Capital,
		Human:     a.Human + b.Human,
	}
}

func (a AssetBalance) Subtract(b AssetBalance) AssetBalance {
	return AssetBalance{
		Technical: a.Technical - b.Technical,
		Capital:   a.Capital - b.Capital,
		Human:     a.Human - b.Human,
	}
}

// Scale multiplies every component by f (used for partial refunds).
func (a AssetBalance) Scale(f float64) AssetBalance {
	return AssetBalance{
		Technical: a.Technical * f,
		Capital:   a.Capital * f,
		Human:     a.Human * f,
	}
}

// Covers reports whether a is componentwise at least req.
func (a AssetBalance) Covers(req AssetBalance) bool {
	return a.Technical >= req.Technical &&
		a.Capital >= req.Capital &&
		a.Human >= req.Human
}

// Budget maps a period key (calendar year, e.g. "2026") to a spendable
// amount. Reads for an unknown period return zero, never an error; writes
// create the period on demand.
type Budget map[string]float64

// PeriodKey derives the budget period key for a date.
func PeriodKey(t time.Time) string {
	return t.Format("2006")
}

func (b Budget) Get(period string) float64 {
	return b[period]
}

func (b Budget) Credit(period string, amount float64) {
	b[period] += amount
}

// Debit subtracts amount from the period, creating it on demand. Like
// AssetBalance.Subtract it does not guard against overdraft.
func (b Budget) Debit(period string, amount float64) {
	b[period] -= amount
}

func (b Budget) Copy() Budget {
	out := make(Budget, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
