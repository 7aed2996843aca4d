package action

// Params holds the scenario-tunable knobs for every action kind. Rates are
// parameters, not hard-coded constants, so scenarios can tune them.
type Params struct {
	Fundraise FundraiseParams `yaml:"fundraise"`
	Invest    ConvertParams   `yaml:"invest_capital"`
	Sell      ConvertParams   `yaml:"sell_capital"`
	Espionage CovertParams    `yaml:"espionage"`
	Poach     PoachParams     `yaml:"poach_talent"`
	Lobby     LobbyParams     `yaml:"lobby"`
	Project   ProjectParams   `yaml:"research_project"`
}

type FundraiseParams struct {
	SuccessRate float64 `yaml:"success_rate"`
	Efficiency  float64 `yaml:"efficiency"` // fraction of the requested amount received
}

// ConvertParams covers both budget->capital and capital->budget conversion.
// Both directions are deliberately lossy to disincentivize arbitrage loops.
type ConvertParams struct {
	Efficiency float64 `yaml:"efficiency"`
}

// CovertParams shapes the success probability of covert actions:
// min(base + budget/scaling, max).
type CovertParams struct {
	BaseRate float64 `yaml:"base_rate"`
	Scaling  float64 `yaml:"budget_scaling"`
	MaxRate  float64 `yaml:"max_rate"`
}

// SuccessProbability computes the budget-scaled success probability.
func (c CovertParams) SuccessProbability(budget float64) float64 {
	p := c.BaseRate + budget/c.Scaling
	if p > c.MaxRate {
		return c.MaxRate
	}
	return p
}

type PoachParams struct {
	CovertParams `yaml:",inline"`
	TransferRate float64 `yaml:"transfer_rate"` // fraction of the target's human capital moved
	MaxTransfer  float64 `yaml:"max_transfer"`
}

type LobbyParams struct {
	BackfireRate float64 `yaml:"backfire_rate"`
}

type ProjectParams struct {
	RefundRate float64 `yaml:"refund_rate"`
	// Realism assessment: a project needs at least MinResourceWeight
	// resource-days per day of timeline, else the target date is pushed
	// out by ExtensionDays from the current date.
	MinResourceWeight float64 `yaml:"min_resource_weight"`
	ExtensionDays     int     `yaml:"extension_days"`
}

// DefaultParams returns the baseline tuning used when a scenario does not
// override a knob.
func DefaultParams() Params {
	return Params{
		Fundraise: FundraiseParams{SuccessRate: 0.7, Efficiency: 0.8},
		Invest:    ConvertParams{Efficiency: 0.9},
		Sell:      ConvertParams{Efficiency: 0.7},
		Espionage: CovertParams{BaseRate: 0.3, Scaling: 1_000_000, MaxRate: 0.8},
		Poach: PoachParams{
			CovertParams: CovertParams{BaseRate: 0.2, Scaling: 500_000, MaxRate: 0.6},
			TransferRate: 0.1,
			MaxTransfer:  5.0,
		},
		Lobby: LobbyParams{BackfireRate: 0.1},
		Project: ProjectParams{
			RefundRate:        0.5,
			MinResourceWeight: 10,
			ExtensionDays:     365,
		},
	}
}
