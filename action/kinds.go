package action

import (
	"fmt"

	"stratsim/game"
)

// Fundraise requests additional budget for the current period.
type Fundraise struct {
	By          string  `json:"-"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

func (a *Fundraise) Kind() Kind        { return KindFundraise }
func (a *Fundraise) Initiator() string { return a.By }

func (a *Fundraise) Validate(st *game.RoundState, roster game.Roster, params *Params) error {
	if _, err := lookupInitiator(a.By, roster); err != nil {
		return err
	}
	if a.Amount <= 0 {
		return fmt.Errorf("fundraising requires a positive amount")
	}
	return nil
}

// CreateProject starts a new research project, committing assets and an
// annual budget that are deducted from the owner at creation.
type CreateProject struct {
	By             string            `json:"-"`
	Name           string            `json:"project_name"`
	Description    string            `json:"description,omitempty"`
	TargetDate     string            `json:"target_completion_date"` // ISO date
	AnnualBudget   float64           `json:"annual_budget"`
	RequiredAssets game.AssetBalance `json:"required_assets"`
}

func (a *CreateProject) Kind() Kind        { return KindCreateProject }
func (a *CreateProject) Initiator() string { return a.By }

func (a *CreateProject) Validate(st *game.RoundState, roster game.Roster, params *Params) error {
	p, err := lookupInitiator(a.By, roster)
	if err != nil {
		return err
	}
	if a.Name == "" {
		return fmt.Errorf("research project requires a name")
	}
	if !p.Private.Balance.Covers(a.RequiredAssets) {
		return fmt.Errorf("insufficient resources for research project '%s'", a.Name)
	}
	return checkBudget(p, st, a.AnnualBudget, fmt.Sprintf("research project '%s'", a.Name))
}

// CancelProject cancels an active project owned by the initiator, with a
// partial refund of the committed assets.
type CancelProject struct {
	By   string `json:"-"`
	Name string `json:"project_name"`
}

func (a *CancelProject) Kind() Kind        { return KindCancelProject }
func (a *CancelProject) Initiator() string { return a.By }

func (a *CancelProject) Validate(st *game.RoundState, roster game.Roster, params *Params) error {
	p, err := lookupInitiator(a.By, roster)
	if err != nil {
		return err
	}
	if a.Name == "" {
		return fmt.Errorf("cancelling requires a project name")
	}
	if p.Private.ActiveProject(a.Name) == nil {
		return fmt.Errorf("active research project '%s' not found", a.Name)
	}
	return nil
}

// InvestCapital converts current-period budget into capital assets.
type InvestCapital struct {
	By          string  `json:"-"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

func (a *InvestCapital) Kind() Kind        { return KindInvestCapital }
func (a *InvestCapital) Initiator() string { return a.By }

func (a *InvestCapital) Validate(st *game.RoundState, roster game.Roster, params *Params) error {
	p, err := lookupInitiator(a.By, roster)
	if err != nil {
		return err
	}
	if a.Amount <= 0 {
		return fmt.Errorf("capital investment requires a positive amount")
	}
	return checkBudget(p, st, a.Amount, "capital investment")
}

// SellCapital converts capital assets back into current-period budget.
type SellCapital struct {
	By     string  `json:"-"`
	Amount float64 `json:"amount"`
}

func (a *SellCapital) Kind() Kind        { return KindSellCapital }
func (a *SellCapital) Initiator() string { return a.By }

func (a *SellCapital) Validate(st *game.RoundState, roster game.Roster, params *Params) error {
	p, err := lookupInitiator(a.By, roster)
	if err != nil {
		return err
	}
	if a.Amount <= 0 {
		return fmt.Errorf("selling capital requires a positive amount")
	}
	if p.Private.Balance.Capital < a.Amount {
		return fmt.Errorf("insufficient capital to sell")
	}
	return nil
}

// Espionage spends budget to try to uncover a target's private state.
type Espionage struct {
	By     string  `json:"-"`
	Target string  `json:"target_player"`
	Budget float64 `json:"budget"`
	Focus  string  `json:"focus,omitempty"`
}

func (a *Espionage) Kind() Kind        { return KindEspionage }
func (a *Espionage) Initiator() string { return a.By }

func (a *Espionage) Validate(st *game.RoundState, roster game.Roster, params *Params) error {
	p, err := lookupInitiator(a.By, roster)
	if err != nil {
		return err
	}
	if err := checkTarget(a.By, a.Target, roster); err != nil {
		return err
	}
	if a.Budget <= 0 {
		return fmt.Errorf("espionage requires a positive budget")
	}
	return checkBudget(p, st, a.Budget, "espionage")
}

// PoachTalent spends budget to try to transfer human capital away from a
// target participant.
type PoachTalent struct {
	By     string  `json:"-"`
	Target string  `json:"target"`
	Budget float64 `json:"budget"`
}

func (a *PoachTalent) Kind() Kind        { return KindPoachTalent }
func (a *PoachTalent) Initiator() string { return a.By }

func (a *PoachTalent) Validate(st *game.RoundState, roster game.Roster, params *Params) error {
	p, err := lookupInitiator(a.By, roster)
	if err != nil {
		return err
	}
	if err := checkTarget(a.By, a.Target, roster); err != nil {
		return err
	}
	if a.Budget <= 0 {
		return fmt.Errorf("poaching requires a positive budget")
	}
	return checkBudget(p, st, a.Budget, "poaching")
}

// Lobby spends budget on influence, with a small chance of backfiring.
type Lobby struct {
	By      string  `json:"-"`
	Message string  `json:"message"`
	Budget  float64 `json:"budget"`
}

func (a *Lobby) Kind() Kind        { return KindLobby }
func (a *Lobby) Initiator() string { return a.By }

func (a *Lobby) Validate(st *game.RoundState, roster game.Roster, params *Params) error {
	p, err := lookupInitiator(a.By, roster)
	if err != nil {
		return err
	}
	if a.Budget <= 0 {
		return fmt.Errorf("lobbying requires a positive budget")
	}
	return checkBudget(p, st, a.Budget, "lobbying")
}

// Marketing spends budget on a public campaign. Deterministic: purely a
// budget sink tied to a message.
type Marketing struct {
	By      string  `json:"-"`
	Message string  `json:"message"`
	Budget  float64 `json:"budget"`
}

func (a *Marketing) Kind() Kind        { return KindMarketing }
func (a *Marketing) Initiator() string { return a.By }

func (a *Marketing) Validate(st *game.RoundState, roster game.Roster, params *Params) error {
	p, err := lookupInitiator(a.By, roster)
	if err != nil {
		return err
	}
	if a.Budget <= 0 {
		return fmt.Errorf("marketing requires a positive budget")
	}
	return checkBudget(p, st, a.Budget, "marketing")
}

// BilateralMessage delivers a private message to another participant. No
// cost.
type BilateralMessage struct {
	By      string `json:"-"`
	To      string `json:"to_character"`
	Content string `json:"content"`
}

func (a *BilateralMessage) Kind() Kind        { return KindMessage }
func (a *BilateralMessage) Initiator() string { return a.By }

func (a *BilateralMessage) Validate(st *game.RoundState, roster game.Roster, params *Params) error {
	if _, err := lookupInitiator(a.By, roster); err != nil {
		return err
	}
	return checkTarget(a.By, a.To, roster)
}
