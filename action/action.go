// Package action defines the closed set of action kinds participants can
// propose, each owning its validation rule and its batch resolution rule
// against the economic model.
package action

import (
	"fmt"

	"golang.org/x/exp/rand"

	"stratsim/game"
)

// Kind discriminates the closed set of action variants.
type Kind string

const (
	KindFundraise     Kind = "fundraise"
	KindCreateProject Kind = "create_research_project"
	KindCancelProject Kind = "cancel_research_project"
	KindInvestCapital Kind = "invest_capital"
	KindSellCapital   Kind = "sell_capital"
	KindEspionage     Kind = "espionage"
	KindPoachTalent   Kind = "poach_talent"
	KindLobby         Kind = "lobby"
	KindMarketing     Kind = "marketing"
	KindMessage       Kind = "bilateral_message"
)

// Action is a single structured intent proposed by a participant for the
// current round. Validate may read global state and participants but never
// writes; the error it returns is a plain-text reason meant to be fed back
// through the correction loop.
type Action interface {
	Kind() Kind
	Initiator() string
	Validate(st *game.RoundState, roster game.Roster, params *Params) error
}

// BatchResolver applies all accepted actions of one kind together in a
// single pass, mutating the economic model and participant truth, and
// returns per-participant result updates.
type BatchResolver func(batch []Action, st *game.RoundState, roster game.Roster, params *Params, rng *rand.Rand) map[string]*game.ResultUpdate

func lookupInitiator(name string, roster game.Roster) (*game.Participant, error) {
	p := roster.Find(name)
	if p == nil {
		return nil, fmt.Errorf("participant '%s' not found", name)
	}
	return p, nil
}

// checkTarget validates that a targeted participant exists and is not the
// initiator itself.
func checkTarget(initiator, target string, roster game.Roster) error {
	if target == "" {
		return fmt.Errorf("a target participant is required")
	}
	if target == initiator {
		return fmt.Errorf("cannot target yourself")
	}
	if roster.Find(target) == nil {
		return fmt.Errorf("target participant '%s' not found", target)
	}
	return nil
}

// checkBudget validates the initiator can afford cost in the current period.
func checkBudget(p *game.Participant, st *game.RoundState, cost float64, what string) error {
	if p.Private.Budget.Get(st.PeriodKey()) < cost {
		return fmt.Errorf("insufficient budget for %s", what)
	}
	return nil
}
