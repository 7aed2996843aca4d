package player

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stratsim/action"
	"stratsim/game"
	"stratsim/gamemaster"
)

// Scripted is a deterministic rule-based proposer: invest surplus budget,
// fundraise when short, and periodically reach out to another
// participant. Useful for tests and offline runs in place of an external
// decision service.
type Scripted struct {
	Name string
	// InvestThreshold is the budget above which the surplus is invested.
	InvestThreshold float64
	InvestFraction  float64
	FundraiseAmount float64
	// MessageEvery sends a greeting every N rounds; zero disables it.
	MessageEvery int
}

func NewScripted(name string) *Scripted {
	return &Scripted{
		Name:            name,
		InvestThreshold: 500_000,
		InvestFraction:  0.5,
		FundraiseAmount: 250_000,
		MessageEvery:    3,
	}
}

func (s *Scripted) Propose(ctx context.Context, req gamemaster.ProposalRequest) ([]action.Action, error) {
	budget, err := s.currentBudget(req)
	if err != nil {
		return nil, err
	}

	var actions []action.Action
	if budget > s.InvestThreshold {
		actions = append(actions, &action.InvestCapital{
			By:     s.Name,
			Amount: (budget - s.InvestThreshold) * s.InvestFraction,
		})
	} else {
		actions = append(actions, &action.Fundraise{
			By:     s.Name,
			Amount: s.FundraiseAmount,
		})
	}

	if s.MessageEvery > 0 && req.Round%s.MessageEvery == 0 {
		if other := firstOther(req.Briefing); other != "" {
			actions = append(actions, &action.BilateralMessage{
				By:      s.Name,
				To:      other,
				Content: fmt.Sprintf("Round %d check-in from %s.", req.Round, s.Name),
			})
		}
	}
	return actions, nil
}

// Revise halves the spend on the rejected action. Anything without an
// obvious cheaper variant is given up on.
func (s *Scripted) Revise(ctx context.Context, req gamemaster.RevisionRequest) (action.Action, error) {
	switch a := req.Rejected.(type) {
	case *action.InvestCapital:
		return &action.InvestCapital{By: s.Name, Amount: a.Amount / 2}, nil
	case *action.Fundraise:
		return &action.Fundraise{By: s.Name, Amount: a.Amount / 2}, nil
	case *action.Espionage:
		return &action.Espionage{By: s.Name, Target: a.Target, Budget: a.Budget / 2, Focus: a.Focus}, nil
	case *action.PoachTalent:
		return &action.PoachTalent{By: s.Name, Target: a.Target, Budget: a.Budget / 2}, nil
	default:
		return nil, nil
	}
}

func (s *Scripted) currentBudget(req gamemaster.ProposalRequest) (float64, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return 0, fmt.Errorf("unparseable briefing date %q: %w", req.Date, err)
	}
	return req.Self.Budget.Get(game.PeriodKey(date)), nil
}

func firstOther(b game.Broadcast) string {
	names := make([]string, 0, len(b.OtherPublicViews))
	for name := range b.OtherPublicViews {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
