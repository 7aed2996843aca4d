package action

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"

	"stratsim/game"
)

// Catalog maps every action kind to its batch resolver. Each kind's
// resolver is independently swappable.
type Catalog map[Kind]BatchResolver

// DefaultCatalog returns the full set of built-in resolvers.
func DefaultCatalog() Catalog {
	return Catalog{
		KindFundraise:     ResolveFundraise,
		KindCreateProject: ResolveCreateProject,
		KindCancelProject: ResolveCancelProject,
		KindInvestCapital: ResolveInvestCapital,
		KindSellCapital:   ResolveSellCapital,
		KindEspionage:     ResolveEspionage,
		KindPoachTalent:   ResolvePoachTalent,
		KindLobby:         ResolveLobby,
		KindMarketing:     ResolveMarketing,
		KindMessage:       ResolveMessage,
	}
}

// Kinds returns the catalog's kinds sorted by tag, giving a deterministic
// per-run resolution order.
func (c Catalog) Kinds() []Kind {
	kinds := make([]Kind, 0, len(c))
	for k := range c {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func appendResult(updates map[string]*game.ResultUpdate, name, result string) {
	upd, ok := updates[name]
	if !ok {
		upd = &game.ResultUpdate{}
		updates[name] = upd
	}
	upd.Results = append(upd.Results, result)
}

// ResolveFundraise processes all fundraising actions: Bernoulli success,
// crediting amount*efficiency to the current period on success.
func ResolveFundraise(batch []Action, st *game.RoundState, roster game.Roster, params *Params, rng *rand.Rand) map[string]*game.ResultUpdate {
	updates := map[string]*game.ResultUpdate{}
	for _, a := range batch {
		fr, ok := a.(*Fundraise)
		if !ok {
			continue
		}
		p := roster.Find(fr.By)
		if p == nil {
			continue
		}
		if rng.Float64() < params.Fundraise.SuccessRate {
			received := fr.Amount * params.Fundraise.Efficiency
			p.Private.Budget.Credit(st.PeriodKey(), received)
			appendResult(updates, p.Name, fmt.Sprintf("Success:Fundraised $%.0f", received))
		} else {
			appendResult(updates, p.Name, fmt.Sprintf("Fail:Fundraising attempt for $%.0f was unsuccessful", fr.Amount))
		}
	}
	return updates
}

// ResolveCreateProject processes all project creation actions. Affordability
// is re-checked here even though validation already did (defense in depth):
// earlier batches in the same round may have drained the budget.
func ResolveCreateProject(batch []Action, st *game.RoundState, roster game.Roster, params *Params, rng *rand.Rand) map[string]*game.ResultUpdate {
	updates := map[string]*game.ResultUpdate{}
	for _, a := range batch {
		cp, ok := a.(*CreateProject)
		if !ok {
			continue
		}
		p := roster.Find(cp.By)
		if p == nil {
			continue
		}
		if !p.Private.Balance.Covers(cp.RequiredAssets) {
			appendResult(updates, p.Name, fmt.Sprintf("Fail:Insufficient resources to start research project '%s'", cp.Name))
			continue
		}
		period := st.PeriodKey()
		if p.Private.Budget.Get(period) < cp.AnnualBudget {
			appendResult(updates, p.Name, fmt.Sprintf("Fail:Insufficient budget for research project '%s'", cp.Name))
			continue
		}

		target, err := parseTargetDate(cp.TargetDate)
		if err != nil {
			target = st.CurrentDate.AddDate(0, 0, params.Project.ExtensionDays)
		}

		project := &game.ResearchProject{
			Name:            cp.Name,
			Description:     cp.Description,
			TargetDate:      target,
			CommittedBudget: cp.AnnualBudget,
			CommittedAssets: cp.RequiredAssets,
			Status:          game.ProjectActive,
			CreatedRound:    st.Round,
		}
		assessRealism(project, st.CurrentDate, params.Project)

		p.Private.Balance = p.Private.Balance.Subtract(cp.RequiredAssets)
		p.Private.Budget.Debit(period, cp.AnnualBudget)
		p.Private.Projects = append(p.Private.Projects, project)

		appendResult(updates, p.Name, fmt.Sprintf("Success:Created research project '%s'", cp.Name))
	}
	return updates
}

func parseTargetDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// assessRealism extends an unrealistic target date. A project needs at
// least MinResourceWeight resource-days per day of timeline, where the
// resource weight is human + 0.5*technical + 0.3*capital.
func assessRealism(p *game.ResearchProject, now time.Time, params ProjectParams) {
	days := p.TargetDate.Sub(now).Hours() / 24
	weight := p.CommittedAssets.Human +
		p.CommittedAssets.Technical*0.5 +
		p.CommittedAssets.Capital*0.3
	if weight*days < params.MinResourceWeight*days {
		p.TargetDate = now.AddDate(0, 0, params.ExtensionDays)
		p.Notice = "Timeline extended to be more realistic given available resources."
	}
}

// ResolveCancelProject cancels active projects, refunding committed assets
// at the configured rate.
func ResolveCancelProject(batch []Action, st *game.RoundState, roster game.Roster, params *Params, rng *rand.Rand) map[string]*game.ResultUpdate {
	updates := map[string]*game.ResultUpdate{}
	for _, a := range batch {
		cp, ok := a.(*CancelProject)
		if !ok {
			continue
		}
		p := roster.Find(cp.By)
		if p == nil {
			continue
		}
		project := p.Private.ActiveProject(cp.Name)
		if project == nil {
			appendResult(updates, p.Name, fmt.Sprintf("Fail:Could not find active research project '%s'", cp.Name))
			continue
		}
		refund := project.Cancel(params.Project.RefundRate)
		p.Private.Balance = p.Private.Balance.Add(refund)
		appendResult(updates, p.Name, fmt.Sprintf("Success:Cancelled research project '%s'", cp.Name))
	}
	return updates
}

// ResolveInvestCapital converts budget to capital at the invest efficiency.
func ResolveInvestCapital(batch []Action, st *game.RoundState, roster game.Roster, params *Params, rng *rand.Rand) map[string]*game.ResultUpdate {
	updates := map[string]*game.ResultUpdate{}
	for _, a := range batch {
		inv, ok := a.(*InvestCapital)
		if !ok {
			continue
		}
		p := roster.Find(inv.By)
		if p == nil {
			continue
		}
		period := st.PeriodKey()
		if p.Private.Budget.Get(period) < inv.Amount {
			appendResult(updates, p.Name, fmt.Sprintf("Fail:Insufficient budget for capital investment of $%.0f", inv.Amount))
			continue
		}
		p.Private.Budget.Debit(period, inv.Amount)
		p.Private.Balance.Capital += inv.Amount * params.Invest.Efficiency
		appendResult(updates, p.Name, fmt.Sprintf("Success:Invested $%.0f in capital improvements", inv.Amount))
	}
	return updates
}

// ResolveSellCapital converts capital to budget at the sell efficiency.
func ResolveSellCapital(batch []Action, st *game.RoundState, roster game.Roster, params *Params, rng *rand.Rand) map[string]*game.ResultUpdate {
	updates := map[string]*game.ResultUpdate{}
	for _, a := range batch {
		sell, ok := a.(*SellCapital)
		if !ok {
			continue
		}
		p := roster.Find(sell.By)
		if p == nil {
			continue
		}
		if p.Private.Balance.Capital < sell.Amount {
			appendResult(updates, p.Name, fmt.Sprintf("Fail:Insufficient capital to sell $%.0f", sell.Amount))
			continue
		}
		p.Private.Balance.Capital -= sell.Amount
		p.Private.Budget.Credit(st.PeriodKey(), sell.Amount*params.Sell.Efficiency)
		appendResult(updates, p.Name, fmt.Sprintf("Success:Sold $%.0f in capital assets", sell.Amount))
	}
	return updates
}

// ResolveEspionage deducts budget and records an attempt in the initiator's
// private espionage log regardless of outcome. Failures never alter the
// target and are never visible to it.
func ResolveEspionage(batch []Action, st *game.RoundState, roster game.Roster, params *Params, rng *rand.Rand) map[string]*game.ResultUpdate {
	updates := map[string]*game.ResultUpdate{}
	for _, a := range batch {
		esp, ok := a.(*Espionage)
		if !ok {
			continue
		}
		p := roster.Find(esp.By)
		if p == nil {
			continue
		}
		if roster.Find(esp.Target) == nil {
			appendResult(updates, p.Name, fmt.Sprintf("Fail:Espionage target '%s' not found", esp.Target))
			continue
		}
		period := st.PeriodKey()
		if p.Private.Budget.Get(period) < esp.Budget {
			appendResult(updates, p.Name, "Fail:Insufficient budget for espionage")
			continue
		}
		p.Private.Budget.Debit(period, esp.Budget)

		success := rng.Float64() < params.Espionage.SuccessProbability(esp.Budget)
		p.Private.Espionage = append(p.Private.Espionage, game.EspionageRecord{
			Target:  esp.Target,
			Focus:   esp.Focus,
			Budget:  esp.Budget,
			Success: success,
			Round:   st.Round,
		})
		log.Debug().Str("initiator", p.Name).Str("target", esp.Target).Bool("success", success).Msg("espionage attempt")

		tag := "Fail"
		if success {
			tag = "Success"
		}
		appendResult(updates, p.Name, fmt.Sprintf("%s:Conducted espionage on %s", tag, esp.Target))
	}
	return updates
}

// ResolvePoachTalent deducts budget and, on success, transfers
// min(target.human * transferRate, maxTransfer) human capital from the
// target to the initiator.
func ResolvePoachTalent(batch []Action, st *game.RoundState, roster game.Roster, params *Params, rng *rand.Rand) map[string]*game.ResultUpdate {
	updates := map[string]*game.ResultUpdate{}
	for _, a := range batch {
		poach, ok := a.(*PoachTalent)
		if !ok {
			continue
		}
		p := roster.Find(poach.By)
		if p == nil {
			continue
		}
		target := roster.Find(poach.Target)
		if target == nil {
			appendResult(updates, p.Name, fmt.Sprintf("Fail:Target '%s' not found", poach.Target))
			continue
		}
		period := st.PeriodKey()
		if p.Private.Budget.Get(period) < poach.Budget {
			appendResult(updates, p.Name, "Fail:Insufficient budget for poaching")
			continue
		}
		p.Private.Budget.Debit(period, poach.Budget)

		if rng.Float64() < params.Poach.SuccessProbability(poach.Budget) {
			transfer := target.Private.Balance.Human * params.Poach.TransferRate
			if transfer > params.Poach.MaxTransfer {
				transfer = params.Poach.MaxTransfer
			}
			target.Private.Balance.Human -= transfer
			p.Private.Balance.Human += transfer
			appendResult(updates, p.Name, fmt.Sprintf("Success:Poached talent from %s (gained %.1f human resources)", poach.Target, transfer))
		} else {
			appendResult(updates, p.Name, fmt.Sprintf("Fail:Poaching attempt on %s", poach.Target))
		}
	}
	return updates
}

// ResolveLobby deducts budget; a small configured chance of backfire turns
// the campaign into a failure with no additional penalty.
func ResolveLobby(batch []Action, st *game.RoundState, roster game.Roster, params *Params, rng *rand.Rand) map[string]*game.ResultUpdate {
	updates := map[string]*game.ResultUpdate{}
	for _, a := range batch {
		lobby, ok := a.(*Lobby)
		if !ok {
			continue
		}
		p := roster.Find(lobby.By)
		if p == nil {
			continue
		}
		period := st.PeriodKey()
		if p.Private.Budget.Get(period) < lobby.Budget {
			appendResult(updates, p.Name, "Fail:Insufficient budget for lobbying")
			continue
		}
		p.Private.Budget.Debit(period, lobby.Budget)

		if rng.Float64() < params.Lobby.BackfireRate {
			appendResult(updates, p.Name, fmt.Sprintf("Fail:Lobbying campaign backfired: %s", lobby.Message))
		} else {
			appendResult(updates, p.Name, fmt.Sprintf("Success:Launched lobbying campaign: %s", lobby.Message))
		}
	}
	return updates
}

// ResolveMarketing deducts budget deterministically.
func ResolveMarketing(batch []Action, st *game.RoundState, roster game.Roster, params *Params, rng *rand.Rand) map[string]*game.ResultUpdate {
	updates := map[string]*game.ResultUpdate{}
	for _, a := range batch {
		mkt, ok := a.(*Marketing)
		if !ok {
			continue
		}
		p := roster.Find(mkt.By)
		if p == nil {
			continue
		}
		period := st.PeriodKey()
		if p.Private.Budget.Get(period) < mkt.Budget {
			appendResult(updates, p.Name, "Fail:Insufficient budget for marketing")
			continue
		}
		p.Private.Budget.Debit(period, mkt.Budget)
		appendResult(updates, p.Name, fmt.Sprintf("Success:Launched marketing campaign: %s", mkt.Message))
	}
	return updates
}

// ResolveMessage delivers bilateral messages into recipient inboxes, dated
// to the current round. Recorded in the update for the recipient only.
func ResolveMessage(batch []Action, st *game.RoundState, roster game.Roster, params *Params, rng *rand.Rand) map[string]*game.ResultUpdate {
	updates := map[string]*game.ResultUpdate{}
	for _, a := range batch {
		bm, ok := a.(*BilateralMessage)
		if !ok {
			continue
		}
		target := roster.Find(bm.To)
		if target == nil {
			continue
		}
		msg := game.Message{
			From:      bm.By,
			To:        bm.To,
			Content:   bm.Content,
			Timestamp: st.CurrentDate,
			Round:     st.Round,
		}
		target.AddMessage(msg)

		upd, ok := updates[target.Name]
		if !ok {
			upd = &game.ResultUpdate{}
			updates[target.Name] = upd
		}
		upd.Messages = append(upd.Messages, msg)
	}
	return updates
}
