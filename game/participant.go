package game

import (
	"time"

	"stratsim/meta"
	"stratsim/utils"
)

// PrivateInfo is a participant's ground truth: real balances, budget,
// projects and espionage log. Owned exclusively by the participant's state
// and mutated only by the round engine's batch resolvers.
type PrivateInfo struct {
	Balance    AssetBalance       `json:"true_asset_balance" yaml:"balance"`
	Objectives string             `json:"objectives" yaml:"objectives"`
	Strategy   string             `json:"strategy" yaml:"strategy"`
	Budget     Budget             `json:"budget" yaml:"budget"`
	Espionage  []EspionageRecord  `json:"espionage,omitempty" yaml:"-"`
	Projects   []*ResearchProject `json:"projects,omitempty" yaml:"-"`
}

// CurrentBudget returns the spendable budget for the period of date.
func (pi *PrivateInfo) CurrentBudget(date time.Time) float64 {
	return pi.Budget.Get(PeriodKey(date))
}

// ActiveProject finds an active project by name, or nil.
func (pi *PrivateInfo) ActiveProject(name string) *ResearchProject {
	for _, p := range pi.Projects {
		if p.Name == name && p.Status == ProjectActive {
			return p
		}
	}
	return nil
}

// PublicView is the participant-controlled self-description others see.
// The engine never synchronizes it with PrivateInfo - divergence is a
// feature, participants may misrepresent themselves.
type PublicView struct {
	Balance    AssetBalance `json:"asset_balance" yaml:"balance"`
	Objectives string       `json:"stated_objectives" yaml:"objectives"`
	Strategy   string       `json:"stated_strategy" yaml:"strategy"`
	Artifacts  []string     `json:"public_artifacts,omitempty" yaml:"artifacts,omitempty"`
}

// Participant is one strategic actor: identity, truth, public image,
// inbox, a bounded history of recent action results, and private notices
// pending delivery in the next broadcast.
type Participant struct {
	Name           string
	Private        PrivateInfo
	Public         PublicView
	Inbox          []Message
	RecentResults  []string
	PendingNotices []string
}

func NewParticipant(name string, private PrivateInfo, public PublicView) *Participant {
	if private.Budget == nil {
		private.Budget = Budget{}
	}
	return &Participant{
		Name:    name,
		Private: private,
		Public:  public,
	}
}

// AddMessage delivers a message into the inbox.
func (p *Participant) AddMessage(m Message) {
	p.Inbox = append(p.Inbox, m)
}

// MessagesForRound returns inbox messages dated to a specific round.
func (p *Participant) MessagesForRound(round int) []Message {
	var out []Message
	for _, m := range p.Inbox {
		if m.Round == round {
			out = append(out, m)
		}
	}
	return out
}

// RecordResults appends action results to the rolling history, trimming to
// the configured window.
func (p *Participant) RecordResults(results []string) {
	p.RecentResults = append(p.RecentResults, results...)
	p.RecentResults = utils.LastN(p.RecentResults, meta.RESULT_HISTORY)
}

// AddNotice queues a private notice for the next broadcast.
func (p *Participant) AddNotice(notice string) {
	p.PendingNotices = append(p.PendingNotices, notice)
}

// DrainNotices returns and clears all pending private notices.
func (p *Participant) DrainNotices() []string {
	out := p.PendingNotices
	p.PendingNotices = nil
	return out
}

// Roster is the set of participants in a run. Participants are created at
// scenario setup and never destroyed mid-run.
type Roster []*Participant

// Find returns the participant by name, or nil.
func (r Roster) Find(name string) *Participant {
	for _, p := range r {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r Roster) Names() []string {
	names := make([]string, len(r))
	for i, p := range r {
		names[i] = p.Name
	}
	return names
}

// OtherNames returns every participant name except the given one.
func (r Roster) OtherNames(exclude string) []string {
	var names []string
	for _, p := range r {
		if p.Name != exclude {
			names = append(names, p.Name)
		}
	}
	return names
}
