// Package gamemaster implements the round engine: it collects proposals
// from all participants concurrently, arbitrates them through a bounded
// validate-and-revise loop, batch-resolves accepted actions kind by kind,
// runs the passive world processes, and builds the asymmetric
// per-participant broadcasts.
package gamemaster

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"stratsim/action"
	"stratsim/game"
	"stratsim/meta"
	"stratsim/transcript"
)

// Policy holds the engine knobs a scenario can tune.
type Policy struct {
	// MaxAttempts bounds validation attempts per action, initial proposal
	// included.
	MaxAttempts int `yaml:"max_attempts"`
	// ApplyExhausted accepts the last attempt as-is once retries run out
	// instead of dropping it.
	ApplyExhausted bool `yaml:"apply_exhausted_actions"`
	// RecurringProjectCharge debits each active project's committed budget
	// once per round after the creation round.
	RecurringProjectCharge bool    `yaml:"recurring_project_charge"`
	ProgressBase           float64 `yaml:"progress_base"`
	ProgressScaling        float64 `yaml:"progress_scaling"`
	ProgressMax            float64 `yaml:"progress_max"`
	LeakProbability        float64 `yaml:"leak_probability"`
	RandomEventProbability float64 `yaml:"random_event_probability"`
	EventWindow            int     `yaml:"event_window"`
	// ProposalTimeout is set programmatically; scenarios configure it in
	// seconds.
	ProposalTimeout time.Duration `yaml:"-"`
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:            meta.MAX_ATTEMPTS,
		RecurringProjectCharge: true,
		ProgressBase:           0.1,
		ProgressScaling:        100,
		ProgressMax:            0.3,
		LeakProbability:        0.05,
		RandomEventProbability: 0.1,
		EventWindow:            meta.EVENT_WINDOW,
		ProposalTimeout:        60 * time.Second,
	}
}

// Config bundles the optional pieces of a GameMaster. Zero values fall
// back to defaults.
type Config struct {
	Catalog      action.Catalog
	Params       *action.Params
	Policy       *Policy
	FixedEvents  map[int]string
	RandomEvents []string
	Transcript   *transcript.Writer
	Seed         uint64
}

// GameMaster owns the global round state and the roster, and is the only
// writer of participant truth.
type GameMaster struct {
	State     *game.RoundState
	Roster    game.Roster
	Proposers map[string]Proposer
	Catalog   action.Catalog
	Params    action.Params
	Policy    Policy

	FixedEvents  map[int]string
	RandomEvents []string
	Transcript   *transcript.Writer

	rng        *rand.Rand
	broadcasts map[string]game.Broadcast
}

func New(state *game.RoundState, roster game.Roster, proposers map[string]Proposer, cfg Config) *GameMaster {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = action.DefaultCatalog()
	}
	params := action.DefaultParams()
	if cfg.Params != nil {
		params = *cfg.Params
	}
	policy := DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &GameMaster{
		State:        state,
		Roster:       roster,
		Proposers:    proposers,
		Catalog:      catalog,
		Params:       params,
		Policy:       policy,
		FixedEvents:  cfg.FixedEvents,
		RandomEvents: cfg.RandomEvents,
		Transcript:   cfg.Transcript,
		rng:          rand.New(rand.NewSource(seed)),
		broadcasts:   map[string]game.Broadcast{},
	}
}

// InitialBroadcasts builds the round-zero briefing every participant gets
// before the first round: the others' public views plus any seeded public
// events, no action results.
func (gm *GameMaster) InitialBroadcasts() map[string]game.Broadcast {
	for _, p := range gm.Roster {
		gm.broadcasts[p.Name] = game.Broadcast{
			Round:            gm.State.Round,
			OtherPublicViews: gm.otherViews(p.Name),
			PublicEvents:     gm.State.RecentEvents(gm.Policy.EventWindow),
			GlobalSummary:    gm.State.LatestSummary(),
		}
	}
	return gm.broadcasts
}

// RunRound advances the simulation one round: collect and arbitrate
// proposals, batch-resolve by kind, tick projects, inject events, then
// broadcast. The returned map is what each participant learns.
func (gm *GameMaster) RunRound(ctx context.Context) (map[string]game.Broadcast, error) {
	gm.State.AdvanceRound()
	round := gm.State.Round
	log.Info().Int("round", round).Str("date", gm.dateString()).Msg("round starting")

	results := gm.collectProposals(ctx)

	updates := map[string]*game.ResultUpdate{}
	batches := map[action.Kind][]action.Action{}
	for _, p := range gm.Roster {
		res := results[p.Name]
		if res == nil {
			continue
		}
		for _, note := range res.rejections {
			appendResult(updates, p.Name, note)
		}
		for _, a := range res.accepted {
			batches[a.Kind()] = append(batches[a.Kind()], a)
		}
	}

	// Resolution is serialized, kinds in sorted tag order.
	for _, kind := range gm.Catalog.Kinds() {
		batch := batches[kind]
		if len(batch) == 0 {
			continue
		}
		game.MergeUpdates(updates, gm.Catalog[kind](batch, gm.State, gm.Roster, &gm.Params, gm.rng))
	}

	completed, progress := gm.tickProjects()
	eventStart := len(gm.State.PublicEvents)
	gm.injectEvents()
	gm.queueEspionageNotices()
	newEvents := gm.State.PublicEvents[eventStart:]

	for _, p := range gm.Roster {
		if upd := updates[p.Name]; upd != nil {
			p.RecordResults(upd.Results)
		}
	}

	summary := gm.buildSummary(updates, newEvents)
	gm.State.History = append(gm.State.History, summary)
	gm.record(updates, newEvents)

	broadcasts := map[string]game.Broadcast{}
	for _, p := range gm.Roster {
		b := game.Broadcast{
			Round:             round,
			PrivateNotices:    p.DrainNotices(),
			NewMessages:       p.MessagesForRound(round),
			OtherPublicViews:  gm.otherViews(p.Name),
			PublicEvents:      gm.State.RecentEvents(gm.Policy.EventWindow),
			CompletedProjects: completed[p.Name],
			ProjectProgress:   progress[p.Name],
			GlobalSummary:     summary,
		}
		if upd := updates[p.Name]; upd != nil {
			b.ActionResults = upd.Results
		}
		broadcasts[p.Name] = b
	}
	gm.broadcasts = broadcasts
	return broadcasts, nil
}

type proposalResult struct {
	accepted   []action.Action
	rejections []string
}

// collectProposals fans out to every proposer concurrently and runs the
// validate-and-revise loop per action. Validation only reads shared
// state; nothing mutates until all participants have joined.
func (gm *GameMaster) collectProposals(ctx context.Context) map[string]*proposalResult {
	var mu sync.Mutex
	var wg sync.WaitGroup
	results := map[string]*proposalResult{}

	for _, p := range gm.Roster {
		proposer, ok := gm.Proposers[p.Name]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(p *game.Participant, proposer Proposer) {
			defer wg.Done()
			res := gm.arbitrate(ctx, p, proposer)
			mu.Lock()
			results[p.Name] = res
			mu.Unlock()
		}(p, proposer)
	}
	wg.Wait()
	return results
}

func (gm *GameMaster) arbitrate(ctx context.Context, p *game.Participant, proposer Proposer) *proposalResult {
	cctx, cancel := context.WithTimeout(ctx, gm.Policy.ProposalTimeout)
	defer cancel()

	req := gm.request(p)
	proposed, err := proposer.Propose(cctx, req)
	if err != nil {
		log.Warn().Str("participant", p.Name).Err(err).Msg("proposal failed, sitting the round out")
		return &proposalResult{}
	}

	res := &proposalResult{}
	for _, a := range proposed {
		if a == nil {
			continue
		}
		if a.Initiator() != p.Name {
			res.rejections = append(res.rejections,
				fmt.Sprintf("Rejected:%s action claimed initiator '%s'", a.Kind(), a.Initiator()))
			continue
		}

		attempts := 1
		for {
			verr := a.Validate(gm.State, gm.Roster, &gm.Params)
			if verr == nil {
				res.accepted = append(res.accepted, a)
				break
			}
			if attempts >= gm.Policy.MaxAttempts {
				if gm.Policy.ApplyExhausted {
					res.accepted = append(res.accepted, a)
				} else {
					res.rejections = append(res.rejections,
						fmt.Sprintf("Rejected:%s action dropped after %d attempts: %s", a.Kind(), attempts, verr))
				}
				break
			}
			revised, rerr := proposer.Revise(cctx, RevisionRequest{
				ProposalRequest: req,
				Rejected:        a,
				Reason:          verr.Error(),
				Attempt:         attempts,
			})
			if rerr != nil || revised == nil || revised.Initiator() != p.Name {
				res.rejections = append(res.rejections,
					fmt.Sprintf("Rejected:%s action dropped: %s", a.Kind(), verr))
				break
			}
			a = revised
			attempts++
		}
	}
	return res
}

// tickProjects advances every active project and debits the recurring
// committed budget once per round after the creation round. A short
// budget skips the charge without failing the project.
func (gm *GameMaster) tickProjects() (completed map[string][]string, progress map[string]map[string]float64) {
	completed = map[string][]string{}
	progress = map[string]map[string]float64{}
	period := gm.State.PeriodKey()

	for _, p := range gm.Roster {
		for _, project := range p.Private.Projects {
			if project.Status != game.ProjectActive {
				continue
			}
			if gm.Policy.RecurringProjectCharge &&
				project.CreatedRound < gm.State.Round &&
				p.Private.Budget.Get(period) >= project.CommittedBudget {
				p.Private.Budget.Debit(period, project.CommittedBudget)
			}
			if project.Tick(gm.Policy.ProgressBase, gm.Policy.ProgressScaling, gm.Policy.ProgressMax) {
				completed[p.Name] = append(completed[p.Name], project.Name)
				p.AddNotice(fmt.Sprintf("Research project '%s' has been completed.", project.Name))
				gm.State.AddEvent(fmt.Sprintf("%s completed research project '%s'.", p.Name, project.Name))
			} else {
				if progress[p.Name] == nil {
					progress[p.Name] = map[string]float64{}
				}
				progress[p.Name][project.Name] = project.Progress
			}
		}
	}
	return completed, progress
}

// injectEvents runs the round's passive event sources: information leaks,
// the random event catalog, and scenario-fixed events.
func (gm *GameMaster) injectEvents() {
	if len(gm.Roster) > 0 && gm.rng.Float64() < gm.Policy.LeakProbability {
		p := gm.Roster[gm.rng.Intn(len(gm.Roster))]
		gm.State.AddEvent(fmt.Sprintf(
			"Leaked intelligence reports suggest %s has approximately $%.0f in budget and %.0f human resources.",
			p.Name, p.Private.CurrentBudget(gm.State.CurrentDate), p.Private.Balance.Human))
	}
	if len(gm.RandomEvents) > 0 && gm.rng.Float64() < gm.Policy.RandomEventProbability {
		gm.State.AddEvent(gm.RandomEvents[gm.rng.Intn(len(gm.RandomEvents))])
	}
	if event, ok := gm.FixedEvents[gm.State.Round]; ok {
		gm.State.AddEvent(event)
	}
}

// queueEspionageNotices turns this round's successful espionage attempts
// into private notices describing the target's truth as of now. Failures
// produce nothing, and targets never learn either way.
func (gm *GameMaster) queueEspionageNotices() {
	for _, p := range gm.Roster {
		for _, rec := range p.Private.Espionage {
			if rec.Round != gm.State.Round || !rec.Success {
				continue
			}
			target := gm.Roster.Find(rec.Target)
			if target == nil {
				continue
			}
			focus := ""
			if rec.Focus != "" {
				focus = fmt.Sprintf(" (focus: %s)", rec.Focus)
			}
			p.AddNotice(fmt.Sprintf(
				"Espionage on %s%s revealed: budget $%.0f, technical %.1f, capital $%.0f, %.1f human resources.",
				rec.Target, focus,
				target.Private.CurrentBudget(gm.State.CurrentDate),
				target.Private.Balance.Technical,
				target.Private.Balance.Capital,
				target.Private.Balance.Human))
		}
	}
}

func (gm *GameMaster) buildSummary(updates map[string]*game.ResultUpdate, events []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Round %d (%s) ===\n", gm.State.Round, gm.dateString())
	for _, p := range gm.Roster {
		fmt.Fprintf(&b, "%s:\n", p.Name)
		upd := updates[p.Name]
		if upd == nil || len(upd.Results) == 0 {
			b.WriteString("  - No actions this round\n")
			continue
		}
		for _, r := range upd.Results {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	if len(events) > 0 {
		b.WriteString("Public events:\n")
		for _, e := range events {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	return b.String()
}

// record emits the round to the transcript and one state line per
// participant to the log.
func (gm *GameMaster) record(updates map[string]*game.ResultUpdate, events []string) {
	date := gm.dateString()
	snapshots := map[string]transcript.Snapshot{}
	for _, p := range gm.Roster {
		budget := p.Private.CurrentBudget(gm.State.CurrentDate)
		snapshots[p.Name] = transcript.Snapshot{
			Budget:    budget,
			Technical: p.Private.Balance.Technical,
			Capital:   p.Private.Balance.Capital,
			Human:     p.Private.Balance.Human,
		}
		log.Info().
			Int("round", gm.State.Round).
			Str("participant", p.Name).
			Float64("budget", budget).
			Float64("technical", p.Private.Balance.Technical).
			Float64("capital", p.Private.Balance.Capital).
			Float64("human", p.Private.Balance.Human).
			Msg("game state")
	}
	if gm.Transcript == nil {
		return
	}
	resultMap := map[string][]string{}
	for name, upd := range updates {
		resultMap[name] = upd.Results
	}
	if err := gm.Transcript.WriteRound(transcript.RoundRecord{
		Round:   gm.State.Round,
		Date:    date,
		Results: resultMap,
		Events:  events,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to write round record")
	}
	if err := gm.Transcript.WriteState(transcript.StateRecord{
		Round:        gm.State.Round,
		Date:         date,
		Participants: snapshots,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to write state record")
	}
}

func (gm *GameMaster) request(p *game.Participant) ProposalRequest {
	return ProposalRequest{
		Participant: p.Name,
		Round:       gm.State.Round,
		Date:        gm.dateString(),
		Self:        p.Private,
		Briefing:    gm.broadcasts[p.Name],
	}
}

func (gm *GameMaster) otherViews(exclude string) map[string]game.PublicView {
	views := map[string]game.PublicView{}
	for _, p := range gm.Roster {
		if p.Name != exclude {
			views[p.Name] = p.Public
		}
	}
	return views
}

func (gm *GameMaster) dateString() string {
	return gm.State.CurrentDate.Format("2006-01-02")
}

func appendResult(updates map[string]*game.ResultUpdate, name, result string) {
	upd, ok := updates[name]
	if !ok {
		upd = &game.ResultUpdate{}
		updates[name] = upd
	}
	upd.Results = append(upd.Results, result)
}
