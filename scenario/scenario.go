// Package scenario loads a simulation setup from YAML: the roster with
// starting state, event sources, action parameters and engine policy.
// Validation is fatal at load time so a bad file never reaches round one.
package scenario

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"stratsim/action"
	"stratsim/communication/client"
	"stratsim/game"
	"stratsim/gamemaster"
	"stratsim/player"
	"stratsim/transcript"
)

type ParticipantConfig struct {
	Name    string           `yaml:"name"`
	Private game.PrivateInfo `yaml:"private"`
	Public  game.PublicView  `yaml:"public"`
	// RemoteURL points at a decision service driving this participant;
	// empty means the built-in scripted proposer.
	RemoteURL string `yaml:"remote_url"`
}

type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	StartDate   string `yaml:"start_date"`
	Rounds      int    `yaml:"rounds"`
	Seed        uint64 `yaml:"seed"`

	Participants []ParticipantConfig `yaml:"participants"`

	InitialEvents []string       `yaml:"initial_events"`
	FixedEvents   map[int]string `yaml:"fixed_events"`
	RandomEvents  []string       `yaml:"random_events"`

	Params action.Params     `yaml:"action_params"`
	Policy gamemaster.Policy `yaml:"policy"`
	// ProposalTimeoutSeconds overrides the engine's per-participant
	// proposal deadline.
	ProposalTimeoutSeconds int `yaml:"proposal_timeout_seconds"`
}

// Load reads and validates a scenario file. Absent knobs keep their
// defaults; a validation failure is meant to abort the run.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s := &Scenario{
		Params: action.DefaultParams(),
		Policy: gamemaster.DefaultPolicy(),
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return s, nil
}

func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario needs a name")
	}
	if _, err := s.startDate(); err != nil {
		return err
	}
	if s.Rounds < 0 {
		return fmt.Errorf("rounds must not be negative")
	}
	if len(s.Participants) < 2 {
		return fmt.Errorf("need at least two participants, got %d", len(s.Participants))
	}
	seen := map[string]bool{}
	for i, p := range s.Participants {
		if p.Name == "" {
			return fmt.Errorf("participant %d has no name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate participant name '%s'", p.Name)
		}
		seen[p.Name] = true
	}
	for name, prob := range map[string]float64{
		"leak_probability":         s.Policy.LeakProbability,
		"random_event_probability": s.Policy.RandomEventProbability,
	} {
		if prob < 0 || prob > 1 {
			return fmt.Errorf("%s must be in [0,1], got %g", name, prob)
		}
	}
	if s.Policy.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1")
	}
	for round := range s.FixedEvents {
		if round < 1 {
			return fmt.Errorf("fixed event keyed to invalid round %d", round)
		}
	}
	return nil
}

func (s *Scenario) startDate() (time.Time, error) {
	if s.StartDate == "" {
		return time.Time{}, fmt.Errorf("scenario needs a start_date")
	}
	t, err := time.Parse("2006-01-02", s.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable start_date %q", s.StartDate)
	}
	return t, nil
}

// Build assembles the game master from a validated scenario. Participants
// with a remote_url are driven over HTTP; the rest use the scripted
// proposer.
func (s *Scenario) Build(tw *transcript.Writer) (*gamemaster.GameMaster, error) {
	start, err := s.startDate()
	if err != nil {
		return nil, err
	}
	state := game.NewRoundState(start)
	for _, event := range s.InitialEvents {
		state.AddEvent(event)
	}

	roster := make(game.Roster, 0, len(s.Participants))
	proposers := map[string]gamemaster.Proposer{}
	for _, pc := range s.Participants {
		roster = append(roster, game.NewParticipant(pc.Name, pc.Private, pc.Public))
		if pc.RemoteURL != "" {
			proposers[pc.Name] = client.NewRemoteProposer(pc.RemoteURL)
		} else {
			proposers[pc.Name] = player.NewScripted(pc.Name)
		}
	}

	policy := s.Policy
	if s.ProposalTimeoutSeconds > 0 {
		policy.ProposalTimeout = time.Duration(s.ProposalTimeoutSeconds) * time.Second
	}

	return gamemaster.New(state, roster, proposers, gamemaster.Config{
		Params:       &s.Params,
		Policy:       &policy,
		FixedEvents:  s.FixedEvents,
		RandomEvents: s.RandomEvents,
		Transcript:   tw,
		Seed:         s.Seed,
	}), nil
}

// Default is a small built-in AI development race, used when no scenario
// file is given.
func Default() *Scenario {
	return &Scenario{
		Name:        "ai-race-baseline",
		Description: "Two frontier labs and a fast follower racing on capability.",
		StartDate:   "2026-01-01",
		Rounds:      3,
		Seed:        1,
		Participants: []ParticipantConfig{
			{
				Name: "DeepCog",
				Private: game.PrivateInfo{
					Balance:    game.AssetBalance{Technical: 60, Capital: 500_000, Human: 45},
					Objectives: "Reach frontier capability first.",
					Strategy:   "Outspend rivals on compute.",
					Budget:     game.Budget{"2026": 2_000_000},
				},
				Public: game.PublicView{
					Balance:    game.AssetBalance{Technical: 55, Capital: 400_000, Human: 40},
					Objectives: "Advance science for everyone.",
				},
			},
			{
				Name: "Axiom",
				Private: game.PrivateInfo{
					Balance:    game.AssetBalance{Technical: 50, Capital: 350_000, Human: 38},
					Objectives: "Close the capability gap within a year.",
					Strategy:   "Recruit aggressively, partner where possible.",
					Budget:     game.Budget{"2026": 1_500_000},
				},
				Public: game.PublicView{
					Balance:    game.AssetBalance{Technical: 50, Capital: 350_000, Human: 38},
					Objectives: "Build reliable, safe systems.",
				},
			},
			{
				Name: "Zenith Labs",
				Private: game.PrivateInfo{
					Balance:    game.AssetBalance{Technical: 35, Capital: 200_000, Human: 25},
					Objectives: "Survive and find a defensible niche.",
					Strategy:   "Stay lean, license what we cannot build.",
					Budget:     game.Budget{"2026": 800_000},
				},
				Public: game.PublicView{
					Balance:    game.AssetBalance{Technical: 40, Capital: 250_000, Human: 30},
					Objectives: "Democratize access to AI.",
				},
			},
		},
		RandomEvents: []string{
			"A major cloud provider announces steep GPU price increases.",
			"Regulators open a consultation on frontier model licensing.",
			"A high-profile open-source release shifts public expectations.",
		},
		Params: action.DefaultParams(),
		Policy: gamemaster.DefaultPolicy(),
	}
}
