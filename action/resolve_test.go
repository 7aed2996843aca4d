package action

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"stratsim/game"
)

func testState() *game.RoundState {
	st := game.NewRoundState(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	st.Round = 1
	return st
}

func testRoster(budget float64, balance game.AssetBalance) game.Roster {
	p1 := game.NewParticipant("DeepCog", game.PrivateInfo{
		Balance: balance,
		Budget:  game.Budget{"2026": budget},
	}, game.PublicView{})
	p2 := game.NewParticipant("Axiom", game.PrivateInfo{
		Balance: game.AssetBalance{Technical: 8, Capital: 200000, Human: 40},
		Budget:  game.Budget{"2026": 1_000_000},
	}, game.PublicView{})
	return game.Roster{p1, p2}
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestCatalogKindsDeterministic(t *testing.T) {
	catalog := DefaultCatalog()
	first := catalog.Kinds()
	for i := 0; i < 5; i++ {
		require.Equal(t, first, catalog.Kinds())
	}
	require.Len(t, first, 10)
}

func TestCreateProjectValidation(t *testing.T) {
	st := testState()
	params := DefaultParams()

	t.Run("rejects insufficient assets without mutating", func(t *testing.T) {
		roster := testRoster(500_000, game.AssetBalance{Capital: 10})
		a := &CreateProject{
			By:             "DeepCog",
			Name:           "moonshot",
			TargetDate:     "2027-06-01",
			AnnualBudget:   100_000,
			RequiredAssets: game.AssetBalance{Capital: 999},
		}
		err := a.Validate(st, roster, &params)
		require.Error(t, err)
		require.Contains(t, err.Error(), "insufficient resources")
		require.Equal(t, game.AssetBalance{Capital: 10}, roster.Find("DeepCog").Private.Balance)
	})

	t.Run("rejects insufficient budget", func(t *testing.T) {
		roster := testRoster(50_000, game.AssetBalance{Capital: 999, Human: 20, Technical: 5})
		a := &CreateProject{
			By:             "DeepCog",
			Name:           "moonshot",
			TargetDate:     "2027-06-01",
			AnnualBudget:   100_000,
			RequiredAssets: game.AssetBalance{Capital: 100},
		}
		require.Error(t, a.Validate(st, roster, &params))
	})

	t.Run("rejects unknown initiator", func(t *testing.T) {
		roster := testRoster(500_000, game.AssetBalance{})
		a := &CreateProject{By: "Nexus", Name: "moonshot"}
		require.Error(t, a.Validate(st, roster, &params))
	})
}

func TestResolveCreateProjectDeductsExactly(t *testing.T) {
	st := testState()
	params := DefaultParams()
	required := game.AssetBalance{Technical: 2, Capital: 50, Human: 12}
	roster := testRoster(300_000, game.AssetBalance{Technical: 5, Capital: 100, Human: 30})

	a := &CreateProject{
		By:             "DeepCog",
		Name:           "moonshot",
		TargetDate:     "2027-06-01",
		AnnualBudget:   100_000,
		RequiredAssets: required,
	}
	updates := ResolveCreateProject([]Action{a}, st, roster, &params, testRNG())

	p := roster.Find("DeepCog")
	require.Equal(t, game.AssetBalance{Technical: 3, Capital: 50, Human: 18}, p.Private.Balance)
	require.Equal(t, 200_000.0, p.Private.Budget.Get("2026"))
	require.Len(t, p.Private.Projects, 1)
	require.Equal(t, game.ProjectActive, p.Private.Projects[0].Status)
	require.Zero(t, p.Private.Projects[0].Progress)
	require.Contains(t, updates["DeepCog"].Results[0], "Success:Created research project")
}

func TestResolveCreateProjectRechecksAffordability(t *testing.T) {
	st := testState()
	params := DefaultParams()

	// Earlier batches in the round may have drained resources after
	// validation passed, so the resolver re-checks and fails soft.
	t.Run("assets", func(t *testing.T) {
		roster := testRoster(300_000, game.AssetBalance{Capital: 10})
		a := &CreateProject{
			By:             "DeepCog",
			Name:           "moonshot",
			TargetDate:     "2027-06-01",
			AnnualBudget:   100_000,
			RequiredAssets: game.AssetBalance{Capital: 999},
		}
		updates := ResolveCreateProject([]Action{a}, st, roster, &params, testRNG())

		require.Contains(t, updates["DeepCog"].Results[0], "Fail:Insufficient resources")
		p := roster.Find("DeepCog")
		require.Equal(t, game.AssetBalance{Capital: 10}, p.Private.Balance)
		require.Equal(t, 300_000.0, p.Private.Budget.Get("2026"))
		require.Empty(t, p.Private.Projects)
	})

	t.Run("budget", func(t *testing.T) {
		roster := testRoster(50_000, game.AssetBalance{Capital: 999})
		a := &CreateProject{
			By:             "DeepCog",
			Name:           "moonshot",
			TargetDate:     "2027-06-01",
			AnnualBudget:   100_000,
			RequiredAssets: game.AssetBalance{Capital: 100},
		}
		updates := ResolveCreateProject([]Action{a}, st, roster, &params, testRNG())

		require.Contains(t, updates["DeepCog"].Results[0], "Fail:Insufficient budget")
		p := roster.Find("DeepCog")
		require.Equal(t, 50_000.0, p.Private.Budget.Get("2026"))
		require.Empty(t, p.Private.Projects)
	})
}

func TestResolveCreateProjectRealism(t *testing.T) {
	st := testState()
	params := DefaultParams()
	roster := testRoster(300_000, game.AssetBalance{Technical: 1, Capital: 1, Human: 1})

	// Resource weight of ~1.8 is well under the 10/day requirement.
	a := &CreateProject{
		By:             "DeepCog",
		Name:           "dream",
		TargetDate:     "2026-02-01",
		AnnualBudget:   1000,
		RequiredAssets: game.AssetBalance{Technical: 1, Capital: 1, Human: 1},
	}
	ResolveCreateProject([]Action{a}, st, roster, &params, testRNG())

	project := roster.Find("DeepCog").Private.Projects[0]
	require.Equal(t, st.CurrentDate.AddDate(0, 0, params.Project.ExtensionDays), project.TargetDate)
	require.NotEmpty(t, project.Notice)
}

func TestResolveCancelProjectRefunds(t *testing.T) {
	st := testState()
	params := DefaultParams()
	roster := testRoster(0, game.AssetBalance{})
	p := roster.Find("DeepCog")
	p.Private.Projects = append(p.Private.Projects, &game.ResearchProject{
		Name:            "moonshot",
		CommittedAssets: game.AssetBalance{Technical: 4, Capital: 20, Human: 10},
		Status:          game.ProjectActive,
	})

	a := &CancelProject{By: "DeepCog", Name: "moonshot"}
	updates := ResolveCancelProject([]Action{a}, st, roster, &params, testRNG())

	require.Equal(t, game.ProjectCancelled, p.Private.Projects[0].Status)
	require.Equal(t, game.AssetBalance{Technical: 2, Capital: 10, Human: 5}, p.Private.Balance)
	require.Contains(t, updates["DeepCog"].Results[0], "Success:Cancelled")
}

func TestResolveInvestCapital(t *testing.T) {
	st := testState()
	params := DefaultParams()
	roster := testRoster(1_000_000, game.AssetBalance{})

	a := &InvestCapital{By: "DeepCog", Amount: 500_000}
	ResolveInvestCapital([]Action{a}, st, roster, &params, testRNG())

	p := roster.Find("DeepCog")
	require.Equal(t, 500_000.0, p.Private.Budget.Get("2026"))
	require.Equal(t, 450_000.0, p.Private.Balance.Capital)
}

func TestResolveSellCapital(t *testing.T) {
	st := testState()
	params := DefaultParams()
	roster := testRoster(0, game.AssetBalance{Capital: 100_000})

	a := &SellCapital{By: "DeepCog", Amount: 100_000}
	ResolveSellCapital([]Action{a}, st, roster, &params, testRNG())

	p := roster.Find("DeepCog")
	require.Zero(t, p.Private.Balance.Capital)
	require.Equal(t, 70_000.0, p.Private.Budget.Get("2026"))
}

func TestResolvePoachTalent(t *testing.T) {
	st := testState()
	params := DefaultParams()
	// Force success.
	params.Poach.BaseRate = 1.0
	params.Poach.MaxRate = 1.0
	roster := testRoster(100_000, game.AssetBalance{})

	a := &PoachTalent{By: "DeepCog", Target: "Axiom", Budget: 50_000}
	ResolvePoachTalent([]Action{a}, st, roster, &params, testRNG())

	// 0.1 * 40 = 4.0, below the max transfer of 5.0.
	require.Equal(t, 4.0, roster.Find("DeepCog").Private.Balance.Human)
	require.Equal(t, 36.0, roster.Find("Axiom").Private.Balance.Human)
	require.Equal(t, 50_000.0, roster.Find("DeepCog").Private.Budget.Get("2026"))
}

func TestResolvePoachTalentCapped(t *testing.T) {
	st := testState()
	params := DefaultParams()
	params.Poach.BaseRate = 1.0
	params.Poach.MaxRate = 1.0
	roster := testRoster(100_000, game.AssetBalance{})
	roster.Find("Axiom").Private.Balance.Human = 200

	a := &PoachTalent{By: "DeepCog", Target: "Axiom", Budget: 50_000}
	ResolvePoachTalent([]Action{a}, st, roster, &params, testRNG())

	require.Equal(t, params.Poach.MaxTransfer, roster.Find("DeepCog").Private.Balance.Human)
}

func TestResolveEspionage(t *testing.T) {
	st := testState()

	t.Run("failure never alters target and is logged privately", func(t *testing.T) {
		params := DefaultParams()
		params.Espionage.BaseRate = 0
		params.Espionage.MaxRate = 0
		roster := testRoster(100_000, game.AssetBalance{})
		targetBefore := *roster.Find("Axiom")

		a := &Espionage{By: "DeepCog", Target: "Axiom", Budget: 10_000, Focus: "compute"}
		updates := ResolveEspionage([]Action{a}, st, roster, &params, testRNG())

		require.Equal(t, targetBefore.Private.Balance, roster.Find("Axiom").Private.Balance)
		require.NotContains(t, updates, "Axiom")
		require.Len(t, roster.Find("DeepCog").Private.Espionage, 1)
		require.False(t, roster.Find("DeepCog").Private.Espionage[0].Success)
		require.Equal(t, 90_000.0, roster.Find("DeepCog").Private.Budget.Get("2026"))
	})

	t.Run("success only surfaces via the initiator", func(t *testing.T) {
		params := DefaultParams()
		params.Espionage.BaseRate = 1.0
		params.Espionage.MaxRate = 1.0
		roster := testRoster(100_000, game.AssetBalance{})
		targetBefore := *roster.Find("Axiom")

		a := &Espionage{By: "DeepCog", Target: "Axiom", Budget: 10_000, Focus: "compute"}
		updates := ResolveEspionage([]Action{a}, st, roster, &params, testRNG())

		require.Equal(t, targetBefore.Private.Balance, roster.Find("Axiom").Private.Balance)
		require.NotContains(t, updates, "Axiom")
		require.True(t, roster.Find("DeepCog").Private.Espionage[0].Success)
		require.Contains(t, updates["DeepCog"].Results[0], "Success:Conducted espionage on Axiom")
	})
}

func TestTargetedActionsRejectSelf(t *testing.T) {
	st := testState()
	params := DefaultParams()
	roster := testRoster(100_000, game.AssetBalance{})

	cases := []Action{
		&Espionage{By: "DeepCog", Target: "DeepCog", Budget: 1000},
		&PoachTalent{By: "DeepCog", Target: "DeepCog", Budget: 1000},
		&BilateralMessage{By: "DeepCog", To: "DeepCog", Content: "hi"},
	}
	for _, a := range cases {
		err := a.Validate(st, roster, &params)
		require.Error(t, err, "kind %s should reject self-targeting", a.Kind())
		require.Contains(t, err.Error(), "yourself")
	}
}

func TestResolveMessage(t *testing.T) {
	st := testState()
	params := DefaultParams()
	roster := testRoster(0, game.AssetBalance{})

	a := &BilateralMessage{By: "DeepCog", To: "Axiom", Content: "let's coordinate"}
	updates := ResolveMessage([]Action{a}, st, roster, &params, testRNG())

	require.Len(t, roster.Find("Axiom").Inbox, 1)
	require.Equal(t, st.Round, roster.Find("Axiom").Inbox[0].Round)
	require.Len(t, updates["Axiom"].Messages, 1)
	require.NotContains(t, updates, "DeepCog")
}

func TestResolveFundraise(t *testing.T) {
	st := testState()

	t.Run("success credits amount times efficiency", func(t *testing.T) {
		params := DefaultParams()
		params.Fundraise.SuccessRate = 1.0
		roster := testRoster(0, game.AssetBalance{})

		a := &Fundraise{By: "DeepCog", Amount: 100_000}
		updates := ResolveFundraise([]Action{a}, st, roster, &params, testRNG())

		require.Equal(t, 80_000.0, roster.Find("DeepCog").Private.Budget.Get("2026"))
		require.Contains(t, updates["DeepCog"].Results[0], "Success:")
	})

	t.Run("failure leaves budget untouched", func(t *testing.T) {
		params := DefaultParams()
		params.Fundraise.SuccessRate = 0
		roster := testRoster(0, game.AssetBalance{})

		a := &Fundraise{By: "DeepCog", Amount: 100_000}
		updates := ResolveFundraise([]Action{a}, st, roster, &params, testRNG())

		require.Zero(t, roster.Find("DeepCog").Private.Budget.Get("2026"))
		require.Contains(t, updates["DeepCog"].Results[0], "Fail:")
	})
}

func TestResolveLobbyAndMarketing(t *testing.T) {
	st := testState()

	t.Run("lobby backfire is a failure with no extra penalty", func(t *testing.T) {
		params := DefaultParams()
		params.Lobby.BackfireRate = 1.0
		roster := testRoster(50_000, game.AssetBalance{})

		a := &Lobby{By: "DeepCog", Message: "regulate rivals", Budget: 20_000}
		updates := ResolveLobby([]Action{a}, st, roster, &params, testRNG())

		require.Equal(t, 30_000.0, roster.Find("DeepCog").Private.Budget.Get("2026"))
		require.Contains(t, updates["DeepCog"].Results[0], "Fail:Lobbying campaign backfired")
	})

	t.Run("marketing is a deterministic budget sink", func(t *testing.T) {
		params := DefaultParams()
		roster := testRoster(50_000, game.AssetBalance{})

		a := &Marketing{By: "DeepCog", Message: "we are winning", Budget: 20_000}
		updates := ResolveMarketing([]Action{a}, st, roster, &params, testRNG())

		require.Equal(t, 30_000.0, roster.Find("DeepCog").Private.Budget.Get("2026"))
		require.Contains(t, updates["DeepCog"].Results[0], "Success:")
	})
}
