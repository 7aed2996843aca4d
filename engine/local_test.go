package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stratsim/action"
	"stratsim/game"
	"stratsim/gamemaster"
	"stratsim/player"
)

func newTestEngine(t *testing.T, rounds int) *Engine {
	t.Helper()
	state := game.NewRoundState(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	roster := game.Roster{
		game.NewParticipant("DeepCog", game.PrivateInfo{
			Balance: game.AssetBalance{Technical: 50, Capital: 200_000, Human: 40},
			Budget:  game.Budget{"2026": 1_000_000},
		}, game.PublicView{}),
		game.NewParticipant("Axiom", game.PrivateInfo{
			Balance: game.AssetBalance{Technical: 45, Capital: 150_000, Human: 35},
			Budget:  game.Budget{"2026": 200_000},
		}, game.PublicView{}),
	}
	params := action.DefaultParams()
	params.Fundraise.SuccessRate = 1.0
	policy := gamemaster.DefaultPolicy()
	policy.LeakProbability = 0
	policy.RandomEventProbability = 0
	gm := gamemaster.New(state, roster, map[string]gamemaster.Proposer{
		"DeepCog": player.NewScripted("DeepCog"),
		"Axiom":   player.NewScripted("Axiom"),
	}, gamemaster.Config{Params: &params, Policy: &policy, Seed: 42})
	return New(gm, rounds)
}

func TestRunPlaysConfiguredRounds(t *testing.T) {
	e := newTestEngine(t, 3)
	history, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, 3, e.GM.State.Round)
	require.Contains(t, history[0], "=== Round 1")
	require.Contains(t, history[2], "=== Round 3")

	// The scripted players acted every round: DeepCog invested surplus,
	// Axiom fundraised.
	deepCog := e.GM.Roster.Find("DeepCog")
	require.Greater(t, deepCog.Private.Balance.Capital, 200_000.0)
	axiom := e.GM.Roster.Find("Axiom")
	require.Greater(t, axiom.Private.Budget.Get("2026"), 200_000.0)
}

func TestRunStopsOnEndCondition(t *testing.T) {
	e := newTestEngine(t, 10)
	e.End = func(st *game.RoundState, roster game.Roster) bool {
		return st.Round >= 2
	}
	history, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, 2, e.GM.State.Round)
}

func TestRunHonorsContextCancellation(t *testing.T) {
	e := newTestEngine(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	history, err := e.Run(ctx)
	require.Error(t, err)
	require.Empty(t, history)
}

func TestRunDefaultsRounds(t *testing.T) {
	e := newTestEngine(t, 0)
	require.Equal(t, 3, e.Rounds)
}
