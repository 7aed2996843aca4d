package server

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stratsim/action"
	"stratsim/communication/client"
	"stratsim/game"
	"stratsim/gamemaster"
	"stratsim/player"
)

func wireRequest(round int, budget float64) gamemaster.ProposalRequest {
	return gamemaster.ProposalRequest{
		Participant: "DeepCog",
		Round:       round,
		Date:        "2026-04-01",
		Self:        game.PrivateInfo{Budget: game.Budget{"2026": budget}},
		Briefing: game.Broadcast{
			OtherPublicViews: map[string]game.PublicView{"Axiom": {}},
		},
	}
}

func TestProposeOverWire(t *testing.T) {
	ts := httptest.NewServer(New("DeepCog", player.NewScripted("DeepCog")).Handler())
	defer ts.Close()

	rp := client.NewRemoteProposer(ts.URL)
	actions, err := rp.Propose(context.Background(), wireRequest(1, 900_000))
	require.NoError(t, err)
	require.Len(t, actions, 1)

	inv, ok := actions[0].(*action.InvestCapital)
	require.True(t, ok)
	require.Equal(t, "DeepCog", inv.By)
	require.Equal(t, 200_000.0, inv.Amount)
}

func TestReviseOverWire(t *testing.T) {
	ts := httptest.NewServer(New("DeepCog", player.NewScripted("DeepCog")).Handler())
	defer ts.Close()

	rp := client.NewRemoteProposer(ts.URL)
	revised, err := rp.Revise(context.Background(), gamemaster.RevisionRequest{
		ProposalRequest: wireRequest(1, 100_000),
		Rejected:        &action.Fundraise{By: "DeepCog", Amount: 500_000},
		Reason:          "fundraising requires a positive amount",
		Attempt:         1,
	})
	require.NoError(t, err)

	fr, ok := revised.(*action.Fundraise)
	require.True(t, ok)
	require.Equal(t, 250_000.0, fr.Amount)
}

func TestReviseGiveUpOverWire(t *testing.T) {
	ts := httptest.NewServer(New("DeepCog", player.NewScripted("DeepCog")).Handler())
	defer ts.Close()

	rp := client.NewRemoteProposer(ts.URL)
	revised, err := rp.Revise(context.Background(), gamemaster.RevisionRequest{
		ProposalRequest: wireRequest(1, 100_000),
		Rejected:        &action.CancelProject{By: "DeepCog", Name: "Frontier Model"},
		Reason:          "active research project 'Frontier Model' not found",
		Attempt:         1,
	})
	require.NoError(t, err)
	require.Nil(t, revised)
}

func TestRemoteProposerDrivesEngineRound(t *testing.T) {
	ts := httptest.NewServer(New("DeepCog", player.NewScripted("DeepCog")).Handler())
	defer ts.Close()

	// A remote participant plugs into the engine exactly like an
	// in-process one.
	state := game.NewRoundState(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	roster := game.Roster{
		game.NewParticipant("DeepCog", game.PrivateInfo{
			Budget: game.Budget{"2026": 900_000},
		}, game.PublicView{}),
		game.NewParticipant("Axiom", game.PrivateInfo{
			Budget: game.Budget{"2026": 500_000},
		}, game.PublicView{}),
	}
	gm := gamemaster.New(state, roster, map[string]gamemaster.Proposer{
		"DeepCog": client.NewRemoteProposer(ts.URL),
	}, gamemaster.Config{Seed: 7})
	gm.InitialBroadcasts()

	broadcasts, err := gm.RunRound(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, broadcasts["DeepCog"].ActionResults)
	require.Contains(t, broadcasts["DeepCog"].ActionResults[0], "Invested")
}
