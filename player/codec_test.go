package player

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stratsim/action"
)

func TestDecodeProposalsEnvelope(t *testing.T) {
	payload := []byte(`{
		"actions": [
			{"action_type": "fundraise", "amount": 250000, "description": "Series C"},
			{"action_type": "espionage", "target_player": "Axiom", "budget": 100000, "focus": "model architecture"},
			{"action_type": "bilateral_message", "to_character": "Axiom", "content": "Let's talk."}
		]
	}`)

	actions, err := DecodeProposals("DeepCog", payload)
	require.NoError(t, err)
	require.Len(t, actions, 3)

	fr, ok := actions[0].(*action.Fundraise)
	require.True(t, ok)
	require.Equal(t, "DeepCog", fr.By)
	require.Equal(t, 250_000.0, fr.Amount)

	esp, ok := actions[1].(*action.Espionage)
	require.True(t, ok)
	require.Equal(t, "Axiom", esp.Target)
	require.Equal(t, "model architecture", esp.Focus)

	msg, ok := actions[2].(*action.BilateralMessage)
	require.True(t, ok)
	require.Equal(t, "Axiom", msg.To)
}

func TestDecodeProposalsTolerantShapes(t *testing.T) {
	t.Run("bare list", func(t *testing.T) {
		actions, err := DecodeProposals("DeepCog", []byte(`[{"action_type": "invest_capital", "amount": 50000}]`))
		require.NoError(t, err)
		require.Len(t, actions, 1)
		require.Equal(t, action.KindInvestCapital, actions[0].Kind())
	})

	t.Run("single object", func(t *testing.T) {
		actions, err := DecodeProposals("DeepCog", []byte(`{"action_type": "sell_capital", "amount": 10000}`))
		require.NoError(t, err)
		require.Len(t, actions, 1)
		require.Equal(t, action.KindSellCapital, actions[0].Kind())
	})
}

func TestDecodeProposalsRejectsBadPayloads(t *testing.T) {
	cases := map[string][]byte{
		"empty":           []byte(``),
		"not json":        []byte(`definitely not json`),
		"missing type":    []byte(`{"actions": [{"amount": 100}]}`),
		"unknown type":    []byte(`{"actions": [{"action_type": "declare_war"}]}`),
		"non-object item": []byte(`{"actions": ["fundraise"]}`),
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeProposals("DeepCog", payload)
			require.Error(t, err)
		})
	}
}

func TestDecodeStampsInitiator(t *testing.T) {
	// An initiator claim inside the payload must not survive decoding.
	payload := []byte(`{"action_type": "fundraise", "amount": 1000, "By": "Axiom"}`)
	a, err := DecodeAction("DeepCog", payload)
	require.NoError(t, err)
	require.Equal(t, "DeepCog", a.Initiator())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := []action.Action{
		&action.CreateProject{
			By:           "DeepCog",
			Name:         "Frontier Model",
			TargetDate:   "2027-06-01",
			AnnualBudget: 400_000,
		},
		&action.PoachTalent{By: "DeepCog", Target: "Axiom", Budget: 75_000},
	}

	payload, err := EncodeProposals(original)
	require.NoError(t, err)

	decoded, err := DecodeProposals("DeepCog", payload)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	cp, ok := decoded[0].(*action.CreateProject)
	require.True(t, ok)
	require.Equal(t, "Frontier Model", cp.Name)
	require.Equal(t, "2027-06-01", cp.TargetDate)
	require.Equal(t, 400_000.0, cp.AnnualBudget)

	pt, ok := decoded[1].(*action.PoachTalent)
	require.True(t, ok)
	require.Equal(t, "Axiom", pt.Target)
}
