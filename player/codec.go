// Package player provides the building blocks for participant decision
// sides: a codec that parses untrusted proposal payloads into actions,
// and a scripted rule-based proposer for tests and offline runs.
package player

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"stratsim/action"
)

// Proposal payloads arrive as an {"actions": [...]} envelope, a bare
// action list, or a single action object. Each action object carries an
// action_type discriminator next to its kind-specific fields.
var proposalSchema = jsonschema.MustCompileString("proposal.json", `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["actions"],
	"properties": {
		"actions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["action_type"],
				"properties": {
					"action_type": {
						"enum": [
							"fundraise",
							"create_research_project",
							"cancel_research_project",
							"invest_capital",
							"sell_capital",
							"espionage",
							"poach_talent",
							"lobby",
							"marketing",
							"bilateral_message"
						]
					}
				}
			}
		}
	}
}`)

type envelope struct {
	Actions []json.RawMessage `json:"actions"`
}

// DecodeProposals parses an untrusted proposal payload into actions, each
// stamped with the given initiator. Any initiator claim inside the
// payload is discarded.
func DecodeProposals(participant string, payload []byte) ([]action.Action, error) {
	raws, err := normalize(payload)
	if err != nil {
		return nil, err
	}
	if err := validate(raws); err != nil {
		return nil, err
	}
	actions := make([]action.Action, 0, len(raws))
	for i, raw := range raws {
		a, err := decodeOne(participant, raw)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// DecodeAction parses a single action object, used on the revision path.
func DecodeAction(participant string, payload []byte) (action.Action, error) {
	actions, err := DecodeProposals(participant, payload)
	if err != nil {
		return nil, err
	}
	if len(actions) != 1 {
		return nil, fmt.Errorf("expected exactly one action, got %d", len(actions))
	}
	return actions[0], nil
}

// normalize accepts the envelope, a bare list, or a single object, and
// returns the individual action payloads.
func normalize(payload []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty proposal payload")
	}
	if trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("failed to parse proposal list: %w", err)
		}
		return raws, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to parse proposal payload: %w", err)
	}
	if env.Actions != nil {
		return env.Actions, nil
	}
	// A single bare action object.
	return []json.RawMessage{json.RawMessage(trimmed)}, nil
}

func validate(raws []json.RawMessage) error {
	items := make([]any, len(raws))
	for i, raw := range raws {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("action %d is not valid JSON: %w", i, err)
		}
		items[i] = v
	}
	if err := proposalSchema.Validate(map[string]any{"actions": items}); err != nil {
		return fmt.Errorf("proposal payload rejected: %w", err)
	}
	return nil
}

func decodeOne(participant string, raw json.RawMessage) (action.Action, error) {
	var head struct {
		Type action.Kind `json:"action_type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("failed to read action_type: %w", err)
	}

	var a action.Action
	switch head.Type {
	case action.KindFundraise:
		a = &action.Fundraise{}
	case action.KindCreateProject:
		a = &action.CreateProject{}
	case action.KindCancelProject:
		a = &action.CancelProject{}
	case action.KindInvestCapital:
		a = &action.InvestCapital{}
	case action.KindSellCapital:
		a = &action.SellCapital{}
	case action.KindEspionage:
		a = &action.Espionage{}
	case action.KindPoachTalent:
		a = &action.PoachTalent{}
	case action.KindLobby:
		a = &action.Lobby{}
	case action.KindMarketing:
		a = &action.Marketing{}
	case action.KindMessage:
		a = &action.BilateralMessage{}
	default:
		return nil, fmt.Errorf("unknown action_type %q", head.Type)
	}
	if err := json.Unmarshal(raw, a); err != nil {
		return nil, fmt.Errorf("failed to parse %s action: %w", head.Type, err)
	}
	stamp(a, participant)
	return a, nil
}

// stamp overrides the initiator with the authenticated participant name.
func stamp(a action.Action, participant string) {
	switch v := a.(type) {
	case *action.Fundraise:
		v.By = participant
	case *action.CreateProject:
		v.By = participant
	case *action.CancelProject:
		v.By = participant
	case *action.InvestCapital:
		v.By = participant
	case *action.SellCapital:
		v.By = participant
	case *action.Espionage:
		v.By = participant
	case *action.PoachTalent:
		v.By = participant
	case *action.Lobby:
		v.By = participant
	case *action.Marketing:
		v.By = participant
	case *action.BilateralMessage:
		v.By = participant
	}
}

// EncodeAction marshals an action with its action_type discriminator,
// producing the same wire form DecodeProposals accepts.
func EncodeAction(a action.Action) ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s action: %w", a.Kind(), err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to re-read %s action: %w", a.Kind(), err)
	}
	fields["action_type"] = string(a.Kind())
	return json.Marshal(fields)
}

// EncodeProposals marshals actions into the envelope wire form.
func EncodeProposals(actions []action.Action) ([]byte, error) {
	raws := make([]json.RawMessage, len(actions))
	for i, a := range actions {
		data, err := EncodeAction(a)
		if err != nil {
			return nil, err
		}
		raws[i] = data
	}
	return json.Marshal(envelope{Actions: raws})
}
