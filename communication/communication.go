// Package communication defines the wire contract between the round
// engine and a remote decision service driving one participant. The
// engine POSTs a briefing to /propose and rejected actions to /revise;
// action payloads travel in the codec's action_type-discriminated form
// and are re-validated and re-stamped on the engine side.
package communication

import (
	"encoding/json"

	"stratsim/gamemaster"
)

// ProposeResponse is the remote service's answer to a briefing: raw
// action payloads, parsed and validated by the engine with the player
// codec.
type ProposeResponse struct {
	Actions []json.RawMessage `json:"actions"`
}

// ReviseRequest asks the remote service to fix one rejected action.
type ReviseRequest struct {
	gamemaster.ProposalRequest
	Rejected json.RawMessage `json:"rejected"`
	Reason   string          `json:"reason"`
	Attempt  int             `json:"attempt"`
}

// ReviseResponse carries the replacement action, or null to give up on
// the rejected one.
type ReviseResponse struct {
	Action json.RawMessage `json:"action"`
}
