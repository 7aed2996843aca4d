package gamemaster

import (
	"context"

	"stratsim/action"
	"stratsim/game"
)

// ProposalRequest is the briefing a participant receives when asked for
// this round's actions. Self is the participant's own ground truth;
// Briefing is the previous round's broadcast for this participant.
// Proposers must treat both as read-only.
type ProposalRequest struct {
	Participant string           `json:"participant"`
	Round       int              `json:"round"`
	Date        string           `json:"date"`
	Self        game.PrivateInfo `json:"self"`
	Briefing    game.Broadcast   `json:"briefing"`
}

// RevisionRequest asks a proposer to fix one rejected action. Reason is
// the plain-text validation failure; Attempt counts validation attempts
// so far for this action.
type RevisionRequest struct {
	ProposalRequest
	Rejected action.Action `json:"-"`
	Reason   string        `json:"reason"`
	Attempt  int           `json:"attempt"`
}

// Proposer is a participant's decision-making side. The engine calls
// Propose once per round and Revise up to the retry bound for each
// rejected action. A Propose error makes the participant sit the round
// out; a Revise error drops the rejected action.
type Proposer interface {
	Propose(ctx context.Context, req ProposalRequest) ([]action.Action, error)
	Revise(ctx context.Context, req RevisionRequest) (action.Action, error)
}
