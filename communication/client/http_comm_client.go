// Package client implements the engine-side proposer backed by a remote
// decision service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stratsim/action"
	"stratsim/communication"
	"stratsim/gamemaster"
	"stratsim/player"
)

// RemoteProposer drives a participant through a remote decision service.
// It satisfies gamemaster.Proposer, so remote and in-process participants
// mix freely in one run.
type RemoteProposer struct {
	baseURL string
	client  *http.Client
}

func NewRemoteProposer(baseURL string) *RemoteProposer {
	return &RemoteProposer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

func (rp *RemoteProposer) Propose(ctx context.Context, req gamemaster.ProposalRequest) ([]action.Action, error) {
	body, err := rp.post(ctx, "/propose", req)
	if err != nil {
		return nil, err
	}
	// The payload is untrusted: the codec validates it and stamps the
	// authenticated participant name onto every action.
	return player.DecodeProposals(req.Participant, body)
}

func (rp *RemoteProposer) Revise(ctx context.Context, req gamemaster.RevisionRequest) (action.Action, error) {
	rejected, err := player.EncodeAction(req.Rejected)
	if err != nil {
		return nil, err
	}
	body, err := rp.post(ctx, "/revise", communication.ReviseRequest{
		ProposalRequest: req.ProposalRequest,
		Rejected:        rejected,
		Reason:          req.Reason,
		Attempt:         req.Attempt,
	})
	if err != nil {
		return nil, err
	}
	var resp communication.ReviseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse revise response: %w", err)
	}
	if len(resp.Action) == 0 || string(resp.Action) == "null" {
		return nil, nil
	}
	return player.DecodeAction(req.Participant, resp.Action)
}

func (rp *RemoteProposer) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rp.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, body)
	}
	return body, nil
}
