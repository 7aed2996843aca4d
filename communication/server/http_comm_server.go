// Package server exposes a gamemaster.Proposer as an HTTP decision
// service speaking the propose/revise wire contract.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"stratsim/communication"
	"stratsim/gamemaster"
	"stratsim/player"
)

// Server wraps one participant's proposer. One server per participant.
type Server struct {
	participant string
	proposer    gamemaster.Proposer
	mux         *http.ServeMux
}

func New(participant string, proposer gamemaster.Proposer) *Server {
	s := &Server{
		participant: participant,
		proposer:    proposer,
		mux:         http.NewServeMux(),
	}
	s.mux.HandleFunc("/propose", s.handlePropose)
	s.mux.HandleFunc("/revise", s.handleRevise)
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) ListenAndServe(addr string) error {
	log.Info().Str("participant", s.participant).Str("addr", addr).Msg("decision service listening")
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handlePropose(w http.ResponseWriter, r *http.Request) {
	var req gamemaster.ProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	actions, err := s.proposer.Propose(r.Context(), req)
	if err != nil {
		log.Warn().Str("participant", s.participant).Err(err).Msg("propose failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp := communication.ProposeResponse{Actions: make([]json.RawMessage, len(actions))}
	for i, a := range actions {
		encoded, err := player.EncodeAction(a)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp.Actions[i] = encoded
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleRevise(w http.ResponseWriter, r *http.Request) {
	var req communication.ReviseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rejected, err := player.DecodeAction(req.ProposalRequest.Participant, req.Rejected)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	revised, err := s.proposer.Revise(r.Context(), gamemaster.RevisionRequest{
		ProposalRequest: req.ProposalRequest,
		Rejected:        rejected,
		Reason:          req.Reason,
		Attempt:         req.Attempt,
	})
	if err != nil {
		log.Warn().Str("participant", s.participant).Err(err).Msg("revise failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := communication.ReviseResponse{}
	if revised != nil {
		encoded, err := player.EncodeAction(revised)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp.Action = encoded
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
