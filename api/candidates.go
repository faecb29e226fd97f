package api

import (
	"encoding/json"
	"errors"
	"net/http"

	stg "github.com/agoravote/agora-node/storage"
)

// registerCandidate handles POST /api/candidates. Success status is 226.
func (a *API) registerCandidate(w http.ResponseWriter, r *http.Request) {
	req := RegisterCandidateRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if req.CandidateID == nil {
		ErrMissingField.With("candidate_id").Write(w)
		return
	}
	if req.Name == "" {
		ErrMissingField.With("name").Write(w)
		return
	}
	if req.Party == "" {
		ErrMissingField.With("party").Write(w)
		return
	}
	candidate, err := a.storage.AddCandidate(*req.CandidateID, req.Name, req.Party)
	if err != nil {
		if errors.Is(err, stg.ErrKeyAlreadyExists) {
			ErrDuplicateCandidate.Write(w)
			return
		}
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 226, candidate)
}

// listCandidates handles GET /api/candidates. Without a party filter the
// success status is 227; with one it is 230.
func (a *API) listCandidates(w http.ResponseWriter, r *http.Request) {
	party := r.URL.Query().Get(PartyQueryParam)
	candidates, err := a.storage.ListCandidates(party)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	status := 227
	if party != "" {
		status = 230
	}
	httpWriteJSONStatus(w, status, candidates)
}

// candidateVotes handles GET /api/candidates/{candidateId}/votes. Success
// status is 229.
func (a *API) candidateVotes(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := uint64URLParam(w, r, CandidateIDURLParam)
	if !ok {
		return
	}
	votes, err := a.storage.CandidateVotes(candidateID)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 229, CandidateVotesResponse{CandidateID: candidateID, Votes: votes})
}
