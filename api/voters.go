package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	stg "github.com/agoravote/agora-node/storage"
)

// registerVoter handles POST /api/voters. Success status is 218.
func (a *API) registerVoter(w http.ResponseWriter, r *http.Request) {
	req := RegisterVoterRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if req.VoterID == nil {
		ErrMissingField.With("voter_id").Write(w)
		return
	}
	if req.Name == "" {
		ErrMissingField.With("name").Write(w)
		return
	}
	if req.Age == nil {
		ErrMissingField.With("age").Write(w)
		return
	}
	voter, err := a.storage.AddVoter(*req.VoterID, req.Name, *req.Age)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 218, voter)
}

// voter handles GET /api/voters/{voterId}. Success status is 222.
func (a *API) voter(w http.ResponseWriter, r *http.Request) {
	voterID, ok := uint64URLParam(w, r, VoterIDURLParam)
	if !ok {
		return
	}
	voter, err := a.storage.Voter(voterID)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 222, voter)
}

// listVoters handles GET /api/voters. Success status is 223.
func (a *API) listVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := a.storage.ListVoters()
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 223, voters)
}

// updateVoter handles PUT /api/voters/{voterId}. Success status is 200.
func (a *API) updateVoter(w http.ResponseWriter, r *http.Request) {
	voterID, ok := uint64URLParam(w, r, VoterIDURLParam)
	if !ok {
		return
	}
	req := UpdateVoterRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	voter, err := a.storage.UpdateVoter(voterID, stg.VoterUpdate{
		Name:           req.Name,
		Age:            req.Age,
		ProfileUpdated: req.ProfileUpdated,
	})
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSON(w, voter)
}

// deleteVoter handles DELETE /api/voters/{voterId}. Success status is 225.
func (a *API) deleteVoter(w http.ResponseWriter, r *http.Request) {
	voterID, ok := uint64URLParam(w, r, VoterIDURLParam)
	if !ok {
		return
	}
	if err := a.storage.DeleteVoter(voterID); err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 225, VoterDeletedResponse{Message: "voter deleted"})
}

// uint64URLParam parses a numeric URL parameter, writing the error response
// itself when the parameter is malformed.
func uint64URLParam(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		ErrMalformedParam.Withf("%s: %q", name, raw).Write(w)
		return 0, false
	}
	return id, true
}

// uint64QueryParam parses a numeric query parameter. A missing parameter is
// reported as a missing field, a non-numeric one as malformed.
func uint64QueryParam(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		ErrMissingField.With(name).Write(w)
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		ErrMalformedParam.Withf("%s: %q", name, raw).Write(w)
		return 0, false
	}
	return id, true
}
