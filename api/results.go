package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// results handles GET /api/results. Success status is 231.
func (a *API) results(w http.ResponseWriter, r *http.Request) {
	results, err := a.storage.Results()
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 231, results)
}

// winners handles GET /api/results/winner. Success status is 232.
func (a *API) winners(w http.ResponseWriter, r *http.Request) {
	winners, err := a.storage.Winners()
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 232, WinnerResponse{Winners: winners})
}

// aggregateTally handles POST /api/results/homomorphic. Success status is 237.
func (a *API) aggregateTally(w http.ResponseWriter, r *http.Request) {
	req := TallyRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if req.ElectionID == "" {
		ErrMissingField.With("election_id").Write(w)
		return
	}
	if len(req.Shares) == 0 {
		ErrMissingField.With("trustee_decrypt_shares").Write(w)
		return
	}
	record, err := a.storage.AggregateTally(req.ElectionID, req.Shares, a.shareVerifier, a.aggregator)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 237, record)
}

// tally handles GET /api/results/homomorphic/{electionId}.
func (a *API) tally(w http.ResponseWriter, r *http.Request) {
	electionID := chi.URLParam(r, ElectionIDURLParam)
	record, err := a.storage.Tally(electionID)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSON(w, record)
}
