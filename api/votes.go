package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// castVote handles POST /api/votes. Success status is 228.
func (a *API) castVote(w http.ResponseWriter, r *http.Request) {
	req := CastVoteRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if req.VoterID == nil {
		ErrMissingField.With("voter_id").Write(w)
		return
	}
	if req.CandidateID == nil {
		ErrMissingField.With("candidate_id").Write(w)
		return
	}
	vote, err := a.storage.CastVote(*req.VoterID, *req.CandidateID)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 228, vote)
}

// voteTimeline handles GET /api/votes/timeline?candidate_id=. Success status
// is 233.
func (a *API) voteTimeline(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := uint64QueryParam(w, r, CandidateIDQueryParam)
	if !ok {
		return
	}
	events, err := a.storage.Timeline(candidateID)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 233, TimelineResponse{CandidateID: candidateID, Events: events})
}

// weightedVote handles POST /api/votes/weighted?voter_id=&candidate_id=.
// Success status is 234. The receipt is disposable: it is not recorded in the
// vote ledger.
func (a *API) weightedVote(w http.ResponseWriter, r *http.Request) {
	voterID, ok := uint64QueryParam(w, r, VoterIDQueryParam)
	if !ok {
		return
	}
	candidateID, ok := uint64QueryParam(w, r, CandidateIDQueryParam)
	if !ok {
		return
	}
	receipt, err := a.storage.IssueWeightedVote(voterID, candidateID)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 234, receipt)
}

// voteRangeCount handles GET /api/votes/range?candidate_id=&from=&to=. The
// bounds are RFC 3339 timestamps and the interval is closed. Success status
// is 235.
func (a *API) voteRangeCount(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := uint64QueryParam(w, r, CandidateIDQueryParam)
	if !ok {
		return
	}
	from, ok := timeQueryParam(w, r, FromQueryParam)
	if !ok {
		return
	}
	to, ok := timeQueryParam(w, r, ToQueryParam)
	if !ok {
		return
	}
	count, err := a.storage.RangeCount(candidateID, from, to)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 235, RangeCountResponse{
		CandidateID: candidateID,
		From:        from.Format(time.RFC3339),
		To:          to.Format(time.RFC3339),
		Count:       count,
	})
}

// timeQueryParam parses an RFC 3339 query parameter, writing the error
// response itself when the parameter is missing or fails to parse.
func timeQueryParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		ErrMissingField.With(name).Write(w)
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		ErrInvalidTimestamp.Withf("%s: %q", name, raw).Write(w)
		return time.Time{}, false
	}
	return t, true
}
