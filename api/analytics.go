package api

import (
	"encoding/json"
	"net/http"
)

// dpQuery handles POST /api/analytics/dp. Success status is 200. The query is
// charged against the election's fixed privacy budget before any counts are
// released.
func (a *API) dpQuery(w http.ResponseWriter, r *http.Request) {
	req := DPQueryRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if req.ElectionID == "" {
		ErrMissingField.With("election_id").Write(w)
		return
	}
	if req.Query.Type == "" {
		ErrMissingField.With("query.type").Write(w)
		return
	}
	if req.Query.Dimension == "" {
		ErrMissingField.With("query.dimension").Write(w)
		return
	}
	if len(req.Query.Buckets) == 0 {
		ErrMissingField.With("query.buckets").Write(w)
		return
	}
	if req.Epsilon == nil {
		ErrMissingField.With("epsilon").Write(w)
		return
	}
	result, err := a.storage.DPQuery(req.ElectionID, req.Query, *req.Epsilon, req.Delta, a.noise)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSON(w, DPQueryResponse{
		ElectionID:      req.ElectionID,
		Histogram:       result.Counts,
		EpsilonSpent:    result.EpsilonSpent,
		RemainingBudget: result.RemainingBudget,
	})
}
