package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agoravote/agora-node/audit"
)

// planAudit handles POST /api/audits/plan. Success status is 240.
func (a *API) planAudit(w http.ResponseWriter, r *http.Request) {
	req := AuditPlanRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if req.ElectionID == "" {
		ErrMissingField.With("election_id").Write(w)
		return
	}
	if len(req.ReportedTallies) == 0 {
		ErrMissingField.With("reported_tallies").Write(w)
		return
	}
	if req.RiskLimitAlpha == nil {
		ErrMissingField.With("risk_limit_alpha").Write(w)
		return
	}
	if req.AuditType == "" {
		ErrMissingField.With("audit_type").Write(w)
		return
	}
	strat := audit.Stratification{}
	if req.Stratification != nil {
		strat = *req.Stratification
	}
	plan, err := a.storage.PlanAudit(req.ElectionID, req.ReportedTallies, *req.RiskLimitAlpha, req.AuditType, strat)
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSONStatus(w, 240, plan)
}

// auditPlan handles GET /api/audits/{auditId}.
func (a *API) auditPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := a.storage.AuditPlan(chi.URLParam(r, AuditIDURLParam))
	if err != nil {
		errorFromStorage(err).Write(w)
		return
	}
	httpWriteJSON(w, plan)
}
