package storage

import (
	"fmt"
	"time"

	"github.com/agoravote/agora-node/audit"
	"github.com/agoravote/agora-node/types"
)

// PlanAudit computes and stores a ballot-polling risk-limiting-audit plan.
// The risk limit alpha must lie strictly in (0,1) (ErrInvalidAlpha) and the
// audit type must be types.AuditTypeBallotPolling (ErrUnsupportedAudit). The
// initial sample size is 3% of the reported total, clamped to
// [audit.MinSampleSize, audit.MaxSampleSize].
func (s *Storage) PlanAudit(
	electionID string,
	tallies []types.ReportedTally,
	alpha float64,
	auditType string,
	strat audit.Stratification,
) (*types.AuditPlan, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, ErrInvalidAlpha
	}
	if auditType != types.AuditTypeBallotPolling {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAudit, auditType)
	}

	blob, err := audit.EncodePlan(strat)
	if err != nil {
		return nil, err
	}
	total := audit.TotalVotes(tallies)

	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	seq, err := s.nextCounter(auditSeqKey, 0)
	if err != nil {
		return nil, fmt.Errorf("allocate audit sequence: %w", err)
	}
	plan := &types.AuditPlan{
		AuditID:           tokenFromContent([]byte(electionID), uint64Key(seq)),
		ElectionID:        electionID,
		InitialSampleSize: audit.InitialSampleSize(total),
		SamplingPlan:      blob,
		Method:            types.AuditMethodKaplanMarkov,
		Status:            types.AuditStatusPlanned,
		RiskLimitAlpha:    alpha,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.setArtifact(auditPrefix, []byte(plan.AuditID), plan); err != nil {
		return nil, fmt.Errorf("store audit plan %s: %w", plan.AuditID, err)
	}
	return plan, nil
}

// AuditPlan retrieves a stored plan by its ID.
func (s *Storage) AuditPlan(auditID string) (*types.AuditPlan, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	plan := &types.AuditPlan{}
	if err := s.getArtifact(auditPrefix, []byte(auditID), plan); err != nil {
		return nil, err
	}
	return plan, nil
}
