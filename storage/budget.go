package storage

import (
	"errors"
	"fmt"

	"github.com/agoravote/agora-node/crypto/noise"
	"github.com/agoravote/agora-node/types"
)

// MaxDPBudget is the cumulative epsilon an election may spend on analytics
// queries before further queries are refused.
const MaxDPBudget = 1.0

// DPHistogram is the result of an accepted analytics query: one noised count
// per requested bucket plus the remaining budget.
type DPHistogram struct {
	Counts          []types.DPBucketCount `json:"histogram"`
	EpsilonSpent    float64               `json:"epsilon_spent"`
	RemainingBudget float64               `json:"remaining_budget"`
}

// DPQuery runs a differential-privacy histogram query against the vote
// ledger. Epsilon must be positive (ErrInvalidEpsilon) and delta must lie in
// [0,1] (ErrInvalidDelta). The query is refused with ErrBudgetExceeded when
// the election's cumulative spend plus epsilon would exceed MaxDPBudget.
// Budget check and spend update run under the same lock, so concurrent
// queries cannot overspend.
func (s *Storage) DPQuery(
	electionID string,
	query types.DPQuery,
	epsilon, delta float64,
	mechanism noise.Mechanism,
) (*DPHistogram, error) {
	if epsilon <= 0 {
		return nil, ErrInvalidEpsilon
	}
	if delta < 0 || delta > 1 {
		return nil, ErrInvalidDelta
	}

	s.budgetLock.Lock()
	defer s.budgetLock.Unlock()

	budget := &types.DPBudget{ElectionID: electionID}
	err := s.getArtifact(budgetPrefix, electionKey(electionID), budget)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if budget.Spent+epsilon > MaxDPBudget {
		return nil, fmt.Errorf("%w: spent %.2f, requested %.2f, budget %.2f",
			ErrBudgetExceeded, budget.Spent, epsilon, MaxDPBudget)
	}

	counts := make([]types.DPBucketCount, len(query.Buckets))
	for i, bucket := range query.Buckets {
		trueCount, err := s.bucketCount(query, bucket)
		if err != nil {
			return nil, err
		}
		counts[i] = types.DPBucketCount{
			Bucket: bucket,
			Count:  mechanism.NoisyCount(trueCount, epsilon, delta),
		}
	}

	budget.Spent += epsilon
	if err := s.setArtifact(budgetPrefix, electionKey(electionID), budget); err != nil {
		return nil, fmt.Errorf("store budget for election %s: %w", electionID, err)
	}
	return &DPHistogram{
		Counts:          counts,
		EpsilonSpent:    budget.Spent,
		RemainingBudget: MaxDPBudget - budget.Spent,
	}, nil
}

// DPBudgetSpent returns the cumulative epsilon spent by an election. An
// election with no queries yet has zero spend.
func (s *Storage) DPBudgetSpent(electionID string) (float64, error) {
	s.budgetLock.Lock()
	defer s.budgetLock.Unlock()

	budget := &types.DPBudget{}
	err := s.getArtifact(budgetPrefix, electionKey(electionID), budget)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return budget.Spent, nil
}

// bucketCount computes the true count behind a histogram bucket. Candidate
// dimension buckets count ledger votes per candidate ID; any other dimension
// counts nothing (the noised result still hides whether the bucket exists).
func (s *Storage) bucketCount(query types.DPQuery, bucket string) (int64, error) {
	if query.Dimension != "candidate" {
		return 0, nil
	}
	var candidateID uint64
	if _, err := fmt.Sscanf(bucket, "%d", &candidateID); err != nil {
		return 0, nil
	}
	var count int64
	if err := iterateArtifacts(s, votePrefix, func(v *types.Vote) bool {
		if v.CandidateID == candidateID {
			count++
		}
		return true
	}); err != nil {
		return 0, err
	}
	return count, nil
}
