package storage

import (
	"sort"

	"github.com/agoravote/agora-node/types"
)

// Results returns all candidates sorted by vote count, descending. The sort
// is stable over registration order, so tied candidates keep their relative
// registry position.
func (s *Storage) Results() ([]types.CandidateResult, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	candidates, err := s.candidatesUnsafe()
	if err != nil {
		return nil, err
	}
	// candidatesUnsafe yields registration order; the stable sort keeps it
	// as the tie break.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Votes > candidates[j].Votes
	})
	results := make([]types.CandidateResult, len(candidates))
	for i, c := range candidates {
		results[i] = types.CandidateResult{ID: c.ID, Name: c.Name, Votes: c.Votes}
	}
	return results, nil
}

// Winners returns every candidate whose vote count equals the maximum,
// inclusive of ties. Returns ErrNotFound when no candidates are registered.
func (s *Storage) Winners() ([]types.CandidateResult, error) {
	results, err := s.Results()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	max := results[0].Votes
	winners := []types.CandidateResult{}
	for _, r := range results {
		if r.Votes == max {
			winners = append(winners, r)
		}
	}
	return winners, nil
}
