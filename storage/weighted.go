package storage

import (
	"fmt"
	"time"

	"github.com/agoravote/agora-node/types"
)

// IssueWeightedVote builds a weighted vote receipt for the given voter and
// candidate. The weight is 2 when the voter carries the profile_updated
// marker and 1 otherwise. The receipt is disposable: its ID is derived from
// the request content plus the issuing time, it is not persisted anywhere,
// and it is not linked to the vote ledger's ID counter.
func (s *Storage) IssueWeightedVote(voterID, candidateID uint64) (*types.WeightedVoteReceipt, error) {
	voter, err := s.Voter(voterID)
	if err != nil {
		return nil, fmt.Errorf("voter %d: %w", voterID, err)
	}
	weight := 1
	if voter.ProfileUpdated {
		weight = 2
	}
	issuedAt := time.Now().UTC()
	return &types.WeightedVoteReceipt{
		VoteID: tokenFromContent(
			uint64Key(voterID),
			uint64Key(candidateID),
			[]byte(issuedAt.Format(time.RFC3339Nano)),
		),
		VoterID:     voterID,
		CandidateID: candidateID,
		Weight:      weight,
	}, nil
}
