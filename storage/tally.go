package storage

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/agoravote/agora-node/crypto/homomorphic"
	"github.com/agoravote/agora-node/types"
)

// TallyMethod names the aggregation method recorded in every tally
// transparency record.
const TallyMethod = "threshold-homomorphic"

// AggregateTally checks the trustee decryption shares, combines them through
// the aggregator and stores the resulting tally record keyed by election.
// Each share must carry trustee_id, share and proof (ErrMalformedShare) and
// its proof must pass the verifier (ErrInvalidShareProof). The per-candidate
// tallies are sourced from the candidate registry by iterating the keyed
// store's values.
func (s *Storage) AggregateTally(
	electionID string,
	shares []types.TrusteeShare,
	verifier homomorphic.ShareVerifier,
	aggregator homomorphic.Aggregator,
) (*types.TallyRecord, error) {
	rawShares := make([][]byte, 0, len(shares))
	for _, share := range shares {
		if share.TrusteeID == "" || len(share.Share) == 0 || len(share.Proof) == 0 {
			return nil, ErrMalformedShare
		}
		if !verifier.VerifyShare(share.TrusteeID, share.Share, share.Proof) {
			return nil, fmt.Errorf("trustee %s: %w", share.TrusteeID, ErrInvalidShareProof)
		}
		rawShares = append(rawShares, share.Share)
	}

	aggregated, err := aggregator.Aggregate(rawShares)
	if err != nil {
		return nil, fmt.Errorf("aggregate shares: %w", err)
	}
	proof, err := aggregator.Prove(aggregated, rawShares)
	if err != nil {
		return nil, fmt.Errorf("build decryption proof: %w", err)
	}

	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	candidates, err := s.candidatesUnsafe()
	if err != nil {
		return nil, err
	}
	tallies := make([]types.CandidateTally, len(candidates))
	for i, c := range candidates {
		tallies[i] = types.CandidateTally{CandidateID: c.ID, Name: c.Name, Votes: c.Votes}
	}

	record := &types.TallyRecord{
		ElectionID:      electionID,
		TallyID:         tokenFromContent([]byte(electionID), aggregated),
		Tallies:         tallies,
		DecryptionProof: proof,
		Transparency: types.TallyTransparency{
			BallotSetCommitment: s.ballotSetCommitmentUnsafe(electionID),
			TallyMethod:         TallyMethod,
			TrusteeScheme:       aggregator.Scheme(),
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.setArtifact(tallyPrefix, electionKey(electionID), record); err != nil {
		return nil, fmt.Errorf("store tally for election %s: %w", electionID, err)
	}
	return record, nil
}

// Tally retrieves the stored tally record of an election.
func (s *Storage) Tally(electionID string) (*types.TallyRecord, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	record := &types.TallyRecord{}
	if err := s.getArtifact(tallyPrefix, electionKey(electionID), record); err != nil {
		return nil, err
	}
	return record, nil
}

// ballotSetCommitmentUnsafe hashes the nullifiers of the election's stored
// encrypted ballots, in key order, into a single commitment.
func (s *Storage) ballotSetCommitmentUnsafe(electionID string) types.HexBytes {
	h := sha256.New()
	h.Write([]byte(electionID))
	_ = iterateArtifacts(s, ballotPrefix, func(b *types.EncryptedBallot) bool {
		if b.ElectionID == electionID {
			h.Write(b.Nullifier)
		}
		return true
	})
	return h.Sum(nil)
}
