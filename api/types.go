package api

import (
	"github.com/agoravote/agora-node/audit"
	"github.com/agoravote/agora-node/types"
)

// Request types. Fields that the contract requires to be present are pointers
// so the handlers can tell a missing field from a zero value.

// RegisterVoterRequest is the body of POST /api/voters.
type RegisterVoterRequest struct {
	VoterID *uint64 `json:"voter_id"`
	Name    string  `json:"name"`
	Age     *int    `json:"age"`
}

// UpdateVoterRequest is the body of PUT /api/voters/{voterId}. All fields are
// optional; absent fields leave the record untouched.
type UpdateVoterRequest struct {
	Name           *string `json:"name"`
	Age            *int    `json:"age"`
	ProfileUpdated *bool   `json:"profile_updated"`
}

// RegisterCandidateRequest is the body of POST /api/candidates.
type RegisterCandidateRequest struct {
	CandidateID *uint64 `json:"candidate_id"`
	Name        string  `json:"name"`
	Party       string  `json:"party"`
}

// CastVoteRequest is the body of POST /api/votes.
type CastVoteRequest struct {
	VoterID     *uint64 `json:"voter_id"`
	CandidateID *uint64 `json:"candidate_id"`
}

// EncryptedBallotRequest is the body of POST /api/ballots/encrypted. All six
// fields are required.
type EncryptedBallotRequest struct {
	ElectionID  string         `json:"election_id"`
	Ciphertext  types.HexBytes `json:"ciphertext"`
	ZKProof     types.HexBytes `json:"zk_proof"`
	VoterPubKey types.HexBytes `json:"voter_pubkey"`
	Nullifier   types.HexBytes `json:"nullifier"`
	Signature   types.HexBytes `json:"signature"`
}

// TallyRequest is the body of POST /api/results/homomorphic.
type TallyRequest struct {
	ElectionID string               `json:"election_id"`
	Shares     []types.TrusteeShare `json:"trustee_decrypt_shares"`
}

// DPQueryRequest is the body of POST /api/analytics/dp. Delta is optional and
// defaults to zero (pure epsilon-DP).
type DPQueryRequest struct {
	ElectionID string        `json:"election_id"`
	Query      types.DPQuery `json:"query"`
	Epsilon    *float64      `json:"epsilon"`
	Delta      float64       `json:"delta"`
}

// RankedBallotRequest is the body of POST /api/ballots/ranked. Timestamp must
// be RFC 3339.
type RankedBallotRequest struct {
	ElectionID string   `json:"election_id"`
	VoterID    *uint64  `json:"voter_id"`
	Ranking    []uint64 `json:"ranking"`
	Timestamp  string   `json:"timestamp"`
}

// AuditPlanRequest is the body of POST /api/audits/plan. Stratification is
// optional.
type AuditPlanRequest struct {
	ElectionID      string                `json:"election_id"`
	ReportedTallies []types.ReportedTally `json:"reported_tallies"`
	RiskLimitAlpha  *float64              `json:"risk_limit_alpha"`
	AuditType       string                `json:"audit_type"`
	Stratification  *audit.Stratification `json:"stratification"`
}

// Response types.

// VoterDeletedResponse confirms a voter deletion.
type VoterDeletedResponse struct {
	Message string `json:"message"`
}

// CandidateVotesResponse is the vote counter view of a candidate.
type CandidateVotesResponse struct {
	CandidateID uint64 `json:"candidate_id"`
	Votes       uint64 `json:"votes"`
}

// TimelineResponse lists a candidate's votes in ledger order.
type TimelineResponse struct {
	CandidateID uint64            `json:"candidate_id"`
	Events      []types.VoteEvent `json:"timeline"`
}

// RangeCountResponse is the result of an interval count query.
type RangeCountResponse struct {
	CandidateID uint64 `json:"candidate_id"`
	From        string `json:"from"`
	To          string `json:"to"`
	Count       int    `json:"count"`
}

// WinnerResponse carries every candidate tied at the maximum vote count.
type WinnerResponse struct {
	Winners []types.CandidateResult `json:"winners"`
}

// DPQueryResponse is the accepted analytics query result.
type DPQueryResponse struct {
	ElectionID      string                `json:"election_id"`
	Histogram       []types.DPBucketCount `json:"histogram"`
	EpsilonSpent    float64               `json:"epsilon_spent"`
	RemainingBudget float64               `json:"remaining_budget"`
}
