package types

import "time"

// Vote ID allocation starts above the entity ID space so ledger identifiers
// are recognizable at a glance.
const FirstVoteID = 101

// Voter is a registered voter. HasVoted flips when the ballot box records a
// vote for it; ProfileUpdated defaults to false and only changes through an
// explicit update.
type Voter struct {
	ID             uint64 `json:"voter_id"`
	Name           string `json:"name"`
	Age            int    `json:"age"`
	HasVoted       bool   `json:"has_voted"`
	ProfileUpdated bool   `json:"profile_updated"`
	Seq            uint64 `json:"-" cbor:"seq"` // registration order, persisted but never exposed
}

// VoterSummary is the public listing view of a voter. Internal flags are
// deliberately excluded.
type VoterSummary struct {
	ID   uint64 `json:"voter_id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Candidate is a registered candidate. Votes is mutated only by the ballot
// box while casting.
type Candidate struct {
	ID    uint64 `json:"candidate_id"`
	Name  string `json:"name"`
	Party string `json:"party"`
	Votes uint64 `json:"votes"`
	Seq   uint64 `json:"-" cbor:"seq"` // registration order, breaks ranking ties
}

// CandidateSummary is the public listing view of a candidate.
type CandidateSummary struct {
	ID    uint64 `json:"candidate_id"`
	Name  string `json:"name"`
	Party string `json:"party"`
}

// CandidateResult is a ranking entry of the results endpoint.
type CandidateResult struct {
	ID    uint64 `json:"candidate_id"`
	Name  string `json:"name"`
	Votes uint64 `json:"votes"`
}

// Vote is an immutable ledger entry created by a successful cast.
type Vote struct {
	ID          uint64    `json:"vote_id"`
	VoterID     uint64    `json:"voter_id"`
	CandidateID uint64    `json:"candidate_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// VoteEvent is a timeline entry for a candidate.
type VoteEvent struct {
	VoteID    uint64    `json:"vote_id"`
	Timestamp time.Time `json:"timestamp"`
}

// WeightedVoteReceipt is a disposable receipt for a weighted vote. Its ID is
// derived from the request content and is not persisted nor linked to the
// vote ledger.
type WeightedVoteReceipt struct {
	VoteID      string `json:"vote_id"`
	VoterID     uint64 `json:"voter_id"`
	CandidateID uint64 `json:"candidate_id"`
	Weight      int    `json:"weight"`
}

// EncryptedBallot is an anonymous ballot accepted by the vault. The nullifier
// is globally unique across all stored ballots.
type EncryptedBallot struct {
	BallotID   string    `json:"ballot_id"`
	ElectionID string    `json:"election_id"`
	Status     string    `json:"status"`
	Ciphertext HexBytes  `json:"ciphertext"`
	Nullifier  HexBytes  `json:"nullifier"`
	AnchoredAt time.Time `json:"anchored_at"`
}

// EncryptedBallotStatusAccepted is the only status the vault assigns.
const EncryptedBallotStatusAccepted = "accepted"

// TrusteeShare is one trustee's decryption share with its accompanying proof.
type TrusteeShare struct {
	TrusteeID string   `json:"trustee_id"`
	Share     HexBytes `json:"share"`
	Proof     HexBytes `json:"proof"`
}

// CandidateTally is a per-candidate entry of an aggregated tally.
type CandidateTally struct {
	CandidateID uint64 `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       uint64 `json:"votes"`
}

// TallyTransparency is the public audit trail attached to a tally record.
type TallyTransparency struct {
	BallotSetCommitment HexBytes `json:"ballot_set_commitment"`
	TallyMethod         string   `json:"tally_method"`
	TrusteeScheme       string   `json:"trustee_scheme"`
}

// TallyRecord is the stored outcome of a homomorphic tally aggregation.
type TallyRecord struct {
	ElectionID      string            `json:"election_id"`
	TallyID         string            `json:"encrypted_tally_id"`
	Tallies         []CandidateTally  `json:"tallies"`
	DecryptionProof HexBytes          `json:"decryption_proof"`
	Transparency    TallyTransparency `json:"transparency"`
	CreatedAt       time.Time         `json:"created_at"`
}

// DPQuery describes a differential-privacy histogram query.
type DPQuery struct {
	Type      string   `json:"type"`
	Dimension string   `json:"dimension"`
	Buckets   []string `json:"buckets"`
}

// DPBudget tracks the cumulative epsilon spent against an election.
type DPBudget struct {
	ElectionID string  `json:"election_id"`
	Spent      float64 `json:"spent"`
}

// DPBucketCount is one noised histogram entry.
type DPBucketCount struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

// RankedBallot is a preferential ballot, unique per (election, voter).
type RankedBallot struct {
	BallotID   string    `json:"ballot_id"`
	ElectionID string    `json:"election_id"`
	VoterID    uint64    `json:"voter_id"`
	Ranking    []uint64  `json:"ranking"`
	Timestamp  time.Time `json:"timestamp"`
}

// ReportedTally is one candidate's reported vote count fed to the audit
// planner.
type ReportedTally struct {
	CandidateID uint64 `json:"candidate_id"`
	Votes       uint64 `json:"votes"`
}

// AuditPlan is a risk-limiting-audit sampling plan.
type AuditPlan struct {
	AuditID           string    `json:"audit_id"`
	ElectionID        string    `json:"election_id"`
	InitialSampleSize uint64    `json:"initial_sample_size"`
	SamplingPlan      HexBytes  `json:"sampling_plan"`
	Method            string    `json:"test_method"`
	Status            string    `json:"status"`
	RiskLimitAlpha    float64   `json:"risk_limit_alpha"`
	CreatedAt         time.Time `json:"created_at"`
}

const (
	// AuditTypeBallotPolling is the only supported audit method.
	AuditTypeBallotPolling = "ballot_polling"
	// AuditMethodKaplanMarkov names the sequential test of the plan. The
	// test itself runs out-of-band; the planner only sizes the sample.
	AuditMethodKaplanMarkov = "kaplan-markov"
	// AuditStatusPlanned is the initial status of every plan.
	AuditStatusPlanned = "planned"
)
