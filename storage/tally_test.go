package storage

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/agoravote/agora-node/crypto/homomorphic"
	"github.com/agoravote/agora-node/types"
)

var trustAll = homomorphic.ShareVerifierFunc(func(_ string, _, _ []byte) bool { return true })

// concatAggregator is a trivial Aggregator for tests: concatenation with a
// fixed proof.
type concatAggregator struct{}

func (concatAggregator) Aggregate(shares [][]byte) ([]byte, error) {
	out := []byte{}
	for _, s := range shares {
		out = append(out, s...)
	}
	return out, nil
}

func (concatAggregator) Prove(aggregated []byte, _ [][]byte) ([]byte, error) {
	return aggregated, nil
}

func (concatAggregator) Scheme() string { return "concat-test" }

func testShares() []types.TrusteeShare {
	return []types.TrusteeShare{
		{TrusteeID: "t1", Share: []byte{0x01}, Proof: []byte{0x0a}},
		{TrusteeID: "t2", Share: []byte{0x02}, Proof: []byte{0x0b}},
	}
}

func TestAggregateTally(t *testing.T) {
	c := qt.New(t)
	stg := newTestStorage(t)

	_, err := stg.AddCandidate(10, "alice", "Greens")
	c.Assert(err, qt.IsNil)
	_, err = stg.AddCandidate(20, "bob", "Reds")
	c.Assert(err, qt.IsNil)
	_, err = stg.AddVoter(1, "ada", 30)
	c.Assert(err, qt.IsNil)
	_, err = stg.CastVote(1, 20)
	c.Assert(err, qt.IsNil)

	record, err := stg.AggregateTally("election-1", testShares(), trustAll, concatAggregator{})
	c.Assert(err, qt.IsNil)
	c.Assert(record.TallyID, qt.Not(qt.Equals), "")
	c.Assert(len(record.Tallies), qt.Equals, 2)
	c.Assert(record.Tallies[0].CandidateID, qt.Equals, uint64(10))
	c.Assert(record.Tallies[0].Votes, qt.Equals, uint64(0))
	c.Assert(record.Tallies[1].CandidateID, qt.Equals, uint64(20))
	c.Assert(record.Tallies[1].Votes, qt.Equals, uint64(1))
	c.Assert(record.Transparency.TallyMethod, qt.Equals, TallyMethod)
	c.Assert(record.Transparency.TrusteeScheme, qt.Equals, "concat-test")
	c.Assert(len(record.Transparency.BallotSetCommitment), qt.Equals, 32)

	got, err := stg.Tally("election-1")
	c.Assert(err, qt.IsNil)
	c.Assert(got.TallyID, qt.Equals, record.TallyID)

	_, err = stg.Tally("unknown")
	c.Assert(errors.Is(err, ErrNotFound), qt.IsTrue)
}

func TestAggregateTallyShareChecks(t *testing.T) {
	c := qt.New(t)
	stg := newTestStorage(t)

	// missing proof
	shares := testShares()
	shares[1].Proof = nil
	_, err := stg.AggregateTally("election-1", shares, trustAll, concatAggregator{})
	c.Assert(errors.Is(err, ErrMalformedShare), qt.IsTrue)

	// verifier rejection
	trustNone := homomorphic.ShareVerifierFunc(func(_ string, _, _ []byte) bool { return false })
	_, err = stg.AggregateTally("election-1", testShares(), trustNone, concatAggregator{})
	c.Assert(errors.Is(err, ErrInvalidShareProof), qt.IsTrue)

	// nothing stored after failures
	_, err = stg.Tally("election-1")
	c.Assert(errors.Is(err, ErrNotFound), qt.IsTrue)
}
