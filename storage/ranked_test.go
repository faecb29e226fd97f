package storage

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestSubmitRankedBallot(t *testing.T) {
	c := qt.New(t)
	stg := newTestStorage(t)

	now := time.Now().UTC()
	ballot, err := stg.SubmitRankedBallot("election-1", 1, []uint64{20, 10, 30}, now)
	c.Assert(err, qt.IsNil)
	c.Assert(ballot.BallotID, qt.Not(qt.Equals), "")

	// one ballot per (election, voter), whatever the ranking
	_, err = stg.SubmitRankedBallot("election-1", 1, []uint64{10, 20}, now)
	c.Assert(errors.Is(err, ErrDuplicateBallot), qt.IsTrue)

	// same voter may submit in a different election
	_, err = stg.SubmitRankedBallot("election-2", 1, []uint64{10}, now)
	c.Assert(err, qt.IsNil)

	got, err := stg.RankedBallot("election-1", 1)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Ranking, qt.DeepEquals, []uint64{20, 10, 30})

	_, err = stg.RankedBallot("election-1", 2)
	c.Assert(errors.Is(err, ErrNotFound), qt.IsTrue)
}
