// Package audit computes risk-limiting-audit sampling plans from reported
// tallies. Only ballot-polling audits are supported; the plan carries the
// Kaplan-Markov test name but the sequential test itself runs out-of-band.
package audit

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/agoravote/agora-node/types"
)

const (
	// MinSampleSize is the smallest initial sample a plan may request.
	MinSampleSize = 100
	// MaxSampleSize caps the initial sample of very large contests.
	MaxSampleSize = 5000
	// sampleFraction is the share of total votes sampled initially.
	sampleFraction = 0.03
)

// Stratification describes an optional partition of the ballot universe for
// stratified sampling. An empty value means a single unstratified stratum.
type Stratification struct {
	Strata []Stratum `json:"strata,omitempty" cbor:"1,keyasint,omitempty"`
}

// Stratum is one partition of the ballot universe.
type Stratum struct {
	Name    string `json:"name" cbor:"1,keyasint"`
	Ballots uint64 `json:"ballots" cbor:"2,keyasint"`
}

// InitialSampleSize returns the initial ballot-polling sample for the given
// total of reported votes: 3% of the total, clamped to
// [MinSampleSize, MaxSampleSize].
func InitialSampleSize(totalVotes uint64) uint64 {
	size := uint64(sampleFraction * float64(totalVotes))
	if size < MinSampleSize {
		return MinSampleSize
	}
	if size > MaxSampleSize {
		return MaxSampleSize
	}
	return size
}

// TotalVotes sums the reported per-candidate vote counts.
func TotalVotes(tallies []types.ReportedTally) uint64 {
	var total uint64
	for _, t := range tallies {
		total += t.Votes
	}
	return total
}

// EncodePlan serializes the stratification into the opaque sampling-plan blob
// stored with the audit.
func EncodePlan(strat Stratification) ([]byte, error) {
	encOpts := cbor.CoreDetEncOptions()
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("encode sampling plan: %w", err)
	}
	return em.Marshal(strat)
}

// DecodePlan deserializes a sampling-plan blob.
func DecodePlan(data []byte) (Stratification, error) {
	var strat Stratification
	if err := cbor.Unmarshal(data, &strat); err != nil {
		return Stratification{}, fmt.Errorf("decode sampling plan: %w", err)
	}
	return strat, nil
}
