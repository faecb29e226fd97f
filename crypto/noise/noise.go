// Package noise provides the differential-privacy noise mechanisms used by
// the analytics budget tracker. Mechanisms are calibrated to the query's
// (epsilon, delta) parameters; counting queries have sensitivity 1.
package noise

import (
	"math"
	randv2 "math/rand/v2"
)

// Mechanism perturbs a true count according to the privacy parameters.
type Mechanism interface {
	NoisyCount(count int64, epsilon, delta float64) int64
}

// MechanismFunc adapts a plain function to the Mechanism interface.
type MechanismFunc func(count int64, epsilon, delta float64) int64

func (f MechanismFunc) NoisyCount(count int64, epsilon, delta float64) int64 {
	return f(count, epsilon, delta)
}

// Laplace is the standard epsilon-DP mechanism for counting queries: additive
// noise drawn from Laplace(0, 1/epsilon). Delta is ignored.
type Laplace struct {
	rng *randv2.Rand
}

var _ Mechanism = (*Laplace)(nil)

// NewLaplace returns a Laplace mechanism seeded from the given values. Tests
// pass fixed seeds for reproducible histograms.
func NewLaplace(seed1, seed2 uint64) *Laplace {
	return &Laplace{rng: randv2.New(randv2.NewPCG(seed1, seed2))}
}

func (l *Laplace) NoisyCount(count int64, epsilon, _ float64) int64 {
	b := 1.0 / epsilon
	return count + int64(math.Round(sampleLaplace(l.rng, b)))
}

// Gaussian is the (epsilon, delta)-DP mechanism with
// sigma = sqrt(2*ln(1.25/delta)) / epsilon. It requires delta > 0 and falls
// back to Laplace noise when delta is zero.
type Gaussian struct {
	rng *randv2.Rand
}

var _ Mechanism = (*Gaussian)(nil)

// NewGaussian returns a Gaussian mechanism seeded from the given values.
func NewGaussian(seed1, seed2 uint64) *Gaussian {
	return &Gaussian{rng: randv2.New(randv2.NewPCG(seed1, seed2))}
}

func (g *Gaussian) NoisyCount(count int64, epsilon, delta float64) int64 {
	if delta <= 0 {
		return count + int64(math.Round(sampleLaplace(g.rng, 1.0/epsilon)))
	}
	sigma := math.Sqrt(2*math.Log(1.25/delta)) / epsilon
	return count + int64(math.Round(g.rng.NormFloat64()*sigma))
}

// sampleLaplace draws from Laplace(0, b) by inverse transform sampling.
func sampleLaplace(rng *randv2.Rand, b float64) float64 {
	u := rng.Float64() - 0.5
	if u < 0 {
		return b * math.Log(1+2*u)
	}
	return -b * math.Log(1-2*u)
}
