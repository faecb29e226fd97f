package noise

import (
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestLaplaceDeterministicWithSeed(t *testing.T) {
	c := qt.New(t)

	a := NewLaplace(7, 11)
	b := NewLaplace(7, 11)
	for i := 0; i < 100; i++ {
		c.Assert(a.NoisyCount(1000, 0.5, 0), qt.Equals, b.NoisyCount(1000, 0.5, 0))
	}
}

func TestLaplaceScale(t *testing.T) {
	c := qt.New(t)

	// with b = 1/epsilon the mean absolute noise over many draws approaches
	// b; check it lands in a generous window
	const draws = 20000
	epsilon := 0.1
	mech := NewLaplace(1, 2)
	var sum float64
	for i := 0; i < draws; i++ {
		sum += math.Abs(float64(mech.NoisyCount(0, epsilon, 0)))
	}
	mean := sum / draws
	b := 1 / epsilon
	c.Assert(mean > b/2, qt.IsTrue, qt.Commentf("mean=%v", mean))
	c.Assert(mean < b*2, qt.IsTrue, qt.Commentf("mean=%v", mean))
}

func TestGaussianSigma(t *testing.T) {
	c := qt.New(t)

	const draws = 20000
	epsilon, delta := 0.5, 1e-5
	mech := NewGaussian(3, 4)
	var sumSq float64
	for i := 0; i < draws; i++ {
		n := float64(mech.NoisyCount(0, epsilon, delta))
		sumSq += n * n
	}
	got := math.Sqrt(sumSq / draws)
	want := math.Sqrt(2*math.Log(1.25/delta)) / epsilon
	c.Assert(got > want/2, qt.IsTrue, qt.Commentf("sigma=%v want=%v", got, want))
	c.Assert(got < want*2, qt.IsTrue, qt.Commentf("sigma=%v want=%v", got, want))
}

func TestGaussianZeroDeltaFallsBackToLaplace(t *testing.T) {
	c := qt.New(t)

	g := NewGaussian(5, 6)
	l := NewLaplace(5, 6)
	for i := 0; i < 50; i++ {
		c.Assert(g.NoisyCount(42, 0.7, 0), qt.Equals, l.NoisyCount(42, 0.7, 0))
	}
}
