package evaluation

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Disturbance sizes drawn per trial. Only the first four angles feed the
// conjugating ansatz; faithfulness trials still draw six.
const (
	IdentityDisturbance     = 4
	FaithfulnessDisturbance = 6
)

// Sampler draws disturbance angles uniformly from [0, 2π).
type Sampler struct {
	dist distuv.Uniform
}

// NewSampler creates a sampler on src.
func NewSampler(src rand.Source) *Sampler {
	return &Sampler{
		dist: distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src},
	}
}

// Disturbance returns n fresh angles.
func (s *Sampler) Disturbance(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.dist.Rand()
	}
	return out
}

// Angle returns a single angle.
func (s *Sampler) Angle() float64 {
	return s.dist.Rand()
}
