package paramsets

import (
	"math"
	"math/rand/v2"

	"github.com/aristath/grouprep/internal/group"
	"gonum.org/v1/gonum/stat/distuv"
)

// Analytic returns the member of the closed-form solution family at theta.
// Every member satisfies the identity relations exactly.
func Analytic(theta float64) group.Params {
	const pi = math.Pi
	return group.Params{
		// a
		3*pi - theta, 3 * theta, theta - pi, 4*pi - 3*theta,
		// b
		theta, 3*theta - pi, 2*pi - theta, 3*pi - 3*theta,
		// c
		(pi - 2*theta) / 2, 3 * theta, (pi + 2*theta) / 2, 4*pi - 3*theta,
	}
}

// RandomTheta draws theta uniformly from [0, 2π).
func RandomTheta(src rand.Source) float64 {
	return distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src}.Rand()
}
