package circuit

import (
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
)

// State is a statevector over 2^n basis states.
type State []complex128

// ZeroState returns |0...0> on nqubits qubits.
func ZeroState(nqubits int) State {
	s := make(State, 1<<nqubits)
	s[0] = 1
	return s
}

// Amplitude returns the amplitude of basis state i.
func (s State) Amplitude(i int) complex128 {
	return s[i]
}

// Probability returns the Born probability of basis state i.
func (s State) Probability(i int) float64 {
	a := cmplx.Abs(s[i])
	return a * a
}

// Norm returns the L2 norm of the state.
func (s State) Norm() float64 {
	return cmplxs.Norm(s, 2)
}
