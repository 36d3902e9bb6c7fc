package group

import (
	"fmt"
	"math/cmplx"

	"github.com/aristath/grouprep/internal/circuit"
	"gonum.org/v1/gonum/mat"
)

const numQubits = 2

// SubCircuit wraps slots trainable ansatz blocks, all at zero, between a
// fixed ansatz on ru and its inverse.
func SubCircuit(slots int, ru [circuit.AnsatzParams]float64) (*circuit.Circuit, error) {
	c, err := circuit.New(numQubits)
	if err != nil {
		return nil, err
	}
	if err := c.Add(circuit.Ansatz(ru, false)...); err != nil {
		return nil, err
	}
	var zero [circuit.AnsatzParams]float64
	for i := 0; i < slots; i++ {
		if err := c.Add(circuit.Ansatz(zero, true)...); err != nil {
			return nil, err
		}
	}
	if err := c.Add(circuit.AnsatzDagger(ru, false)...); err != nil {
		return nil, err
	}
	return c, nil
}

// Conjugated builds A(ru)† · W · A(ru) for word w with the angles of p bound.
func Conjugated(w Word, p Params, ru [circuit.AnsatzParams]float64) (*circuit.Circuit, error) {
	angles, err := w.Angles(p)
	if err != nil {
		return nil, err
	}
	c, err := SubCircuit(len(w), ru)
	if err != nil {
		return nil, err
	}
	if err := c.SetParameters(angles); err != nil {
		return nil, fmt.Errorf("binding word %q: %w", string(w), err)
	}
	return c, nil
}

// Fidelity returns |<00| A(ru)† W A(ru) |00>|. It is 1 when W is the
// identity up to a global phase.
func Fidelity(w Word, p Params, ru [circuit.AnsatzParams]float64) (float64, error) {
	c, err := Conjugated(w, p, ru)
	if err != nil {
		return 0, err
	}
	return cmplx.Abs(c.Execute().Amplitude(0)), nil
}

// LetterUnitary returns the 4x4 matrix of one ansatz block.
func LetterUnitary(angles [circuit.AnsatzParams]float64) *mat.CDense {
	c, _ := circuit.New(numQubits)
	_ = c.Add(circuit.Ansatz(angles, false)...)
	return c.Unitary()
}

// WordUnitary returns U(w_n)···U(w_1) for w = w_1…w_n.
func WordUnitary(w Word, p Params) (*mat.CDense, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	u := circuit.Identity(1 << numQubits)
	for i := 0; i < len(w); i++ {
		angles, _ := p.Letter(Letter(w[i]))
		u = circuit.Mul(LetterUnitary(angles), u)
	}
	return u, nil
}

// Representation returns U(a), U(b) and U(c).
func Representation(p Params) (ua, ub, uc *mat.CDense) {
	return LetterUnitary(p.A()), LetterUnitary(p.B()), LetterUnitary(p.C())
}
