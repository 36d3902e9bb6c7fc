// Package circuit is a small statevector simulator for the RY/CZ gate set
// used by the ansatz. Unitaries and state updates go through gonum's
// complex BLAS.
package circuit

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

// MaxQubits bounds the register size; operators are stored densely.
const MaxQubits = 10

var (
	ErrQubitCount     = errors.New("qubit count out of range")
	ErrQubitRange     = errors.New("qubit index out of range")
	ErrInvalidGate    = errors.New("invalid gate")
	ErrParameterCount = errors.New("parameter count mismatch")
)

// Circuit is an ordered gate list on a fixed register.
type Circuit struct {
	nqubits int
	gates   []Gate
}

// New creates an empty circuit on nqubits qubits.
func New(nqubits int) (*Circuit, error) {
	if nqubits < 1 || nqubits > MaxQubits {
		return nil, fmt.Errorf("%w: %d (allowed 1..%d)", ErrQubitCount, nqubits, MaxQubits)
	}
	return &Circuit{nqubits: nqubits}, nil
}

// NumQubits returns the register size.
func (c *Circuit) NumQubits() int {
	return c.nqubits
}

// Add appends gates in application order. Nothing is appended if any gate is invalid.
func (c *Circuit) Add(gates ...Gate) error {
	for _, g := range gates {
		if err := g.validate(c.nqubits); err != nil {
			return err
		}
	}
	c.gates = append(c.gates, gates...)
	return nil
}

// Gates returns a copy of the gate list.
func (c *Circuit) Gates() []Gate {
	out := make([]Gate, len(c.gates))
	copy(out, c.gates)
	return out
}

// TrainableCount returns how many gates SetParameters binds.
func (c *Circuit) TrainableCount() int {
	n := 0
	for _, g := range c.gates {
		if g.Trainable && g.Parametrized() {
			n++
		}
	}
	return n
}

// Parameters returns the current angles of the trainable gates.
func (c *Circuit) Parameters() []float64 {
	params := make([]float64, 0, c.TrainableCount())
	for _, g := range c.gates {
		if g.Trainable && g.Parametrized() {
			params = append(params, g.Theta)
		}
	}
	return params
}

// SetParameters binds values, in gate order, to the trainable gates.
// Fixed gates keep their angles.
func (c *Circuit) SetParameters(values []float64) error {
	if want := c.TrainableCount(); len(values) != want {
		return fmt.Errorf("%w: got %d values for %d trainable gates", ErrParameterCount, len(values), want)
	}
	k := 0
	for i := range c.gates {
		if c.gates[i].Trainable && c.gates[i].Parametrized() {
			c.gates[i].Theta = values[k]
			k++
		}
	}
	return nil
}

// Execute applies the circuit to |0...0> and returns the final state.
func (c *Circuit) Execute() State {
	dim := 1 << c.nqubits
	state := ZeroState(c.nqubits)
	next := make(State, dim)

	for _, g := range c.gates {
		op := g.operator(c.nqubits)
		cblas128.Gemv(blas.NoTrans, 1, op.RawCMatrix(),
			cblas128.Vector{N: dim, Inc: 1, Data: state},
			0, cblas128.Vector{N: dim, Inc: 1, Data: next})
		state, next = next, state
	}

	return state
}

// Unitary returns the matrix of the whole circuit, last gate leftmost.
func (c *Circuit) Unitary() *mat.CDense {
	dim := 1 << c.nqubits
	u := Identity(dim)
	tmp := mat.NewCDense(dim, dim, nil)

	for _, g := range c.gates {
		op := g.operator(c.nqubits)
		cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, op.RawCMatrix(), u.RawCMatrix(), 0, tmp.RawCMatrix())
		u, tmp = tmp, u
	}

	return u
}

// Identity returns the dim x dim identity matrix.
func Identity(dim int) *mat.CDense {
	m := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Mul returns a·b for square matrices of equal size.
func Mul(a, b *mat.CDense) *mat.CDense {
	r, _ := a.Dims()
	_, cols := b.Dims()
	out := mat.NewCDense(r, cols, nil)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, a.RawCMatrix(), b.RawCMatrix(), 0, out.RawCMatrix())
	return out
}

// Adjoint returns the conjugate transpose of m.
func Adjoint(m *mat.CDense) *mat.CDense {
	r, cols := m.Dims()
	out := mat.NewCDense(cols, r, nil)
	out.Copy(m.H())
	return out
}
