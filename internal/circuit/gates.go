package circuit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Kind identifies a gate type.
type Kind int

const (
	// KindRY is a rotation about the Y axis of one qubit.
	KindRY Kind = iota
	// KindCZ is the controlled-Z gate.
	KindCZ
)

func (k Kind) String() string {
	switch k {
	case KindRY:
		return "RY"
	case KindCZ:
		return "CZ"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Gate is a single gate placed on the register.
type Gate struct {
	Kind      Kind
	Target    int
	Control   int // -1 for single-qubit gates
	Theta     float64
	Trainable bool
}

// RY returns a Y rotation by theta on qubit q.
func RY(q int, theta float64, trainable bool) Gate {
	return Gate{Kind: KindRY, Target: q, Control: -1, Theta: theta, Trainable: trainable}
}

// CZ returns a controlled-Z between control and target.
func CZ(control, target int) Gate {
	return Gate{Kind: KindCZ, Target: target, Control: control}
}

// Parametrized reports whether the gate carries an angle.
func (g Gate) Parametrized() bool {
	return g.Kind == KindRY
}

func (g Gate) String() string {
	if g.Kind == KindCZ {
		return fmt.Sprintf("CZ(%d, %d)", g.Control, g.Target)
	}
	return fmt.Sprintf("%s(%d, theta=%.6f)", g.Kind, g.Target, g.Theta)
}

func (g Gate) validate(nqubits int) error {
	if g.Target < 0 || g.Target >= nqubits {
		return fmt.Errorf("%w: %s target %d on %d qubits", ErrQubitRange, g.Kind, g.Target, nqubits)
	}
	switch g.Kind {
	case KindRY:
		return nil
	case KindCZ:
		if g.Control < 0 || g.Control >= nqubits {
			return fmt.Errorf("%w: CZ control %d on %d qubits", ErrQubitRange, g.Control, nqubits)
		}
		if g.Control == g.Target {
			return fmt.Errorf("%w: CZ control and target are both %d", ErrInvalidGate, g.Target)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidGate, int(g.Kind))
	}
}

// bitMask returns the basis-index bit of qubit q. Qubit 0 is the most
// significant bit.
func bitMask(nqubits, q int) int {
	return 1 << (nqubits - 1 - q)
}

// operator embeds the gate in the full 2^n dimensional register.
func (g Gate) operator(nqubits int) *mat.CDense {
	dim := 1 << nqubits
	op := mat.NewCDense(dim, dim, nil)

	switch g.Kind {
	case KindRY:
		c, s := math.Cos(g.Theta/2), math.Sin(g.Theta/2)
		local := [2][2]float64{{c, -s}, {s, c}}
		bit := bitMask(nqubits, g.Target)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				if i&^bit != j&^bit {
					continue
				}
				op.Set(i, j, complex(local[bitValue(i, bit)][bitValue(j, bit)], 0))
			}
		}
	case KindCZ:
		cb, tb := bitMask(nqubits, g.Control), bitMask(nqubits, g.Target)
		for i := 0; i < dim; i++ {
			v := complex(1, 0)
			if i&cb != 0 && i&tb != 0 {
				v = -1
			}
			op.Set(i, i, v)
		}
	}

	return op
}

func bitValue(index, bit int) int {
	if index&bit != 0 {
		return 1
	}
	return 0
}
