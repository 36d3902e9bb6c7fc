// Package group maps words in the generators a, b and c onto conjugated
// ansatz circuits and their unitaries.
package group

import (
	"errors"
	"fmt"

	"github.com/aristath/grouprep/internal/circuit"
)

// NumParams is the length of a full parameter vector: four angles per letter.
const NumParams = 3 * circuit.AnsatzParams

var (
	ErrParamsLength  = errors.New("parameter vector must have 12 entries")
	ErrUnknownLetter = errors.New("unknown letter")
	ErrEmptyWord     = errors.New("empty word")
	ErrDisturbance   = errors.New("disturbance needs at least 4 angles")
)

// Letter is a generator of the group.
type Letter byte

const (
	A Letter = 'a'
	B Letter = 'b'
	C Letter = 'c'
)

// Letters lists the generators in parameter order.
var Letters = []Letter{A, B, C}

func (l Letter) offset() (int, error) {
	switch l {
	case A:
		return 0, nil
	case B:
		return circuit.AnsatzParams, nil
	case C:
		return 2 * circuit.AnsatzParams, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLetter, rune(l))
	}
}

// Params holds the angles of a, b and c, in that order.
type Params [NumParams]float64

// ParamsFromSlice copies a 12-entry slice into Params.
func ParamsFromSlice(values []float64) (Params, error) {
	var p Params
	if len(values) != NumParams {
		return p, fmt.Errorf("%w: got %d", ErrParamsLength, len(values))
	}
	copy(p[:], values)
	return p, nil
}

// Slice returns the parameters as a fresh slice.
func (p Params) Slice() []float64 {
	out := make([]float64, NumParams)
	copy(out, p[:])
	return out
}

// Letter returns the four angles of generator l.
func (p Params) Letter(l Letter) ([circuit.AnsatzParams]float64, error) {
	var out [circuit.AnsatzParams]float64
	off, err := l.offset()
	if err != nil {
		return out, err
	}
	copy(out[:], p[off:off+circuit.AnsatzParams])
	return out, nil
}

// A returns the angles of generator a.
func (p Params) A() [circuit.AnsatzParams]float64 { return p.mustLetter(A) }

// B returns the angles of generator b.
func (p Params) B() [circuit.AnsatzParams]float64 { return p.mustLetter(B) }

// C returns the angles of generator c.
func (p Params) C() [circuit.AnsatzParams]float64 { return p.mustLetter(C) }

func (p Params) mustLetter(l Letter) [circuit.AnsatzParams]float64 {
	out, _ := p.Letter(l)
	return out
}

// DisturbanceAngles takes the conjugating ansatz angles from a random
// disturbance. Extra entries are ignored.
func DisturbanceAngles(ru []float64) ([circuit.AnsatzParams]float64, error) {
	var out [circuit.AnsatzParams]float64
	if len(ru) < circuit.AnsatzParams {
		return out, fmt.Errorf("%w: got %d", ErrDisturbance, len(ru))
	}
	copy(out[:], ru[:circuit.AnsatzParams])
	return out, nil
}
