package circuit

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

func newTwoQubit(t *testing.T, gates ...Gate) *Circuit {
	t.Helper()
	c, err := New(2)
	require.NoError(t, err)
	require.NoError(t, c.Add(gates...))
	return c
}

func TestNew_QubitBounds(t *testing.T) {
	tests := []struct {
		name    string
		nqubits int
		wantErr bool
	}{
		{"zero qubits", 0, true},
		{"negative", -1, true},
		{"one qubit", 1, false},
		{"two qubits", 2, false},
		{"max qubits", MaxQubits, false},
		{"too many", MaxQubits + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.nqubits)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrQubitCount)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.nqubits, c.NumQubits())
		})
	}
}

func TestAdd_RejectsInvalidGates(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	assert.ErrorIs(t, c.Add(RY(2, 0.1, false)), ErrQubitRange)
	assert.ErrorIs(t, c.Add(RY(-1, 0.1, false)), ErrQubitRange)
	assert.ErrorIs(t, c.Add(CZ(0, 0)), ErrInvalidGate)
	assert.ErrorIs(t, c.Add(CZ(3, 1)), ErrQubitRange)

	// A bad gate anywhere in the batch rejects the whole batch.
	assert.Error(t, c.Add(RY(0, 0.1, false), CZ(1, 1)))
	assert.Empty(t, c.Gates())
}

func TestExecute_RYMovesAmplitude(t *testing.T) {
	// RY(pi)|0> = |1>; qubit 0 is the most significant bit.
	c := newTwoQubit(t, RY(0, math.Pi, false))
	state := c.Execute()
	assert.InDelta(t, 1.0, state.Probability(2), 1e-12)
	assert.InDelta(t, 0.0, state.Probability(0), 1e-12)

	c = newTwoQubit(t, RY(1, math.Pi, false))
	state = c.Execute()
	assert.InDelta(t, 1.0, state.Probability(1), 1e-12)
}

func TestExecute_RYHalfTurnAmplitudes(t *testing.T) {
	c := newTwoQubit(t, RY(0, math.Pi/2, false))
	state := c.Execute()

	h := 1 / math.Sqrt2
	assert.InDelta(t, h, real(state.Amplitude(0)), 1e-12)
	assert.InDelta(t, h, real(state.Amplitude(2)), 1e-12)
	assert.InDelta(t, 1.0, state.Norm(), 1e-12)
}

func TestUnitary_CZ(t *testing.T) {
	c := newTwoQubit(t, CZ(0, 1))
	want := mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, -1,
	})
	assert.True(t, mat.CEqualApprox(want, c.Unitary(), 1e-12))
}

func TestUnitary_IsUnitary(t *testing.T) {
	params := [AnsatzParams]float64{0.3, -1.2, 2.5, 4.1}
	c := newTwoQubit(t, Ansatz(params, false)...)
	u := c.Unitary()

	product := mat.NewCDense(4, 4, nil)
	cblas128.Gemm(blas.ConjTrans, blas.NoTrans, 1, u.RawCMatrix(), u.RawCMatrix(), 0, product.RawCMatrix())
	assert.True(t, mat.CEqualApprox(Identity(4), product, 1e-12))
}

func TestExecute_MatchesUnitaryFirstColumn(t *testing.T) {
	params := [AnsatzParams]float64{1.1, 0.4, -0.7, 2.9}
	c := newTwoQubit(t, Ansatz(params, false)...)

	state := c.Execute()
	u := c.Unitary()
	for i := range state {
		assert.InDelta(t, 0.0, cmplx.Abs(state[i]-u.At(i, 0)), 1e-12, "row %d", i)
	}
}

func TestAnsatzDagger_InvertsAnsatz(t *testing.T) {
	cases := [][AnsatzParams]float64{
		{0, 0, 0, 0},
		{0.3, -1.2, 2.5, 4.1},
		{math.Pi, 3 * math.Pi, -math.Pi / 2, 7.7},
	}

	for _, p := range cases {
		c := newTwoQubit(t, Ansatz(p, false)...)
		require.NoError(t, c.Add(AnsatzDagger(p, false)...))
		assert.True(t, mat.CEqualApprox(Identity(4), c.Unitary(), 1e-12), "params %v", p)

		dagger := newTwoQubit(t, AnsatzDagger(p, false)...)
		forward := newTwoQubit(t, Ansatz(p, false)...)
		assert.True(t, mat.CEqualApprox(Adjoint(forward.Unitary()), dagger.Unitary(), 1e-12))
	}
}

func TestSetParameters(t *testing.T) {
	fixed := [AnsatzParams]float64{9, 9, 9, 9}
	c := newTwoQubit(t, Ansatz(fixed, false)...)
	require.NoError(t, c.Add(Ansatz([AnsatzParams]float64{}, true)...))
	require.NoError(t, c.Add(AnsatzDagger(fixed, false)...))

	assert.Equal(t, 4, c.TrainableCount())
	assert.Equal(t, []float64{0, 0, 0, 0}, c.Parameters())

	err := c.SetParameters([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrParameterCount)

	require.NoError(t, c.SetParameters([]float64{1, 2, 3, 4}))
	assert.Equal(t, []float64{1, 2, 3, 4}, c.Parameters())

	// Fixed gates keep their angles.
	gates := c.Gates()
	assert.Equal(t, 9.0, gates[0].Theta)
	assert.Equal(t, -9.0, gates[len(gates)-1].Theta)
}

func TestMul_ComposesInOrder(t *testing.T) {
	a := newTwoQubit(t, RY(0, 0.7, false)).Unitary()
	b := newTwoQubit(t, CZ(0, 1)).Unitary()

	// Applying a then b equals b·a.
	both := newTwoQubit(t, RY(0, 0.7, false), CZ(0, 1)).Unitary()
	assert.True(t, mat.CEqualApprox(Mul(b, a), both, 1e-12))
}

func TestGateString(t *testing.T) {
	assert.Equal(t, "CZ(0, 1)", CZ(0, 1).String())
	assert.Equal(t, "RY(1, theta=0.500000)", RY(1, 0.5, true).String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
