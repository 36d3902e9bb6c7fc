package evaluation

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/aristath/grouprep/internal/group"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recorded = group.Params{
	5.84551571, -8.06312288, -12.12870095, -17.06961836,
	16.17214308, 13.9280257, -9.88895781, 4.92153015,
	13.69949734, -8.06312283, 2.00846589, 33.19586423,
}

// analytic returns the closed-form family member at theta.
func analytic(theta float64) group.Params {
	pi := math.Pi
	return group.Params{
		3*pi - theta, 3 * theta, theta - pi, 4*pi - 3*theta,
		theta, 3*theta - pi, 2*pi - theta, 3*pi - 3*theta,
		(pi - 2*theta) / 2, 3 * theta, (pi + 2*theta) / 2, 4*pi - 3*theta,
	}
}

func newTestEvaluator(t *testing.T, seed uint64, train, check int) *Evaluator {
	t.Helper()
	ev, err := NewEvaluator(Config{TrainSamples: train, CheckSamples: check}, rand.NewPCG(seed, seed^0x9e3779b9), zerolog.Nop())
	require.NoError(t, err)
	return ev
}

func TestNewEvaluator_RejectsBadSamples(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero train", Config{TrainSamples: 0, CheckSamples: 10}},
		{"zero check", Config{TrainSamples: 3, CheckSamples: 0}},
		{"negative", Config{TrainSamples: -1, CheckSamples: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEvaluator(tt.cfg, rand.NewPCG(1, 2), zerolog.Nop())
			assert.ErrorIs(t, err, ErrSamples)
		})
	}
}

func TestSampler_Range(t *testing.T) {
	s := NewSampler(rand.NewPCG(7, 11))
	angles := s.Disturbance(500)
	require.Len(t, angles, 500)
	for _, a := range angles {
		assert.GreaterOrEqual(t, a, 0.0)
		assert.Less(t, a, 2*math.Pi)
	}
}

func TestLoss_ZeroParams(t *testing.T) {
	// All-zero letters reduce every conjugated word to the identity.
	ev := newTestEvaluator(t, 1, DefaultTrainSamples, 10)
	loss, err := ev.Loss(group.Params{})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, loss, 1e-12)
}

func TestLoss_Range(t *testing.T) {
	ev := newTestEvaluator(t, 3, DefaultTrainSamples, 10)
	src := rand.New(rand.NewPCG(5, 5))

	for i := 0; i < 20; i++ {
		var p group.Params
		for j := range p {
			p[j] = (src.Float64()*2 - 1) * 10
		}
		loss, err := ev.Loss(p)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, loss, -1.0-1e-12)
		assert.LessOrEqual(t, loss, 0.0)
	}
}

func TestCheckIdentity_KnownSolutions(t *testing.T) {
	tests := []struct {
		name   string
		params group.Params
	}{
		{"recorded", recorded},
		{"analytic theta 0", analytic(0)},
		{"analytic theta 1.3", analytic(1.3)},
		{"analytic theta 5", analytic(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := newTestEvaluator(t, 42, DefaultTrainSamples, 200)
			res, err := ev.CheckIdentity(tt.params)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, res.Score, 1e-7)
			require.Len(t, res.Words, len(group.IdentityRelations))
			for i, w := range res.Words {
				assert.Equal(t, group.IdentityRelations[i], w.Relation)
				assert.Equal(t, 200, w.Summary.N)
				assert.InDelta(t, 1.0, w.Summary.Min, 1e-7)
			}
		})
	}
}

func TestLoss_MatchesIdentityScore(t *testing.T) {
	ev := newTestEvaluator(t, 9, DefaultTrainSamples, DefaultTrainSamples)
	loss, err := ev.Loss(analytic(0.4))
	require.NoError(t, err)
	assert.InDelta(t, -1.0, loss, 1e-7)
}

func TestCheckFaithful_AnalyticIsFaithful(t *testing.T) {
	ev := newTestEvaluator(t, 42, DefaultTrainSamples, 500)
	res, err := ev.CheckFaithful(analytic(0.7))
	require.NoError(t, err)

	assert.Greater(t, res.AB, 0.2)
	assert.Less(t, res.AB, 0.8)
	assert.Greater(t, res.C2, 0.2)
	assert.Less(t, res.C2, 0.8)

	require.Len(t, res.Words, 2)
	assert.Equal(t, res.AB, res.Words[0].Summary.Mean)
	assert.Equal(t, res.C2, res.Words[1].Summary.Mean)
}

func TestCheckFaithful_TrivialIsUnfaithful(t *testing.T) {
	ev := newTestEvaluator(t, 42, DefaultTrainSamples, 50)
	res, err := ev.CheckFaithful(group.Params{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.AB, 1e-12)
	assert.InDelta(t, 1.0, res.C2, 1e-12)
}

func TestEvaluator_Deterministic(t *testing.T) {
	p := analytic(2.1)
	p[3] += 0.3

	a := newTestEvaluator(t, 17, DefaultTrainSamples, 100)
	b := newTestEvaluator(t, 17, DefaultTrainSamples, 100)

	la, err := a.Loss(p)
	require.NoError(t, err)
	lb, err := b.Loss(p)
	require.NoError(t, err)
	assert.Equal(t, la, lb)

	fa, err := a.CheckFaithful(p)
	require.NoError(t, err)
	fb, err := b.CheckFaithful(p)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
}

func TestObjective(t *testing.T) {
	ev := newTestEvaluator(t, 1, DefaultTrainSamples, 10)
	f := ev.Objective()

	assert.InDelta(t, -1.0, f(make([]float64, group.NumParams)), 1e-12)
	assert.True(t, math.IsInf(f([]float64{1, 2}), 1))
}
