// Package evaluation holds the Monte Carlo objectives: the training loss and
// the identity and faithfulness checks.
package evaluation

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/aristath/grouprep/internal/group"
	"github.com/aristath/grouprep/pkg/formulas"
	"github.com/rs/zerolog"
)

// Default sample counts.
const (
	DefaultTrainSamples = 3
	DefaultCheckSamples = 1000
)

var ErrSamples = errors.New("sample count must be positive")

// Config sets the number of random disturbances per objective.
type Config struct {
	TrainSamples int
	CheckSamples int
}

// WordScore is the fidelity sample of one relation.
type WordScore struct {
	Relation group.Relation   `json:"relation" msgpack:"relation"`
	Summary  formulas.Summary `json:"summary" msgpack:"summary"`
}

// IdentityResult is the outcome of CheckIdentity. Score close to 1 means
// every relation word is close to the identity.
type IdentityResult struct {
	Score float64     `json:"score" msgpack:"score"`
	Words []WordScore `json:"words" msgpack:"words"`
}

// FaithfulnessResult is the outcome of CheckFaithful. Values close to 1
// mean the representation is unfaithful.
type FaithfulnessResult struct {
	AB    float64     `json:"ab" msgpack:"ab"`
	C2    float64     `json:"c2" msgpack:"c2"`
	Words []WordScore `json:"words" msgpack:"words"`
}

// Evaluator computes the objectives. It owns a random source and is not
// safe for concurrent use.
type Evaluator struct {
	sampler      *Sampler
	trainSamples int
	checkSamples int
	log          zerolog.Logger
}

// NewEvaluator creates an evaluator drawing disturbances from src.
func NewEvaluator(cfg Config, src rand.Source, log zerolog.Logger) (*Evaluator, error) {
	if cfg.TrainSamples <= 0 || cfg.CheckSamples <= 0 {
		return nil, fmt.Errorf("%w: train=%d check=%d", ErrSamples, cfg.TrainSamples, cfg.CheckSamples)
	}
	return &Evaluator{
		sampler:      NewSampler(src),
		trainSamples: cfg.TrainSamples,
		checkSamples: cfg.CheckSamples,
		log:          log.With().Str("component", "evaluation").Logger(),
	}, nil
}

// Loss is the training objective: minus the mean fidelity of the identity
// relations over TrainSamples disturbances. It lies in [-1, 0].
func (e *Evaluator) Loss(p group.Params) (float64, error) {
	samples, err := e.sample(p, group.IdentityRelations, e.trainSamples, IdentityDisturbance)
	if err != nil {
		return 0, err
	}
	return -grandMean(samples), nil
}

// Objective adapts Loss to the optimizer's function signature.
func (e *Evaluator) Objective() func(x []float64) float64 {
	return func(x []float64) float64 {
		p, err := group.ParamsFromSlice(x)
		if err != nil {
			e.log.Error().Err(err).Msg("Objective called with wrong dimension")
			return math.Inf(1)
		}
		loss, err := e.Loss(p)
		if err != nil {
			e.log.Error().Err(err).Msg("Loss evaluation failed")
			return math.Inf(1)
		}
		return loss
	}
}

// CheckIdentity estimates how close every relation word is to the identity
// over CheckSamples disturbances.
func (e *Evaluator) CheckIdentity(p group.Params) (IdentityResult, error) {
	samples, err := e.sample(p, group.IdentityRelations, e.checkSamples, IdentityDisturbance)
	if err != nil {
		return IdentityResult{}, err
	}
	return IdentityResult{
		Score: grandMean(samples),
		Words: scores(group.IdentityRelations, samples),
	}, nil
}

// CheckFaithful estimates the fidelity of the words ab and c² over
// CheckSamples disturbances.
func (e *Evaluator) CheckFaithful(p group.Params) (FaithfulnessResult, error) {
	samples, err := e.sample(p, group.FaithfulnessProbes, e.checkSamples, FaithfulnessDisturbance)
	if err != nil {
		return FaithfulnessResult{}, err
	}
	words := scores(group.FaithfulnessProbes, samples)
	return FaithfulnessResult{
		AB:    words[0].Summary.Mean,
		C2:    words[1].Summary.Mean,
		Words: words,
	}, nil
}

// sample returns one fidelity slice per relation. Every trial draws a
// single disturbance shared by all relations.
func (e *Evaluator) sample(p group.Params, relations []group.Relation, n, width int) ([][]float64, error) {
	out := make([][]float64, len(relations))
	for i := range out {
		out[i] = make([]float64, n)
	}

	for trial := 0; trial < n; trial++ {
		ru, err := group.DisturbanceAngles(e.sampler.Disturbance(width))
		if err != nil {
			return nil, err
		}
		for i, rel := range relations {
			f, err := group.Fidelity(rel.Word, p, ru)
			if err != nil {
				return nil, fmt.Errorf("relation %s: %w", rel.Name, err)
			}
			out[i][trial] = f
		}
	}

	return out, nil
}

func grandMean(samples [][]float64) float64 {
	total, count := 0.0, 0
	for _, s := range samples {
		for _, v := range s {
			total += v
		}
		count += len(s)
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func scores(relations []group.Relation, samples [][]float64) []WordScore {
	out := make([]WordScore, len(relations))
	for i, rel := range relations {
		out[i] = WordScore{Relation: rel, Summary: formulas.Summarize(samples[i])}
	}
	return out
}
