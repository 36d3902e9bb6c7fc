// Package experiment drives a full run: train the representation, check it
// and the known solutions, and print the θ = 0 matrices.
package experiment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/aristath/grouprep/internal/evaluation"
	"github.com/aristath/grouprep/internal/group"
	"github.com/aristath/grouprep/internal/optimization"
	"github.com/aristath/grouprep/internal/paramsets"
	"github.com/aristath/grouprep/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Independent random streams derived from one seed.
const (
	streamOptimizer uint64 = iota + 1
	streamEvaluation
	streamTheta
)

// identityTol is the slack allowed when a known solution is checked
// against a fidelity of exactly 1.
const identityTol = 1e-6

// SetKind identifies which parameter set a check ran on.
type SetKind string

const (
	SetTrained  SetKind = "trained"
	SetRecorded SetKind = "recorded"
	SetAnalytic SetKind = "analytic"
	SetCustom   SetKind = "custom"
)

// Config configures a Runner.
type Config struct {
	Seed       uint64
	Evaluation evaluation.Config
	Optimizer  optimization.Config
}

// SetResult is the identity and faithfulness check of one parameter set.
type SetResult struct {
	Kind     SetKind                       `json:"kind" msgpack:"kind"`
	Theta    *float64                      `json:"theta,omitempty" msgpack:"theta,omitempty"`
	Params   group.Params                  `json:"params" msgpack:"params"`
	Identity evaluation.IdentityResult     `json:"identity" msgpack:"identity"`
	Faithful evaluation.FaithfulnessResult `json:"faithful" msgpack:"faithful"`
}

// Result collects everything a run produced. Sections a command did not
// run are left empty.
type Result struct {
	RunID       string               `json:"run_id" msgpack:"run_id"`
	Seed        uint64               `json:"seed" msgpack:"seed"`
	StartedAt   time.Time            `json:"started_at" msgpack:"started_at"`
	Host        utils.HostInfo       `json:"host" msgpack:"host"`
	Training    *optimization.Result `json:"training,omitempty" msgpack:"training,omitempty"`
	Sets        []SetResult          `json:"sets,omitempty" msgpack:"sets,omitempty"`
	Matrices    []MatrixBlock        `json:"matrices,omitempty" msgpack:"matrices,omitempty"`
	MatrixTheta float64              `json:"matrix_theta" msgpack:"matrix_theta"`
	Stages      []utils.StageTiming  `json:"stages" msgpack:"stages"`
	Elapsed     time.Duration        `json:"elapsed" msgpack:"elapsed"`
}

// Runner executes experiment stages. All random draws come from streams
// seeded by Config.Seed, so a run is reproducible.
type Runner struct {
	cfg       Config
	log       zerolog.Logger
	evaluator *evaluation.Evaluator
	optimizer *optimization.CMAOptimizer
	thetaSrc  rand.Source
	result    *Result
	stopwatch *utils.Stopwatch
}

// NewRunner creates a runner with a fresh run id.
func NewRunner(cfg Config, log zerolog.Logger) (*Runner, error) {
	runID := uuid.New().String()
	log = log.With().Str("run_id", runID).Logger()

	ev, err := evaluation.NewEvaluator(cfg.Evaluation, rand.NewPCG(cfg.Seed, streamEvaluation), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}
	opt, err := optimization.NewCMAOptimizer(cfg.Optimizer, rand.NewPCG(cfg.Seed, streamOptimizer), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create optimizer: %w", err)
	}

	return &Runner{
		cfg:       cfg,
		log:       log.With().Str("component", "experiment").Logger(),
		evaluator: ev,
		optimizer: opt,
		thetaSrc:  rand.NewPCG(cfg.Seed, streamTheta),
		result: &Result{
			RunID:     runID,
			Seed:      cfg.Seed,
			StartedAt: time.Now().UTC(),
			Host:      utils.CollectHostInfo(log),
		},
		stopwatch: utils.NewStopwatch(log),
	}, nil
}

// RunID returns the id tagging this run's logs and result.
func (r *Runner) RunID() string {
	return r.result.RunID
}

// Run executes every stage in order and returns the result.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.log.Info().Uint64("seed", r.cfg.Seed).Msg("Starting experiment")

	trained, err := r.Train(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := r.CheckSet(ctx, SetTrained, nil, trained); err != nil {
		return nil, err
	}

	recorded, err := paramsets.Recorded()
	if err != nil {
		return nil, err
	}
	if _, err := r.CheckSet(ctx, SetRecorded, nil, recorded); err != nil {
		return nil, err
	}

	theta := paramsets.RandomTheta(r.thetaSrc)
	if _, err := r.CheckSet(ctx, SetAnalytic, &theta, paramsets.Analytic(theta)); err != nil {
		return nil, err
	}

	zero := 0.0
	if _, err := r.CheckSet(ctx, SetAnalytic, &zero, paramsets.Analytic(zero)); err != nil {
		return nil, err
	}
	r.Matrices(zero)

	res := r.Result()
	r.log.Info().Dur("elapsed", res.Elapsed).Msg("Experiment finished")
	return res, nil
}

// Train minimises the loss from a random start and records the outcome.
func (r *Runner) Train(ctx context.Context) (group.Params, error) {
	defer r.stopwatch.Stage("train")()

	start := r.optimizer.RandomStart(group.NumParams)
	res, err := r.optimizer.Minimize(ctx, r.evaluator.Objective(), start)
	if err != nil {
		return group.Params{}, fmt.Errorf("training failed: %w", err)
	}
	r.result.Training = res

	return group.ParamsFromSlice(res.X)
}

// CheckSet runs the identity and faithfulness checks on p.
func (r *Runner) CheckSet(ctx context.Context, kind SetKind, theta *float64, p group.Params) (SetResult, error) {
	stage := "check_" + string(kind)
	if theta != nil {
		stage = fmt.Sprintf("%s_theta_%.4f", stage, *theta)
	}
	defer r.stopwatch.Stage(stage)()

	if err := ctx.Err(); err != nil {
		return SetResult{}, err
	}

	identity, err := r.evaluator.CheckIdentity(p)
	if err != nil {
		return SetResult{}, fmt.Errorf("identity check on %s set failed: %w", kind, err)
	}
	if err := ctx.Err(); err != nil {
		return SetResult{}, err
	}
	faithful, err := r.evaluator.CheckFaithful(p)
	if err != nil {
		return SetResult{}, fmt.Errorf("faithfulness check on %s set failed: %w", kind, err)
	}

	if kind == SetRecorded || kind == SetAnalytic {
		for _, w := range identity.Words {
			if !w.Summary.WithinSigma(1, 3, identityTol) {
				r.log.Warn().
					Str("set", string(kind)).
					Str("relation", w.Relation.Name).
					Float64("mean", w.Summary.Mean).
					Msg("Known solution misses identity relation")
			}
		}
	}

	set := SetResult{Kind: kind, Theta: theta, Params: p, Identity: identity, Faithful: faithful}
	r.result.Sets = append(r.result.Sets, set)

	r.log.Info().
		Str("set", string(kind)).
		Float64("identity", identity.Score).
		Float64("faithful_ab", faithful.AB).
		Float64("faithful_c2", faithful.C2).
		Msg("Checked parameter set")

	return set, nil
}

// Matrices records the representation matrices of the analytic family at
// theta.
func (r *Runner) Matrices(theta float64) []MatrixBlock {
	defer r.stopwatch.Stage("matrices")()

	blocks := Matrices(paramsets.Analytic(theta))
	for _, b := range blocks {
		if !b.Holds {
			r.log.Warn().Str("claim", b.Label).Float64("theta", theta).Msg("Relation claim does not hold")
		}
	}
	r.result.Matrices = blocks
	r.result.MatrixTheta = theta
	return blocks
}

// Result returns the accumulated result with timings filled in.
func (r *Runner) Result() *Result {
	r.result.Stages = r.stopwatch.Stages()
	r.result.Elapsed = r.stopwatch.Elapsed()
	return r.result
}
