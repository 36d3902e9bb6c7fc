// Package optimization minimises the training loss with CMA-ES.
package optimization

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

// Defaults used when the corresponding Config field is zero.
const (
	DefaultStepSize       = 1.7
	DefaultMaxEvaluations = 20000
	DefaultTolerance      = 1e-10
	DefaultStallIters     = 100
)

var ErrInvalidConfig = errors.New("invalid optimizer config")

// Config controls a CMA-ES run. Zero values select the defaults;
// MaxIterations and MaxRuntime of zero mean unlimited.
type Config struct {
	StepSize       float64
	Population     int
	MaxEvaluations int
	MaxIterations  int
	MaxRuntime     time.Duration
	Tolerance      float64
	StallIters     int
}

// Validate checks the config for values gonum would reject or panic on.
func (c Config) Validate() error {
	switch {
	case c.StepSize < 0:
		return fmt.Errorf("%w: step size %v", ErrInvalidConfig, c.StepSize)
	case c.Population < 0:
		return fmt.Errorf("%w: population %d", ErrInvalidConfig, c.Population)
	case c.MaxEvaluations < 0:
		return fmt.Errorf("%w: max evaluations %d", ErrInvalidConfig, c.MaxEvaluations)
	case c.MaxIterations < 0:
		return fmt.Errorf("%w: max iterations %d", ErrInvalidConfig, c.MaxIterations)
	case c.MaxRuntime < 0:
		return fmt.Errorf("%w: max runtime %v", ErrInvalidConfig, c.MaxRuntime)
	case c.Tolerance < 0:
		return fmt.Errorf("%w: tolerance %v", ErrInvalidConfig, c.Tolerance)
	case c.StallIters < 0:
		return fmt.Errorf("%w: stall iterations %d", ErrInvalidConfig, c.StallIters)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.StepSize == 0 {
		c.StepSize = DefaultStepSize
	}
	if c.MaxEvaluations == 0 {
		c.MaxEvaluations = DefaultMaxEvaluations
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.StallIters == 0 {
		c.StallIters = DefaultStallIters
	}
	return c
}

// Result is the outcome of a run.
type Result struct {
	Loss        float64         `json:"loss" msgpack:"loss"`
	X           []float64       `json:"x" msgpack:"x"`
	Status      optimize.Status `json:"-" msgpack:"-"`
	StatusName  string          `json:"status" msgpack:"status"`
	Evaluations int             `json:"evaluations" msgpack:"evaluations"`
	Iterations  int             `json:"iterations" msgpack:"iterations"`
	Runtime     time.Duration   `json:"runtime" msgpack:"runtime"`
}

// Converged reports whether the run stopped on a convergence criterion
// rather than on a budget.
func (r Result) Converged() bool {
	return successStatuses[r.Status]
}

var successStatuses = map[optimize.Status]bool{
	optimize.Success:             true,
	optimize.MethodConverge:      true,
	optimize.FunctionConvergence: true,
	optimize.GradientThreshold:   true,
	optimize.StepConvergence:     true,
}

var budgetStatuses = map[optimize.Status]bool{
	optimize.IterationLimit:          true,
	optimize.FunctionEvaluationLimit: true,
	optimize.RuntimeLimit:            true,
}

// CMAOptimizer runs gonum's CMA-ES with Cholesky updates.
type CMAOptimizer struct {
	cfg Config
	src rand.Source
	log zerolog.Logger
}

// NewCMAOptimizer creates an optimizer that draws samples and the initial
// point from src.
func NewCMAOptimizer(cfg Config, src rand.Source, log zerolog.Logger) (*CMAOptimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &CMAOptimizer{
		cfg: cfg.withDefaults(),
		src: src,
		log: log.With().Str("component", "optimizer").Logger(),
	}, nil
}

// RandomStart returns a point drawn uniformly from [0, 2π)^dim.
func (o *CMAOptimizer) RandomStart(dim int) []float64 {
	u := distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: o.src}
	x := make([]float64, dim)
	for i := range x {
		x[i] = u.Rand()
	}
	return x
}

// Minimize runs CMA-ES on f from initial. Budget exhaustion is not an error:
// the best point found so far is returned and a warning is logged.
func (o *CMAOptimizer) Minimize(ctx context.Context, f func([]float64) float64, initial []float64) (*Result, error) {
	if len(initial) == 0 {
		return nil, fmt.Errorf("%w: empty initial point", ErrInvalidConfig)
	}

	problem := optimize.Problem{Func: f}
	settings := &optimize.Settings{
		FuncEvaluations: o.cfg.MaxEvaluations,
		MajorIterations: o.cfg.MaxIterations,
		Runtime:         o.cfg.MaxRuntime,
		Converger: &optimize.FunctionConverge{
			Absolute:   o.cfg.Tolerance,
			Iterations: o.cfg.StallIters,
		},
		Recorder: newLogRecorder(ctx, o.log),
	}
	method := &optimize.CmaEsChol{
		InitStepSize: o.cfg.StepSize,
		Population:   o.cfg.Population,
		Src:          o.src,
	}

	o.log.Info().
		Int("dim", len(initial)).
		Float64("step_size", o.cfg.StepSize).
		Int("population", o.cfg.Population).
		Int("max_evaluations", o.cfg.MaxEvaluations).
		Msg("Starting CMA-ES")

	result, err := optimize.Minimize(problem, initial, settings, method)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("optimization cancelled: %w", ctxErr)
		}
		return nil, fmt.Errorf("optimization failed: %w", err)
	}

	switch {
	case successStatuses[result.Status]:
	case budgetStatuses[result.Status]:
		o.log.Warn().
			Str("status", result.Status.String()).
			Float64("loss", result.F).
			Msg("Optimizer stopped on budget before converging")
	default:
		return nil, fmt.Errorf("optimization did not converge: status=%v", result.Status)
	}

	out := &Result{
		Loss:        result.F,
		X:           append([]float64(nil), result.X...),
		Status:      result.Status,
		StatusName:  result.Status.String(),
		Evaluations: result.FuncEvaluations,
		Iterations:  result.MajorIterations,
		Runtime:     result.Runtime,
	}

	o.log.Info().
		Float64("loss", out.Loss).
		Str("status", out.StatusName).
		Int("evaluations", out.Evaluations).
		Int("iterations", out.Iterations).
		Dur("runtime", out.Runtime).
		Msg("CMA-ES finished")

	return out, nil
}
