package optimization

import (
	"context"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/optimize"
)

// logRecorder logs major iterations and stops the run once ctx is done.
type logRecorder struct {
	ctx context.Context
	log zerolog.Logger
}

func newLogRecorder(ctx context.Context, log zerolog.Logger) *logRecorder {
	return &logRecorder{ctx: ctx, log: log}
}

func (r *logRecorder) Init() error {
	return r.ctx.Err()
}

func (r *logRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	if op == optimize.MajorIteration {
		r.log.Debug().
			Int("iteration", stats.MajorIterations).
			Int("evaluations", stats.FuncEvaluations).
			Float64("best", loc.F).
			Msg("CMA-ES generation")
	}
	return nil
}
