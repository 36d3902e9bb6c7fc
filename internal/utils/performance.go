package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// slowStage is the duration after which a stage is reported at info level.
const slowStage = 10 * time.Second

// Timer measures the duration of a named stage
type Timer struct {
	start time.Time
	name  string
	log   zerolog.Logger
}

// NewTimer creates a new timer with the given name
func NewTimer(name string, log zerolog.Logger) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
		log:   log,
	}
}

// Stop stops the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)

	t.log.Debug().
		Str("stage", t.name).
		Dur("duration_ms", duration).
		Float64("duration_seconds", duration.Seconds()).
		Msg("Stage finished")

	if duration > slowStage {
		t.log.Info().
			Str("stage", t.name).
			Dur("duration", duration).
			Msg("Stage took longer than 10s")
	}

	return duration
}

// StageTiming is the recorded duration of one stage
type StageTiming struct {
	Stage    string        `json:"stage" msgpack:"stage"`
	Duration time.Duration `json:"duration" msgpack:"duration"`
}

// Stopwatch collects stage timings in the order they finish
type Stopwatch struct {
	start  time.Time
	log    zerolog.Logger
	stages []StageTiming
}

// NewStopwatch starts a stopwatch
func NewStopwatch(log zerolog.Logger) *Stopwatch {
	return &Stopwatch{start: time.Now(), log: log}
}

// Stage returns a defer-friendly func that records the stage on return.
//
// Usage:
//
//	defer sw.Stage("train")()
func (s *Stopwatch) Stage(name string) func() {
	t := NewTimer(name, s.log)
	return func() {
		s.stages = append(s.stages, StageTiming{Stage: name, Duration: t.Stop()})
	}
}

// Stages returns the recorded timings
func (s *Stopwatch) Stages() []StageTiming {
	out := make([]StageTiming, len(s.stages))
	copy(out, s.stages)
	return out
}

// Elapsed returns the time since the stopwatch started
func (s *Stopwatch) Elapsed() time.Duration {
	return time.Since(s.start)
}
