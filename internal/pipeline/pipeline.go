// Package pipeline runs named external stages strictly in sequence.
//
// A stage may declare the stages it depends on. Dependencies must be declared
// earlier in the pipeline, so declaration order is also execution order and a
// stage only starts after every stage it depends on has exited successfully.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Stage is one external command of a pipeline.
type Stage struct {
	Name      string
	Command   string
	Args      []string
	Env       map[string]string // added on top of the parent environment
	Dir       string
	DependsOn []string
}

// Runner executes a single stage and reports how it ended. Implementations
// must not return before the stage has terminated.
type Runner interface {
	Run(ctx context.Context, stage Stage) error
}

// Pipeline is a validated, ordered list of stages.
type Pipeline struct {
	stages []Stage
	logger *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for stage lifecycle messages.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New validates stages and returns a Pipeline that runs them in the given order.
func New(stages []Stage, opts ...Option) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, errors.New("pipeline: no stages")
	}

	seen := make(map[string]bool, len(stages))
	for i, s := range stages {
		if s.Name == "" {
			return nil, fmt.Errorf("pipeline: stage %d has no name", i)
		}
		if s.Command == "" {
			return nil, fmt.Errorf("pipeline: stage %q has no command", s.Name)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("pipeline: duplicate stage %q", s.Name)
		}
		for _, dep := range s.DependsOn {
			if !seen[dep] {
				return nil, fmt.Errorf("pipeline: stage %q depends on %q, which is not declared before it", s.Name, dep)
			}
		}
		seen[s.Name] = true
	}

	p := &Pipeline{
		stages: append([]Stage(nil), stages...),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Stages returns a copy of the pipeline's stages in execution order.
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Run executes every stage in order using runner. It stops at the first stage
// that fails and returns that failure as a *StageError; later stages are
// never started.
func (p *Pipeline) Run(ctx context.Context, runner Runner) error {
	succeeded := make(map[string]bool, len(p.stages))

	for _, s := range p.stages {
		for _, dep := range s.DependsOn {
			if !succeeded[dep] {
				return &StageError{Stage: s.Name, Err: fmt.Errorf("dependency %q did not succeed", dep)}
			}
		}
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: s.Name, Err: err}
		}

		p.logger.Info("stage starting",
			zap.String("stage", s.Name),
			zap.String("command", s.Command),
			zap.Strings("args", s.Args),
			zap.String("dir", s.Dir),
		)
		start := time.Now()
		err := runner.Run(ctx, s)
		elapsed := time.Since(start)

		if err != nil {
			stageErr := &StageError{Stage: s.Name, Err: err}
			p.logger.Error("stage failed",
				zap.String("stage", s.Name),
				zap.Int("exit_code", stageErr.ExitCode()),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
			return stageErr
		}

		p.logger.Info("stage finished",
			zap.String("stage", s.Name),
			zap.Duration("elapsed", elapsed),
		)
		succeeded[s.Name] = true
	}
	return nil
}
