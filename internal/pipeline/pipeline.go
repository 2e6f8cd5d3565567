package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsrecon/jsrecon/internal/model"
)

// Step is one stage of a scan. Implementations read and enrich the
// shared result in place.
type Step interface {
	// Name identifies the step in logs and in PerformedSteps.
	Name() string

	// Do executes the step against the result.
	Do(ctx context.Context, result *model.ScanResult) error
}

// Pipeline runs steps in order against one target's result.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError makes step failures non-fatal: the error is
// recorded on the result and later steps still run. Without it the
// first failing step ends the run.
func WithContinueOnError() Option {
	return func(p *Pipeline) {
		p.continueOnError = true
	}
}

// New creates a Pipeline over the given steps.
func New(steps []Step, opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:  steps,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes all steps for target and returns the result. The result
// is always non-nil; on failure it carries the error alongside whatever
// the completed steps produced.
func (p *Pipeline) Run(ctx context.Context, target string) (*model.ScanResult, error) {
	result := model.NewScanResult(target)

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.recordError(result, err)
			return result, err
		}

		p.logger.Debug("pipeline step starting", "step", step.Name(), "target", target)
		if err := step.Do(ctx, result); err != nil {
			err = fmt.Errorf("%s: %w", step.Name(), err)
			p.recordError(result, err)
			if !p.continueOnError {
				return result, err
			}
			p.logger.Warn("pipeline step failed, continuing", "step", step.Name(), "error", err)
			continue
		}
		result.PerformedSteps = append(result.PerformedSteps, step.Name())
	}

	if result.Error != nil {
		return result, result.Error
	}
	return result, nil
}

// recordError stores the first error on the result.
func (p *Pipeline) recordError(result *model.ScanResult, err error) {
	if result.Error == nil {
		result.Error = err
		result.ErrorMessage = err.Error()
	}
}
