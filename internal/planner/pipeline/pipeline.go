package pipeline

import (
	"context"
	"time"

	"dinner-planner/pkg/llmprovider"
	"dinner-planner/pkg/log"
)

const (
	// DefaultMaxAttempts bounds how often a single stage is attempted.
	// Only transient generation failures use the second attempt.
	DefaultMaxAttempts = 2

	// DefaultRetryDelay is the pause before a retry attempt.
	DefaultRetryDelay = 500 * time.Millisecond
)

// Pipeline executes an ordered list of stages, threading a single Context
// through them. The last stage must be terminal; its text is the result.
type Pipeline struct {
	stages      []StageSpec
	gen         Generator
	l           log.Logger
	maxAttempts int
	retryDelay  time.Duration
}

// Option customizes pipeline behavior.
type Option func(*Pipeline)

// WithRetry overrides the per-stage attempt bound and retry delay.
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return func(p *Pipeline) {
		if maxAttempts > 0 {
			p.maxAttempts = maxAttempts
		}
		p.retryDelay = delay
	}
}

// New creates a Pipeline and validates the stage ordering: every stage's
// required keys must be produced by a preceding stage, and only the last
// stage may be terminal. Violations are configuration errors surfaced at
// startup.
func New(gen Generator, l log.Logger, stages []StageSpec, opts ...Option) (*Pipeline, error) {
	if err := validate(stages); err != nil {
		return nil, err
	}

	p := &Pipeline{
		stages:      stages,
		gen:         gen,
		l:           l,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// validate checks the key-coverage invariant over the declared order.
func validate(stages []StageSpec) error {
	if len(stages) == 0 {
		return &ValidationError{Stage: "", Key: "no stages configured"}
	}

	produced := map[string]bool{}
	for i, s := range stages {
		for _, key := range s.RequiredKeys {
			if !produced[key] {
				return &ValidationError{Stage: s.Name, Key: key}
			}
		}
		if s.Terminal() && i != len(stages)-1 {
			return &ValidationError{Stage: s.Name, Key: "terminal stage before end of pipeline"}
		}
		if s.OutputKey != "" {
			produced[s.OutputKey] = true
		}
	}

	if !stages[len(stages)-1].Terminal() {
		return &ValidationError{Stage: stages[len(stages)-1].Name, Key: "last stage must be terminal"}
	}
	return nil
}

// Run executes all stages strictly in order over a private copy of initial.
// It stops on the first failure and wraps it with the failing stage's name;
// no later stage runs with partial upstream data. On success it returns the
// terminal stage's text verbatim plus the final context for the caller to
// commit.
func (p *Pipeline) Run(ctx context.Context, query string, initial Context) (string, Context, error) {
	c := initial.Clone()

	for i, stage := range p.stages {
		p.l.Infof(ctx, "pipeline stage %d/%d: %s", i+1, len(p.stages), stage.Name)

		text, err := p.runStageWithRetry(ctx, stage, c, query)
		if err != nil {
			return "", nil, &StageError{Stage: stage.Name, Err: err}
		}

		if stage.Terminal() {
			return text, c, nil
		}
		c[stage.OutputKey] = text
	}

	// validate() guarantees a terminal last stage, so this is unreachable.
	return "", nil, &StageError{Stage: p.stages[len(p.stages)-1].Name, Err: ErrEmptyGeneration}
}

// runStageWithRetry attempts a stage up to maxAttempts times. Only transient
// generation failures (timeouts, rate limits) are retried; empty output and
// missing keys fail immediately.
func (p *Pipeline) runStageWithRetry(ctx context.Context, stage StageSpec, c Context, query string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if attempt > 1 {
			p.l.Warnf(ctx, "retrying stage %s (attempt %d/%d): %v", stage.Name, attempt, p.maxAttempts, lastErr)
			select {
			case <-time.After(p.retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := stage.Execute(ctx, p.gen, c, query)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !llmprovider.IsTransient(err) {
			break
		}
	}

	return "", lastErr
}
