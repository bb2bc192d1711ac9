package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingContextKey indicates a stage ran without a required context
	// key. If startup validation passed this is a defect, never user input.
	ErrMissingContextKey = errors.New("required context key missing")

	// ErrEmptyGeneration indicates the capability returned blank text. Never
	// retried: an empty dish name must not leak into later prompts.
	ErrEmptyGeneration = errors.New("generation returned empty text")
)

// StageError wraps the first stage failure with the failing stage's name.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ValidationError reports a stage ordering that violates the key-coverage
// invariant. Raised by New at startup, never at run time.
type ValidationError struct {
	Stage string
	Key   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("stage %s requires key %q not produced by any preceding stage", e.Stage, e.Key)
}
