package planner

import (
	"errors"
	"fmt"

	"dinner-planner/internal/model"
)

// ErrEmptyQuery indicates the user message carried no text to plan from.
var ErrEmptyQuery = errors.New("query is empty")

// DispatchError is the only error type delivery handlers need to understand.
// It wraps the underlying failure with the dispatch identity for diagnostics;
// handlers present a generic apology instead of the internal text.
type DispatchError struct {
	Scope model.Scope
	Err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch for user=%s conversation=%s: %v", e.Scope.UserID, e.Scope.ConversationID, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
