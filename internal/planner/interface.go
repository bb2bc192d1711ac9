package planner

import (
	"context"

	"dinner-planner/internal/model"
)

// UseCase is the boundary-facing dinner planning contract. Delivery handlers
// call Handle with the identity extracted from their platform payload and get
// back the final plan text for platform-specific delivery.
type UseCase interface {
	Handle(ctx context.Context, sc model.Scope, query string) (string, error)
}
