package usecase

import (
	"context"

	"dinner-planner/internal/planner"
	"dinner-planner/internal/planner/pipeline"
	"dinner-planner/internal/planner/session"
	pkgLog "dinner-planner/pkg/log"
)

// Runner is the pipeline contract the dispatcher depends on.
// Satisfied by *pipeline.Pipeline; narrowed for testability.
type Runner interface {
	Run(ctx context.Context, query string, initial pipeline.Context) (string, pipeline.Context, error)
}

type implUsecase struct {
	l     pkgLog.Logger
	pl    Runner
	store *session.Store
}

var _ planner.UseCase = (*implUsecase)(nil)

// New creates the dispatcher use case.
func New(l pkgLog.Logger, pl Runner, store *session.Store) planner.UseCase {
	return &implUsecase{
		l:     l,
		pl:    pl,
		store: store,
	}
}
