package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"dinner-planner/internal/model"
	"dinner-planner/internal/planner"
)

// Handle runs one planning turn for the given identity. It is the sole
// mutation point for session state: the pipeline runs over a copy of the
// stored context, and the session is updated only when the whole run
// succeeds, so a mid-pipeline failure never leaks partial state into the
// next turn.
func (uc *implUsecase) Handle(ctx context.Context, sc model.Scope, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", &planner.DispatchError{Scope: sc, Err: planner.ErrEmptyQuery}
	}

	turnID := uuid.NewString()
	uc.l.Infof(ctx, "dispatch turn=%s platform=%s user=%s conversation=%s", turnID, sc.Platform, sc.UserID, sc.ConversationID)

	// Serialize turns per identity pair: a second message from the same
	// conversation waits here until the first run has committed or failed.
	// Acquire revalidates against the sweeper, so the locked session is
	// always the live one and Save cannot land on an evicted object.
	sess := uc.store.Acquire(sc.UserID, sc.ConversationID)
	defer sess.Unlock()

	text, final, err := uc.pl.Run(ctx, query, sess.Context.Clone())
	if err != nil {
		uc.l.Errorf(ctx, "dispatch turn=%s failed: %v", turnID, err)
		return "", &planner.DispatchError{Scope: sc, Err: err}
	}

	uc.store.Save(sess, final)
	uc.l.Infof(ctx, "dispatch turn=%s completed, context keys=%d", turnID, len(final))

	return text, nil
}
