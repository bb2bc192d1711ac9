package googlechat

import (
	"time"

	"github.com/gin-gonic/gin"

	"dinner-planner/internal/planner"
	pkgGchat "dinner-planner/pkg/gchat"
	pkgLog "dinner-planner/pkg/log"
)

// DefaultSyncTimeout bounds a synchronous planning turn. Google Chat drops
// the webhook response after ~30 seconds, so we give up slightly earlier to
// still deliver an apology instead of a timeout error card.
const DefaultSyncTimeout = 25 * time.Second

// Handler is the interface for the Google Chat delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

type handler struct {
	l           pkgLog.Logger
	uc          planner.UseCase
	chat        *pkgGchat.Client // nil when async delivery is not configured
	syncTimeout time.Duration
}

// New creates a new Google Chat delivery handler. chat may be nil: replies
// then go out synchronously in the webhook response body. With a configured
// client, turns run in the background and the reply is posted into the space
// via the Chat API instead.
func New(l pkgLog.Logger, uc planner.UseCase, chat *pkgGchat.Client) Handler {
	return &handler{
		l:           l,
		uc:          uc,
		chat:        chat,
		syncTimeout: DefaultSyncTimeout,
	}
}
