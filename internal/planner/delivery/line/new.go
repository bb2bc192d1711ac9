package line

import (
	"github.com/gin-gonic/gin"

	"dinner-planner/internal/planner"
	pkgLine "dinner-planner/pkg/line"
	pkgLog "dinner-planner/pkg/log"
)

// Handler is the interface for the LINE delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

type handler struct {
	l             pkgLog.Logger
	uc            planner.UseCase
	bot           *pkgLine.Bot
	channelSecret string
}

// New creates a new LINE delivery handler.
func New(l pkgLog.Logger, uc planner.UseCase, bot *pkgLine.Bot, channelSecret string) Handler {
	return &handler{
		l:             l,
		uc:            uc,
		bot:           bot,
		channelSecret: channelSecret,
	}
}
