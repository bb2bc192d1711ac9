package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	gchatDelivery "dinner-planner/internal/planner/delivery/googlechat"
	lineDelivery "dinner-planner/internal/planner/delivery/line"
	"dinner-planner/internal/webhook"
	"dinner-planner/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Planner domain
	lineHandler       lineDelivery.Handler
	googleChatHandler gchatDelivery.Handler

	// Webhook protection
	webhookCfg webhook.Config
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	// Planner domain
	LineHandler       lineDelivery.Handler
	GoogleChatHandler gchatDelivery.Handler

	// Webhook protection
	Webhook webhook.Config
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:                 logger,
		gin:               gin.Default(),
		port:              cfg.Port,
		mode:              cfg.Mode,
		environment:       cfg.Environment,
		lineHandler:       cfg.LineHandler,
		googleChatHandler: cfg.GoogleChatHandler,
		webhookCfg:        cfg.Webhook,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
