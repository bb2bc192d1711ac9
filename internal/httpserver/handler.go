package httpserver

import (
	"context"

	"dinner-planner/internal/model"
	"dinner-planner/internal/webhook"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (srv HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()

	if err := srv.registerDomainRoutes(); err != nil {
		return err
	}

	return nil
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "server mode: production")
	} else {
		srv.l.Infof(ctx, "server mode: %s", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes() error {
	ctx := context.Background()

	limit := webhook.RateLimit(srv.webhookCfg)

	if srv.lineHandler != nil {
		srv.gin.POST("/webhook/line", limit, srv.lineHandler.HandleWebhook)
		srv.l.Infof(ctx, "LINE webhook route registered at POST /webhook/line")
	} else {
		srv.l.Infof(ctx, "LINE handler not configured, skipping webhook route")
	}

	if srv.googleChatHandler != nil {
		srv.gin.POST("/webhook/googlechat", limit, srv.googleChatHandler.HandleWebhook)
		srv.l.Infof(ctx, "Google Chat webhook route registered at POST /webhook/googlechat")
	} else {
		srv.l.Infof(ctx, "Google Chat handler not configured, skipping webhook route")
	}

	return nil
}
