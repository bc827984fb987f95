package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"beacon-deploy-backend/internal/config"
	"beacon-deploy-backend/internal/handler"
)

func RegisterRoutes(
	r *gin.Engine,
	sshHandler *handler.SSHHandler,
	deployHandler *handler.DeployHandler,
	rateLimit config.RateLimitConfig,
	metrics http.Handler,
) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(handler.MethodNotAllowed)

	r.GET("/health", handler.Health)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	api := r.Group("/api")
	{
		ssh := api.Group("/ssh")
		{
			ssh.POST("/test", sshHandler.TestConnection)
		}

		api.OPTIONS("/deploy", deployHandler.Options)
		api.POST("/deploy", RateLimit(rateLimit), deployHandler.Deploy)
	}
}
