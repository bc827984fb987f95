package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"beacon-deploy-backend/internal/config"
)

// CORS allows browser front ends to call the API. A "*" entry, or no
// configured origin at all, opens it to every origin.
func CORS(cfg config.ServerConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:              []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:              []string{"Origin", "Content-Type"},
		OptionsResponseStatusCode: http.StatusOK,
	}
	if len(cfg.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	for _, origin := range cfg.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowAllOrigins = true
		}
	}
	if !corsConfig.AllowAllOrigins {
		corsConfig.AllowOrigins = cfg.AllowOrigins
	}
	return cors.New(corsConfig)
}
