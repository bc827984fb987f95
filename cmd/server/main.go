package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"beacon-deploy-backend/internal/config"
	"beacon-deploy-backend/internal/handler"
	"beacon-deploy-backend/internal/pkg/logger"
	"beacon-deploy-backend/internal/router"
	"beacon-deploy-backend/internal/service"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	if envErr != nil {
		appLogger.Warn("Failed to load .env file, using environment and defaults")
	}

	// 初始化服务
	metrics := service.NewMetrics(prometheus.DefaultRegisterer)
	deployService := service.NewDeployService(cfg, service.OpenSSHSession, metrics, appLogger)
	sshService := service.NewSSHService(cfg, service.OpenSSHSession, metrics, appLogger)

	// 初始化处理器
	deployHandler := handler.NewDeployHandler(deployService, appLogger)
	sshHandler := handler.NewSSHHandler(sshService, appLogger)

	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(router.CORS(cfg.Server))

	router.RegisterRoutes(r, sshHandler, deployHandler, cfg.RateLimit, promhttp.Handler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	appLogger.Infow("Server starting",
		"address", addr,
		"manifest_entries", cfg.Deploy.Manifest.Names(),
		"backup_existing", cfg.Deploy.BackupExisting,
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLogger.Fatalf("Failed to start server: %v", err)
	}
}
