package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"beacon-deploy-backend/internal/model"
	"beacon-deploy-backend/internal/pkg/logger"
	"beacon-deploy-backend/internal/service"
)

const invalidPayload = "Invalid request payload"

type DeployHandler struct {
	deployService *service.DeployService
	logger        *logger.Logger
}

func NewDeployHandler(deployService *service.DeployService, logger *logger.Logger) *DeployHandler {
	return &DeployHandler{
		deployService: deployService,
		logger:        logger,
	}
}

func (h *DeployHandler) Deploy(c *gin.Context) {
	var req model.DeployRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid deploy request", "error", err.Error())
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   invalidPayload,
		})
		return
	}

	status, resp := h.deployService.Deploy(c.Request.Context(), &req)
	c.JSON(status, resp)
}

// Options answers a bare preflight that reached the route without CORS
// middleware handling it first.
func (h *DeployHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, model.ErrorResponse{
		Success: false,
		Error:   "Method not allowed. Use POST.",
	})
}
