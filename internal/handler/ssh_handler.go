package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"beacon-deploy-backend/internal/model"
	"beacon-deploy-backend/internal/pkg/logger"
	"beacon-deploy-backend/internal/service"
)

type SSHHandler struct {
	sshService *service.SSHService
	logger     *logger.Logger
}

func NewSSHHandler(sshService *service.SSHService, logger *logger.Logger) *SSHHandler {
	return &SSHHandler{
		sshService: sshService,
		logger:     logger,
	}
}

func (h *SSHHandler) TestConnection(c *gin.Context) {
	var req model.SSHTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid ssh test request", "error", err.Error())
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   invalidPayload,
		})
		return
	}

	status, resp := h.sshService.TestConnection(c.Request.Context(), &req)
	c.JSON(status, resp)
}
