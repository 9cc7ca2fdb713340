package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/aiclub-backend/internal/http/response"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), progress: progress}
}

// GET /progress
func (h *ProgressHandler) Get(c *gin.Context) {
	view, err := h.progress.Get(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// POST /progress/apps
// body: { "app": "<tool_name>" }
func (h *ProgressHandler) UnlockApp(c *gin.Context) {
	var req struct {
		App string `json:"app"`
	}
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.progress.UnlockApp(c.Request.Context(), req.App)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}
