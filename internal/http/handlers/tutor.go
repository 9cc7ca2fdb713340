package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/http/response"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/services"
)

type TutorHandler struct {
	log   *logger.Logger
	tutor services.TutorService
}

func NewTutorHandler(log *logger.Logger, tutor services.TutorService) *TutorHandler {
	return &TutorHandler{log: log.With("handler", "TutorHandler"), tutor: tutor}
}

// POST /chat
// body: { "agent_id": "...", "message": "..." }
func (h *TutorHandler) Chat(c *gin.Context) {
	var req struct {
		AgentID uuid.UUID `json:"agent_id"`
		Message string    `json:"message"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.tutor.Chat(c.Request.Context(), req.AgentID, req.Message)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /analysis
// body: { "prompt": "..." }
func (h *TutorHandler) Analyze(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.tutor.Analyze(c.Request.Context(), req.Prompt)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"analysis": out})
}
