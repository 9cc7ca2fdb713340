package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/http/response"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/services"
)

type DynamicPromptHandler struct {
	log     *logger.Logger
	prompts services.DynamicPromptService
}

func NewDynamicPromptHandler(log *logger.Logger, prompts services.DynamicPromptService) *DynamicPromptHandler {
	return &DynamicPromptHandler{log: log.With("handler", "DynamicPromptHandler"), prompts: prompts}
}

// GET /agents/dynamic-prompts?agent_id=
func (h *DynamicPromptHandler) List(c *gin.Context) {
	var agentID *uuid.UUID
	if raw := c.Query("agent_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("agent_id must be a uuid"))
			return
		}
		agentID = &id
	}
	out, err := h.prompts.List(c.Request.Context(), agentID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"dynamic_prompts": out})
}

// POST /agents/dynamic-prompts
func (h *DynamicPromptHandler) Create(c *gin.Context) {
	var req services.DynamicPromptInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.prompts.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"dynamic_prompt": p})
}

// PUT /agents/dynamic-prompts/:id
func (h *DynamicPromptHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.DynamicPromptInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.prompts.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"dynamic_prompt": p})
}

// DELETE /agents/dynamic-prompts/:id
func (h *DynamicPromptHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.prompts.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
