package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/http/response"
	"github.com/yungbote/aiclub-backend/internal/pkg/embedurl"
	"github.com/yungbote/aiclub-backend/internal/platform/ctxutil"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/services"
)

type AgentHandler struct {
	log    *logger.Logger
	agents services.AgentService
}

func NewAgentHandler(log *logger.Logger, agents services.AgentService) *AgentHandler {
	return &AgentHandler{log: log.With("handler", "AgentHandler"), agents: agents}
}

type agentView struct {
	*types.Agent
	EmbedURL string `json:"embed_url,omitempty"`
	HasIcon  bool   `json:"has_icon"`
	IconURL  string `json:"icon_url"`
}

func newAgentView(a *types.Agent) agentView {
	v := agentView{
		Agent:   a,
		HasIcon: a.HasIcon(),
		IconURL: "/api/agents/" + a.ID.String() + "/icon",
	}
	if a.VideoURL != "" {
		if embed, ok := embedurl.Resolve(a.VideoURL); ok {
			v.EmbedURL = embed
		}
	}
	return v
}

func isSuperAdmin(c *gin.Context) bool {
	rd := ctxutil.GetRequestData(c.Request.Context())
	return rd != nil && rd.Role == types.RoleSuperAdmin
}

// GET /agents?include_inactive=true
// Inactive agents are only listed for super admins.
func (h *AgentHandler) List(c *gin.Context) {
	includeInactive := isSuperAdmin(c) && c.Query("include_inactive") == "true"
	agents, err := h.agents.List(c.Request.Context(), includeInactive)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	out := make([]agentView, 0, len(agents))
	for _, a := range agents {
		out = append(out, newAgentView(a))
	}
	response.RespondOK(c, gin.H{"agents": out})
}

// GET /agents/:id
func (h *AgentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.agents.Get(c.Request.Context(), id, isSuperAdmin(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"agent": newAgentView(a)})
}

// GET /agents/embed-url?url=...
func (h *AgentHandler) EmbedURL(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("url"))
	embed, ok := embedurl.Resolve(raw)
	if !ok {
		response.RespondError(c, http.StatusUnprocessableEntity, "invalid_url", errors.New("url is not a valid absolute URL"))
		return
	}
	response.RespondOK(c, gin.H{"embed_url": embed})
}

// GET /agents/:id/icon
func (h *AgentHandler) Icon(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, contentType, err := h.agents.Icon(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, contentType, data)
}

// POST /agents/create-agent
// Accepts JSON, or multipart/form-data with an optional "icon" file.
func (h *AgentHandler) Create(c *gin.Context) {
	in, ok := h.bindAgentInput(c)
	if !ok {
		return
	}
	a, err := h.agents.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"agent": newAgentView(a)})
}

// PUT /agents/:id
func (h *AgentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, ok := h.bindAgentInput(c)
	if !ok {
		return
	}
	a, err := h.agents.Update(c.Request.Context(), id, in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"agent": newAgentView(a)})
}

// DELETE /agents/:id
func (h *AgentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.agents.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

type agentRequest struct {
	Title        *string `json:"title"`
	Subtitle     *string `json:"subtitle"`
	Prompt       *string `json:"prompt"`
	ToolName     *string `json:"tool_name"`
	VideoURL     *string `json:"video_url"`
	IsActive     *bool   `json:"is_active"`
	DisplayOrder *int    `json:"display_order"`
	RemoveIcon   bool    `json:"remove_icon"`
}

func (h *AgentHandler) bindAgentInput(c *gin.Context) (services.AgentInput, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var req agentRequest
		if !bindJSON(c, &req) {
			return services.AgentInput{}, false
		}
		return services.AgentInput{
			Title:        req.Title,
			Subtitle:     req.Subtitle,
			Prompt:       req.Prompt,
			ToolName:     req.ToolName,
			VideoURL:     req.VideoURL,
			IsActive:     req.IsActive,
			DisplayOrder: req.DisplayOrder,
			RemoveIcon:   req.RemoveIcon,
		}, true
	}

	var in services.AgentInput
	str := func(key string) *string {
		if v, ok := c.GetPostForm(key); ok {
			return &v
		}
		return nil
	}
	in.Title = str("title")
	in.Subtitle = str("subtitle")
	in.Prompt = str("prompt")
	in.ToolName = str("tool_name")
	in.VideoURL = str("video_url")
	if v := str("is_active"); v != nil {
		b, err := strconv.ParseBool(*v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("is_active: %w", err))
			return in, false
		}
		in.IsActive = &b
	}
	if v := str("display_order"); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("display_order: %w", err))
			return in, false
		}
		in.DisplayOrder = &n
	}
	if v := str("remove_icon"); v != nil {
		in.RemoveIcon, _ = strconv.ParseBool(*v)
	}

	fh, err := c.FormFile("icon")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return in, false
	default:
		f, err := fh.Open()
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_icon", err)
			return in, false
		}
		defer f.Close()
		// One byte over the limit is enough for the service to reject it.
		raw, err := io.ReadAll(io.LimitReader(f, services.MaxAgentIconBytes+1))
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_icon", err)
			return in, false
		}
		in.Icon = raw
	}
	return in, true
}
