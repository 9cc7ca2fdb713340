package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/aiclub-backend/internal/http/response"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/services"
)

type AdminHandler struct {
	log   *logger.Logger
	admin services.AdminService
}

func NewAdminHandler(log *logger.Logger, admin services.AdminService) *AdminHandler {
	return &AdminHandler{log: log.With("handler", "AdminHandler"), admin: admin}
}

// GET /admin?role=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

// PUT /admin/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateUserInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.admin.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// DELETE /students/:id
func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteStudent(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /admin/dashboard-counts
func (h *AdminHandler) DashboardCounts(c *gin.Context) {
	counts, err := h.admin.DashboardCounts(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, counts)
}

// GET /admin/clubs
func (h *AdminHandler) ListClubs(c *gin.Context) {
	clubs, err := h.admin.ListClubs(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"clubs": clubs})
}
