package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/aiclub-backend/internal/http/response"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/services"
)

type LicenseHandler struct {
	log      *logger.Logger
	licenses services.LicenseService
}

func NewLicenseHandler(log *logger.Logger, licenses services.LicenseService) *LicenseHandler {
	return &LicenseHandler{log: log.With("handler", "LicenseHandler"), licenses: licenses}
}

// POST /license-requests (public contact form)
func (h *LicenseHandler) Submit(c *gin.Context) {
	var req services.LicenseRequestInput
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.licenses.Submit(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"license_request": out})
}

// GET /admin/license-requests?status=
func (h *LicenseHandler) List(c *gin.Context) {
	out, err := h.licenses.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"license_requests": out})
}

// POST /admin/license-requests/:id/approve
// The temporary password is only ever returned here.
func (h *LicenseHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.licenses.Approve(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	response.RespondOK(c, out)
}

// POST /admin/license-requests/:id/reject
func (h *LicenseHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.licenses.Reject(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"license_request": out})
}

// DELETE /license-requests/:id
func (h *LicenseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.licenses.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
