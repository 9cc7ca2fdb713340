package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aiclub-backend/internal/http/response"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/services"
)

// multipart envelope allowance on top of the file itself
const manualFormOverhead = 1 << 20

type ManualHandler struct {
	log     *logger.Logger
	manuals services.ManualService
}

func NewManualHandler(log *logger.Logger, manuals services.ManualService) *ManualHandler {
	return &ManualHandler{log: log.With("handler", "ManualHandler"), manuals: manuals}
}

// POST /manuals (multipart field "file")
func (h *ManualHandler) Upload(c *gin.Context) {
	if c.Request.ContentLength > services.MaxManualBytes+manualFormOverhead {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("manual must be at most %d MiB", services.MaxManualBytes>>20))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxManualBytes+manualFormOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("manual must be at most %d MiB", services.MaxManualBytes>>20))
			return
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("multipart field \"file\" is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer f.Close()

	m, err := h.manuals.Upload(c.Request.Context(), services.ManualUpload{
		FileName: fh.Filename,
		Size:     fh.Size,
		Body:     f,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"manual": m})
}

// GET /manuals
func (h *ManualHandler) List(c *gin.Context) {
	out, err := h.manuals.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"manuals": out})
}

// GET /manuals/latest
func (h *ManualHandler) Latest(c *gin.Context) {
	m, err := h.manuals.Latest(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"manual": m})
}

// GET /manuals/view/:id
// The headers discourage download and caching in browsers; they do not stop a
// determined viewer from saving the bytes.
func (h *ManualHandler) View(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, rc, err := h.manuals.Open(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	defer rc.Close()

	disposition := mime.FormatMediaType("inline", map[string]string{"filename": m.FileName})
	if disposition == "" {
		disposition = "inline"
	}
	c.DataFromReader(http.StatusOK, m.SizeBytes, m.ContentType, rc, map[string]string{
		"Content-Disposition":     disposition,
		"Cache-Control":           "no-store",
		"Pragma":                  "no-cache",
		"X-Content-Type-Options":  "nosniff",
		"Content-Security-Policy": "sandbox",
		"Referrer-Policy":         "no-referrer",
	})
}

// DELETE /manuals/:id
func (h *ManualHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.manuals.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
