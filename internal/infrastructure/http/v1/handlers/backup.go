package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"retailpos/internal/domain/backup"
	"retailpos/internal/infrastructure/http/v1/dto"
)

// BackupHandler serves full-database export and restore. Admin only.
type BackupHandler struct {
	*BaseHandler
	service *backup.Service
}

func NewBackupHandler(base *BaseHandler, service *backup.Service) *BackupHandler {
	return &BackupHandler{BaseHandler: base, service: service}
}

// Export handles GET /backup/export, streaming the gzip archive.
func (h *BackupHandler) Export(c *gin.Context) {
	filename := fmt.Sprintf("retailpos-backup-%s.json.gz", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Type", "application/gzip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.service.Export(c.Request.Context(), c.Writer); err != nil {
		// Headers may already be out; the error middleware will skip a
		// written response, so log through the error chain anyway.
		h.Error(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Import handles POST /backup/import. The upload replaces every table
// in one transaction; a failed restore leaves the database untouched.
func (h *BackupHandler) Import(c *gin.Context) {
	if err := h.service.Import(c.Request.Context(), c.Request.Body); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SuccessResponse{Success: true, Message: "backup restored"})
}
