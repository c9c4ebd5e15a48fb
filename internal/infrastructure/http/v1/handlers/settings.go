package handlers

import (
	"github.com/gin-gonic/gin"

	"retailpos/internal/domain/settings"
	"retailpos/internal/infrastructure/http/v1/dto"
)

// SettingsHandler serves the store configuration endpoints.
type SettingsHandler struct {
	*BaseHandler
	service *settings.Service
}

func NewSettingsHandler(base *BaseHandler, service *settings.Service) *SettingsHandler {
	return &SettingsHandler{BaseHandler: base, service: service}
}

// GetAll handles GET /settings.
func (h *SettingsHandler) GetAll(c *gin.Context) {
	all, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": all})
}

// Get handles GET /settings/:key.
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

// Set handles PUT /settings/:key.
func (h *SettingsHandler) Set(c *gin.Context) {
	var req dto.SetSettingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s, err := h.service.Set(c.Request.Context(), c.Param("key"), req.Value, req.Type)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

// SetAll handles PUT /settings, writing several keys atomically.
func (h *SettingsHandler) SetAll(c *gin.Context) {
	var req dto.SetSettingsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	batch := make([]*settings.Setting, len(req.Settings))
	for i, e := range req.Settings {
		batch[i] = &settings.Setting{Key: e.Key, Value: e.Value, Type: e.Type}
	}

	if err := h.service.SetAll(c.Request.Context(), batch); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SuccessResponse{Success: true})
}
