package handlers

import (
	"github.com/gin-gonic/gin"

	"retailpos/internal/domain/documents/returns"
	"retailpos/internal/infrastructure/http/v1/dto"
)

// ReturnsHandler serves return and exchange endpoints.
type ReturnsHandler struct {
	*BaseHandler
	service *returns.Service
}

func NewReturnsHandler(base *BaseHandler, service *returns.Service) *ReturnsHandler {
	return &ReturnsHandler{BaseHandler: base, service: service}
}

// Process handles POST /returns. Exchange lines present make it an
// exchange; the response carries the return invoice with the settled
// difference.
func (h *ReturnsHandler) Process(c *gin.Context) {
	var req dto.ProcessReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.Process(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, inv)
}

// Get handles GET /returns/:id with items.
func (h *ReturnsHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// List handles GET /returns.
func (h *ReturnsHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), h.ListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
