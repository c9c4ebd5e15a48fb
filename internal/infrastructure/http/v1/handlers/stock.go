package handlers

import (
	"github.com/gin-gonic/gin"

	"retailpos/internal/domain/registers/stockledger"
	"retailpos/internal/infrastructure/http/v1/dto"
)

// StockHandler serves manual ledger postings outside the document
// flows: adjustments after a count and opening balances.
type StockHandler struct {
	*BaseHandler
	service *stockledger.Service
}

func NewStockHandler(base *BaseHandler, service *stockledger.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// Adjust handles POST /stock/adjustments.
func (h *StockHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	move, err := h.service.PostAdjustment(c.Request.Context(), req.VariantID, req.Delta, req.UnitCost, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, move)
}

// Opening handles POST /stock/opening.
func (h *StockHandler) Opening(c *gin.Context) {
	var req dto.OpeningStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	move, err := h.service.PostOpening(c.Request.Context(), req.VariantID, req.Qty, req.UnitCost)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, move)
}
