package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"retailpos/internal/core/apperror"
	"retailpos/internal/domain/catalogs/variant"
	"retailpos/internal/domain/reports"
)

// ReportsHandler serves read-only report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service  *reports.Service
	variants *variant.Service
}

func NewReportsHandler(base *BaseHandler, service *reports.Service, variants *variant.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service, variants: variants}
}

// SalesSummary handles GET /reports/sales-summary?from=&to=.
func (h *ReportsHandler) SalesSummary(c *gin.Context) {
	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	summary, err := h.service.SalesSummary(c.Request.Context(), period)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// LowStock handles GET /reports/low-stock.
func (h *ReportsHandler) LowStock(c *gin.Context) {
	low, err := h.variants.ListLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if low == nil {
		low = []variant.SearchResult{}
	}
	h.OK(c, gin.H{"items": low})
}

func (h *ReportsHandler) parsePeriod(c *gin.Context) (reports.Period, bool) {
	var p reports.Period
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date, RFC3339 expected").WithDetail("from", from))
			return p, false
		}
		p.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date, RFC3339 expected").WithDetail("to", to))
			return p, false
		}
		p.To = t
	}
	return p, true
}
