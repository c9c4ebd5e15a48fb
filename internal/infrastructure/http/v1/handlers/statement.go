package handlers

import (
	"github.com/gin-gonic/gin"

	"retailpos/internal/domain/registers/balance"
	"retailpos/internal/infrastructure/http/v1/dto"
)

// StatementHandler serves party statements, balance verification and
// manual settlements.
type StatementHandler struct {
	*BaseHandler
	service *balance.Service
}

func NewStatementHandler(base *BaseHandler, service *balance.Service) *StatementHandler {
	return &StatementHandler{BaseHandler: base, service: service}
}

// CustomerStatement handles GET /customers/:id/statement.
func (h *StatementHandler) CustomerStatement(c *gin.Context) {
	h.statement(c, balance.PartyCustomer)
}

// SupplierStatement handles GET /suppliers/:id/statement.
func (h *StatementHandler) SupplierStatement(c *gin.Context) {
	h.statement(c, balance.PartySupplier)
}

func (h *StatementHandler) statement(c *gin.Context, kind balance.PartyKind) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	lines, err := h.service.Statement(c.Request.Context(), kind, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": lines})
}

// VerifyCustomer handles GET /customers/:id/balance/verify. The cached
// field and the ledger-derived figure come back side by side; any drift
// is a bug report, never auto-healed.
func (h *StatementHandler) VerifyCustomer(c *gin.Context) {
	h.verify(c, balance.PartyCustomer)
}

// VerifySupplier handles GET /suppliers/:id/balance/verify.
func (h *StatementHandler) VerifySupplier(c *gin.Context) {
	h.verify(c, balance.PartySupplier)
}

func (h *StatementHandler) verify(c *gin.Context, kind balance.PartyKind) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	cached, derived, err := h.service.VerifyBalance(c.Request.Context(), kind, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{
		"cached":  cached,
		"derived": derived,
		"match":   cached.Equal(derived),
	})
}

// PayCustomer handles POST /customers/:id/payments. Direction in, the
// customer paying down debt.
func (h *StatementHandler) PayCustomer(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.RecordCustomerPayment(c.Request.Context(), id, req.Amount, req.Method, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// PaySupplier handles POST /suppliers/:id/payments. Direction out, the
// store settling what it owes.
func (h *StatementHandler) PaySupplier(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.RecordSupplierPayment(c.Request.Context(), id, req.Amount, req.Method, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}
