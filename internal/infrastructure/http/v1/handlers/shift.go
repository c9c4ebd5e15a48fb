package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"retailpos/internal/core/appctx"
	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/domain/cashbox"
	"retailpos/internal/infrastructure/http/v1/dto"
)

// ShiftPayments lists ledger rows attached to a shift.
type ShiftPayments interface {
	ListByShift(ctx context.Context, shiftID int64) ([]*entity.Payment, error)
}

// ShiftHandler serves cash shift endpoints.
type ShiftHandler struct {
	*BaseHandler
	service  *cashbox.Service
	payments ShiftPayments
}

func NewShiftHandler(base *BaseHandler, service *cashbox.Service, payments ShiftPayments) *ShiftHandler {
	return &ShiftHandler{BaseHandler: base, service: service, payments: payments}
}

// Open handles POST /shifts/open.
func (h *ShiftHandler) Open(c *gin.Context) {
	var req dto.OpenShiftRequest
	if !h.BindJSON(c, &req) {
		return
	}

	userID := appctx.GetUserID(c.Request.Context())
	if userID == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	shift, err := h.service.OpenShift(c.Request.Context(), *userID, req.OpeningCash)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, shift)
}

// Close handles POST /shifts/close.
func (h *ShiftHandler) Close(c *gin.Context) {
	var req dto.CloseShiftRequest
	if !h.BindJSON(c, &req) {
		return
	}

	shift, err := h.service.CloseShift(c.Request.Context(), req.ClosingCash, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, shift)
}

// Current handles GET /shifts/current with running cash figures.
func (h *ShiftHandler) Current(c *gin.Context) {
	view, err := h.service.CurrentShift(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, view)
}

// Get handles GET /shifts/:id.
func (h *ShiftHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	shift, err := h.service.GetShift(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, shift)
}

// List handles GET /shifts.
func (h *ShiftHandler) List(c *gin.Context) {
	result, err := h.service.ListShifts(c.Request.Context(), h.ListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// RecordMovement handles POST /shifts/movements, a manual cash expense
// or income against the open shift.
func (h *ShiftHandler) RecordMovement(c *gin.Context) {
	var req dto.CashMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.RecordCashMovement(c.Request.Context(), cashbox.CashMovementInput{
		Direction: req.Direction,
		Amount:    req.Amount,
		Note:      req.Note,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// Movements handles GET /shifts/:id/movements, the payment rows that
// settled through the shift's drawer.
func (h *ShiftHandler) Movements(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	rows, err := h.payments.ListByShift(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": rows})
}
