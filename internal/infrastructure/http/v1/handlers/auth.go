package handlers

import (
	"github.com/gin-gonic/gin"

	"retailpos/internal/core/appctx"
	"retailpos/internal/core/apperror"
	"retailpos/internal/domain/auth"
	"retailpos/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves login and user administration endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.service.Login(c.Request.Context(), auth.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, session)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), user.UserID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, u)
}

// CreateUser handles POST /users. Admin only.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	u, err := h.service.CreateUser(c.Request.Context(), auth.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, u)
}

// ListUsers handles GET /users. Admin only.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	result, err := h.service.ListUsers(c.Request.Context(), h.ListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// GetUser handles GET /users/:id. Admin only.
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, u)
}

// ChangePassword handles POST /users/:id/password. Users change their
// own with the current password; admins may override any account.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SuccessResponse{Success: true, Message: "password changed"})
}

// SetActive handles POST /users/:id/active. Admin only.
func (h *AuthHandler) SetActive(c *gin.Context) {
	id, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req dto.SetActiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetActive(c.Request.Context(), id, req.Active); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SuccessResponse{Success: true})
}
