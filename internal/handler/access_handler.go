package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authgrid/rbac-backend/internal/middleware"
	"github.com/authgrid/rbac-backend/internal/response"
	"github.com/authgrid/rbac-backend/internal/service"
	"github.com/authgrid/rbac-backend/internal/validator"
)

// AccessHandler exposes the permission-check endpoints.
type AccessHandler struct {
	service *service.AccessService
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(service *service.AccessService) *AccessHandler {
	return &AccessHandler{service: service}
}

// CheckPermissionRequest targets an arbitrary user (admin-only).
type CheckPermissionRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	PermissionKey string `json:"permission_key" binding:"required"`
}

// HasPermissionRequest targets the session user.
type HasPermissionRequest struct {
	PermissionKey string `json:"permission_key" binding:"required"`
}

// CheckPermission reports whether any user holds a permission.
func (h *AccessHandler) CheckPermission(c *gin.Context) {
	var req CheckPermissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	granted, err := h.service.CheckPermission(c.Request.Context(), req.UserID, req.PermissionKey)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"has_permission": granted})
}

// HasPermission is the self-service variant: it evaluates against the
// caller's own id and needs only a session, not the admin role.
func (h *AccessHandler) HasPermission(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized)
		return
	}

	var req HasPermissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	granted, err := h.service.CheckPermission(c.Request.Context(), claims.UserID, req.PermissionKey)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"has_permission": granted})
}
