package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authgrid/rbac-backend/internal/response"
	"github.com/authgrid/rbac-backend/internal/service"
	"github.com/authgrid/rbac-backend/internal/validator"
)

// AssignmentHandler exposes the attach/detach endpoints for both join
// relations, plus the per-user listings.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(service *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// RolePermissionRequest identifies a permission↔role pair.
type RolePermissionRequest struct {
	RoleID       string `json:"role_id" binding:"required"`
	PermissionID string `json:"permission_id" binding:"required"`
}

// UserRoleRequest identifies a role↔user pair.
type UserRoleRequest struct {
	UserID string `json:"user_id" binding:"required"`
	RoleID string `json:"role_id" binding:"required"`
}

// AssignPermissionToRole grants a permission to a role, idempotently.
func (h *AssignmentHandler) AssignPermissionToRole(c *gin.Context) {
	var req RolePermissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	msg, err := h.service.AssignPermissionToRole(c.Request.Context(), req.RoleID, req.PermissionID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true, "message": msg})
}

// RemovePermissionFromRole revokes a permission from a role.
func (h *AssignmentHandler) RemovePermissionFromRole(c *gin.Context) {
	var req RolePermissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	msg, err := h.service.RemovePermissionFromRole(c.Request.Context(), req.RoleID, req.PermissionID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true, "message": msg})
}

// AssignRoleToUser grants a role to a user, idempotently.
func (h *AssignmentHandler) AssignRoleToUser(c *gin.Context) {
	var req UserRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	msg, err := h.service.AssignRoleToUser(c.Request.Context(), req.UserID, req.RoleID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true, "message": msg})
}

// RemoveRoleFromUser revokes a role from a user.
func (h *AssignmentHandler) RemoveRoleFromUser(c *gin.Context) {
	var req UserRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	msg, err := h.service.RemoveRoleFromUser(c.Request.Context(), req.UserID, req.RoleID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true, "message": msg})
}

// GetUserRoles lists the roles assigned to a user.
func (h *AssignmentHandler) GetUserRoles(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	roles, err := h.service.UserRoles(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"roles": roles})
}

// GetUserPermissions lists the permissions a user holds through their roles.
func (h *AssignmentHandler) GetUserPermissions(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	perms, err := h.service.UserPermissions(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"permissions": perms})
}
