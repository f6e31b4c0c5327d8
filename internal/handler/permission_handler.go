package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/authgrid/rbac-backend/internal/middleware"
	"github.com/authgrid/rbac-backend/internal/response"
	"github.com/authgrid/rbac-backend/internal/service"
	"github.com/authgrid/rbac-backend/internal/validator"
)

// PermissionHandler exposes the permission CRUD and relation endpoints.
type PermissionHandler struct {
	service  *service.PermissionService
	defaults response.PaginationDefaults
}

// NewPermissionHandler creates a new PermissionHandler.
func NewPermissionHandler(service *service.PermissionService, defaults response.PaginationDefaults) *PermissionHandler {
	return &PermissionHandler{service: service, defaults: defaults}
}

// ListPermissions returns a searchable, sortable page of permissions.
func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	q := parseListQuery(c, h.defaults)
	perms, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"permissions": perms,
		"total":       total,
		"limit":       q.Limit,
		"offset":      q.Offset,
	})
}

// GetPermission returns one permission by id.
func (h *PermissionHandler) GetPermission(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"permission": p})
}

// CreatePermissionRequest is the create-permission payload.
type CreatePermissionRequest struct {
	Name        string   `json:"name" binding:"required"`
	Key         string   `json:"key" binding:"required"`
	Description string   `json:"description"`
	IsActive    *bool    `json:"is_active"`
	RoleIDs     []string `json:"role_ids"`
}

// CreatePermission creates a permission, optionally assigning it to roles.
func (h *PermissionHandler) CreatePermission(c *gin.Context) {
	var req CreatePermissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.service.Create(c.Request.Context(), service.CreatePermissionInput{
		Name:        req.Name,
		Key:         req.Key,
		Description: req.Description,
		IsActive:    req.IsActive,
		RoleIDs:     req.RoleIDs,
	}, actor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"permission": p})
}

// UpdatePermissionRequest is the partial update payload. Omitted fields stay
// unchanged; an empty role_ids array clears all role assignments.
type UpdatePermissionRequest struct {
	ID          string    `json:"id" binding:"required"`
	Name        *string   `json:"name"`
	Key         *string   `json:"key"`
	Description *string   `json:"description"`
	IsActive    *bool     `json:"is_active"`
	RoleIDs     *[]string `json:"role_ids"`
}

// UpdatePermission applies a partial update with role diff-sync.
func (h *PermissionHandler) UpdatePermission(c *gin.Context) {
	var req UpdatePermissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.service.Update(c.Request.Context(), service.UpdatePermissionInput{
		ID:          req.ID,
		Name:        req.Name,
		Key:         req.Key,
		Description: req.Description,
		IsActive:    req.IsActive,
		RoleIDs:     req.RoleIDs,
	}, actor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"permission": p})
}

// DeletePermissionRequest identifies the permission to delete.
type DeletePermissionRequest struct {
	ID string `json:"id" binding:"required"`
}

// DeletePermission removes an unassigned permission.
func (h *PermissionHandler) DeletePermission(c *gin.Context) {
	var req DeletePermissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"message": "Permission deleted successfully",
	})
}

// GetPermissionsOptions returns {value,label} pairs for select inputs.
func (h *PermissionHandler) GetPermissionsOptions(c *gin.Context) {
	onlyActive := true
	if raw := c.Query("only_active"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			onlyActive = v
		}
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	options, err := h.service.Options(c.Request.Context(), onlyActive, c.Query("search"), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"options": options})
}

// GetPermissionRoles returns the roles that include a permission, resolved
// by permission_id or permission_key.
func (h *PermissionHandler) GetPermissionRoles(c *gin.Context) {
	permissionID := c.Query("permission_id")
	permissionKey := c.Query("permission_key")
	if permissionID == "" && permissionKey == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	q := parseListQuery(c, h.defaults)
	p, roles, total, err := h.service.Roles(c.Request.Context(), permissionID, permissionKey, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"permission": p,
		"roles":      roles,
		"total":      total,
		"limit":      q.Limit,
		"offset":     q.Offset,
	})
}

// actor returns the session user's id for created_by/updated_by stamps.
func actor(c *gin.Context) string {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.UserID
	}
	return ""
}
