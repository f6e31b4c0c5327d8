package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/authgrid/rbac-backend/internal/response"
	"github.com/authgrid/rbac-backend/internal/service"
	"github.com/authgrid/rbac-backend/internal/validator"
)

// RoleHandler exposes the role CRUD and relation endpoints; the mirror of
// PermissionHandler.
type RoleHandler struct {
	service  *service.RoleService
	defaults response.PaginationDefaults
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(service *service.RoleService, defaults response.PaginationDefaults) *RoleHandler {
	return &RoleHandler{service: service, defaults: defaults}
}

// ListRoles returns a searchable, sortable page of roles.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	q := parseListQuery(c, h.defaults)
	roles, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"roles":  roles,
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
	})
}

// GetRole returns one role by id.
func (h *RoleHandler) GetRole(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	role, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"role": role})
}

// CreateRoleRequest is the create-role payload.
type CreateRoleRequest struct {
	Name          string   `json:"name" binding:"required"`
	Key           string   `json:"key" binding:"required"`
	Description   string   `json:"description"`
	IsActive      *bool    `json:"is_active"`
	PermissionIDs []string `json:"permission_ids"`
}

// CreateRole creates a role, optionally granting it permissions.
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role, err := h.service.Create(c.Request.Context(), service.CreateRoleInput{
		Name:          req.Name,
		Key:           req.Key,
		Description:   req.Description,
		IsActive:      req.IsActive,
		PermissionIDs: req.PermissionIDs,
	}, actor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"role": role})
}

// UpdateRoleRequest is the partial update payload. An empty permission_ids
// array clears all permission assignments.
type UpdateRoleRequest struct {
	ID            string    `json:"id" binding:"required"`
	Name          *string   `json:"name"`
	Key           *string   `json:"key"`
	Description   *string   `json:"description"`
	IsActive      *bool     `json:"is_active"`
	PermissionIDs *[]string `json:"permission_ids"`
}

// UpdateRole applies a partial update with permission diff-sync.
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role, err := h.service.Update(c.Request.Context(), service.UpdateRoleInput{
		ID:            req.ID,
		Name:          req.Name,
		Key:           req.Key,
		Description:   req.Description,
		IsActive:      req.IsActive,
		PermissionIDs: req.PermissionIDs,
	}, actor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"role": role})
}

// DeleteRoleRequest identifies the role to delete.
type DeleteRoleRequest struct {
	ID string `json:"id" binding:"required"`
}

// DeleteRole removes an unreferenced role.
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	var req DeleteRoleRequest
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
		"message": "Role deleted successfully",
	})
}

// GetRolesOptions returns {value,label} pairs for select inputs.
func (h *RoleHandler) GetRolesOptions(c *gin.Context) {
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

// GetRolePermissions returns the permissions a role grants, resolved by
// role_id or role_key.
func (h *RoleHandler) GetRolePermissions(c *gin.Context) {
	roleID := c.Query("role_id")
	roleKey := c.Query("role_key")
	if roleID == "" && roleKey == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	q := parseListQuery(c, h.defaults)
	role, perms, total, err := h.service.Permissions(c.Request.Context(), roleID, roleKey, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"role":        role,
		"permissions": perms,
		"total":       total,
		"limit":       q.Limit,
		"offset":      q.Offset,
	})
}
