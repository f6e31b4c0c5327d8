package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/authgrid/rbac-backend/internal/config"
	"github.com/authgrid/rbac-backend/internal/handler"
	"github.com/authgrid/rbac-backend/internal/middleware"
	"github.com/authgrid/rbac-backend/internal/response"
	"github.com/authgrid/rbac-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Permission *handler.PermissionHandler
	Role       *handler.RoleHandler
	Assignment *handler.AssignmentHandler
	Access     *handler.AccessHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// Endpoint names listed in the deployment's disabled set answer 404 before
// any other logic runs.
func SetupRouter(authService *service.AuthService, handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	disabled := make(map[string]struct{}, len(cfg.RBAC.DisabledEndpoints))
	for _, name := range cfg.RBAC.DisabledEndpoints {
		disabled[name] = struct{}{}
	}
	// gate hides a disabled endpoint behind an unconditional 404.
	gate := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if _, off := disabled[name]; off {
				response.AbortFail(c, http.StatusNotFound, response.ErrNotFound)
				return
			}
			c.Next()
		}
	}

	// ─── Auth (Public + Session) ───────────────────────────────────────
	auth := router.Group("/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireSession(authService), handlers.Auth.Me)
	}

	// ─── RBAC (Session + Admin) ────────────────────────────────────────
	rbac := router.Group("/rbac")
	rbac.Use(middleware.RequireSession(authService))

	// Self-service check: any authenticated session.
	rbac.POST("/has-permission", gate("has-permission"), handlers.Access.HasPermission)

	admin := rbac.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		// Permissions
		admin.GET("/list-permissions", gate("list-permissions"), handlers.Permission.ListPermissions)
		admin.GET("/get-permission", gate("get-permission"), handlers.Permission.GetPermission)
		admin.POST("/create-permission", gate("create-permission"), handlers.Permission.CreatePermission)
		admin.POST("/update-permission", gate("update-permission"), handlers.Permission.UpdatePermission)
		admin.POST("/delete-permission", gate("delete-permission"), handlers.Permission.DeletePermission)
		admin.GET("/get-permissions-options", gate("get-permissions-options"), handlers.Permission.GetPermissionsOptions)
		admin.GET("/get-permission-roles", gate("get-permission-roles"), handlers.Permission.GetPermissionRoles)

		// Roles
		admin.GET("/list-roles", gate("list-roles"), handlers.Role.ListRoles)
		admin.GET("/get-role", gate("get-role"), handlers.Role.GetRole)
		admin.POST("/create-role", gate("create-role"), handlers.Role.CreateRole)
		admin.POST("/update-role", gate("update-role"), handlers.Role.UpdateRole)
		admin.POST("/delete-role", gate("delete-role"), handlers.Role.DeleteRole)
		admin.GET("/get-roles-options", gate("get-roles-options"), handlers.Role.GetRolesOptions)
		admin.GET("/get-role-permissions", gate("get-role-permissions"), handlers.Role.GetRolePermissions)

		// Assignments
		admin.POST("/assign-permission-to-role", gate("assign-permission-to-role"), handlers.Assignment.AssignPermissionToRole)
		admin.POST("/remove-permission-from-role", gate("remove-permission-from-role"), handlers.Assignment.RemovePermissionFromRole)
		admin.POST("/assign-role-to-user", gate("assign-role-to-user"), handlers.Assignment.AssignRoleToUser)
		admin.POST("/remove-role-from-user", gate("remove-role-from-user"), handlers.Assignment.RemoveRoleFromUser)
		admin.GET("/get-user-roles", gate("get-user-roles"), handlers.Assignment.GetUserRoles)
		admin.GET("/get-user-permissions", gate("get-user-permissions"), handlers.Assignment.GetUserPermissions)

		// Queries
		admin.POST("/check-permission", gate("check-permission"), handlers.Access.CheckPermission)
	}

	return router
}
