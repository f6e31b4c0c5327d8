package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgrid/rbac-backend/internal/model"
	"github.com/authgrid/rbac-backend/internal/response"
)

type assignmentEnv struct {
	perms       *fakePermissionStore
	roles       *fakeRoleStore
	users       *fakeUserStore
	assignments *fakeAssignmentStore
	invalidator *countingInvalidator
	service     *AssignmentService
}

func newAssignmentEnv(t *testing.T) *assignmentEnv {
	t.Helper()
	ctx := context.Background()
	perms := newFakePermissionStore()
	roles := newFakeRoleStore()
	users := newFakeUserStore()
	assignments := newFakeAssignmentStore(roles, perms)
	invalidator := &countingInvalidator{}

	require.NoError(t, perms.Create(ctx, &model.Permission{ID: "perm-1", Name: "Read users", Key: "user:read", IsActive: true}))
	require.NoError(t, roles.Create(ctx, &model.Role{ID: "role-1", Name: "Editor", Key: "editor", IsActive: true}))
	require.NoError(t, users.Create(ctx, &model.User{ID: "user-1", Email: "one@example.com", Name: "One"}))

	return &assignmentEnv{
		perms:       perms,
		roles:       roles,
		users:       users,
		assignments: assignments,
		invalidator: invalidator,
		service:     NewAssignmentService(perms, roles, users, assignments, invalidator),
	}
}

func TestAssignPermissionToRole(t *testing.T) {
	ctx := context.Background()

	t.Run("assign then repeat is idempotent", func(t *testing.T) {
		env := newAssignmentEnv(t)

		msg, err := env.service.AssignPermissionToRole(ctx, "role-1", "perm-1")
		require.NoError(t, err)
		assert.Equal(t, "Permission assigned to role", msg)

		msg, err = env.service.AssignPermissionToRole(ctx, "role-1", "perm-1")
		require.NoError(t, err)
		assert.Equal(t, "Permission already assigned to role", msg)

		permIDs, err := env.assignments.PermissionIDsForRole(ctx, "role-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"perm-1"}, permIDs)
		assert.Equal(t, 1, env.invalidator.calls)
	})

	t.Run("unknown role", func(t *testing.T) {
		env := newAssignmentEnv(t)
		_, err := env.service.AssignPermissionToRole(ctx, "missing", "perm-1")
		assertErrCode(t, err, response.ErrRoleNotFound)
	})

	t.Run("unknown permission", func(t *testing.T) {
		env := newAssignmentEnv(t)
		_, err := env.service.AssignPermissionToRole(ctx, "role-1", "missing")
		assertErrCode(t, err, response.ErrPermissionNotFound)
	})
}

func TestRemovePermissionFromRole(t *testing.T) {
	ctx := context.Background()
	env := newAssignmentEnv(t)

	_, err := env.service.AssignPermissionToRole(ctx, "role-1", "perm-1")
	require.NoError(t, err)

	msg, err := env.service.RemovePermissionFromRole(ctx, "role-1", "perm-1")
	require.NoError(t, err)
	assert.Equal(t, "Permission removed from role", msg)

	// removing again still succeeds
	_, err = env.service.RemovePermissionFromRole(ctx, "role-1", "perm-1")
	require.NoError(t, err)

	permIDs, err := env.assignments.PermissionIDsForRole(ctx, "role-1")
	require.NoError(t, err)
	assert.Empty(t, permIDs)
}

func TestAssignRoleToUser(t *testing.T) {
	ctx := context.Background()

	t.Run("assign then repeat is idempotent", func(t *testing.T) {
		env := newAssignmentEnv(t)

		msg, err := env.service.AssignRoleToUser(ctx, "user-1", "role-1")
		require.NoError(t, err)
		assert.Equal(t, "Role assigned to user", msg)

		msg, err = env.service.AssignRoleToUser(ctx, "user-1", "role-1")
		require.NoError(t, err)
		assert.Equal(t, "Role already assigned to user", msg)

		roleIDs, err := env.assignments.RoleIDsForUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"role-1"}, roleIDs)
	})

	t.Run("unknown user", func(t *testing.T) {
		env := newAssignmentEnv(t)
		_, err := env.service.AssignRoleToUser(ctx, "missing", "role-1")
		assertErrCode(t, err, response.ErrUserNotFound)
	})

	t.Run("unknown role", func(t *testing.T) {
		env := newAssignmentEnv(t)
		_, err := env.service.AssignRoleToUser(ctx, "user-1", "missing")
		assertErrCode(t, err, response.ErrRoleNotFound)
	})
}

func TestRemoveRoleFromUser(t *testing.T) {
	ctx := context.Background()
	env := newAssignmentEnv(t)

	_, err := env.service.AssignRoleToUser(ctx, "user-1", "role-1")
	require.NoError(t, err)

	msg, err := env.service.RemoveRoleFromUser(ctx, "user-1", "role-1")
	require.NoError(t, err)
	assert.Equal(t, "Role removed from user", msg)

	roleIDs, err := env.assignments.RoleIDsForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, roleIDs)
}

func TestUserRolesAndPermissions(t *testing.T) {
	ctx := context.Background()
	env := newAssignmentEnv(t)

	require.NoError(t, env.perms.Create(ctx, &model.Permission{ID: "perm-2", Name: "Write users", Key: "user:write", IsActive: true}))
	require.NoError(t, env.roles.Create(ctx, &model.Role{ID: "role-2", Name: "Viewer", Key: "viewer", IsActive: true}))

	_, err := env.service.AssignPermissionToRole(ctx, "role-1", "perm-1")
	require.NoError(t, err)
	_, err = env.service.AssignPermissionToRole(ctx, "role-1", "perm-2")
	require.NoError(t, err)
	// both roles grant user:read; the flattened view must not duplicate it
	_, err = env.service.AssignPermissionToRole(ctx, "role-2", "perm-1")
	require.NoError(t, err)

	_, err = env.service.AssignRoleToUser(ctx, "user-1", "role-1")
	require.NoError(t, err)
	_, err = env.service.AssignRoleToUser(ctx, "user-1", "role-2")
	require.NoError(t, err)

	roles, err := env.service.UserRoles(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	perms, err := env.service.UserPermissions(ctx, "user-1")
	require.NoError(t, err)
	keys := make([]string, 0, len(perms))
	for _, p := range perms {
		keys = append(keys, p.Key)
	}
	assert.ElementsMatch(t, []string{"user:read", "user:write"}, keys)

	_, err = env.service.UserRoles(ctx, "missing")
	assertErrCode(t, err, response.ErrUserNotFound)
}
