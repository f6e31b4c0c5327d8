package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/authgrid/rbac-backend/internal/config"
	"github.com/authgrid/rbac-backend/internal/model"
	"github.com/authgrid/rbac-backend/internal/response"
)

func newAuthEnv(t *testing.T) (*AuthService, *fakeUserStore, *fakeAssignmentStore) {
	t.Helper()
	ctx := context.Background()

	users := newFakeUserStore()
	roles := newFakeRoleStore()
	perms := newFakePermissionStore()
	assignments := newFakeAssignmentStore(roles, perms)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, &model.User{
		ID:           "user-1",
		Email:        "one@example.com",
		Name:         "One",
		PasswordHash: string(hash),
	}))
	require.NoError(t, roles.Create(ctx, &model.Role{ID: "role-1", Name: "Administrator", Key: model.AdminRoleKey, IsActive: true}))

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	return NewAuthService(cfg, users, assignments), users, assignments
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a token carrying the role keys", func(t *testing.T) {
		svc, _, assignments := newAuthEnv(t)
		require.NoError(t, assignments.CreateUserRole(ctx, "user-1", "role-1"))

		token, u, err := svc.Login(ctx, "one@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "one@example.com", claims.Email)
		assert.Equal(t, []string{model.AdminRoleKey}, claims.Roles)
		assert.True(t, claims.IsAdmin())
	})

	t.Run("no roles means not admin", func(t *testing.T) {
		svc, _, _ := newAuthEnv(t)
		token, _, err := svc.Login(ctx, "one@example.com", "s3cret-pass")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Empty(t, claims.Roles)
		assert.False(t, claims.IsAdmin())
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _, _ := newAuthEnv(t)
		_, _, err := svc.Login(ctx, "one@example.com", "wrong")
		assertErrCode(t, err, response.ErrInvalidCredentials)
	})

	t.Run("unknown email fails the same way", func(t *testing.T) {
		svc, _, _ := newAuthEnv(t)
		_, _, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass")
		assertErrCode(t, err, response.ErrInvalidCredentials)
	})
}

func TestValidateToken(t *testing.T) {
	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		svc, _, _ := newAuthEnv(t)
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "user-1"})
		tokenStr, err := forged.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(tokenStr)
		assert.Error(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		svc, _, _ := newAuthEnv(t)
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			UserID: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		tokenStr, err := expired.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(tokenStr)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc, _, _ := newAuthEnv(t)
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}
