package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/authgrid/rbac-backend/internal/config"
	"github.com/authgrid/rbac-backend/internal/model"
	"github.com/authgrid/rbac-backend/internal/response"
)

// Claims are the JWT session claims. Roles carries the role keys assigned to
// the user at login time as a proper set, not a delimited string.
type Claims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the session user holds the admin role.
func (c *Claims) IsAdmin() bool {
	for _, r := range c.Roles {
		if r == model.AdminRoleKey {
			return true
		}
	}
	return false
}

// AuthService issues and validates JWT sessions.
type AuthService struct {
	cfg         *config.Config
	users       UserStore
	assignments AssignmentStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, users UserStore, assignments AssignmentStore) *AuthService {
	return &AuthService{cfg: cfg, users: users, assignments: assignments}
}

// Login verifies the credentials and returns a signed session token together
// with the user. Unknown email and wrong password are indistinguishable to
// the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, response.NewError(http.StatusUnauthorized, response.ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, response.NewError(http.StatusUnauthorized, response.ErrInvalidCredentials)
	}

	roles, err := s.assignments.RolesForUser(ctx, u.ID)
	if err != nil {
		return "", nil, err
	}
	roleKeys := make([]string, 0, len(roles))
	for _, r := range roles {
		roleKeys = append(roleKeys, r.Key)
	}

	token, err := s.issueToken(u, roleKeys)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) issueToken(u *model.User, roleKeys []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Roles:  roleKeys,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
