package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/authgrid/rbac-backend/internal/config"
)

// AccessService answers "does this user hold this permission" by walking
// user → roles → role-permissions, short-circuiting on the first hit. Role
// sets per user are small, so the per-role probe is acceptable and keeps the
// storage surface simple.
//
// Verdicts are cached in redis under a revision-stamped key; bumping the
// revision on any assignment mutation orphans every stale verdict at once,
// so invalidation never has to enumerate keys.
type AccessService struct {
	perms       PermissionStore
	assignments AssignmentStore
	cache       *redis.Client
	ttl         time.Duration
	log         zerolog.Logger
}

// NewAccessService creates a new AccessService. A nil cache disables caching;
// every check then walks storage directly.
func NewAccessService(perms PermissionStore, assignments AssignmentStore, cache *redis.Client, ttl time.Duration, log zerolog.Logger) *AccessService {
	return &AccessService{perms: perms, assignments: assignments, cache: cache, ttl: ttl, log: log}
}

// CheckPermission reports whether the user holds the permission through any
// of their roles. An unknown permission key yields false, not an error.
func (s *AccessService) CheckPermission(ctx context.Context, userID, permissionKey string) (bool, error) {
	if verdict, ok := s.cachedVerdict(ctx, userID, permissionKey); ok {
		return verdict, nil
	}

	granted, err := s.resolve(ctx, userID, permissionKey)
	if err != nil {
		return false, err
	}
	s.storeVerdict(ctx, userID, permissionKey, granted)
	return granted, nil
}

// Invalidate bumps the access revision, orphaning all cached verdicts.
func (s *AccessService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, config.CacheKey.AccessRevisionKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to bump access cache revision")
	}
}

func (s *AccessService) resolve(ctx context.Context, userID, permissionKey string) (bool, error) {
	p, err := s.perms.GetByKey(ctx, permissionKey)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}

	roleIDs, err := s.assignments.RoleIDsForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, roleID := range roleIDs {
		granted, err := s.assignments.HasRolePermission(ctx, roleID, p.ID)
		if err != nil {
			return false, err
		}
		if granted {
			return true, nil
		}
	}
	return false, nil
}

func (s *AccessService) cachedVerdict(ctx context.Context, userID, permissionKey string) (verdict, ok bool) {
	if s.cache == nil {
		return false, false
	}
	rev, err := s.revision(ctx)
	if err != nil {
		return false, false
	}
	val, err := s.cache.Get(ctx, config.CacheKey.PermissionCheckKey(rev, userID, permissionKey)).Result()
	if err != nil {
		return false, false
	}
	return val == "1", true
}

func (s *AccessService) storeVerdict(ctx context.Context, userID, permissionKey string, granted bool) {
	if s.cache == nil {
		return
	}
	rev, err := s.revision(ctx)
	if err != nil {
		return
	}
	val := "0"
	if granted {
		val = "1"
	}
	key := config.CacheKey.PermissionCheckKey(rev, userID, permissionKey)
	if err := s.cache.Set(ctx, key, val, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to cache permission check verdict")
	}
}

func (s *AccessService) revision(ctx context.Context) (int64, error) {
	rev, err := s.cache.Get(ctx, config.CacheKey.AccessRevisionKey()).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return rev, err
}
