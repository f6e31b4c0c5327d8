package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AccessRevisionKey returns the counter bumped on every assignment mutation.
// Permission-check verdicts embed the current revision so a bump invalidates
// every cached verdict at once.
func (r *CacheKeyStruct) AccessRevisionKey() string {
	return "rbac:access:rev"
}

// PermissionCheckKey returns the cache key for one user/permission verdict at
// a given revision.
func (r *CacheKeyStruct) PermissionCheckKey(revision int64, userID, permissionKey string) string {
	return fmt.Sprintf("rbac:access:%d:user:%s:perm:%s", revision, userID, permissionKey)
}

var CacheKey = NewCacheKeyStruct()
