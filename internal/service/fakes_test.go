package service

import (
	"context"
	"sort"
	"sync"

	"github.com/authgrid/rbac-backend/internal/model"
	"github.com/authgrid/rbac-backend/internal/repository"
)

// In-memory stores backing the service tests. They enforce the same
// uniqueness rules as the schema so the services are exercised against
// realistic storage behavior.

type fakePermissionStore struct {
	mu    sync.Mutex
	items map[string]model.Permission
}

func newFakePermissionStore() *fakePermissionStore {
	return &fakePermissionStore{items: map[string]model.Permission{}}
}

func (f *fakePermissionStore) List(ctx context.Context, q repository.ListQuery) ([]model.Permission, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Permission, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (f *fakePermissionStore) GetByID(ctx context.Context, id string) (*model.Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.items[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePermissionStore) GetByKey(ctx context.Context, key string) (*model.Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.Key == key {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePermissionStore) ExistsByKeyExcept(ctx context.Context, key, exceptID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.Key == key && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePermissionStore) Create(ctx context.Context, p *model.Permission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[p.ID] = *p
	return nil
}

func (f *fakePermissionStore) Update(ctx context.Context, p *model.Permission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[p.ID] = *p
	return nil
}

func (f *fakePermissionStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakePermissionStore) Options(ctx context.Context, onlyActive bool, search string, limit int) ([]model.Option, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	options := []model.Option{}
	for _, p := range f.items {
		if onlyActive && !p.IsActive {
			continue
		}
		options = append(options, model.Option{Value: p.ID, Label: p.Name})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Label < options[j].Label })
	if limit > 0 && len(options) > limit {
		options = options[:limit]
	}
	return options, nil
}

type fakeRoleStore struct {
	mu    sync.Mutex
	items map[string]model.Role
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{items: map[string]model.Role{}}
}

func (f *fakeRoleStore) List(ctx context.Context, q repository.ListQuery) ([]model.Role, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Role, 0, len(f.items))
	for _, r := range f.items {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (f *fakeRoleStore) GetByID(ctx context.Context, id string) (*model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.items[id]; ok {
		cp := r
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRoleStore) GetByKey(ctx context.Context, key string) (*model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.Key == key {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRoleStore) ExistsByKeyExcept(ctx context.Context, key, exceptID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.Key == key && r.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRoleStore) Create(ctx context.Context, r *model.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[r.ID] = *r
	return nil
}

func (f *fakeRoleStore) Update(ctx context.Context, r *model.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[r.ID] = *r
	return nil
}

func (f *fakeRoleStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeRoleStore) Options(ctx context.Context, onlyActive bool, search string, limit int) ([]model.Option, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	options := []model.Option{}
	for _, r := range f.items {
		if onlyActive && !r.IsActive {
			continue
		}
		options = append(options, model.Option{Value: r.ID, Label: r.Name})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Label < options[j].Label })
	if limit > 0 && len(options) > limit {
		options = options[:limit]
	}
	return options, nil
}

type pair struct{ a, b string }

type fakeAssignmentStore struct {
	mu        sync.Mutex
	rolePerms map[pair]struct{} // (roleID, permissionID)
	userRoles map[pair]struct{} // (userID, roleID)
	roles     *fakeRoleStore
	perms     *fakePermissionStore
}

func newFakeAssignmentStore(roles *fakeRoleStore, perms *fakePermissionStore) *fakeAssignmentStore {
	return &fakeAssignmentStore{
		rolePerms: map[pair]struct{}{},
		userRoles: map[pair]struct{}{},
		roles:     roles,
		perms:     perms,
	}
}

func (f *fakeAssignmentStore) HasRolePermission(ctx context.Context, roleID, permissionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rolePerms[pair{roleID, permissionID}]
	return ok, nil
}

func (f *fakeAssignmentStore) CreateRolePermission(ctx context.Context, roleID, permissionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rolePerms[pair{roleID, permissionID}] = struct{}{}
	return nil
}

func (f *fakeAssignmentStore) DeleteRolePermission(ctx context.Context, roleID, permissionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rolePerms, pair{roleID, permissionID})
	return nil
}

func (f *fakeAssignmentStore) RoleIDsForPermission(ctx context.Context, permissionID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for p := range f.rolePerms {
		if p.b == permissionID {
			ids = append(ids, p.a)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeAssignmentStore) PermissionIDsForRole(ctx context.Context, roleID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for p := range f.rolePerms {
		if p.a == roleID {
			ids = append(ids, p.b)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeAssignmentStore) ReplaceRolesForPermission(ctx context.Context, permissionID string, add, remove []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, roleID := range remove {
		delete(f.rolePerms, pair{roleID, permissionID})
	}
	for _, roleID := range add {
		f.rolePerms[pair{roleID, permissionID}] = struct{}{}
	}
	return nil
}

func (f *fakeAssignmentStore) ReplacePermissionsForRole(ctx context.Context, roleID string, add, remove []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, permissionID := range remove {
		delete(f.rolePerms, pair{roleID, permissionID})
	}
	for _, permissionID := range add {
		f.rolePerms[pair{roleID, permissionID}] = struct{}{}
	}
	return nil
}

func (f *fakeAssignmentStore) RolesForPermission(ctx context.Context, permissionID string, q repository.ListQuery) ([]model.Role, int, error) {
	ids, _ := f.RoleIDsForPermission(ctx, permissionID)
	roles := []model.Role{}
	for _, id := range ids {
		if r, _ := f.roles.GetByID(ctx, id); r != nil {
			roles = append(roles, *r)
		}
	}
	return roles, len(roles), nil
}

func (f *fakeAssignmentStore) PermissionsForRole(ctx context.Context, roleID string, q repository.ListQuery) ([]model.Permission, int, error) {
	ids, _ := f.PermissionIDsForRole(ctx, roleID)
	perms := []model.Permission{}
	for _, id := range ids {
		if p, _ := f.perms.GetByID(ctx, id); p != nil {
			perms = append(perms, *p)
		}
	}
	return perms, len(perms), nil
}

func (f *fakeAssignmentStore) CountForPermission(ctx context.Context, permissionID string) (int, error) {
	ids, _ := f.RoleIDsForPermission(ctx, permissionID)
	return len(ids), nil
}

func (f *fakeAssignmentStore) CountForRole(ctx context.Context, roleID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for p := range f.rolePerms {
		if p.a == roleID {
			n++
		}
	}
	for p := range f.userRoles {
		if p.b == roleID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAssignmentStore) HasUserRole(ctx context.Context, userID, roleID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.userRoles[pair{userID, roleID}]
	return ok, nil
}

func (f *fakeAssignmentStore) CreateUserRole(ctx context.Context, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userRoles[pair{userID, roleID}] = struct{}{}
	return nil
}

func (f *fakeAssignmentStore) DeleteUserRole(ctx context.Context, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.userRoles, pair{userID, roleID})
	return nil
}

func (f *fakeAssignmentStore) RoleIDsForUser(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for p := range f.userRoles {
		if p.a == userID {
			ids = append(ids, p.b)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeAssignmentStore) RolesForUser(ctx context.Context, userID string) ([]model.Role, error) {
	ids, _ := f.RoleIDsForUser(ctx, userID)
	roles := []model.Role{}
	for _, id := range ids {
		if r, _ := f.roles.GetByID(ctx, id); r != nil {
			roles = append(roles, *r)
		}
	}
	return roles, nil
}

func (f *fakeAssignmentStore) PermissionsForUser(ctx context.Context, userID string) ([]model.Permission, error) {
	roleIDs, _ := f.RoleIDsForUser(ctx, userID)
	seen := map[string]struct{}{}
	perms := []model.Permission{}
	for _, roleID := range roleIDs {
		permIDs, _ := f.PermissionIDsForRole(ctx, roleID)
		for _, id := range permIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if p, _ := f.perms.GetByID(ctx, id); p != nil {
				perms = append(perms, *p)
			}
		}
	}
	return perms, nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	items map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{items: map[string]model.User{}}
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.items[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Create(ctx context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[u.ID] = *u
	return nil
}

// countingInvalidator records how often cached verdicts were invalidated.
type countingInvalidator struct{ calls int }

func (i *countingInvalidator) Invalidate(ctx context.Context) { i.calls++ }
