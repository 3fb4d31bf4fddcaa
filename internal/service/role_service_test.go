package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ehs-honor/honor-site-api/internal/models"
	appErrors "github.com/ehs-honor/honor-site-api/pkg/errors"
)

type mockRoleRepo struct {
	role models.Role
	err  error
}

func (m *mockRoleRepo) FindRole(ctx context.Context, id string) (models.Role, error) {
	return m.role, m.err
}

type mockRoleCache struct {
	store   map[string][]byte
	deleted []string
}

func (m *mockRoleCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockRoleCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	return nil
}

func (m *mockRoleCache) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.store, key)
	return nil
}

func TestResolveReadsDatabaseAndCaches(t *testing.T) {
	cache := &mockRoleCache{}
	resolver := NewRoleResolver(&mockRoleRepo{role: models.RoleCommittee}, cache, nil, nil, time.Minute)

	role := resolver.Resolve(context.Background(), "u1")
	assert.Equal(t, models.RoleCommittee, role)
	assert.Contains(t, cache.store, "role:u1")
}

func TestResolveUsesCacheFirst(t *testing.T) {
	cache := &mockRoleCache{}
	_ = cache.Set(context.Background(), "role:u1", models.RoleAdmin, time.Minute)

	// Repo returns a different role; the cached value must win.
	resolver := NewRoleResolver(&mockRoleRepo{role: models.RoleStudent}, cache, nil, nil, time.Minute)
	assert.Equal(t, models.RoleAdmin, resolver.Resolve(context.Background(), "u1"))
}

func TestResolveFailureYieldsNone(t *testing.T) {
	resolver := NewRoleResolver(&mockRoleRepo{err: errors.New("db down")}, nil, nil, nil, time.Minute)
	assert.Equal(t, models.RoleNone, resolver.Resolve(context.Background(), "u1"))
}

func TestResolveMissingProfileYieldsNone(t *testing.T) {
	resolver := NewRoleResolver(&mockRoleRepo{err: sql.ErrNoRows}, nil, nil, nil, time.Minute)
	assert.Equal(t, models.RoleNone, resolver.Resolve(context.Background(), "u1"))
}

func TestResolveInvalidRoleYieldsNone(t *testing.T) {
	resolver := NewRoleResolver(&mockRoleRepo{role: models.Role("superuser")}, nil, nil, nil, time.Minute)
	assert.Equal(t, models.RoleNone, resolver.Resolve(context.Background(), "u1"))
}

func TestResolveEmptyUserIDYieldsNone(t *testing.T) {
	resolver := NewRoleResolver(&mockRoleRepo{role: models.RoleAdmin}, nil, nil, nil, time.Minute)
	assert.Equal(t, models.RoleNone, resolver.Resolve(context.Background(), ""))
}

func TestInvalidateDropsCachedRole(t *testing.T) {
	cache := &mockRoleCache{}
	_ = cache.Set(context.Background(), "role:u1", models.RoleCommittee, time.Minute)

	resolver := NewRoleResolver(&mockRoleRepo{role: models.RoleStudent}, cache, nil, nil, time.Minute)
	resolver.Invalidate(context.Background(), "u1")

	assert.Contains(t, cache.deleted, "role:u1")
	assert.Equal(t, models.RoleStudent, resolver.Resolve(context.Background(), "u1"))
}
