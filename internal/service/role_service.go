package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ehs-honor/honor-site-api/internal/models"
)

type roleRepository interface {
	FindRole(ctx context.Context, id string) (models.Role, error)
}

type roleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type roleMetrics interface {
	RecordRoleLookup(hit bool)
}

// RoleResolver maps an authenticated identity to its authorization role. A
// missing profile or any resolution failure yields RoleNone; the resolver
// never fails open to a privileged role.
type RoleResolver struct {
	repo    roleRepository
	cache   roleCache
	metrics roleMetrics
	logger  *zap.Logger
	ttl     time.Duration
}

// NewRoleResolver constructs a resolver with a short-TTL cache.
func NewRoleResolver(repo roleRepository, cache roleCache, metrics roleMetrics, logger *zap.Logger, ttl time.Duration) *RoleResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RoleResolver{repo: repo, cache: cache, metrics: metrics, logger: logger, ttl: ttl}
}

// Resolve returns the role for an identity. Resolution is cheap and
// idempotent, so callers re-resolve on every request.
func (r *RoleResolver) Resolve(ctx context.Context, userID string) models.Role {
	if userID == "" {
		return models.RoleNone
	}

	key := roleCacheKey(userID)
	if r.cache != nil {
		var cached models.Role
		if err := r.cache.Get(ctx, key, &cached); err == nil && cached.Valid() {
			if r.metrics != nil {
				r.metrics.RecordRoleLookup(true)
			}
			return cached
		}
		if r.metrics != nil {
			r.metrics.RecordRoleLookup(false)
		}
	}

	role, err := r.repo.FindRole(ctx, userID)
	if err != nil || !role.Valid() {
		if err != nil {
			r.logger.Debug("role resolution failed", zap.String("user_id", userID), zap.Error(err))
		}
		return models.RoleNone
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, role, r.ttl); err != nil {
			r.logger.Warn("failed to cache role", zap.Error(err))
		}
	}

	return role
}

// Invalidate drops the cached role after an auth-state change.
func (r *RoleResolver) Invalidate(ctx context.Context, userID string) {
	if r.cache == nil || userID == "" {
		return
	}
	if err := r.cache.Delete(ctx, roleCacheKey(userID)); err != nil {
		r.logger.Warn("failed to invalidate cached role", zap.Error(err))
	}
}

func roleCacheKey(userID string) string {
	return fmt.Sprintf("role:%s", userID)
}
