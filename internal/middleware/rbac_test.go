package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ehs-honor/honor-site-api/internal/models"
	"github.com/ehs-honor/honor-site-api/internal/service"
)

type roleRepoStub struct {
	role models.Role
	err  error
}

func (s *roleRepoStub) FindRole(ctx context.Context, id string) (models.Role, error) {
	return s.role, s.err
}

func runRBAC(t *testing.T, repo *roleRepoStub, claims *models.JWTClaims) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resolver := service.NewRoleResolver(repo, nil, nil, nil, time.Minute)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/committee/questions", nil)
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}

	RequireRoles(resolver, models.RoleCommittee, models.RoleAdmin)(c)
	return w
}

func TestRBACAllowsCommittee(t *testing.T) {
	w := runRBAC(t, &roleRepoStub{role: models.RoleCommittee}, &models.JWTClaims{UserID: "u1"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRBACRejectsStudent(t *testing.T) {
	w := runRBAC(t, &roleRepoStub{role: models.RoleStudent}, &models.JWTClaims{UserID: "u1"})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRBACRejectsMissingClaims(t *testing.T) {
	w := runRBAC(t, &roleRepoStub{role: models.RoleAdmin}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRBACFailsClosedOnResolverError(t *testing.T) {
	// Even an admin token is rejected when the role cannot be resolved.
	w := runRBAC(t, &roleRepoStub{err: sql.ErrNoRows}, &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin})
	require.Equal(t, http.StatusForbidden, w.Code)
}
