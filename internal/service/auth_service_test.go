package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ehs-honor/honor-site-api/internal/models"
	appErrors "github.com/ehs-honor/honor-site-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail      *models.User
	userByID         *models.User
	findByEmailErr   error
	findByIDErr      error
	created          *models.User
	createErr        error
	refreshTokens    map[string]*models.RefreshToken
	revokedIDs       []string
	revokedAll       bool
	lastLoginUpdated bool
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if m.userByID == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByID, nil
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == "" {
		user.ID = "generated"
	}
	m.created = user
	return nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	m.revokedAll = true
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.refreshTokens == nil {
		m.refreshTokens = make(map[string]*models.RefreshToken)
	}
	m.refreshTokens[token.Token] = token
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := m.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return rt, nil
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	m.revokedIDs = append(m.revokedIDs, id)
	for _, rt := range m.refreshTokens {
		if rt.ID == id {
			rt.Revoked = true
			rt.RevokedAt = &revokedAt
		}
	}
	return nil
}

type mockOAuth struct {
	email string
	name  string
	err   error
}

func (m *mockOAuth) Exchange(ctx context.Context, code string) (string, string, error) {
	return m.email, m.name, m.err
}

type mockRoleInvalidator struct {
	invalidated []string
}

func (m *mockRoleInvalidator) Invalidate(ctx context.Context, userID string) {
	m.invalidated = append(m.invalidated, userID)
}

type mockAudit struct {
	entries []*models.AuditLog
}

func (m *mockAudit) Record(entry *models.AuditLog) {
	m.entries = append(m.entries, entry)
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "honor-site-api",
		AllowedEmailDomain: "episcopalhighschool.org",
	}
}

func activeUser(password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &models.User{
		ID:           "u1",
		Email:        "student@episcopalhighschool.org",
		PasswordHash: string(hash),
		FullName:     "Student One",
		Role:         models.RoleStudent,
		Active:       true,
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: activeUser("correct-horse")}
	audit := &mockAudit{}
	svc := NewAuthService(repo, nil, nil, audit, nil, nil, testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "student@episcopalhighschool.org",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "u1", res.User.ID)
	assert.True(t, repo.lastLoginUpdated)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionLogin, audit.entries[0].Action)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: activeUser("correct-horse")}
	svc := NewAuthService(repo, nil, nil, nil, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "student@episcopalhighschool.org",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsForeignEmailDomain(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := NewAuthService(repo, nil, nil, nil, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "someone@gmail.com",
		Password: "whatever1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmailDomain.Code, appErrors.FromError(err).Code)
}

func TestSignupAssignsStudentRole(t *testing.T) {
	repo := &mockAuthRepo{}
	roles := &mockRoleInvalidator{}
	svc := NewAuthService(repo, nil, roles, nil, nil, nil, testAuthConfig())

	res, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:    "new@episcopalhighschool.org",
		Password: "longenough",
		FullName: "New Student",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, models.RoleStudent, repo.created.Role)
	assert.Equal(t, models.RoleStudent, res.User.Role)
	assert.NotEmpty(t, roles.invalidated)
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: activeUser("pw12345678")}
	svc := NewAuthService(repo, nil, nil, nil, nil, nil, testAuthConfig())

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:    "student@episcopalhighschool.org",
		Password: "longenough",
		FullName: "Dup",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRefreshTokenRotates(t *testing.T) {
	user := activeUser("pw12345678")
	repo := &mockAuthRepo{
		userByID: user,
		refreshTokens: map[string]*models.RefreshToken{
			"old-token": {
				ID:        "rt1",
				UserID:    user.ID,
				Token:     "old-token",
				ExpiresAt: time.Now().UTC().Add(time.Hour),
			},
		},
	}
	svc := NewAuthService(repo, nil, nil, nil, nil, nil, testAuthConfig())

	res, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "old-token"})
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", res.RefreshToken)
	assert.Contains(t, repo.revokedIDs, "rt1")
}

func TestRefreshTokenRejectsExpired(t *testing.T) {
	user := activeUser("pw12345678")
	repo := &mockAuthRepo{
		userByID: user,
		refreshTokens: map[string]*models.RefreshToken{
			"stale": {
				ID:        "rt1",
				UserID:    user.ID,
				Token:     "stale",
				ExpiresAt: time.Now().UTC().Add(-time.Minute),
			},
		},
	}
	svc := NewAuthService(repo, nil, nil, nil, nil, nil, testAuthConfig())

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "stale"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestLogoutIsIdempotent(t *testing.T) {
	repo := &mockAuthRepo{refreshTokens: map[string]*models.RefreshToken{}}
	svc := NewAuthService(repo, nil, nil, nil, nil, nil, testAuthConfig())

	// Unknown token reads as already signed out.
	require.NoError(t, svc.Logout(context.Background(), "unknown", "u1", "", ""))
}

func TestLogoutRejectsForeignToken(t *testing.T) {
	repo := &mockAuthRepo{
		refreshTokens: map[string]*models.RefreshToken{
			"theirs": {ID: "rt1", UserID: "someone-else", Token: "theirs", ExpiresAt: time.Now().Add(time.Hour)},
		},
	}
	svc := NewAuthService(repo, nil, nil, nil, nil, nil, testAuthConfig())

	err := svc.Logout(context.Background(), "theirs", "u1", "", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: activeUser("correct-horse")}
	svc := NewAuthService(repo, nil, nil, nil, nil, nil, testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "student@episcopalhighschool.org",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil, nil, nil, nil, nil, testAuthConfig())

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestCompleteOAuthCreatesProfileOnFirstLogin(t *testing.T) {
	repo := &mockAuthRepo{}
	oauth := &mockOAuth{email: "oauth@episcopalhighschool.org", name: "OAuth Student"}
	svc := NewAuthService(repo, oauth, nil, nil, nil, nil, testAuthConfig())

	res, err := svc.CompleteOAuth(context.Background(), "code-123", "", "")
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, models.RoleStudent, repo.created.Role)
	assert.Equal(t, "oauth@episcopalhighschool.org", res.User.Email)
}

func TestCompleteOAuthRejectsExchangeFailure(t *testing.T) {
	oauth := &mockOAuth{err: errors.New("provider down")}
	svc := NewAuthService(&mockAuthRepo{}, oauth, nil, nil, nil, nil, testAuthConfig())

	_, err := svc.CompleteOAuth(context.Background(), "code-123", "", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
