package auth

import (
	"context"
	"fmt"
	"testing"

	pkgAuth "github.com/parfumelle/parfumelle-backend/pkg/auth"
	"github.com/parfumelle/parfumelle-backend/pkg/auth/session"
	"github.com/parfumelle/parfumelle-backend/pkg/config"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	pkgerrors "github.com/parfumelle/parfumelle-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeSessionManager struct {
	sessions  map[string]string
	rotateErr error
	revoked   []string
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{sessions: map[string]string{}}
}

func (f *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.sessions[accessID] = token
	return token, nil
}

func (f *fakeSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateErr != nil {
		return "", "", f.rotateErr
	}
	stored, ok := f.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.sessions, oldAccessID)
	newID := fmt.Sprintf("rotated-%s", oldAccessID)
	token := "refresh-" + newID
	f.sessions[newID] = token
	return newID, token, nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	delete(f.sessions, accessID)
	f.revoked = append(f.revoked, accessID)
	return nil
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  created_at DATETIME,
  updated_at DATETIME
);`).Error
	require.NoError(t, err)

	return db
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-please-do-not-reuse",
		Issuer:            "parfumelle-test",
		ExpirationMinutes: 15,
	}
}

func testPasswordConfig() config.PasswordConfig {
	// Cheap argon parameters keep the suite fast.
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) (Service, *fakeSessionManager) {
	t.Helper()

	db := setupAuthTestDB(t)
	sessions := newFakeSessionManager()
	svc, err := NewService(ServiceParams{
		UserRepo:       NewUserRepository(db),
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	require.NoError(t, err)
	return svc, sessions
}

func TestRegisterIssuesTokens(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Username: "  Alice  ", Password: "correct-horse"})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, enums.UserRoleCustomer, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Len(t, sessions.sessions, 1)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, enums.UserRoleCustomer, claims.Role)
}

func TestRegisterSellerRole(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: "vendor",
		Password: "correct-horse",
		Role:     "seller",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleSeller, resp.User.Role)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "bob", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Register(ctx, RegisterRequest{Username: "bob", Password: "correct-horse", Role: "admin"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "ALICE", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Username: "Alice", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), invalidCredentialsMessage)

	// Unknown user reads the same as a bad password.
	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), invalidCredentialsMessage)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshRequest{
		AccessToken:  registered.AccessToken,
		RefreshToken: registered.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The original refresh token is spent.
	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  registered.AccessToken,
		RefreshToken: registered.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	assert.Len(t, sessions.sessions, 1)
}

func TestRefreshRejectsForgedToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  "not-a-jwt",
		RefreshToken: "whatever",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLogout(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	assert.Empty(t, sessions.sessions)

	err = svc.Logout(ctx, "  ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}
