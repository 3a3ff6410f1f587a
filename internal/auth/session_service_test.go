package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mornivek/stafflane/internal/database/testutil"
	"github.com/mornivek/stafflane/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupSessionService(t *testing.T) (*gorm.DB, *SessionService, *fakeClock) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	jwtSvc, err := NewJWTService(JWTConfig{
		Secret:         "test-secret",
		Issuer:         "stafflane",
		AccessTokenTTL: 15 * time.Minute,
		Clock:          clock.Now,
	})
	require.NoError(t, err)

	svc, err := NewSessionService(db, jwtSvc, SessionConfig{
		RefreshTokenTTL: time.Hour,
		Clock:           clock.Now,
	})
	require.NoError(t, err)

	return db, svc, clock
}

func createSessionTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     models.GlobalRoleUser,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateSessionGeneratesTokens(t *testing.T) {
	db, svc, clock := setupSessionService(t)
	user := createSessionTestUser(t, db, "user-create")

	tokens, session, err := svc.CreateSession(context.Background(), user.ID, SessionMetadata{
		IPAddress: "10.0.0.1 ",
		UserAgent: "unit-test",
	})
	require.NoError(t, err)

	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	require.NotNil(t, session)
	require.Equal(t, user.ID, session.UserID)
	require.Equal(t, "10.0.0.1", session.IPAddress)
	require.Equal(t, "unit-test", session.UserAgent)

	var reloaded models.Session
	require.NoError(t, db.Take(&reloaded, "id = ?", session.ID).Error)
	require.Equal(t, tokens.RefreshToken, reloaded.RefreshToken)
	require.True(t, reloaded.ExpiresAt.After(clock.Now()))
}

func TestRefreshSessionRotatesToken(t *testing.T) {
	db, svc, clock := setupSessionService(t)
	user := createSessionTestUser(t, db, "user-refresh")

	tokens, session, err := svc.CreateSession(context.Background(), user.ID, SessionMetadata{})
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)

	newTokens, updated, err := svc.RefreshSession(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, tokens.RefreshToken, newTokens.RefreshToken)
	require.Equal(t, session.ID, updated.ID)
	require.True(t, updated.LastUsedAt.Equal(clock.Now()))

	// The old token no longer resolves.
	_, _, err = svc.RefreshSession(context.Background(), tokens.RefreshToken)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRefreshSessionExpired(t *testing.T) {
	db, svc, clock := setupSessionService(t)
	user := createSessionTestUser(t, db, "user-expired")

	tokens, _, err := svc.CreateSession(context.Background(), user.ID, SessionMetadata{})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, _, err = svc.RefreshSession(context.Background(), tokens.RefreshToken)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestRevokeSessionBlocksRefresh(t *testing.T) {
	db, svc, _ := setupSessionService(t)
	user := createSessionTestUser(t, db, "user-revoke")

	tokens, session, err := svc.CreateSession(context.Background(), user.ID, SessionMetadata{})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeSession(context.Background(), session.ID))

	_, _, err = svc.RefreshSession(context.Background(), tokens.RefreshToken)
	require.ErrorIs(t, err, ErrSessionRevoked)

	// Revoking again reports not found.
	require.ErrorIs(t, svc.RevokeSession(context.Background(), session.ID), ErrSessionNotFound)
}

func TestRevokeUserSessions(t *testing.T) {
	db, svc, _ := setupSessionService(t)
	user := createSessionTestUser(t, db, "user-revoke-all")

	first, _, err := svc.CreateSession(context.Background(), user.ID, SessionMetadata{})
	require.NoError(t, err)
	second, _, err := svc.CreateSession(context.Background(), user.ID, SessionMetadata{})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeUserSessions(context.Background(), user.ID))

	_, _, err = svc.RefreshSession(context.Background(), first.RefreshToken)
	require.ErrorIs(t, err, ErrSessionRevoked)
	_, _, err = svc.RefreshSession(context.Background(), second.RefreshToken)
	require.ErrorIs(t, err, ErrSessionRevoked)
}

func TestCleanupExpiredRemovesStaleSessions(t *testing.T) {
	db, svc, clock := setupSessionService(t)
	user := createSessionTestUser(t, db, "user-cleanup")

	_, stale, err := svc.CreateSession(context.Background(), user.ID, SessionMetadata{})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, fresh, err := svc.CreateSession(context.Background(), user.ID, SessionMetadata{})
	require.NoError(t, err)

	removed, err := svc.CleanupExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", stale.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", fresh.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}
