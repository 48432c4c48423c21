package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/teampulse/internal/auth/domain"
	"github.com/smallbiznis/teampulse/internal/auth/password"
	"github.com/smallbiznis/teampulse/internal/auth/repository"
	userdomain "github.com/smallbiznis/teampulse/internal/user/domain"
	userrepository "github.com/smallbiznis/teampulse/internal/user/repository"
)

func setupAuthService(t *testing.T) (domain.Service, *gorm.DB, userdomain.User) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&userdomain.User{}, &domain.Session{})
	assert.NoError(t, err)

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	hash, err := password.Hash("s3cret")
	assert.NoError(t, err)

	user := userdomain.User{
		ID:           node.Generate(),
		Email:        "alice@example.com",
		DisplayName:  "Alice",
		Role:         userdomain.RoleMember,
		PasswordHash: &hash,
		Active:       true,
	}
	assert.NoError(t, db.Create(&user).Error)

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Sessions: repository.ProvideSessionRepository(db),
		Users:    userrepository.Provide(),
	})

	return svc, db, user
}

func TestLogin_IssuesSessionToken(t *testing.T) {
	svc, db, user := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "s3cret"})
	assert.NoError(t, err)
	assert.NotEmpty(t, result.RawToken)
	assert.Equal(t, user.ID, result.User.ID)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	var count int64
	assert.NoError(t, db.Model(&domain.Session{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// the raw token is never stored as-is
	var stored int64
	assert.NoError(t, db.Model(&domain.Session{}).
		Where("session_token_hash = ?", result.RawToken).
		Count(&stored).Error)
	assert.EqualValues(t, 0, stored)
}

func TestLogin_WrongPasswordIsRejected(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "alice@example.com", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailIsRejected(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "bob@example.com", Password: "s3cret"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_InactiveUserIsRejected(t *testing.T) {
	svc, db, user := setupAuthService(t)

	assert.NoError(t, db.Model(&userdomain.User{}).
		Where("id = ?", user.ID).
		Update("active", false).Error)

	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "alice@example.com", Password: "s3cret"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticate_ResolvesIdentity(t *testing.T) {
	svc, _, user := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "s3cret"})
	assert.NoError(t, err)

	identity, err := svc.Authenticate(ctx, result.RawToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, identity.User.ID)
	assert.Equal(t, userdomain.RoleMember, identity.Role())
}

func TestAuthenticate_UnknownTokenIsInvalid(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	_, err := svc.Authenticate(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	svc, db, _ := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "s3cret"})
	assert.NoError(t, err)

	assert.NoError(t, db.Model(&domain.Session{}).
		Where("1 = 1").
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "s3cret"})
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(ctx, result.RawToken))

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestLogout_UnknownTokenIsANoop(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	assert.NoError(t, svc.Logout(context.Background(), "no-such-token"))
}
