package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/teampulse/internal/user/domain"
	"github.com/smallbiznis/teampulse/internal/user/repository"
)

func setupUserService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	assert.NoError(t, db.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})

	return svc, db
}

func TestCreate_DefaultsToActiveMember(t *testing.T) {
	svc, _ := setupUserService(t)

	user, err := svc.Create(context.Background(), domain.CreateUserRequest{
		Email:       "Carol@Example.com",
		DisplayName: "Carol",
	})
	assert.NoError(t, err)
	assert.Equal(t, "carol@example.com", user.Email)
	assert.Equal(t, domain.RoleMember, user.Role)
	assert.True(t, user.Active)
	assert.Nil(t, user.PasswordHash)
}

func TestCreate_RejectsBadInput(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateUserRequest{Email: "not-an-email", DisplayName: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Create(ctx, domain.CreateUserRequest{Email: "x@example.com", DisplayName: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateUserRequest{Email: "x@example.com", DisplayName: "X", Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.Create(ctx, domain.CreateUserRequest{Email: "x@example.com", DisplayName: "X", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateUserRequest{Email: "dup@example.com", DisplayName: "One"})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateUserRequest{Email: "DUP@example.com", DisplayName: "Two"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestList_PaginatesWithCursor(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, domain.CreateUserRequest{
			Email:       fmt.Sprintf("user%d@example.com", i),
			DisplayName: fmt.Sprintf("User %d", i),
		})
		assert.NoError(t, err)
	}

	first, err := svc.List(ctx, domain.ListUsersRequest{PageSize: 3})
	assert.NoError(t, err)
	assert.Len(t, first.Users, 3)
	assert.True(t, first.HasMore)
	assert.NotEmpty(t, first.NextPageToken)

	second, err := svc.List(ctx, domain.ListUsersRequest{PageSize: 3, PageToken: first.NextPageToken})
	assert.NoError(t, err)
	assert.Len(t, second.Users, 2)
	assert.False(t, second.HasMore)

	seen := map[string]bool{}
	for _, u := range append(first.Users, second.Users...) {
		assert.False(t, seen[u.Email], "user %s returned twice", u.Email)
		seen[u.Email] = true
	}
}

func TestGetByID(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateUserRequest{Email: "get@example.com", DisplayName: "Get"})
	assert.NoError(t, err)

	got, err := svc.GetByID(ctx, domain.GetUserRequest{ID: created.ID.String()})
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetByID(ctx, domain.GetUserRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(ctx, domain.GetUserRequest{ID: "123456789"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActivePopulation_ExcludesManagersAndInactive(t *testing.T) {
	svc, db := setupUserService(t)
	ctx := context.Background()

	member, err := svc.Create(ctx, domain.CreateUserRequest{Email: "m1@example.com", DisplayName: "Member"})
	assert.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateUserRequest{Email: "mgr@example.com", DisplayName: "Manager", Role: "manager"})
	assert.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateUserRequest{Email: "adm@example.com", DisplayName: "Admin", Role: "admin"})
	assert.NoError(t, err)

	inactive, err := svc.Create(ctx, domain.CreateUserRequest{Email: "gone@example.com", DisplayName: "Gone"})
	assert.NoError(t, err)
	assert.NoError(t, db.Model(&domain.User{}).
		Where("id = ?", inactive.ID).
		Update("active", false).Error)

	population, err := svc.ActivePopulation(ctx)
	assert.NoError(t, err)
	assert.Len(t, population, 1)
	assert.Equal(t, member.ID, population[0].ID)
}
