package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/medipos/internal/auth/domain"
	"github.com/smallbiznis/medipos/internal/auth/repository"
	"github.com/smallbiznis/medipos/internal/config"
	"github.com/smallbiznis/medipos/internal/storecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, name string) (domain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Session{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Cfg:   config.Config{SessionTTL: time.Hour},
		Repo:  repository.Provide(),
	})
	return svc, node
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, node := newTestService(t, "auth_login")
	storeID := node.Generate().Int64()
	ctx := storecontext.WithStoreID(context.Background(), storeID)

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "clerk@example.com",
		Name:     "Clerk",
		Role:     storecontext.RoleCounter,
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, domain.LoginRequest{Email: "Clerk@Example.com ", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	identity, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, storeID, identity.StoreID)
	assert.Equal(t, storecontext.RoleCounter, identity.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, node := newTestService(t, "auth_wrongpw")
	ctx := storecontext.WithStoreID(context.Background(), node.Generate().Int64())

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "admin@example.com",
		Name:     "Admin",
		Role:     storecontext.RoleAdmin,
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "admin@example.com", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, node := newTestService(t, "auth_logout")
	ctx := storecontext.WithStoreID(context.Background(), node.Generate().Int64())

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "dealer@example.com",
		Name:     "Dealer",
		Role:     storecontext.RoleDealer,
		Password: "password123",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, domain.LoginRequest{Email: "dealer@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.Token))

	_, err = svc.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, node := newTestService(t, "auth_dup")
	ctx := storecontext.WithStoreID(context.Background(), node.Generate().Int64())

	req := domain.CreateUserRequest{
		Email:    "dup@example.com",
		Name:     "First",
		Role:     storecontext.RoleCounter,
		Password: "password123",
	}
	_, err := svc.CreateUser(ctx, req)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, req)
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestCreateUser_RejectsUnknownRole(t *testing.T) {
	svc, node := newTestService(t, "auth_role")
	ctx := storecontext.WithStoreID(context.Background(), node.Generate().Int64())

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "x@example.com",
		Name:     "X",
		Role:     "superuser",
		Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}
