package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active user", func(t *testing.T) {
		users := newMemUserRepo()
		svc := NewUserService(users)

		resp, err := svc.Create(ctx, CreateUserRequest{
			Username: "Marie.D",
			Password: "s3cret",
			FullName: "Marie Dupont",
			Role:     "manager",
		})
		require.NoError(t, err)

		// Usernames are normalized to lower case.
		assert.Equal(t, "marie.d", resp.Username)
		assert.Equal(t, "Marie Dupont", resp.FullName)
		assert.Equal(t, "manager", resp.Role)
		assert.True(t, resp.Active)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		users := newMemUserRepo()
		svc := NewUserService(users)

		_, err := svc.Create(ctx, CreateUserRequest{Username: "jean", Password: "s3cret", Role: "cashier"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateUserRequest{Username: "jean", Password: "other", Role: "cashier"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("invalid username is rejected", func(t *testing.T) {
		users := newMemUserRepo()
		svc := NewUserService(users)

		_, err := svc.Create(ctx, CreateUserRequest{Username: "j!", Password: "s3cret", Role: "cashier"})
		require.Error(t, err)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	svc := NewUserService(users)
	user := seedUser(t, users, "jean", "s3cret", identity.RoleCashier)

	resp, err := svc.Update(ctx, user.ID, UpdateUserRequest{FullName: "Jean Baptiste", Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "Jean Baptiste", resp.FullName)
	assert.Equal(t, "manager", resp.Role)

	_, err = svc.Update(ctx, uuid.New(), UpdateUserRequest{Role: "cashier"})
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestUserService_ActivateDeactivate(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	svc := NewUserService(users)
	user := seedUser(t, users, "jean", "s3cret", identity.RoleCashier)

	resp, err := svc.Deactivate(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	_, err = svc.Deactivate(ctx, user.ID)
	require.Error(t, err)

	resp, err = svc.Activate(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, resp.Active)
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	svc := NewUserService(users)
	seedUser(t, users, "jean", "s3cret", identity.RoleCashier)
	seedUser(t, users, "marie", "s3cret", identity.RoleManager)

	responses, total, err := svc.List(ctx, UserListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, responses, 2)
}
