package auth_test

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/posware/go-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func activeTenantUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	tenantID := uuid.New()
	return &auth.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Username:     "testuser",
		Email:        "cashier@store.test",
		FirstName:    "Test",
		LastName:     "Cashier",
		PasswordHash: hash,
		Role:         auth.RoleCashier,
		Status:       auth.UserStatusActive,
		Tenant: &auth.Tenant{
			ID:     tenantID,
			Name:   "Corner Store",
			Status: auth.TenantStatusActive,
		},
	}
}

func TestUserProviderVerifyIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful verification carries tenant attributes", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)
		user := activeTenantUser(t, "password123")

		store.On("GetByEmailWithTenant", mock.Anything, user.Email).Return(user, nil).Once()

		identity, err := provider.VerifyIdentity(ctx, user.Email, "password123")
		require.NoError(t, err)
		require.NotNil(t, identity)
		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, user.Email, identity.Email())
		assert.Equal(t, string(auth.RoleCashier), identity.Role())
		assert.Equal(t, user.TenantID.String(), identity.TenantID())
		assert.Equal(t, "Corner Store", identity.TenantName())

		store.AssertExpectations(t)
	})

	t.Run("Trims surrounding whitespace from email", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)
		user := activeTenantUser(t, "password123")

		store.On("GetByEmailWithTenant", mock.Anything, user.Email).Return(user, nil).Once()

		_, err := provider.VerifyIdentity(ctx, "  "+user.Email+"  ", "password123")
		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Empty email or password rejected without store lookup", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)

		_, err := provider.VerifyIdentity(ctx, "", "password123")
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)

		_, err = provider.VerifyIdentity(ctx, "cashier@store.test", "")
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)

		store.AssertNotCalled(t, "GetByEmailWithTenant", mock.Anything, mock.Anything)
	})

	t.Run("Wrong password", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)
		user := activeTenantUser(t, "correct_password")

		store.On("GetByEmailWithTenant", mock.Anything, user.Email).Return(user, nil).Once()

		identity, err := provider.VerifyIdentity(ctx, user.Email, "wrong_password")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
		store.AssertExpectations(t)
	})

	t.Run("User not found", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)

		store.On("GetByEmailWithTenant", mock.Anything, "nobody@store.test").
			Return(nil, goerrors.New("record not found", goerrors.CategoryNotFound)).Once()

		identity, err := provider.VerifyIdentity(ctx, "nobody@store.test", "password123")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
		store.AssertExpectations(t)
	})

	t.Run("Inactive user statuses are rejected before password check", func(t *testing.T) {
		cases := []struct {
			status  auth.UserStatus
			wantErr error
		}{
			{auth.UserStatusPending, auth.ErrUserPending},
			{auth.UserStatusSuspended, auth.ErrUserSuspended},
			{auth.UserStatusDisabled, auth.ErrUserDisabled},
			{auth.UserStatusArchived, auth.ErrUserArchived},
		}

		for _, tc := range cases {
			store := new(MockUserStore)
			provider := auth.NewUserProvider(store)
			user := activeTenantUser(t, "password123")
			user.Status = tc.status

			store.On("GetByEmailWithTenant", mock.Anything, user.Email).Return(user, nil).Once()

			identity, err := provider.VerifyIdentity(ctx, user.Email, "password123")
			assert.Nil(t, identity)
			assert.ErrorIs(t, err, tc.wantErr, "status %s", tc.status)
			store.AssertExpectations(t)
		}
	})

	t.Run("Inactive tenant blocks login even with good credentials", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)
		user := activeTenantUser(t, "password123")
		user.Tenant.Status = auth.TenantStatusSuspended

		store.On("GetByEmailWithTenant", mock.Anything, user.Email).Return(user, nil).Once()

		identity, err := provider.VerifyIdentity(ctx, user.Email, "password123")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, auth.ErrTenantNotActive)
		store.AssertExpectations(t)
	})

	t.Run("Platform tenant members skip the tenant status check", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)
		user := activeTenantUser(t, "password123")
		user.TenantID = auth.SuperAdminTenantID
		user.Role = auth.RoleSuperAdmin
		user.Tenant = &auth.Tenant{
			ID:     auth.SuperAdminTenantID,
			Name:   "platform",
			Status: auth.TenantStatusSuspended,
		}

		store.On("GetByEmailWithTenant", mock.Anything, user.Email).Return(user, nil).Once()

		identity, err := provider.VerifyIdentity(ctx, user.Email, "password123")
		require.NoError(t, err)
		assert.Equal(t, string(auth.RoleSuperAdmin), identity.Role())
		store.AssertExpectations(t)
	})

	t.Run("Platform tenant members still need an active account", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)
		user := activeTenantUser(t, "password123")
		user.TenantID = auth.SuperAdminTenantID
		user.Status = auth.UserStatusSuspended

		store.On("GetByEmailWithTenant", mock.Anything, user.Email).Return(user, nil).Once()

		identity, err := provider.VerifyIdentity(ctx, user.Email, "password123")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, auth.ErrUserSuspended)
		store.AssertExpectations(t)
	})

	t.Run("Missing tenant relation is an internal fault", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)
		user := activeTenantUser(t, "password123")
		user.Tenant = nil

		store.On("GetByEmailWithTenant", mock.Anything, user.Email).Return(user, nil).Once()

		identity, err := provider.VerifyIdentity(ctx, user.Email, "password123")
		assert.Nil(t, identity)
		assert.Error(t, err)
		assert.False(t, auth.IsCredentialRejection(err))
		store.AssertExpectations(t)
	})

	t.Run("Identity conflict passes through untouched", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)

		store.On("GetByEmailWithTenant", mock.Anything, "dup@store.test").
			Return(nil, auth.ErrIdentityConflict).Once()

		identity, err := provider.VerifyIdentity(ctx, "dup@store.test", "password123")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, auth.ErrIdentityConflict)
		assert.False(t, auth.IsCredentialRejection(err))
		store.AssertExpectations(t)
	})

	t.Run("Store failure surfaces as internal error", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)

		store.On("GetByEmailWithTenant", mock.Anything, "cashier@store.test").
			Return(nil, errors.New("connection refused")).Once()

		identity, err := provider.VerifyIdentity(ctx, "cashier@store.test", "password123")
		assert.Nil(t, identity)
		assert.Error(t, err)
		assert.False(t, auth.IsCredentialRejection(err))
		store.AssertExpectations(t)
	})
}

func TestUserProviderFindIdentityByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("User found", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)
		user := activeTenantUser(t, "password123")

		store.On("GetByEmailWithTenant", mock.Anything, user.Email).Return(user, nil).Once()

		identity, err := provider.FindIdentityByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, user.TenantID.String(), identity.TenantID())
		store.AssertExpectations(t)
	})

	t.Run("User not found", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)

		store.On("GetByEmailWithTenant", mock.Anything, "nobody@store.test").
			Return(nil, goerrors.New("record not found", goerrors.CategoryNotFound)).Once()

		identity, err := provider.FindIdentityByEmail(ctx, "nobody@store.test")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
		store.AssertExpectations(t)
	})

	t.Run("Invalid role", func(t *testing.T) {
		store := new(MockUserStore)
		provider := auth.NewUserProvider(store)
		user := activeTenantUser(t, "password123")
		user.Role = "janitor"

		store.On("GetByEmailWithTenant", mock.Anything, user.Email).Return(user, nil).Once()

		identity, err := provider.FindIdentityByEmail(ctx, user.Email)
		assert.Nil(t, identity)
		assert.Error(t, err)
		store.AssertExpectations(t)
	})
}

func TestUserProviderCustomValidator(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserStore)
	provider := auth.NewUserProvider(store)

	customErr := errors.New("custom validation error")
	provider.Validator = func(u *auth.User) error {
		return customErr
	}

	user := activeTenantUser(t, "password123")
	store.On("GetByEmailWithTenant", mock.Anything, user.Email).Return(user, nil).Once()

	identity, err := provider.VerifyIdentity(ctx, user.Email, "password123")
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, customErr)
	store.AssertExpectations(t)
}
