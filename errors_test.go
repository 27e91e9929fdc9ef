package auth_test

import (
	"errors"
	"testing"

	"github.com/posware/go-auth"
	"github.com/stretchr/testify/assert"
)

func TestIsCredentialRejection(t *testing.T) {
	rejections := []error{
		auth.ErrIdentityNotFound,
		auth.ErrMismatchedHashAndPassword,
		auth.ErrUserPending,
		auth.ErrUserSuspended,
		auth.ErrUserDisabled,
		auth.ErrUserArchived,
		auth.ErrTenantNotActive,
	}

	for _, err := range rejections {
		t.Run(err.Error(), func(t *testing.T) {
			assert.True(t, auth.IsCredentialRejection(err))
		})
	}

	t.Run("internal faults are not rejections", func(t *testing.T) {
		assert.False(t, auth.IsCredentialRejection(auth.ErrIdentityConflict))
		assert.False(t, auth.IsCredentialRejection(errors.New("connection refused")))
		assert.False(t, auth.IsCredentialRejection(auth.ErrTokenExpired))
		assert.False(t, auth.IsCredentialRejection(nil))
	})
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, auth.IsTokenExpiredError(auth.ErrTokenExpired))
	assert.True(t, auth.IsTokenExpiredError(errors.New("token is expired")))
	assert.False(t, auth.IsTokenExpiredError(auth.ErrTokenMalformed))
	assert.False(t, auth.IsTokenExpiredError(nil))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))
	assert.True(t, auth.IsMalformedError(errors.New("token is malformed")))
	assert.True(t, auth.IsMalformedError(errors.New("missing or malformed JWT")))
	assert.False(t, auth.IsMalformedError(auth.ErrTokenExpired))
	assert.False(t, auth.IsMalformedError(nil))
}
