package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeIdentityNotFound no user row matched the submitted email
	TextCodeIdentityNotFound = "IDENTITY_NOT_FOUND"
	// TextCodeInvalidCredentials password hash comparison failed
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	// TextCodeUserPending account has not been activated yet
	TextCodeUserPending = "USER_PENDING"
	// TextCodeUserSuspended account is suspended
	TextCodeUserSuspended = "USER_SUSPENDED"
	// TextCodeUserDisabled account is disabled
	TextCodeUserDisabled = "USER_DISABLED"
	// TextCodeUserArchived account is archived
	TextCodeUserArchived = "USER_ARCHIVED"
	// TextCodeTenantNotActive owning tenant is not active
	TextCodeTenantNotActive = "TENANT_NOT_ACTIVE"
	// TextCodeTokenExpired token exp is in the past
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeTokenMalformed token is structurally invalid or badly signed
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	// TextCodeIdentityConflict more than one user row matched a unique email
	TextCodeIdentityConflict = "IDENTITY_CONFLICT"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword password did not match the stored hash
var ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrUserPending the account has not completed activation
var ErrUserPending = errors.New("user is pending activation", errors.CategoryAuth).
	WithTextCode(TextCodeUserPending).
	WithCode(errors.CodeUnauthorized)

// ErrUserSuspended the account is suspended
var ErrUserSuspended = errors.New("user is suspended", errors.CategoryAuth).
	WithTextCode(TextCodeUserSuspended).
	WithCode(errors.CodeUnauthorized)

// ErrUserDisabled the account is disabled
var ErrUserDisabled = errors.New("user is disabled", errors.CategoryAuth).
	WithTextCode(TextCodeUserDisabled).
	WithCode(errors.CodeUnauthorized)

// ErrUserArchived the account is archived
var ErrUserArchived = errors.New("user is archived", errors.CategoryAuth).
	WithTextCode(TextCodeUserArchived).
	WithCode(errors.CodeUnauthorized)

// ErrTenantNotActive the owning tenant is not active and is not the
// reserved super admin tenant
var ErrTenantNotActive = errors.New("tenant is not active", errors.CategoryAuth).
	WithTextCode(TextCodeTenantNotActive).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired the token exp claim is in the past
var ErrTokenExpired = errors.New("token has expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed the token could not be decoded or its signature failed
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityConflict a unique email matched more than one row; this is a
// data integrity fault, not a credential failure
var ErrIdentityConflict = errors.New("multiple identities matched", errors.CategoryInternal).
	WithTextCode(TextCodeIdentityConflict).
	WithCode(errors.CodeInternal)

// ErrNoEmptyString is returned when a required string input is empty
var ErrNoEmptyString = errors.New("value should not be an empty string", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrUnableToFindSession is the error when our request has no cookie
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession unable to decode JWT from session cookie
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToParseData parse error
var ErrUnableToParseData = errors.New("unable to parse data", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrSignupDisabled registration is switched off via feature gate
var ErrSignupDisabled = errors.New("user signup is disabled", errors.CategoryAuthz).
	WithTextCode("SIGNUP_DISABLED").
	WithCode(errors.CodeForbidden)

var credentialRejectionCodes = map[string]struct{}{
	TextCodeIdentityNotFound:   {},
	TextCodeInvalidCredentials: {},
	TextCodeUserPending:        {},
	TextCodeUserSuspended:      {},
	TextCodeUserDisabled:       {},
	TextCodeUserArchived:       {},
	TextCodeTenantNotActive:    {},
}

// IsCredentialRejection reports whether the error is one of the credential
// rejection kinds. Callers MUST collapse all of these to a single generic
// invalid-credentials response; the distinction exists for logs only, never
// for clients, so account enumeration stays impossible.
func IsCredentialRejection(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}

	_, ok := credentialRejectionCodes[richErr.TextCode]
	return ok
}

// statusAuthError maps a non-active user status to its rejection error.
func statusAuthError(status UserStatus) error {
	switch status {
	case UserStatusActive:
		return nil
	case UserStatusPending:
		return ErrUserPending
	case UserStatusSuspended:
		return ErrUserSuspended
	case UserStatusDisabled:
		return ErrUserDisabled
	case UserStatusArchived:
		return ErrUserArchived
	default:
		return ErrUserDisabled
	}
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
