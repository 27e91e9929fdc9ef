package auth

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// UserStore is the single query capability the verifier needs: fetch one user
// row joined with its owning tenant by email. Exactly one such query runs per
// login attempt; token validation never touches the store.
type UserStore interface {
	GetByEmailWithTenant(ctx context.Context, email string) (*User, error)
}

// UserProvider verifies credentials against a UserStore. Verification is
// read-only: no row is mutated on success or failure, so concurrent logins
// for the same user are independent and order-insensitive.
type UserProvider struct {
	store        UserStore
	Validator    func(*User) error
	logger       Logger
	storeTimeout time.Duration
}

// DefaultStoreTimeout bounds the single store round trip per verification so
// a stalled database cannot block a login indefinitely.
var DefaultStoreTimeout = 5 * time.Second

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:        store,
		logger:       defLogger{},
		Validator:    defaultValidator,
		storeTimeout: DefaultStoreTimeout,
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// WithStoreTimeout overrides the per-lookup deadline.
func (u *UserProvider) WithStoreTimeout(d time.Duration) *UserProvider {
	if d > 0 {
		u.storeTimeout = d
	}
	return u
}

func (u *UserProvider) validate(user *User) error {
	if u.Validator != nil {
		return u.Validator(user)
	}
	return defaultValidator(user)
}

// VerifyIdentity resolves the user and its owning tenant, checks both
// lifecycle states, and compares the password against the stored hash.
// Emails are compared exactly as stored, trimmed but not normalized.
func (u UserProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMismatchedHashAndPassword
	}

	user, err := u.lookup(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := ensureAuthenticatableUser(user); err != nil {
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := u.validate(user); err != nil {
		return nil, err
	}

	return identityFromUser(user), nil
}

// FindIdentityByEmail resolves an identity without a password check. Used by
// session rehydration and impersonation; the same lifecycle gates apply.
func (u UserProvider) FindIdentityByEmail(ctx context.Context, email string) (Identity, error) {
	user, err := u.lookup(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	if err := ensureAuthenticatableUser(user); err != nil {
		return nil, err
	}

	if err := u.validate(user); err != nil {
		return nil, err
	}

	return identityFromUser(user), nil
}

func (u UserProvider) lookup(ctx context.Context, email string) (*User, error) {
	if u.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.storeTimeout)
		defer cancel()
	}

	user, err := u.store.GetByEmailWithTenant(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.TextCode == TextCodeIdentityConflict {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	return user, nil
}

type tenantIdentity struct {
	id         string
	username   string
	email      string
	firstName  string
	lastName   string
	role       string
	status     UserStatus
	tenantID   string
	tenantName string
}

func identityFromUser(user *User) tenantIdentity {
	aid := tenantIdentity{
		id:        user.ID.String(),
		email:     user.Email,
		username:  user.Username,
		firstName: user.FirstName,
		lastName:  user.LastName,
		role:      string(user.Role),
		status:    user.Status,
		tenantID:  user.TenantID.String(),
	}

	if user.Tenant != nil {
		aid.tenantName = user.Tenant.Name
	}

	return aid
}

func (a tenantIdentity) ID() string {
	return a.id
}

func (a tenantIdentity) Username() string {
	return a.username
}

func (a tenantIdentity) Email() string {
	return a.email
}

func (a tenantIdentity) FirstName() string {
	return a.firstName
}

func (a tenantIdentity) LastName() string {
	return a.lastName
}

func (a tenantIdentity) Role() string {
	return a.role
}

func (a tenantIdentity) TenantID() string {
	return a.tenantID
}

func (a tenantIdentity) TenantName() string {
	return a.tenantName
}

func (a tenantIdentity) Status() UserStatus {
	if a.status == "" {
		return UserStatusActive
	}
	return a.status
}

var _ Identity = tenantIdentity{}

func defaultValidator(u *User) error {
	switch u.Role {
	case RoleSuperAdmin, RoleOwner, RoleManager, RoleCashier:
		return nil
	default:
		return errors.New("user has an unknown or invalid role", errors.CategoryAuth).
			WithTextCode("INVALID_ROLE").
			WithMetadata(map[string]any{"role": u.Role, "user_id": u.ID.String()})
	}
}

// ensureAuthenticatableUser gates on both lifecycle states. The super admin
// tenant is exempt from the tenant-active rule; user status always applies.
func ensureAuthenticatableUser(user *User) error {
	if user == nil {
		return ErrIdentityNotFound
	}

	user.EnsureStatus()
	if err := statusAuthError(user.Status); err != nil {
		return err
	}

	if user.BelongsToSuperAdminTenant() {
		return nil
	}

	if user.Tenant == nil {
		return errors.New("user row has no tenant loaded", errors.CategoryInternal).
			WithMetadata(map[string]any{"user_id": user.ID.String()})
	}

	user.Tenant.EnsureStatus()
	if user.Tenant.Status != TenantStatusActive {
		return ErrTenantNotActive
	}

	return nil
}
