package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SuperAdminTenantID is the reserved tenant that owns platform operators.
// Users under this tenant authenticate regardless of the tenant status field.
var SuperAdminTenantID = uuid.Nil

// TenantStatus is the tenant's lifecycle status
type TenantStatus = string

const (
	// TenantStatusActive tenant is live and its users may authenticate
	TenantStatusActive TenantStatus = "active"
	// TenantStatusSuspended tenant is temporarily blocked (e.g. billing hold)
	TenantStatusSuspended TenantStatus = "suspended"
	// TenantStatusDisabled tenant has been switched off by an operator
	TenantStatusDisabled TenantStatus = "disabled"
	// TenantStatusArchived tenant is retained for bookkeeping only
	TenantStatusArchived TenantStatus = "archived"
)

// Tenant is the customer account model. Every user belongs to exactly one
// tenant; business data hangs off the tenant elsewhere in the platform.
type Tenant struct {
	bun.BaseModel `bun:"table:tenants,alias:tnt"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string         `bun:"name,notnull" json:"name,omitempty"`
	Status        TenantStatus   `bun:"status,notnull" json:"status,omitempty"`
	Metadata      map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// IsSuperAdmin reports whether this is the reserved platform tenant.
func (t *Tenant) IsSuperAdmin() bool {
	return t != nil && t.ID == SuperAdminTenantID
}

// EnsureStatus backfills the zero value so legacy rows behave as active.
func (t *Tenant) EnsureStatus() {
	if t.Status == "" {
		t.Status = TenantStatusActive
	}
}

// UserStatus is the user's lifecycle status
type UserStatus = string

const (
	// UserStatusPending account created but not yet activated
	UserStatusPending UserStatus = "pending"
	// UserStatusActive account may authenticate
	UserStatusActive UserStatus = "active"
	// UserStatusSuspended account temporarily blocked by an admin
	UserStatusSuspended UserStatus = "suspended"
	// UserStatusDisabled account switched off
	UserStatusDisabled UserStatus = "disabled"
	// UserStatusArchived terminal state, retained for bookkeeping
	UserStatusArchived UserStatus = "archived"
)

// User is the user model
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	TenantID       uuid.UUID      `bun:"tenant_id,notnull,type:uuid" json:"tenant_id,omitempty"`
	Tenant         *Tenant        `bun:"rel:belongs-to,join:tenant_id=id" json:"tenant,omitempty"`
	Role           UserRole       `bun:"user_role,notnull" json:"user_role,omitempty"`
	Status         UserStatus     `bun:"status,notnull,default:'active'" json:"status,omitempty"`
	FirstName      string         `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName       string         `bun:"last_name,notnull" json:"last_name,omitempty"`
	Username       string         `bun:"username,notnull" json:"username,omitempty"`
	Email          string         `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone          string         `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash   string         `bun:"password_hash" json:"-"`
	EmailValidated bool           `bun:"is_email_verified" json:"is_email_verified,omitempty"`
	Metadata       map[string]any `bun:"metadata" json:"metadata,omitempty"`
	SuspendedAt    *time.Time     `bun:"suspended_at,nullzero" json:"suspended_at,omitempty"`
	LoggedInAt     *time.Time     `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureStatus backfills the zero value so legacy rows behave as active.
func (u *User) EnsureStatus() {
	if u.Status == "" {
		u.Status = UserStatusActive
	}
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}

// IsSuspended reports whether the account is currently suspended.
func (u *User) IsSuspended() bool {
	return u != nil && u.Status == UserStatusSuspended
}

// BelongsToSuperAdminTenant reports whether the user hangs off the reserved
// platform tenant.
func (u *User) BelongsToSuperAdminTenant() bool {
	return u != nil && u.TenantID == SuperAdminTenantID
}

// AddMetadata will append information to a metadata attribute
func (u *User) AddMetadata(key string, val any) *User {
	if u.Metadata == nil {
		u.Metadata = make(map[string]any)
	}
	u.Metadata[key] = val
	return u
}
