package auth

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var EnsureSuperAdminTenantSQL = `INSERT INTO "tenants" ("id", "name", "status")
VALUES (?, ?, 'active')
ON CONFLICT ("id") DO NOTHING;`

type Tenants interface {
	repository.Repository[*Tenant]

	GetOrCreate(ctx context.Context, record *Tenant) (*Tenant, error)
	GetOrCreateTx(ctx context.Context, tx bun.IDB, record *Tenant) (*Tenant, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status TenantStatus) (*Tenant, error)
	UpdateStatusTx(ctx context.Context, tx bun.IDB, id uuid.UUID, status TenantStatus) (*Tenant, error)
	EnsureSuperAdmin(ctx context.Context, name string) (*Tenant, error)
}

type tenants struct {
	repository.Repository[*Tenant]
	db *bun.DB
}

var (
	_ Tenants                        = (*tenants)(nil)
	_ repository.Repository[*Tenant] = (*tenants)(nil)
)

func NewTenantsRepository(db *bun.DB) Tenants {
	repo := repository.NewRepository[*Tenant](db, repository.ModelHandlers[*Tenant]{
		NewRecord: func() *Tenant { return &Tenant{} },
		GetID: func(t *Tenant) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Tenant, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &tenants{
		Repository: repo,
		db:         db,
	}
}

func (a *tenants) Create(ctx context.Context, record *Tenant) (*Tenant, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *tenants) CreateTx(ctx context.Context, tx bun.IDB, record *Tenant) (*Tenant, error) {
	prepareTenantDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *tenants) GetOrCreate(ctx context.Context, record *Tenant) (*Tenant, error) {
	return a.GetOrCreateTx(ctx, a.db, record)
}

func (a *tenants) GetOrCreateTx(ctx context.Context, tx bun.IDB, record *Tenant) (*Tenant, error) {
	identifier := record.Name
	if record.ID != uuid.Nil {
		identifier = record.ID.String()
	}

	tenant, err := a.Repository.GetByIdentifierTx(ctx, tx, identifier)
	if err == nil {
		return tenant, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	return a.CreateTx(ctx, tx, record)
}

func (a *tenants) UpdateStatus(ctx context.Context, id uuid.UUID, status TenantStatus) (*Tenant, error) {
	return a.UpdateStatusTx(ctx, a.db, id, status)
}

func (a *tenants) UpdateStatusTx(ctx context.Context, tx bun.IDB, id uuid.UUID, status TenantStatus) (*Tenant, error) {
	record := &Tenant{
		ID:     id,
		Status: status,
	}

	return a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(id.String()))
}

// EnsureSuperAdmin seeds the reserved platform tenant. The row keeps the
// zero UUID, which the ORM insert path would turn into NULL, so it goes
// through raw SQL instead.
func (a *tenants) EnsureSuperAdmin(ctx context.Context, name string) (*Tenant, error) {
	if name == "" {
		name = "platform"
	}

	_, err := a.db.NewRaw(EnsureSuperAdminTenantSQL, SuperAdminTenantID.String(), name).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return a.Repository.GetByID(ctx, SuperAdminTenantID.String())
}

func prepareTenantDefaults(record *Tenant) {
	if record == nil {
		return
	}

	record.EnsureStatus()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
