package repo

import (
	"time"

	"moiport/internal/modules/tenant"
)

type TenantDb interface {
	CreateTenant(t *tenant.Tenant) (*tenant.Tenant, error)
	GetTenantByID(tenantID uint) (*tenant.Tenant, error)
	UpdateTenant(t *tenant.Tenant) (*tenant.Tenant, error)
	CreateInvite(inv *tenant.Invite) (*tenant.Invite, error)
	GetInviteByToken(token string) (*tenant.Invite, error)
	MarkInviteUsed(inviteID uint, usedAt time.Time) error
}

type TenantS3 interface {
	UploadLogo(s3Key string, imageBytes []byte, contentType string) error
	DeleteLogo(s3Key string) error
	GetLogoPublicURL(s3Key string) string
}

type repo struct {
	db TenantDb
	s3 TenantS3
}

func NewRepo(db TenantDb, s3 TenantS3) tenant.Repo {
	return &repo{db: db, s3: s3}
}

func (r *repo) CreateTenant(t *tenant.Tenant) (*tenant.Tenant, error) {
	return r.db.CreateTenant(t)
}

func (r *repo) GetTenantByID(tenantID uint) (*tenant.Tenant, error) {
	return r.db.GetTenantByID(tenantID)
}

func (r *repo) UpdateTenant(t *tenant.Tenant) (*tenant.Tenant, error) {
	return r.db.UpdateTenant(t)
}

func (r *repo) CreateInvite(inv *tenant.Invite) (*tenant.Invite, error) {
	return r.db.CreateInvite(inv)
}

func (r *repo) GetInviteByToken(token string) (*tenant.Invite, error) {
	return r.db.GetInviteByToken(token)
}

func (r *repo) MarkInviteUsed(inviteID uint, usedAt time.Time) error {
	return r.db.MarkInviteUsed(inviteID, usedAt)
}

func (r *repo) UploadLogo(s3Key string, imageBytes []byte, contentType string) error {
	return r.s3.UploadLogo(s3Key, imageBytes, contentType)
}

func (r *repo) DeleteLogo(s3Key string) error {
	return r.s3.DeleteLogo(s3Key)
}

func (r *repo) GetLogoPublicURL(s3Key string) string {
	return r.s3.GetLogoPublicURL(s3Key)
}
