package database

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"moiport/internal/modules/tenant"
)

type TenantDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewTenantDatabase(db *gorm.DB, log *slog.Logger) *TenantDatabase {
	return &TenantDatabase{
		db:  db,
		log: log,
	}
}

func (r *TenantDatabase) CreateTenant(t *tenant.Tenant) (*tenant.Tenant, error) {
	op := "TenantDatabase.CreateTenant"
	log := r.log.With(slog.String("op", op))

	if err := r.db.Create(t).Error; err != nil {
		log.Error("failed to create tenant in DB", "error", err)
		return nil, tenant.ErrTenantInternal
	}

	log.Info("tenant created in DB", slog.Uint64("tenantID", uint64(t.TenantID)))
	return t, nil
}

func (r *TenantDatabase) GetTenantByID(tenantID uint) (*tenant.Tenant, error) {
	op := "TenantDatabase.GetTenantByID"
	log := r.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(tenantID)))
	var t tenant.Tenant

	if err := r.db.First(&t, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("tenant not found by ID")
			return nil, tenant.ErrTenantNotFound
		}
		log.Error("failed to get tenant by ID from DB", "error", err)
		return nil, tenant.ErrTenantInternal
	}

	return &t, nil
}

func (r *TenantDatabase) UpdateTenant(t *tenant.Tenant) (*tenant.Tenant, error) {
	op := "TenantDatabase.UpdateTenant"
	log := r.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(t.TenantID)))

	if err := r.db.Save(t).Error; err != nil {
		log.Error("failed to update tenant in DB", "error", err)
		return nil, tenant.ErrTenantInternal
	}

	return t, nil
}

func (r *TenantDatabase) CreateInvite(inv *tenant.Invite) (*tenant.Invite, error) {
	op := "TenantDatabase.CreateInvite"
	log := r.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(inv.TenantID)))

	if err := r.db.Create(inv).Error; err != nil {
		log.Error("failed to create invite in DB", "error", err)
		return nil, tenant.ErrTenantInternal
	}

	log.Info("invite created in DB", slog.Uint64("inviteID", uint64(inv.InviteID)))
	return inv, nil
}

func (r *TenantDatabase) GetInviteByToken(token string) (*tenant.Invite, error) {
	op := "TenantDatabase.GetInviteByToken"
	log := r.log.With(slog.String("op", op))
	var inv tenant.Invite

	if err := r.db.Where("token = ?", token).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("invite not found by token")
			return nil, tenant.ErrInviteNotFound
		}
		log.Error("failed to get invite by token from DB", "error", err)
		return nil, tenant.ErrTenantInternal
	}

	return &inv, nil
}

func (r *TenantDatabase) MarkInviteUsed(inviteID uint, usedAt time.Time) error {
	op := "TenantDatabase.MarkInviteUsed"
	log := r.log.With(slog.String("op", op), slog.Uint64("inviteID", uint64(inviteID)))

	result := r.db.Model(&tenant.Invite{}).
		Where("invite_id = ? AND used_at IS NULL", inviteID).
		Update("used_at", usedAt)
	if result.Error != nil {
		log.Error("failed to mark invite used in DB", "error", result.Error)
		return tenant.ErrTenantInternal
	}
	if result.RowsAffected == 0 {
		return tenant.ErrInviteUsed
	}

	return nil
}
