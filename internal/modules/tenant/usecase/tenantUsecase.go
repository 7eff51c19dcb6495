package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"moiport/config"
	"moiport/internal/modules/tenant"
	"moiport/pkg/lib/emailsender"
)

type TenantUseCase struct {
	repo   tenant.Repo
	email  *emailsender.EmailSender
	appCfg config.AppConfig
	log    *slog.Logger
}

func NewTenantUseCase(repo tenant.Repo, email *emailsender.EmailSender, appCfg config.AppConfig, log *slog.Logger) tenant.UseCase {
	return &TenantUseCase{
		repo:   repo,
		email:  email,
		appCfg: appCfg,
		log:    log,
	}
}

func (uc *TenantUseCase) CreateTenant(name string) (*tenant.Tenant, error) {
	op := "TenantUseCase.CreateTenant"
	log := uc.log.With(slog.String("op", op))

	created, err := uc.repo.CreateTenant(&tenant.Tenant{Name: name})
	if err != nil {
		log.Error("failed to create tenant", "error", err)
		return nil, err
	}

	log.Info("tenant created", slog.Uint64("tenantID", uint64(created.TenantID)))
	return created, nil
}

func (uc *TenantUseCase) GetTenant(tenantID uint) (*tenant.TenantResponse, error) {
	t, err := uc.repo.GetTenantByID(tenantID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(t), nil
}

func (uc *TenantUseCase) UpdateTenant(tenantID uint, req *tenant.UpdateTenantRequest) (*tenant.TenantResponse, error) {
	op := "TenantUseCase.UpdateTenant"
	log := uc.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(tenantID)))

	t, err := uc.repo.GetTenantByID(tenantID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}

	updated, err := uc.repo.UpdateTenant(t)
	if err != nil {
		log.Error("failed to update tenant", "error", err)
		return nil, err
	}

	return uc.toResponse(updated), nil
}

// UploadLogo stores the processed logo variants under content-addressed keys
// and swaps the tenant's key only after both uploads succeeded.
func (uc *TenantUseCase) UploadLogo(tenantID uint, thumb, full []byte) (*tenant.TenantResponse, error) {
	op := "TenantUseCase.UploadLogo"
	log := uc.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(tenantID)))

	t, err := uc.repo.GetTenantByID(tenantID)
	if err != nil {
		return nil, err
	}

	baseKey := fmt.Sprintf("tenants/%d/logo_%s", tenantID, uuid.NewString())
	fullKey := baseKey + "_512.webp"
	thumbKey := baseKey + "_128.webp"

	if err := uc.repo.UploadLogo(fullKey, full, "image/webp"); err != nil {
		log.Error("failed to upload full logo", "error", err)
		return nil, err
	}
	if err := uc.repo.UploadLogo(thumbKey, thumb, "image/webp"); err != nil {
		log.Error("failed to upload logo thumbnail", "error", err)
		return nil, err
	}

	oldKey := t.LogoS3Key
	t.LogoS3Key = &fullKey

	updated, err := uc.repo.UpdateTenant(t)
	if err != nil {
		log.Error("failed to persist logo key", "error", err)
		return nil, err
	}

	if oldKey != nil && *oldKey != fullKey {
		if err := uc.repo.DeleteLogo(*oldKey); err != nil {
			log.Warn("failed to delete previous logo", "key", *oldKey, "error", err)
		}
	}

	log.Info("tenant logo updated", slog.String("key", fullKey))
	return uc.toResponse(updated), nil
}

func (uc *TenantUseCase) InviteStaff(tenantID, actorID uint, req *tenant.InviteStaffRequest) (*tenant.InviteResponse, error) {
	op := "TenantUseCase.InviteStaff"
	log := uc.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(tenantID)))

	if !req.Role.IsValid() {
		return nil, tenant.ErrTenantInternal
	}

	t, err := uc.repo.GetTenantByID(tenantID)
	if err != nil {
		return nil, err
	}

	inv := &tenant.Invite{
		TenantID:        tenantID,
		Email:           req.Email,
		Role:            req.Role,
		Token:           uuid.NewString(),
		CreatedByUserID: actorID,
		ExpiresAt:       time.Now().Add(uc.appCfg.InviteTTL),
	}

	created, err := uc.repo.CreateInvite(inv)
	if err != nil {
		log.Error("failed to create invite", "error", err)
		return nil, err
	}

	inviteLink := fmt.Sprintf("%s/join?token=%s", uc.appCfg.FrontendURL, created.Token)
	if uc.email != nil {
		if err := uc.email.SendStaffInvite(created.Email, t.Name, inviteLink, created.ExpiresAt); err != nil {
			// The invite row exists; the link can still be shared manually.
			log.Error("failed to send invite email", "email", created.Email, "error", err)
		}
	}

	log.Info("staff invite created", slog.Uint64("inviteID", uint64(created.InviteID)), slog.String("role", string(created.Role)))
	return tenant.ToInviteResponse(created), nil
}

// ConsumeInvite validates and burns an invite token. The conditional update
// in MarkInviteUsed keeps double-joins out even under concurrent requests.
func (uc *TenantUseCase) ConsumeInvite(token string) (*tenant.Invite, error) {
	op := "TenantUseCase.ConsumeInvite"
	log := uc.log.With(slog.String("op", op))

	inv, err := uc.repo.GetInviteByToken(token)
	if err != nil {
		return nil, err
	}

	if inv.UsedAt != nil {
		return nil, tenant.ErrInviteUsed
	}
	if time.Now().After(inv.ExpiresAt) {
		return nil, tenant.ErrInviteExpired
	}

	if err := uc.repo.MarkInviteUsed(inv.InviteID, time.Now()); err != nil {
		log.Error("failed to mark invite used", "inviteID", inv.InviteID, "error", err)
		return nil, err
	}

	return inv, nil
}

func (uc *TenantUseCase) toResponse(t *tenant.Tenant) *tenant.TenantResponse {
	resp := &tenant.TenantResponse{
		TenantID:  t.TenantID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
	}
	if t.LogoS3Key != nil {
		url := uc.repo.GetLogoPublicURL(*t.LogoS3Key)
		if url != "" {
			resp.LogoURL = &url
		}
	}
	return resp
}
