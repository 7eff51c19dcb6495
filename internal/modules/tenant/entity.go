package tenant

import (
	"time"

	"moiport/internal/modules/user"
)

// --- GORM models ---

// Tenant - GORM model for the 'tenants' table. One row per agency workspace.
type Tenant struct {
	TenantID  uint      `gorm:"primaryKey;column:tenant_id;autoIncrement"`
	Name      string    `gorm:"type:varchar(100);not null;column:name"`
	LogoS3Key *string   `gorm:"type:varchar(255);column:logo_s3_key"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// Invite - GORM model for the 'tenant_invites' table. The token is a UUID
// mailed to the invitee; an invite is single-use.
type Invite struct {
	InviteID        uint       `gorm:"primaryKey;column:invite_id;autoIncrement"`
	TenantID        uint       `gorm:"column:tenant_id;not null;index"`
	Email           string     `gorm:"type:varchar(100);not null;column:email"`
	Role            user.Role  `gorm:"type:varchar(20);not null;column:role"`
	Token           string     `gorm:"type:varchar(36);not null;uniqueIndex;column:token"`
	CreatedByUserID uint       `gorm:"column:created_by_user_id;not null"`
	ExpiresAt       time.Time  `gorm:"column:expires_at;not null"`
	UsedAt          *time.Time `gorm:"column:used_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

func (Invite) TableName() string {
	return "tenant_invites"
}

// --- DTO ---

type TenantResponse struct {
	TenantID  uint      `json:"tenant_id"`
	Name      string    `json:"name"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// InviteResponse echoes the token so the inviter can hand the join link
// over directly when the invite email does not arrive.
type InviteResponse struct {
	InviteID  uint      `json:"invite_id"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func ToInviteResponse(inv *Invite) *InviteResponse {
	if inv == nil {
		return nil
	}
	return &InviteResponse{
		InviteID:  inv.InviteID,
		Email:     inv.Email,
		Role:      inv.Role,
		Token:     inv.Token,
		ExpiresAt: inv.ExpiresAt,
	}
}

// --- Requests ---

type UpdateTenantRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
}

type InviteStaffRequest struct {
	Email string    `json:"email" validate:"required,email"`
	Role  user.Role `json:"role" validate:"required"`
}

// --- Interfaces ---

type Repo interface {
	CreateTenant(t *Tenant) (*Tenant, error)
	GetTenantByID(tenantID uint) (*Tenant, error)
	UpdateTenant(t *Tenant) (*Tenant, error)

	CreateInvite(inv *Invite) (*Invite, error)
	GetInviteByToken(token string) (*Invite, error)
	MarkInviteUsed(inviteID uint, usedAt time.Time) error

	UploadLogo(s3Key string, imageBytes []byte, contentType string) error
	DeleteLogo(s3Key string) error
	GetLogoPublicURL(s3Key string) string
}

type UseCase interface {
	CreateTenant(name string) (*Tenant, error)
	GetTenant(tenantID uint) (*TenantResponse, error)
	UpdateTenant(tenantID uint, req *UpdateTenantRequest) (*TenantResponse, error)
	UploadLogo(tenantID uint, thumb, full []byte) (*TenantResponse, error)
	InviteStaff(tenantID, actorID uint, req *InviteStaffRequest) (*InviteResponse, error)
	ConsumeInvite(token string) (*Invite, error)
}
