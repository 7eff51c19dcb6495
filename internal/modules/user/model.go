package user

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// --- Enums ---

// Role - tenant-scoped role of a user.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
	RoleHR         Role = "HR"
)

// TenantNotifyRoles is the exact role set addressed by tenant-wide
// notification fan-out. HR is intentionally not part of it; keep this list
// in sync with product decisions, not with the full role enum.
var TenantNotifyRoles = []Role{RoleAdmin, RoleStaff, RoleSuperAdmin}

func (r *Role) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, okByte := value.([]byte)
		if !okByte {
			return fmt.Errorf("failed to scan Role: value is not string or []byte, got %T", value)
		}
		strVal = string(byteVal)
	}
	switch strVal {
	case "SUPER_ADMIN", "ADMIN", "STAFF", "HR":
		*r = Role(strVal)
		return nil
	default:
		return fmt.Errorf("invalid value for Role: %s", strVal)
	}
}

func (r Role) Value() (driver.Value, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid Role value: %s", r)
	}
	return string(r), nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStaff, RoleHR:
		return true
	}
	return false
}

// --- GORM models ---

// User - GORM model for the 'users' table. Every user belongs to exactly
// one tenant (agency).
type User struct {
	UserID         uint      `gorm:"primaryKey;column:user_id;autoIncrement"`
	TenantID       uint      `gorm:"column:tenant_id;not null;index"`
	Email          string    `gorm:"unique;size:100;not null;column:email"`
	FullName       string    `gorm:"size:100;not null;column:full_name"`
	HashedPassword *string   `gorm:"size:255;column:hashed_password"`
	Role           Role      `gorm:"type:user_role;not null;default:'STAFF';column:role"`
	IsActive       bool      `gorm:"default:true;not null;column:is_active"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string {
	return "users"
}

// UserDeviceToken - GORM model for FCM device registrations.
type UserDeviceToken struct {
	TokenID     uint      `gorm:"primaryKey;column:token_id;autoIncrement"`
	UserID      uint      `gorm:"column:user_id;not null;index"`
	DeviceToken string    `gorm:"size:512;not null;column:device_token"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

func (UserDeviceToken) TableName() string {
	return "userdevicetokens"
}

// --- DTO ---

type UserLiteResponse struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

func ToUserLiteResponse(u *User) *UserLiteResponse {
	if u == nil {
		return nil
	}
	return &UserLiteResponse{
		UserID:   u.UserID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

func ToUserLiteResponseList(users []*User) []*UserLiteResponse {
	responses := make([]*UserLiteResponse, len(users))
	for i, u := range users {
		responses[i] = ToUserLiteResponse(u)
	}
	return responses
}

// --- Interfaces ---

// Repo is the user store as seen by the rest of the application.
// ListActiveStaff backs the notification roster: it must filter by tenant,
// active flag and exact role-set membership, optionally excluding one user
// (typically the actor of the event being announced).
type Repo interface {
	CreateUser(u *User) (*User, error)
	GetUserByID(userID uint) (*User, error)
	GetUserByEmail(email string) (*User, error)
	ListActiveStaff(tenantID uint, roles []Role, excludeUserID *uint) ([]*User, error)
	GetUserDeviceTokens(userID uint) ([]UserDeviceToken, error)
	SaveDeviceToken(userID uint, deviceToken string) error
}
