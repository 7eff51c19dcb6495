package notification

import (
	"context"
	"time"

	"moiport/internal/modules/user"
)

// --- Types ---

// Type tags the business event a notification announces. Closed set; new
// module events add their own constant here.
type Type string

const (
	TypePlanAssignment         Type = "PLAN_ASSIGNMENT"
	TypePatientAssignment      Type = "PATIENT_ASSIGNMENT"
	TypePlanReminder           Type = "PLAN_REMINDER"
	TypePlanOverdue            Type = "PLAN_OVERDUE"
	TypeDentalPatientCreated   Type = "DENTAL_PATIENT_CREATED"
	TypeDentalTreatmentCreated Type = "DENTAL_TREATMENT_CREATED"
	TypeHealthPatientCreated   Type = "HEALTH_PATIENT_CREATED"
	TypeStaffJoined            Type = "STAFF_JOINED"
)

// ReferenceType names the kind of business object a notification points
// back to.
type ReferenceType string

const (
	ReferenceSocialMediaPlan ReferenceType = "SOCIAL_MEDIA_PLAN"
	ReferenceDentalPatient   ReferenceType = "DENTAL_PATIENT"
	ReferenceDentalTreatment ReferenceType = "DENTAL_TREATMENT"
	ReferenceHealthPatient   ReferenceType = "HEALTH_PATIENT"
	ReferenceUser            ReferenceType = "USER"
)

// Reference links a notification to the object that caused it. Passing it
// as a single value keeps the invariant that id and type are either both
// present or both absent.
type Reference struct {
	ID   uint
	Type ReferenceType
}

// --- GORM model ---

// Notification - GORM model for the 'notifications' table. Rows are created
// only by the dispatcher and are immutable afterwards except for the read
// flag.
type Notification struct {
	NotificationID uint           `gorm:"primaryKey;column:notification_id;autoIncrement"`
	TenantID       uint           `gorm:"column:tenant_id;not null;index"`
	UserID         uint           `gorm:"column:user_id;not null;index"`
	Title          string         `gorm:"type:varchar(255);not null;column:title"`
	Message        string         `gorm:"type:text;not null;column:message"`
	Type           Type           `gorm:"type:varchar(50);not null;column:type"`
	ReferenceID    *uint          `gorm:"column:reference_id"`
	ReferenceType  *ReferenceType `gorm:"type:varchar(50);column:reference_type"`
	IsRead         bool           `gorm:"default:false;not null;column:is_read"`
	CreatedAt      time.Time      `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

func (Notification) TableName() string {
	return "notifications"
}

// --- DTO ---

type NotificationResponse struct {
	NotificationID uint           `json:"notification_id"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Type           Type           `json:"type"`
	ReferenceID    *uint          `json:"reference_id,omitempty"`
	ReferenceType  *ReferenceType `json:"reference_type,omitempty"`
	IsRead         bool           `json:"is_read"`
	CreatedAt      time.Time      `json:"created_at"`
}

func ToNotificationResponse(n *Notification) *NotificationResponse {
	if n == nil {
		return nil
	}
	return &NotificationResponse{
		NotificationID: n.NotificationID,
		Title:          n.Title,
		Message:        n.Message,
		Type:           n.Type,
		ReferenceID:    n.ReferenceID,
		ReferenceType:  n.ReferenceType,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt,
	}
}

func ToNotificationResponseList(notifications []*Notification) []*NotificationResponse {
	responses := make([]*NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = ToNotificationResponse(n)
	}
	return responses
}

type GetNotificationsRequest struct {
	OnlyUnread bool `form:"only_unread"`
	Limit      int  `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int  `form:"offset" validate:"omitempty,min=0"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// --- Interfaces ---

// Dispatcher turns targeting rules into persisted notification rows.
//
// NotifyUser writes exactly one row for the given recipient. No recipient
// existence check is performed here; a foreign-key failure surfaces as an
// error and batch callers treat it as non-fatal for their remaining
// recipients.
//
// NotifyTenantStaff resolves the tenant's notifiable roster
// (user.TenantNotifyRoles, active only, optionally excluding the acting
// user) and writes one row per recipient, sequentially. Roster resolution
// failure aborts the whole dispatch; a single recipient failure is logged
// and skipped. Nothing is rolled back on partial delivery.
type Dispatcher interface {
	NotifyUser(ctx context.Context, tenantID, userID uint, title, message string, typ Type, ref *Reference) error
	NotifyTenantStaff(ctx context.Context, tenantID uint, title, message string, typ Type, ref *Reference, excludeUserID *uint) error
}

// StaffDirectory resolves recipients and their push targets. Implemented by
// the user repo. The roster is recomputed on every call.
type StaffDirectory interface {
	ListActiveStaff(tenantID uint, roles []user.Role, excludeUserID *uint) ([]*user.User, error)
	GetUserDeviceTokens(userID uint) ([]user.UserDeviceToken, error)
}

// Repo is the notification store. CreateNotification must make the row
// durable before any push or cache side effect the caller performs.
type Repo interface {
	CreateNotification(n *Notification) (*Notification, error)
	GetNotifications(tenantID, userID uint, onlyUnread bool, limit, offset int) ([]*Notification, error)
	CountUnread(tenantID, userID uint) (int64, error)
	MarkRead(tenantID, userID, notificationID uint) error
	MarkAllRead(tenantID, userID uint) (int64, error)
}

type UseCase interface {
	GetNotifications(userID, tenantID uint, req *GetNotificationsRequest) ([]*NotificationResponse, error)
	GetUnreadCount(userID, tenantID uint) (int64, error)
	MarkRead(userID, tenantID, notificationID uint) error
	MarkAllRead(userID, tenantID uint) error
}
