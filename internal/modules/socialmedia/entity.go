package socialmedia

import (
	"context"
	"time"
)

// StatusDone is the distinguished "completed" value used on every status
// column of the planning boards. The Turkish literal is part of the stored
// data contract shared with the frontend; do not translate it.
const StatusDone = "Tamamlandı"

// StatusPending is the default state of a freshly created stage.
const StatusPending = "Bekliyor"

// --- GORM model ---

// Plan - GORM model for the 'social_media_plans' table. A plan is one
// brand's monthly content cycle, moving through a brief stage owned by the
// manager and a presentation stage shared between manager and designer.
// PublishDate has no status column of its own and therefore never produces
// deadline reminders.
type Plan struct {
	PlanID               uint       `gorm:"primaryKey;column:plan_id;autoIncrement"`
	TenantID             uint       `gorm:"column:tenant_id;not null;index"`
	BrandName            string     `gorm:"type:varchar(255);not null;column:brand_name"`
	ManagerID            *uint      `gorm:"column:manager_id"`
	DesignerID           *uint      `gorm:"column:designer_id"`
	BriefDeadline        *time.Time `gorm:"column:brief_deadline"`
	BriefStatus          string     `gorm:"type:varchar(50);default:'Bekliyor';not null;column:brief_status"`
	PresentationDeadline *time.Time `gorm:"column:presentation_deadline"`
	PresentationStatus   string     `gorm:"type:varchar(50);default:'Bekliyor';not null;column:presentation_status"`
	PublishDate          *time.Time `gorm:"column:publish_date"`
	Notes                *string    `gorm:"type:text;column:notes"`
	CreatedAt            time.Time  `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func (Plan) TableName() string {
	return "social_media_plans"
}

// --- DTO ---

type PlanResponse struct {
	PlanID               uint       `json:"plan_id"`
	TenantID             uint       `json:"tenant_id"`
	BrandName            string     `json:"brand_name"`
	ManagerID            *uint      `json:"manager_id,omitempty"`
	DesignerID           *uint      `json:"designer_id,omitempty"`
	BriefDeadline        *time.Time `json:"brief_deadline,omitempty"`
	BriefStatus          string     `json:"brief_status"`
	PresentationDeadline *time.Time `json:"presentation_deadline,omitempty"`
	PresentationStatus   string     `json:"presentation_status"`
	PublishDate          *time.Time `json:"publish_date,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func ToPlanResponse(p *Plan) *PlanResponse {
	if p == nil {
		return nil
	}
	return &PlanResponse{
		PlanID:               p.PlanID,
		TenantID:             p.TenantID,
		BrandName:            p.BrandName,
		ManagerID:            p.ManagerID,
		DesignerID:           p.DesignerID,
		BriefDeadline:        p.BriefDeadline,
		BriefStatus:          p.BriefStatus,
		PresentationDeadline: p.PresentationDeadline,
		PresentationStatus:   p.PresentationStatus,
		PublishDate:          p.PublishDate,
		Notes:                p.Notes,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func ToPlanResponseList(plans []*Plan) []*PlanResponse {
	responses := make([]*PlanResponse, len(plans))
	for i, p := range plans {
		responses[i] = ToPlanResponse(p)
	}
	return responses
}

type CreatePlanRequest struct {
	BrandName            string     `json:"brand_name" validate:"required,min=1,max=255"`
	ManagerID            *uint      `json:"manager_id,omitempty"`
	DesignerID           *uint      `json:"designer_id,omitempty"`
	BriefDeadline        *time.Time `json:"brief_deadline,omitempty"`
	BriefStatus          *string    `json:"brief_status,omitempty" validate:"omitempty,max=50"`
	PresentationDeadline *time.Time `json:"presentation_deadline,omitempty"`
	PresentationStatus   *string    `json:"presentation_status,omitempty" validate:"omitempty,max=50"`
	PublishDate          *time.Time `json:"publish_date,omitempty"`
	Notes                *string    `json:"notes,omitempty" validate:"omitempty,max=65535"`
}

// UpdatePlanRequest is a partial patch; nil fields are left untouched.
// Assignee fields included with a value different from the stored one
// trigger an assignment notification to the new assignee.
type UpdatePlanRequest struct {
	BrandName            *string    `json:"brand_name,omitempty" validate:"omitempty,min=1,max=255"`
	ManagerID            *uint      `json:"manager_id,omitempty"`
	DesignerID           *uint      `json:"designer_id,omitempty"`
	BriefDeadline        *time.Time `json:"brief_deadline,omitempty"`
	BriefStatus          *string    `json:"brief_status,omitempty" validate:"omitempty,max=50"`
	PresentationDeadline *time.Time `json:"presentation_deadline,omitempty"`
	PresentationStatus   *string    `json:"presentation_status,omitempty" validate:"omitempty,max=50"`
	PublishDate          *time.Time `json:"publish_date,omitempty"`
	Notes                *string    `json:"notes,omitempty" validate:"omitempty,max=65535"`
}

type GetPlansParams struct {
	TenantID   uint
	ManagerID  *uint
	DesignerID *uint
	Search     *string
}

// --- Interfaces ---

type Repo interface {
	CreatePlan(p *Plan) (*Plan, error)
	GetPlanByID(tenantID, planID uint) (*Plan, error)
	GetPlans(params GetPlansParams) ([]*Plan, error)
	UpdatePlan(p *Plan) (*Plan, error)
	DeletePlan(tenantID, planID uint) error

	// ListPlansWithOpenDeadlines returns, across all tenants, plans where at
	// least one deadline column is set and its stage is not done. The
	// deadline sweep runs over this set.
	ListPlansWithOpenDeadlines() ([]*Plan, error)
}

type UseCase interface {
	CreatePlan(tenantID, actorID uint, req *CreatePlanRequest) (*PlanResponse, error)
	GetPlan(tenantID, planID uint) (*PlanResponse, error)
	GetPlans(tenantID uint, params GetPlansParams) ([]*PlanResponse, error)
	UpdatePlan(tenantID, planID, actorID uint, req *UpdatePlanRequest) (*PlanResponse, error)
	DeletePlan(tenantID, planID uint) error

	// ProcessDeadlineChecks is the daily deadline sweep. It evaluates every
	// open (plan, deadline field) pair fresh; there is no persisted
	// "already sent" marker, so re-running it within the same day sends the
	// same reminders again.
	ProcessDeadlineChecks(ctx context.Context) error
}
