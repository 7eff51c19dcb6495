package database

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"moiport/internal/modules/socialmedia"
)

type PlanDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewPlanDatabase(db *gorm.DB, log *slog.Logger) *PlanDatabase {
	return &PlanDatabase{
		db:  db,
		log: log,
	}
}

func (r *PlanDatabase) CreatePlan(p *socialmedia.Plan) (*socialmedia.Plan, error) {
	op := "PlanDatabase.CreatePlan"
	log := r.log.With(slog.String("op", op), slog.String("brand", p.BrandName))

	if err := r.db.Create(p).Error; err != nil {
		log.Error("failed to create plan in DB", "error", err)
		return nil, socialmedia.ErrPlanInternal
	}

	log.Info("plan created in DB", slog.Uint64("planID", uint64(p.PlanID)))
	return p, nil
}

func (r *PlanDatabase) GetPlanByID(tenantID, planID uint) (*socialmedia.Plan, error) {
	op := "PlanDatabase.GetPlanByID"
	log := r.log.With(slog.String("op", op), slog.Uint64("planID", uint64(planID)))
	var plan socialmedia.Plan

	if err := r.db.Where("tenant_id = ?", tenantID).First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("plan not found by ID")
			return nil, socialmedia.ErrPlanNotFound
		}
		log.Error("failed to get plan by ID from DB", "error", err)
		return nil, socialmedia.ErrPlanInternal
	}

	return &plan, nil
}

func (r *PlanDatabase) GetPlans(params socialmedia.GetPlansParams) ([]*socialmedia.Plan, error) {
	op := "PlanDatabase.GetPlans"
	log := r.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(params.TenantID)))
	var plans []*socialmedia.Plan

	query := r.db.Where("tenant_id = ?", params.TenantID)

	if params.ManagerID != nil {
		query = query.Where("manager_id = ?", *params.ManagerID)
	}
	if params.DesignerID != nil {
		query = query.Where("designer_id = ?", *params.DesignerID)
	}
	if params.Search != nil && *params.Search != "" {
		query = query.Where("brand_name ILIKE ?", "%"+*params.Search+"%")
	}

	if err := query.Order("created_at DESC").Find(&plans).Error; err != nil {
		log.Error("failed to get plans from DB", "error", err)
		return nil, socialmedia.ErrPlanInternal
	}

	return plans, nil
}

func (r *PlanDatabase) UpdatePlan(p *socialmedia.Plan) (*socialmedia.Plan, error) {
	op := "PlanDatabase.UpdatePlan"
	log := r.log.With(slog.String("op", op), slog.Uint64("planID", uint64(p.PlanID)))

	if err := r.db.Save(p).Error; err != nil {
		log.Error("failed to update plan in DB", "error", err)
		return nil, socialmedia.ErrPlanInternal
	}

	return p, nil
}

func (r *PlanDatabase) DeletePlan(tenantID, planID uint) error {
	op := "PlanDatabase.DeletePlan"
	log := r.log.With(slog.String("op", op), slog.Uint64("planID", uint64(planID)))

	result := r.db.Where("tenant_id = ?", tenantID).Delete(&socialmedia.Plan{}, planID)
	if result.Error != nil {
		log.Error("failed to delete plan from DB", "error", result.Error)
		return socialmedia.ErrPlanInternal
	}
	if result.RowsAffected == 0 {
		log.Warn("plan not found for delete")
		return socialmedia.ErrPlanNotFound
	}

	log.Info("plan deleted from DB")
	return nil
}

// ListPlansWithOpenDeadlines feeds the daily sweep. The filter mirrors the
// scanner's eligibility rule so completed stages never reach it: a plan
// qualifies if any deadline column is set while its stage is not done.
func (r *PlanDatabase) ListPlansWithOpenDeadlines() ([]*socialmedia.Plan, error) {
	op := "PlanDatabase.ListPlansWithOpenDeadlines"
	log := r.log.With(slog.String("op", op))
	var plans []*socialmedia.Plan

	err := r.db.
		Where("(brief_deadline IS NOT NULL AND brief_status <> ?) OR (presentation_deadline IS NOT NULL AND presentation_status <> ?)",
			socialmedia.StatusDone, socialmedia.StatusDone).
		Order("plan_id ASC").
		Find(&plans).Error
	if err != nil {
		log.Error("failed to list plans with open deadlines from DB", "error", err)
		return nil, socialmedia.ErrPlanInternal
	}

	log.Debug("plans with open deadlines fetched", slog.Int("count", len(plans)))
	return plans, nil
}
