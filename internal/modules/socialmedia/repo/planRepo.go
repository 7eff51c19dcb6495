package repo

import (
	"moiport/internal/modules/socialmedia"
)

type PlanDb interface {
	CreatePlan(p *socialmedia.Plan) (*socialmedia.Plan, error)
	GetPlanByID(tenantID, planID uint) (*socialmedia.Plan, error)
	GetPlans(params socialmedia.GetPlansParams) ([]*socialmedia.Plan, error)
	UpdatePlan(p *socialmedia.Plan) (*socialmedia.Plan, error)
	DeletePlan(tenantID, planID uint) error
	ListPlansWithOpenDeadlines() ([]*socialmedia.Plan, error)
}

type repo struct {
	db PlanDb
}

func NewRepo(db PlanDb) socialmedia.Repo {
	return &repo{db: db}
}

func (r *repo) CreatePlan(p *socialmedia.Plan) (*socialmedia.Plan, error) {
	return r.db.CreatePlan(p)
}

func (r *repo) GetPlanByID(tenantID, planID uint) (*socialmedia.Plan, error) {
	return r.db.GetPlanByID(tenantID, planID)
}

func (r *repo) GetPlans(params socialmedia.GetPlansParams) ([]*socialmedia.Plan, error) {
	return r.db.GetPlans(params)
}

func (r *repo) UpdatePlan(p *socialmedia.Plan) (*socialmedia.Plan, error) {
	return r.db.UpdatePlan(p)
}

func (r *repo) DeletePlan(tenantID, planID uint) error {
	return r.db.DeletePlan(tenantID, planID)
}

func (r *repo) ListPlansWithOpenDeadlines() ([]*socialmedia.Plan, error) {
	return r.db.ListPlansWithOpenDeadlines()
}
