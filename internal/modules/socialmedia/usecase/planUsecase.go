package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"moiport/internal/modules/notification"
	"moiport/internal/modules/socialmedia"
)

// assigneeField describes one trackable assignee column of a plan. The
// label is the human role name used in notification texts.
type assigneeField struct {
	label string
	get   func(*socialmedia.Plan) *uint
}

var assigneeFields = []assigneeField{
	{label: "Manager", get: func(p *socialmedia.Plan) *uint { return p.ManagerID }},
	{label: "Designer", get: func(p *socialmedia.Plan) *uint { return p.DesignerID }},
}

// deadlineField statically maps one deadline column to the status column
// that gates it and the assignee columns that get reminded. The brief stage
// belongs to the manager alone; the presentation is reviewed by both the
// manager and the designer.
type deadlineField struct {
	name       string
	deadline   func(*socialmedia.Plan) *time.Time
	status     func(*socialmedia.Plan) string
	recipients []assigneeField
}

var deadlineFields = []deadlineField{
	{
		name:       "brief",
		deadline:   func(p *socialmedia.Plan) *time.Time { return p.BriefDeadline },
		status:     func(p *socialmedia.Plan) string { return p.BriefStatus },
		recipients: []assigneeField{assigneeFields[0]},
	},
	{
		name:       "presentation",
		deadline:   func(p *socialmedia.Plan) *time.Time { return p.PresentationDeadline },
		status:     func(p *socialmedia.Plan) string { return p.PresentationStatus },
		recipients: []assigneeField{assigneeFields[0], assigneeFields[1]},
	},
}

type PlanUseCase struct {
	repo       socialmedia.Repo
	dispatcher notification.Dispatcher
	log        *slog.Logger
	now        func() time.Time
}

func NewPlanUseCase(repo socialmedia.Repo, dispatcher notification.Dispatcher, log *slog.Logger) *PlanUseCase {
	return &PlanUseCase{
		repo:       repo,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

func (uc *PlanUseCase) CreatePlan(tenantID, actorID uint, req *socialmedia.CreatePlanRequest) (*socialmedia.PlanResponse, error) {
	op := "PlanUseCase.CreatePlan"
	log := uc.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(tenantID)))

	plan := &socialmedia.Plan{
		TenantID:             tenantID,
		BrandName:            req.BrandName,
		ManagerID:            req.ManagerID,
		DesignerID:           req.DesignerID,
		BriefDeadline:        req.BriefDeadline,
		BriefStatus:          socialmedia.StatusPending,
		PresentationDeadline: req.PresentationDeadline,
		PresentationStatus:   socialmedia.StatusPending,
		PublishDate:          req.PublishDate,
		Notes:                req.Notes,
	}
	if req.BriefStatus != nil {
		plan.BriefStatus = *req.BriefStatus
	}
	if req.PresentationStatus != nil {
		plan.PresentationStatus = *req.PresentationStatus
	}

	created, err := uc.repo.CreatePlan(plan)
	if err != nil {
		log.Error("failed to create plan", "error", err)
		return nil, err
	}

	// Every assignee set at creation time gets an assignment notice. The
	// plan is already committed; notification failures are logged, never
	// surfaced to the caller.
	uc.notifyAssignmentChanges(context.Background(), nil, created)

	log.Info("plan created", slog.Uint64("planID", uint64(created.PlanID)))
	return socialmedia.ToPlanResponse(created), nil
}

func (uc *PlanUseCase) GetPlan(tenantID, planID uint) (*socialmedia.PlanResponse, error) {
	plan, err := uc.repo.GetPlanByID(tenantID, planID)
	if err != nil {
		return nil, err
	}
	return socialmedia.ToPlanResponse(plan), nil
}

func (uc *PlanUseCase) GetPlans(tenantID uint, params socialmedia.GetPlansParams) ([]*socialmedia.PlanResponse, error) {
	params.TenantID = tenantID
	plans, err := uc.repo.GetPlans(params)
	if err != nil {
		return nil, err
	}
	return socialmedia.ToPlanResponseList(plans), nil
}

func (uc *PlanUseCase) UpdatePlan(tenantID, planID, actorID uint, req *socialmedia.UpdatePlanRequest) (*socialmedia.PlanResponse, error) {
	op := "PlanUseCase.UpdatePlan"
	log := uc.log.With(slog.String("op", op), slog.Uint64("planID", uint64(planID)))

	prev, err := uc.repo.GetPlanByID(tenantID, planID)
	if err != nil {
		return nil, err
	}

	next := *prev
	applyPlanPatch(&next, req)

	updated, err := uc.repo.UpdatePlan(&next)
	if err != nil {
		log.Error("failed to update plan", "error", err)
		return nil, err
	}

	// Runs after the write has committed; compares against the pre-write
	// snapshot so only real assignee changes fire.
	uc.notifyAssignmentChanges(context.Background(), prev, updated)

	return socialmedia.ToPlanResponse(updated), nil
}

func (uc *PlanUseCase) DeletePlan(tenantID, planID uint) error {
	return uc.repo.DeletePlan(tenantID, planID)
}

func applyPlanPatch(p *socialmedia.Plan, req *socialmedia.UpdatePlanRequest) {
	if req.BrandName != nil {
		p.BrandName = *req.BrandName
	}
	if req.ManagerID != nil {
		p.ManagerID = req.ManagerID
	}
	if req.DesignerID != nil {
		p.DesignerID = req.DesignerID
	}
	if req.BriefDeadline != nil {
		p.BriefDeadline = req.BriefDeadline
	}
	if req.BriefStatus != nil {
		p.BriefStatus = *req.BriefStatus
	}
	if req.PresentationDeadline != nil {
		p.PresentationDeadline = req.PresentationDeadline
	}
	if req.PresentationStatus != nil {
		p.PresentationStatus = *req.PresentationStatus
	}
	if req.PublishDate != nil {
		p.PublishDate = req.PublishDate
	}
	if req.Notes != nil {
		p.Notes = req.Notes
	}
}

// notifyAssignmentChanges fires one assignment notification per tracked
// assignee field whose value changed to a non-nil user. prev == nil means
// creation, so every set assignee counts as newly assigned. The removed
// assignee of a reassignment gets nothing.
func (uc *PlanUseCase) notifyAssignmentChanges(ctx context.Context, prev, next *socialmedia.Plan) {
	op := "PlanUseCase.notifyAssignmentChanges"
	log := uc.log.With(slog.String("op", op), slog.Uint64("planID", uint64(next.PlanID)))

	for _, field := range assigneeFields {
		newID := field.get(next)
		if newID == nil {
			continue
		}
		if prev != nil {
			if oldID := field.get(prev); oldID != nil && *oldID == *newID {
				continue
			}
		}

		message := fmt.Sprintf("You were assigned as %s on %q.", field.label, next.BrandName)
		ref := &notification.Reference{ID: next.PlanID, Type: notification.ReferenceSocialMediaPlan}
		if err := uc.dispatcher.NotifyUser(ctx, next.TenantID, *newID, "New Assignment", message, notification.TypePlanAssignment, ref); err != nil {
			log.Error("assignment notification failed", "field", field.label, "userID", *newID, "error", err)
		}
	}
}

// ProcessDeadlineChecks sweeps open plans and fires reminders at the T-1,
// due-today and T+1 thresholds. Failures on one plan never abort the rest
// of the sweep.
func (uc *PlanUseCase) ProcessDeadlineChecks(ctx context.Context) error {
	op := "PlanUseCase.ProcessDeadlineChecks"
	log := uc.log.With(slog.String("op", op))
	log.Info("starting deadline sweep")

	now := uc.now()

	plans, err := uc.repo.ListPlansWithOpenDeadlines()
	if err != nil {
		log.Error("failed to list plans for deadline sweep", "error", err)
		return err
	}

	var notified int
	for _, plan := range plans {
		sent, err := uc.checkPlanDeadlines(ctx, plan, now)
		if err != nil {
			log.Error("plan skipped during deadline sweep", "planID", plan.PlanID, "error", err)
			continue
		}
		notified += sent
	}

	log.Info("deadline sweep finished", slog.Int("plans", len(plans)), slog.Int("notifications", notified))
	return nil
}

func (uc *PlanUseCase) checkPlanDeadlines(ctx context.Context, plan *socialmedia.Plan, now time.Time) (int, error) {
	log := uc.log.With(slog.String("op", "PlanUseCase.checkPlanDeadlines"), slog.Uint64("planID", uint64(plan.PlanID)))

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var sent int
	for _, field := range deadlineFields {
		if field.status(plan) == socialmedia.StatusDone {
			continue
		}
		deadline := field.deadline(plan)
		if deadline == nil {
			continue
		}

		var title, message string
		var typ notification.Type

		switch daysUntil(now, *deadline) {
		case 1:
			title = "Deadline Approaching"
			message = fmt.Sprintf("The %s deadline for %q is tomorrow.", field.name, plan.BrandName)
			typ = notification.TypePlanReminder
		case 0:
			title = "Deadline Today"
			message = fmt.Sprintf("The %s deadline for %q is today.", field.name, plan.BrandName)
			typ = notification.TypePlanReminder
		case -1:
			title = "Deadline Passed"
			message = fmt.Sprintf("The %s deadline for %q has passed.", field.name, plan.BrandName)
			typ = notification.TypePlanOverdue
		default:
			continue
		}

		ref := &notification.Reference{ID: plan.PlanID, Type: notification.ReferenceSocialMediaPlan}
		for _, recipient := range field.recipients {
			userID := recipient.get(plan)
			if userID == nil {
				continue
			}
			if err := uc.dispatcher.NotifyUser(ctx, plan.TenantID, *userID, title, message, typ, ref); err != nil {
				log.Error("deadline notification failed", "field", field.name, "userID", *userID, "error", err)
				continue
			}
			sent++
		}
	}

	return sent, nil
}

// daysUntil measures the whole-day offset from now to the deadline: the
// millisecond difference divided by one day, rounded up. With deadlines
// stored at midnight, tomorrow's date yields 1, today's 0 and yesterday's
// -1 no matter when during the day the sweep runs.
func daysUntil(now, deadline time.Time) int {
	return int(math.Ceil(float64(deadline.Sub(now)) / float64(24*time.Hour)))
}
