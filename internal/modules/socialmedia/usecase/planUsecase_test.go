package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moiport/internal/modules/notification"
	"moiport/internal/modules/socialmedia"
)

func uintPtr(v uint) *uint { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePlanRepo serves a fixed plan set and records writes.
type fakePlanRepo struct {
	plans     map[uint]*socialmedia.Plan
	listErr   error
	createErr error
	nextID    uint
	updated   []*socialmedia.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[uint]*socialmedia.Plan), nextID: 1}
}

func (r *fakePlanRepo) CreatePlan(p *socialmedia.Plan) (*socialmedia.Plan, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	p.PlanID = r.nextID
	r.nextID++
	stored := *p
	r.plans[p.PlanID] = &stored
	return p, nil
}

func (r *fakePlanRepo) GetPlanByID(tenantID, planID uint) (*socialmedia.Plan, error) {
	p, ok := r.plans[planID]
	if !ok || p.TenantID != tenantID {
		return nil, socialmedia.ErrPlanNotFound
	}
	copy := *p
	return &copy, nil
}

func (r *fakePlanRepo) GetPlans(params socialmedia.GetPlansParams) ([]*socialmedia.Plan, error) {
	var out []*socialmedia.Plan
	for _, p := range r.plans {
		if p.TenantID == params.TenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) UpdatePlan(p *socialmedia.Plan) (*socialmedia.Plan, error) {
	stored := *p
	r.plans[p.PlanID] = &stored
	r.updated = append(r.updated, &stored)
	return p, nil
}

func (r *fakePlanRepo) DeletePlan(tenantID, planID uint) error {
	delete(r.plans, planID)
	return nil
}

func (r *fakePlanRepo) ListPlansWithOpenDeadlines() ([]*socialmedia.Plan, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*socialmedia.Plan
	for _, p := range r.plans {
		out = append(out, p)
	}
	return out, nil
}

type sentNotification struct {
	TenantID uint
	UserID   uint
	Title    string
	Message  string
	Type     notification.Type
	Ref      *notification.Reference
}

// fakeDispatcher records every NotifyUser call and can fail selected users.
type fakeDispatcher struct {
	sent     []sentNotification
	failFor  map[uint]error
	staffErr error
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{failFor: make(map[uint]error)}
}

func (d *fakeDispatcher) NotifyUser(ctx context.Context, tenantID, userID uint, title, message string, typ notification.Type, ref *notification.Reference) error {
	if err, ok := d.failFor[userID]; ok {
		return err
	}
	d.sent = append(d.sent, sentNotification{tenantID, userID, title, message, typ, ref})
	return nil
}

func (d *fakeDispatcher) NotifyTenantStaff(ctx context.Context, tenantID uint, title, message string, typ notification.Type, ref *notification.Reference, excludeUserID *uint) error {
	return d.staffErr
}

func (d *fakeDispatcher) sentTo(userID uint) []sentNotification {
	var out []sentNotification
	for _, s := range d.sent {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

func newTestPlanUseCase(repo *fakePlanRepo, dispatcher *fakeDispatcher, now time.Time) *PlanUseCase {
	uc := NewPlanUseCase(repo, dispatcher, discardLogger())
	uc.now = func() time.Time { return now }
	return uc
}

// sweepNow is the fixed wall clock used by the deadline tests: a morning
// run, well inside the day, so the rounding in daysUntil is exercised with
// fractional day offsets.
var sweepNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func midnightIn(days int) *time.Time {
	d := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return &d
}

func TestDaysUntil(t *testing.T) {
	cases := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"tomorrow midnight", *midnightIn(1), 1},
		{"today midnight", *midnightIn(0), 0},
		{"yesterday midnight", *midnightIn(-1), -1},
		{"two days out", *midnightIn(2), 2},
		{"two days past", *midnightIn(-2), -2},
		{"later today", sweepNow.Add(2 * time.Hour), 1},
		{"exactly now", sweepNow, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, daysUntil(sweepNow, tc.deadline))
		})
	}
}

func TestProcessDeadlineChecks_Thresholds(t *testing.T) {
	cases := []struct {
		name      string
		deadline  *time.Time
		wantSent  bool
		wantTitle string
		wantType  notification.Type
	}{
		{"one day before", midnightIn(1), true, "Deadline Approaching", notification.TypePlanReminder},
		{"due today", midnightIn(0), true, "Deadline Today", notification.TypePlanReminder},
		{"one day overdue", midnightIn(-1), true, "Deadline Passed", notification.TypePlanOverdue},
		{"two days before", midnightIn(2), false, "", ""},
		{"two days overdue", midnightIn(-2), false, "", ""},
		{"no deadline", nil, false, "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakePlanRepo()
			repo.plans[1] = &socialmedia.Plan{
				PlanID:        1,
				TenantID:      7,
				BrandName:     "Acme",
				ManagerID:     uintPtr(42),
				BriefDeadline: tc.deadline,
				BriefStatus:   socialmedia.StatusPending,
			}
			dispatcher := newFakeDispatcher()
			uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

			require.NoError(t, uc.ProcessDeadlineChecks(context.Background()))

			if !tc.wantSent {
				assert.Empty(t, dispatcher.sent)
				return
			}
			require.Len(t, dispatcher.sent, 1)
			got := dispatcher.sent[0]
			assert.Equal(t, uint(7), got.TenantID)
			assert.Equal(t, uint(42), got.UserID)
			assert.Equal(t, tc.wantTitle, got.Title)
			assert.Equal(t, tc.wantType, got.Type)
			assert.Contains(t, got.Message, "brief")
			assert.Contains(t, got.Message, `"Acme"`)
			require.NotNil(t, got.Ref)
			assert.Equal(t, uint(1), got.Ref.ID)
			assert.Equal(t, notification.ReferenceSocialMediaPlan, got.Ref.Type)
		})
	}
}

func TestProcessDeadlineChecks_DoneStageIsSilent(t *testing.T) {
	repo := newFakePlanRepo()
	repo.plans[1] = &socialmedia.Plan{
		PlanID:               1,
		TenantID:             7,
		BrandName:            "Acme",
		ManagerID:            uintPtr(42),
		DesignerID:           uintPtr(43),
		BriefDeadline:        midnightIn(0),
		BriefStatus:          socialmedia.StatusDone,
		PresentationDeadline: midnightIn(0),
		PresentationStatus:   socialmedia.StatusPending,
	}
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	require.NoError(t, uc.ProcessDeadlineChecks(context.Background()))

	// Only the presentation stage fires, to both its recipients.
	require.Len(t, dispatcher.sent, 2)
	for _, s := range dispatcher.sent {
		assert.Contains(t, s.Message, "presentation")
	}
	assert.Len(t, dispatcher.sentTo(42), 1)
	assert.Len(t, dispatcher.sentTo(43), 1)
}

func TestProcessDeadlineChecks_BriefGoesToManagerOnly(t *testing.T) {
	repo := newFakePlanRepo()
	repo.plans[1] = &socialmedia.Plan{
		PlanID:        1,
		TenantID:      7,
		BrandName:     "Acme",
		ManagerID:     uintPtr(42),
		DesignerID:    uintPtr(43),
		BriefDeadline: midnightIn(1),
		BriefStatus:   socialmedia.StatusPending,
	}
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	require.NoError(t, uc.ProcessDeadlineChecks(context.Background()))

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, uint(42), dispatcher.sent[0].UserID)
	assert.Empty(t, dispatcher.sentTo(43))
}

func TestProcessDeadlineChecks_NilAssigneeSkipped(t *testing.T) {
	repo := newFakePlanRepo()
	repo.plans[1] = &socialmedia.Plan{
		PlanID:               1,
		TenantID:             7,
		BrandName:            "Acme",
		DesignerID:           uintPtr(43),
		PresentationDeadline: midnightIn(0),
		PresentationStatus:   socialmedia.StatusPending,
	}
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	require.NoError(t, uc.ProcessDeadlineChecks(context.Background()))

	// No manager on the plan: only the designer is reminded.
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, uint(43), dispatcher.sent[0].UserID)
}

func TestProcessDeadlineChecks_RecipientFailureDoesNotAbort(t *testing.T) {
	repo := newFakePlanRepo()
	repo.plans[1] = &socialmedia.Plan{
		PlanID:               1,
		TenantID:             7,
		BrandName:            "Acme",
		ManagerID:            uintPtr(42),
		DesignerID:           uintPtr(43),
		PresentationDeadline: midnightIn(0),
		PresentationStatus:   socialmedia.StatusPending,
	}
	dispatcher := newFakeDispatcher()
	dispatcher.failFor[42] = errors.New("fk violation")
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	require.NoError(t, uc.ProcessDeadlineChecks(context.Background()))

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, uint(43), dispatcher.sent[0].UserID)
}

func TestProcessDeadlineChecks_MultiplePlans(t *testing.T) {
	repo := newFakePlanRepo()
	for i := uint(1); i <= 3; i++ {
		repo.plans[i] = &socialmedia.Plan{
			PlanID:        i,
			TenantID:      7,
			BrandName:     fmt.Sprintf("Brand %d", i),
			ManagerID:     uintPtr(100 + i),
			BriefDeadline: midnightIn(1),
			BriefStatus:   socialmedia.StatusPending,
		}
	}
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	require.NoError(t, uc.ProcessDeadlineChecks(context.Background()))
	assert.Len(t, dispatcher.sent, 3)
}

func TestProcessDeadlineChecks_ListFailure(t *testing.T) {
	repo := newFakePlanRepo()
	repo.listErr = errors.New("db down")
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	err := uc.ProcessDeadlineChecks(context.Background())
	require.Error(t, err)
	assert.Empty(t, dispatcher.sent)
}

func TestProcessDeadlineChecks_CancelledContext(t *testing.T) {
	repo := newFakePlanRepo()
	repo.plans[1] = &socialmedia.Plan{
		PlanID:        1,
		TenantID:      7,
		BrandName:     "Acme",
		ManagerID:     uintPtr(42),
		BriefDeadline: midnightIn(1),
		BriefStatus:   socialmedia.StatusPending,
	}
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, uc.ProcessDeadlineChecks(ctx))
	assert.Empty(t, dispatcher.sent)
}

func TestCreatePlan_NotifiesInitialAssignees(t *testing.T) {
	repo := newFakePlanRepo()
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	resp, err := uc.CreatePlan(7, 1, &socialmedia.CreatePlanRequest{
		BrandName:  "Acme",
		ManagerID:  uintPtr(42),
		DesignerID: uintPtr(43),
	})
	require.NoError(t, err)
	assert.Equal(t, socialmedia.StatusPending, resp.BriefStatus)
	assert.Equal(t, socialmedia.StatusPending, resp.PresentationStatus)

	require.Len(t, dispatcher.sent, 2)
	managerNote := dispatcher.sentTo(42)
	require.Len(t, managerNote, 1)
	assert.Equal(t, "New Assignment", managerNote[0].Title)
	assert.Equal(t, notification.TypePlanAssignment, managerNote[0].Type)
	assert.Contains(t, managerNote[0].Message, "Manager")
	designerNote := dispatcher.sentTo(43)
	require.Len(t, designerNote, 1)
	assert.Contains(t, designerNote[0].Message, "Designer")
}

func TestCreatePlan_NoAssigneesNoNotifications(t *testing.T) {
	repo := newFakePlanRepo()
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	_, err := uc.CreatePlan(7, 1, &socialmedia.CreatePlanRequest{BrandName: "Acme"})
	require.NoError(t, err)
	assert.Empty(t, dispatcher.sent)
}

func TestCreatePlan_DispatchFailureDoesNotFailCreate(t *testing.T) {
	repo := newFakePlanRepo()
	dispatcher := newFakeDispatcher()
	dispatcher.failFor[42] = errors.New("fk violation")
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	resp, err := uc.CreatePlan(7, 1, &socialmedia.CreatePlanRequest{
		BrandName: "Acme",
		ManagerID: uintPtr(42),
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.PlanID)
}

func TestUpdatePlan_NotifiesOnlyChangedAssignees(t *testing.T) {
	repo := newFakePlanRepo()
	repo.plans[1] = &socialmedia.Plan{
		PlanID:     1,
		TenantID:   7,
		BrandName:  "Acme",
		ManagerID:  uintPtr(42),
		DesignerID: uintPtr(43),
	}
	repo.nextID = 2
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	// Reassign the designer, resend the same manager.
	_, err := uc.UpdatePlan(7, 1, 1, &socialmedia.UpdatePlanRequest{
		ManagerID:  uintPtr(42),
		DesignerID: uintPtr(99),
	})
	require.NoError(t, err)

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, uint(99), dispatcher.sent[0].UserID)
	assert.Contains(t, dispatcher.sent[0].Message, "Designer")
	// The replaced designer gets no unassignment notice.
	assert.Empty(t, dispatcher.sentTo(43))
}

func TestUpdatePlan_FillingEmptySlotNotifies(t *testing.T) {
	repo := newFakePlanRepo()
	repo.plans[1] = &socialmedia.Plan{
		PlanID:    1,
		TenantID:  7,
		BrandName: "Acme",
	}
	repo.nextID = 2
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	_, err := uc.UpdatePlan(7, 1, 1, &socialmedia.UpdatePlanRequest{ManagerID: uintPtr(42)})
	require.NoError(t, err)

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, uint(42), dispatcher.sent[0].UserID)
}

func TestUpdatePlan_NonAssigneePatchIsSilent(t *testing.T) {
	repo := newFakePlanRepo()
	repo.plans[1] = &socialmedia.Plan{
		PlanID:      1,
		TenantID:    7,
		BrandName:   "Acme",
		ManagerID:   uintPtr(42),
		BriefStatus: socialmedia.StatusPending,
	}
	repo.nextID = 2
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	done := socialmedia.StatusDone
	resp, err := uc.UpdatePlan(7, 1, 1, &socialmedia.UpdatePlanRequest{BriefStatus: &done})
	require.NoError(t, err)
	assert.Equal(t, socialmedia.StatusDone, resp.BriefStatus)

	// Manager unchanged: the patch carries no assignee field, nothing fires.
	assert.Empty(t, dispatcher.sent)
}

func TestUpdatePlan_NotFound(t *testing.T) {
	repo := newFakePlanRepo()
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	_, err := uc.UpdatePlan(7, 404, 1, &socialmedia.UpdatePlanRequest{})
	assert.ErrorIs(t, err, socialmedia.ErrPlanNotFound)
	assert.Empty(t, dispatcher.sent)
}

func TestUpdatePlan_TenantScoping(t *testing.T) {
	repo := newFakePlanRepo()
	repo.plans[1] = &socialmedia.Plan{PlanID: 1, TenantID: 7, BrandName: "Acme"}
	repo.nextID = 2
	dispatcher := newFakeDispatcher()
	uc := newTestPlanUseCase(repo, dispatcher, sweepNow)

	_, err := uc.UpdatePlan(8, 1, 1, &socialmedia.UpdatePlanRequest{ManagerID: uintPtr(42)})
	assert.ErrorIs(t, err, socialmedia.ErrPlanNotFound)
}

func TestGetPlan_DeadlinePassthrough(t *testing.T) {
	repo := newFakePlanRepo()
	deadline := timePtr(*midnightIn(5))
	repo.plans[1] = &socialmedia.Plan{
		PlanID:        1,
		TenantID:      7,
		BrandName:     "Acme",
		BriefDeadline: deadline,
		BriefStatus:   socialmedia.StatusPending,
	}
	repo.nextID = 2
	uc := newTestPlanUseCase(repo, newFakeDispatcher(), sweepNow)

	resp, err := uc.GetPlan(7, 1)
	require.NoError(t, err)
	require.NotNil(t, resp.BriefDeadline)
	assert.True(t, resp.BriefDeadline.Equal(*deadline))
}
