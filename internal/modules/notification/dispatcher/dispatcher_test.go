package dispatcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moiport/internal/modules/notification"
	"moiport/internal/modules/user"
	"moiport/pkg/lib/pushsender"
)

func uintPtr(v uint) *uint { return &v }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeNotificationRepo records inserted rows and can fail selected users.
type fakeNotificationRepo struct {
	created []*notification.Notification
	failFor map[uint]error
	nextID  uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{failFor: make(map[uint]error), nextID: 1}
}

func (r *fakeNotificationRepo) CreateNotification(n *notification.Notification) (*notification.Notification, error) {
	if err, ok := r.failFor[n.UserID]; ok {
		return nil, err
	}
	n.NotificationID = r.nextID
	r.nextID++
	stored := *n
	r.created = append(r.created, &stored)
	return n, nil
}

func (r *fakeNotificationRepo) GetNotifications(tenantID, userID uint, onlyUnread bool, limit, offset int) ([]*notification.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) CountUnread(tenantID, userID uint) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) MarkRead(tenantID, userID, notificationID uint) error {
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(tenantID, userID uint) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) rowsFor(userID uint) []*notification.Notification {
	var out []*notification.Notification
	for _, n := range r.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// fakeStaffDirectory serves a static roster and token table, recording
// every roster resolution so tests can assert it is never cached.
type fakeStaffDirectory struct {
	staff      []*user.User
	rosterErr  error
	tokens     map[uint][]user.UserDeviceToken
	listCalls  int
	lastRoles  []user.Role
	lastExcl   *uint
	lastTenant uint
}

func (d *fakeStaffDirectory) ListActiveStaff(tenantID uint, roles []user.Role, excludeUserID *uint) ([]*user.User, error) {
	d.listCalls++
	d.lastTenant = tenantID
	d.lastRoles = roles
	d.lastExcl = excludeUserID
	if d.rosterErr != nil {
		return nil, d.rosterErr
	}
	var out []*user.User
	for _, u := range d.staff {
		if excludeUserID != nil && u.UserID == *excludeUserID {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (d *fakeStaffDirectory) GetUserDeviceTokens(userID uint) ([]user.UserDeviceToken, error) {
	return d.tokens[userID], nil
}

// fakePushSender records sent batches; order relative to repo inserts is
// checked via the shared event log.
type fakePushSender struct {
	sent   []pushsender.PushMessage
	events *[]string
}

func (s *fakePushSender) Send(ctx context.Context, msg pushsender.PushMessage) (*pushsender.SendResult, error) {
	s.sent = append(s.sent, msg)
	if s.events != nil {
		*s.events = append(*s.events, "push")
	}
	return &pushsender.SendResult{SuccessCount: len(msg.Tokens)}, nil
}

func (s *fakePushSender) Ping(ctx context.Context) error { return nil }

func staffUser(id uint, role user.Role) *user.User {
	return &user.User{UserID: id, TenantID: 7, Role: role, IsActive: true}
}

func TestNotifyUser_PersistsRow(t *testing.T) {
	repo := newFakeNotificationRepo()
	staff := &fakeStaffDirectory{}
	d := New(repo, staff, nil, discardLogger())

	ref := &notification.Reference{ID: 12, Type: notification.ReferenceSocialMediaPlan}
	err := d.NotifyUser(context.Background(), 7, 42, "Deadline Today", "The brief deadline is today.", notification.TypePlanReminder, ref)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	row := repo.created[0]
	assert.Equal(t, uint(7), row.TenantID)
	assert.Equal(t, uint(42), row.UserID)
	assert.Equal(t, "Deadline Today", row.Title)
	assert.Equal(t, notification.TypePlanReminder, row.Type)
	require.NotNil(t, row.ReferenceID)
	require.NotNil(t, row.ReferenceType)
	assert.Equal(t, uint(12), *row.ReferenceID)
	assert.Equal(t, notification.ReferenceSocialMediaPlan, *row.ReferenceType)
	assert.False(t, row.IsRead)
}

func TestNotifyUser_NilReference(t *testing.T) {
	repo := newFakeNotificationRepo()
	d := New(repo, &fakeStaffDirectory{}, nil, discardLogger())

	err := d.NotifyUser(context.Background(), 7, 42, "Hello", "Plain note.", notification.TypeStaffJoined, nil)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Nil(t, repo.created[0].ReferenceID)
	assert.Nil(t, repo.created[0].ReferenceType)
}

func TestNotifyUser_InsertFailureSurfaces(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.failFor[42] = errors.New("fk violation")
	push := &fakePushSender{}
	d := New(repo, &fakeStaffDirectory{}, push, discardLogger())

	err := d.NotifyUser(context.Background(), 7, 42, "Hello", "msg", notification.TypeStaffJoined, nil)
	require.Error(t, err)
	// No row, no push.
	assert.Empty(t, repo.created)
	assert.Empty(t, push.sent)
}

func TestNotifyTenantStaff_FansOutToRoster(t *testing.T) {
	repo := newFakeNotificationRepo()
	staff := &fakeStaffDirectory{staff: []*user.User{
		staffUser(1, user.RoleSuperAdmin),
		staffUser(2, user.RoleAdmin),
		staffUser(3, user.RoleStaff),
	}}
	d := New(repo, staff, nil, discardLogger())

	err := d.NotifyTenantStaff(context.Background(), 7, "New Patient", "A patient was created.", notification.TypeDentalPatientCreated, nil, nil)
	require.NoError(t, err)

	assert.Len(t, repo.created, 3)
	assert.Equal(t, uint(7), staff.lastTenant)
	assert.Equal(t, user.TenantNotifyRoles, staff.lastRoles)
	assert.Nil(t, staff.lastExcl)
}

func TestNotifyTenantStaff_ExcludesActor(t *testing.T) {
	repo := newFakeNotificationRepo()
	staff := &fakeStaffDirectory{staff: []*user.User{
		staffUser(1, user.RoleAdmin),
		staffUser(2, user.RoleStaff),
	}}
	d := New(repo, staff, nil, discardLogger())

	err := d.NotifyTenantStaff(context.Background(), 7, "New Patient", "msg", notification.TypeDentalPatientCreated, nil, uintPtr(2))
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, uint(1), repo.created[0].UserID)
	require.NotNil(t, staff.lastExcl)
	assert.Equal(t, uint(2), *staff.lastExcl)
}

func TestNotifyTenantStaff_RosterFailureIsFatal(t *testing.T) {
	repo := newFakeNotificationRepo()
	staff := &fakeStaffDirectory{rosterErr: errors.New("db down")}
	d := New(repo, staff, nil, discardLogger())

	err := d.NotifyTenantStaff(context.Background(), 7, "New Patient", "msg", notification.TypeDentalPatientCreated, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, notification.ErrRosterResolution)
	assert.Empty(t, repo.created)
}

func TestNotifyTenantStaff_PartialInsertFailure(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.failFor[2] = errors.New("fk violation")
	staff := &fakeStaffDirectory{staff: []*user.User{
		staffUser(1, user.RoleAdmin),
		staffUser(2, user.RoleStaff),
		staffUser(3, user.RoleStaff),
	}}
	d := New(repo, staff, nil, discardLogger())

	// One bad recipient: the other two still get their rows, no error.
	err := d.NotifyTenantStaff(context.Background(), 7, "New Patient", "msg", notification.TypeDentalPatientCreated, nil, nil)
	require.NoError(t, err)

	assert.Len(t, repo.created, 2)
	assert.Len(t, repo.rowsFor(1), 1)
	assert.Empty(t, repo.rowsFor(2))
	assert.Len(t, repo.rowsFor(3), 1)
}

func TestNotifyTenantStaff_EmptyRoster(t *testing.T) {
	repo := newFakeNotificationRepo()
	d := New(repo, &fakeStaffDirectory{}, nil, discardLogger())

	err := d.NotifyTenantStaff(context.Background(), 7, "New Patient", "msg", notification.TypeDentalPatientCreated, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestNotifyTenantStaff_RosterResolvedPerCall(t *testing.T) {
	repo := newFakeNotificationRepo()
	staff := &fakeStaffDirectory{staff: []*user.User{staffUser(1, user.RoleAdmin)}}
	d := New(repo, staff, nil, discardLogger())

	for i := 0; i < 3; i++ {
		require.NoError(t, d.NotifyTenantStaff(context.Background(), 7, "t", "m", notification.TypeStaffJoined, nil, nil))
	}
	assert.Equal(t, 3, staff.listCalls)
}

func TestNotifyUser_PushAfterInsert(t *testing.T) {
	var events []string
	repo := newFakeNotificationRepo()
	staff := &fakeStaffDirectory{tokens: map[uint][]user.UserDeviceToken{
		42: {{DeviceToken: "tok-1"}, {DeviceToken: "tok-2"}},
	}}
	push := &fakePushSender{events: &events}
	d := New(repo, staff, push, discardLogger())

	ref := &notification.Reference{ID: 9, Type: notification.ReferenceDentalPatient}
	err := d.NotifyUser(context.Background(), 7, 42, "New Assignment", "msg", notification.TypePatientAssignment, ref)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	require.Len(t, push.sent, 1)
	assert.Equal(t, []string{"tok-1", "tok-2"}, push.sent[0].Tokens)
	assert.Equal(t, string(notification.TypePatientAssignment), push.sent[0].Data["type"])
	assert.Equal(t, "9", push.sent[0].Data["referenceId"])
	// The push fires only once the row exists.
	assert.Equal(t, []string{"push"}, events)
}

func TestNotifyUser_NoTokensNoPush(t *testing.T) {
	repo := newFakeNotificationRepo()
	push := &fakePushSender{}
	d := New(repo, &fakeStaffDirectory{}, push, discardLogger())

	err := d.NotifyUser(context.Background(), 7, 42, "Hello", "msg", notification.TypeStaffJoined, nil)
	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
	assert.Empty(t, push.sent)
}

func TestNotifyUser_NilPushSender(t *testing.T) {
	repo := newFakeNotificationRepo()
	d := New(repo, &fakeStaffDirectory{}, nil, discardLogger())

	err := d.NotifyUser(context.Background(), 7, 42, "Hello", "msg", notification.TypeStaffJoined, nil)
	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
}
