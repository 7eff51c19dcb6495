package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moiport/internal/modules/dental"
	"moiport/internal/modules/notification"
)

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeDentalRepo struct {
	patients   map[uint]*dental.Patient
	treatments []*dental.Treatment
	nextID     uint
	createErr  error
}

func newFakeDentalRepo() *fakeDentalRepo {
	return &fakeDentalRepo{patients: make(map[uint]*dental.Patient), nextID: 1}
}

func (r *fakeDentalRepo) CreatePatient(p *dental.Patient) (*dental.Patient, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	p.PatientID = r.nextID
	r.nextID++
	stored := *p
	r.patients[p.PatientID] = &stored
	return p, nil
}

func (r *fakeDentalRepo) GetPatientByID(tenantID, patientID uint) (*dental.Patient, error) {
	p, ok := r.patients[patientID]
	if !ok || p.TenantID != tenantID {
		return nil, dental.ErrPatientNotFound
	}
	copy := *p
	return &copy, nil
}

func (r *fakeDentalRepo) GetPatients(tenantID uint) ([]*dental.Patient, error) {
	var out []*dental.Patient
	for _, p := range r.patients {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeDentalRepo) UpdatePatient(p *dental.Patient) (*dental.Patient, error) {
	stored := *p
	r.patients[p.PatientID] = &stored
	return p, nil
}

func (r *fakeDentalRepo) CreateTreatment(t *dental.Treatment) (*dental.Treatment, error) {
	t.TreatmentID = r.nextID
	r.nextID++
	stored := *t
	r.treatments = append(r.treatments, &stored)
	return t, nil
}

func (r *fakeDentalRepo) GetTreatmentsByPatient(tenantID, patientID uint) ([]*dental.Treatment, error) {
	var out []*dental.Treatment
	for _, t := range r.treatments {
		if t.TenantID == tenantID && t.PatientID == patientID {
			out = append(out, t)
		}
	}
	return out, nil
}

type staffCall struct {
	TenantID uint
	Title    string
	Message  string
	Type     notification.Type
	Ref      *notification.Reference
	Exclude  *uint
}

type userCall struct {
	TenantID uint
	UserID   uint
	Title    string
	Message  string
	Type     notification.Type
	Ref      *notification.Reference
}

type fakeDispatcher struct {
	staffCalls []staffCall
	userCalls  []userCall
	staffErr   error
	userErr    error
}

func (d *fakeDispatcher) NotifyUser(ctx context.Context, tenantID, userID uint, title, message string, typ notification.Type, ref *notification.Reference) error {
	if d.userErr != nil {
		return d.userErr
	}
	d.userCalls = append(d.userCalls, userCall{tenantID, userID, title, message, typ, ref})
	return nil
}

func (d *fakeDispatcher) NotifyTenantStaff(ctx context.Context, tenantID uint, title, message string, typ notification.Type, ref *notification.Reference, excludeUserID *uint) error {
	if d.staffErr != nil {
		return d.staffErr
	}
	d.staffCalls = append(d.staffCalls, staffCall{tenantID, title, message, typ, ref, excludeUserID})
	return nil
}

func TestCreatePatient_NotifiesStaffExcludingActor(t *testing.T) {
	repo := newFakeDentalRepo()
	dispatcher := &fakeDispatcher{}
	uc := NewDentalUseCase(repo, dispatcher, discardLogger())

	resp, err := uc.CreatePatient(7, 5, &dental.CreatePatientRequest{FullName: "Ayşe Yılmaz"})
	require.NoError(t, err)
	assert.NotZero(t, resp.PatientID)

	require.Len(t, dispatcher.staffCalls, 1)
	call := dispatcher.staffCalls[0]
	assert.Equal(t, uint(7), call.TenantID)
	assert.Equal(t, "New Dental Patient", call.Title)
	assert.Equal(t, notification.TypeDentalPatientCreated, call.Type)
	assert.Contains(t, call.Message, "Ayşe Yılmaz")
	require.NotNil(t, call.Exclude)
	assert.Equal(t, uint(5), *call.Exclude)
	require.NotNil(t, call.Ref)
	assert.Equal(t, resp.PatientID, call.Ref.ID)
	assert.Equal(t, notification.ReferenceDentalPatient, call.Ref.Type)
}

func TestCreatePatient_WithDoctorNotifiesAssignee(t *testing.T) {
	repo := newFakeDentalRepo()
	dispatcher := &fakeDispatcher{}
	uc := NewDentalUseCase(repo, dispatcher, discardLogger())

	_, err := uc.CreatePatient(7, 5, &dental.CreatePatientRequest{
		FullName:         "Ayşe Yılmaz",
		AssignedDoctorID: uintPtr(11),
	})
	require.NoError(t, err)

	require.Len(t, dispatcher.userCalls, 1)
	call := dispatcher.userCalls[0]
	assert.Equal(t, uint(11), call.UserID)
	assert.Equal(t, "New Assignment", call.Title)
	assert.Equal(t, notification.TypePatientAssignment, call.Type)
	assert.Contains(t, call.Message, "Doctor")
}

func TestCreatePatient_DispatchFailureStillSucceeds(t *testing.T) {
	repo := newFakeDentalRepo()
	dispatcher := &fakeDispatcher{
		staffErr: fmt.Errorf("%w: db down", notification.ErrRosterResolution),
		userErr:  errors.New("fk violation"),
	}
	uc := NewDentalUseCase(repo, dispatcher, discardLogger())

	resp, err := uc.CreatePatient(7, 5, &dental.CreatePatientRequest{
		FullName:         "Ayşe Yılmaz",
		AssignedDoctorID: uintPtr(11),
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.PatientID)
	assert.Len(t, repo.patients, 1)
}

func TestCreatePatient_RepoFailureSkipsNotifications(t *testing.T) {
	repo := newFakeDentalRepo()
	repo.createErr = errors.New("db down")
	dispatcher := &fakeDispatcher{}
	uc := NewDentalUseCase(repo, dispatcher, discardLogger())

	_, err := uc.CreatePatient(7, 5, &dental.CreatePatientRequest{FullName: "Ayşe Yılmaz"})
	require.Error(t, err)
	assert.Empty(t, dispatcher.staffCalls)
	assert.Empty(t, dispatcher.userCalls)
}

func TestUpdatePatient_DoctorChangeNotifiesNewDoctorOnly(t *testing.T) {
	repo := newFakeDentalRepo()
	repo.patients[1] = &dental.Patient{
		PatientID:        1,
		TenantID:         7,
		FullName:         "Ayşe Yılmaz",
		AssignedDoctorID: uintPtr(11),
	}
	repo.nextID = 2
	dispatcher := &fakeDispatcher{}
	uc := NewDentalUseCase(repo, dispatcher, discardLogger())

	_, err := uc.UpdatePatient(7, 1, 5, &dental.UpdatePatientRequest{AssignedDoctorID: uintPtr(12)})
	require.NoError(t, err)

	require.Len(t, dispatcher.userCalls, 1)
	assert.Equal(t, uint(12), dispatcher.userCalls[0].UserID)
	// No tenant-wide fan-out on update.
	assert.Empty(t, dispatcher.staffCalls)
}

func TestUpdatePatient_SameDoctorIsSilent(t *testing.T) {
	repo := newFakeDentalRepo()
	repo.patients[1] = &dental.Patient{
		PatientID:        1,
		TenantID:         7,
		FullName:         "Ayşe Yılmaz",
		AssignedDoctorID: uintPtr(11),
	}
	repo.nextID = 2
	dispatcher := &fakeDispatcher{}
	uc := NewDentalUseCase(repo, dispatcher, discardLogger())

	_, err := uc.UpdatePatient(7, 1, 5, &dental.UpdatePatientRequest{
		AssignedDoctorID: uintPtr(11),
		Notes:            strPtr("follow-up in two weeks"),
	})
	require.NoError(t, err)
	assert.Empty(t, dispatcher.userCalls)
}

func TestUpdatePatient_NotFound(t *testing.T) {
	repo := newFakeDentalRepo()
	dispatcher := &fakeDispatcher{}
	uc := NewDentalUseCase(repo, dispatcher, discardLogger())

	_, err := uc.UpdatePatient(7, 404, 5, &dental.UpdatePatientRequest{})
	assert.ErrorIs(t, err, dental.ErrPatientNotFound)
}

func TestCreateTreatment_NotifiesStaff(t *testing.T) {
	repo := newFakeDentalRepo()
	repo.patients[1] = &dental.Patient{PatientID: 1, TenantID: 7, FullName: "Ayşe Yılmaz"}
	repo.nextID = 2
	dispatcher := &fakeDispatcher{}
	uc := NewDentalUseCase(repo, dispatcher, discardLogger())

	resp, err := uc.CreateTreatment(7, 5, &dental.CreateTreatmentRequest{
		PatientID: 1,
		Name:      "Implant",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.TreatmentID)

	require.Len(t, dispatcher.staffCalls, 1)
	call := dispatcher.staffCalls[0]
	assert.Equal(t, "New Dental Treatment", call.Title)
	assert.Equal(t, notification.TypeDentalTreatmentCreated, call.Type)
	assert.Contains(t, call.Message, "Implant")
	assert.Contains(t, call.Message, "Ayşe Yılmaz")
	require.NotNil(t, call.Exclude)
	assert.Equal(t, uint(5), *call.Exclude)
}

func TestCreateTreatment_CrossTenantPatientRejected(t *testing.T) {
	repo := newFakeDentalRepo()
	repo.patients[1] = &dental.Patient{PatientID: 1, TenantID: 8, FullName: "Ayşe Yılmaz"}
	repo.nextID = 2
	dispatcher := &fakeDispatcher{}
	uc := NewDentalUseCase(repo, dispatcher, discardLogger())

	_, err := uc.CreateTreatment(7, 5, &dental.CreateTreatmentRequest{PatientID: 1, Name: "Implant"})
	assert.ErrorIs(t, err, dental.ErrPatientNotFound)
	assert.Empty(t, dispatcher.staffCalls)
}

func TestGetTreatments_ScopedToPatient(t *testing.T) {
	repo := newFakeDentalRepo()
	repo.patients[1] = &dental.Patient{PatientID: 1, TenantID: 7, FullName: "Ayşe Yılmaz"}
	repo.treatments = []*dental.Treatment{
		{TreatmentID: 10, TenantID: 7, PatientID: 1, Name: "Implant"},
		{TreatmentID: 11, TenantID: 7, PatientID: 2, Name: "Filling"},
		{TreatmentID: 12, TenantID: 8, PatientID: 1, Name: "Cleaning"},
	}
	uc := NewDentalUseCase(repo, &fakeDispatcher{}, discardLogger())

	got, err := uc.GetTreatments(7, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Implant", got[0].Name)
}
