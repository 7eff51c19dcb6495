package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"moiport/internal/modules/dental"
	"moiport/internal/modules/notification"
)

type DentalUseCase struct {
	repo       dental.Repo
	dispatcher notification.Dispatcher
	log        *slog.Logger
}

func NewDentalUseCase(repo dental.Repo, dispatcher notification.Dispatcher, log *slog.Logger) dental.UseCase {
	return &DentalUseCase{
		repo:       repo,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (uc *DentalUseCase) CreatePatient(tenantID, actorID uint, req *dental.CreatePatientRequest) (*dental.PatientResponse, error) {
	op := "DentalUseCase.CreatePatient"
	log := uc.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(tenantID)))

	patient := &dental.Patient{
		TenantID:         tenantID,
		FullName:         req.FullName,
		Phone:            req.Phone,
		Email:            req.Email,
		AssignedDoctorID: req.AssignedDoctorID,
		Notes:            req.Notes,
	}

	created, err := uc.repo.CreatePatient(patient)
	if err != nil {
		log.Error("failed to create patient", "error", err)
		return nil, err
	}

	// Fan-out to the tenant staff, excluding the actor so nobody is told
	// about their own action. The patient row is already committed, so a
	// dispatch failure is logged and dropped.
	ref := &notification.Reference{ID: created.PatientID, Type: notification.ReferenceDentalPatient}
	message := fmt.Sprintf("A new dental patient %q was registered.", created.FullName)
	if err := uc.dispatcher.NotifyTenantStaff(context.Background(), tenantID, "New Dental Patient", message,
		notification.TypeDentalPatientCreated, ref, &actorID); err != nil {
		log.Error("staff notification failed for new patient", "error", err)
	}

	uc.notifyDoctorAssignment(context.Background(), nil, created)

	log.Info("patient created", slog.Uint64("patientID", uint64(created.PatientID)))
	return dental.ToPatientResponse(created), nil
}

func (uc *DentalUseCase) GetPatient(tenantID, patientID uint) (*dental.PatientResponse, error) {
	patient, err := uc.repo.GetPatientByID(tenantID, patientID)
	if err != nil {
		return nil, err
	}
	return dental.ToPatientResponse(patient), nil
}

func (uc *DentalUseCase) GetPatients(tenantID uint) ([]*dental.PatientResponse, error) {
	patients, err := uc.repo.GetPatients(tenantID)
	if err != nil {
		return nil, err
	}
	return dental.ToPatientResponseList(patients), nil
}

func (uc *DentalUseCase) UpdatePatient(tenantID, patientID, actorID uint, req *dental.UpdatePatientRequest) (*dental.PatientResponse, error) {
	op := "DentalUseCase.UpdatePatient"
	log := uc.log.With(slog.String("op", op), slog.Uint64("patientID", uint64(patientID)))

	prev, err := uc.repo.GetPatientByID(tenantID, patientID)
	if err != nil {
		return nil, err
	}

	next := *prev
	if req.FullName != nil {
		next.FullName = *req.FullName
	}
	if req.Phone != nil {
		next.Phone = req.Phone
	}
	if req.Email != nil {
		next.Email = req.Email
	}
	if req.AssignedDoctorID != nil {
		next.AssignedDoctorID = req.AssignedDoctorID
	}
	if req.Notes != nil {
		next.Notes = req.Notes
	}

	updated, err := uc.repo.UpdatePatient(&next)
	if err != nil {
		log.Error("failed to update patient", "error", err)
		return nil, err
	}

	uc.notifyDoctorAssignment(context.Background(), prev, updated)

	return dental.ToPatientResponse(updated), nil
}

func (uc *DentalUseCase) CreateTreatment(tenantID, actorID uint, req *dental.CreateTreatmentRequest) (*dental.TreatmentResponse, error) {
	op := "DentalUseCase.CreateTreatment"
	log := uc.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(tenantID)))

	// The patient lookup doubles as the tenant-scope check.
	patient, err := uc.repo.GetPatientByID(tenantID, req.PatientID)
	if err != nil {
		return nil, err
	}

	treatment := &dental.Treatment{
		TenantID:         tenantID,
		PatientID:        patient.PatientID,
		Name:             req.Name,
		AssignedDoctorID: req.AssignedDoctorID,
	}
	if req.Status != nil {
		treatment.Status = *req.Status
	}

	created, err := uc.repo.CreateTreatment(treatment)
	if err != nil {
		log.Error("failed to create treatment", "error", err)
		return nil, err
	}

	ref := &notification.Reference{ID: created.TreatmentID, Type: notification.ReferenceDentalTreatment}
	message := fmt.Sprintf("Treatment %q was planned for patient %q.", created.Name, patient.FullName)
	if err := uc.dispatcher.NotifyTenantStaff(context.Background(), tenantID, "New Dental Treatment", message,
		notification.TypeDentalTreatmentCreated, ref, &actorID); err != nil {
		log.Error("staff notification failed for new treatment", "error", err)
	}

	log.Info("treatment created", slog.Uint64("treatmentID", uint64(created.TreatmentID)))
	return dental.ToTreatmentResponse(created), nil
}

func (uc *DentalUseCase) GetTreatments(tenantID, patientID uint) ([]*dental.TreatmentResponse, error) {
	treatments, err := uc.repo.GetTreatmentsByPatient(tenantID, patientID)
	if err != nil {
		return nil, err
	}
	responses := make([]*dental.TreatmentResponse, len(treatments))
	for i, t := range treatments {
		responses[i] = dental.ToTreatmentResponse(t)
	}
	return responses, nil
}

// notifyDoctorAssignment mirrors the plan assignment rule: only a change to
// a non-nil doctor fires, and only the new doctor hears about it.
func (uc *DentalUseCase) notifyDoctorAssignment(ctx context.Context, prev, next *dental.Patient) {
	op := "DentalUseCase.notifyDoctorAssignment"
	log := uc.log.With(slog.String("op", op), slog.Uint64("patientID", uint64(next.PatientID)))

	newID := next.AssignedDoctorID
	if newID == nil {
		return
	}
	if prev != nil && prev.AssignedDoctorID != nil && *prev.AssignedDoctorID == *newID {
		return
	}

	ref := &notification.Reference{ID: next.PatientID, Type: notification.ReferenceDentalPatient}
	message := fmt.Sprintf("You were assigned as Doctor for patient %q.", next.FullName)
	if err := uc.dispatcher.NotifyUser(ctx, next.TenantID, *newID, "New Assignment", message, notification.TypePatientAssignment, ref); err != nil {
		log.Error("doctor assignment notification failed", "userID", *newID, "error", err)
	}
}
