package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"moiport/internal/modules/healthtourism"
	"moiport/internal/modules/notification"
)

type HealthUseCase struct {
	repo       healthtourism.Repo
	dispatcher notification.Dispatcher
	log        *slog.Logger
}

func NewHealthUseCase(repo healthtourism.Repo, dispatcher notification.Dispatcher, log *slog.Logger) healthtourism.UseCase {
	return &HealthUseCase{
		repo:       repo,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (uc *HealthUseCase) CreatePatient(tenantID, actorID uint, req *healthtourism.CreatePatientRequest) (*healthtourism.PatientResponse, error) {
	op := "HealthUseCase.CreatePatient"
	log := uc.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(tenantID)))

	patient := &healthtourism.Patient{
		TenantID:      tenantID,
		FullName:      req.FullName,
		Country:       req.Country,
		Phone:         req.Phone,
		Email:         req.Email,
		CoordinatorID: req.CoordinatorID,
		ArrivalDate:   req.ArrivalDate,
		DepartureDate: req.DepartureDate,
		Notes:         req.Notes,
	}

	created, err := uc.repo.CreatePatient(patient)
	if err != nil {
		log.Error("failed to create patient", "error", err)
		return nil, err
	}

	ref := &notification.Reference{ID: created.PatientID, Type: notification.ReferenceHealthPatient}
	message := fmt.Sprintf("A new health tourism patient %q was registered.", created.FullName)
	if err := uc.dispatcher.NotifyTenantStaff(context.Background(), tenantID, "New Health Tourism Patient", message,
		notification.TypeHealthPatientCreated, ref, &actorID); err != nil {
		log.Error("staff notification failed for new patient", "error", err)
	}

	uc.notifyCoordinatorAssignment(context.Background(), nil, created)

	log.Info("patient created", slog.Uint64("patientID", uint64(created.PatientID)))
	return healthtourism.ToPatientResponse(created), nil
}

func (uc *HealthUseCase) GetPatient(tenantID, patientID uint) (*healthtourism.PatientResponse, error) {
	patient, err := uc.repo.GetPatientByID(tenantID, patientID)
	if err != nil {
		return nil, err
	}
	return healthtourism.ToPatientResponse(patient), nil
}

func (uc *HealthUseCase) GetPatients(tenantID uint) ([]*healthtourism.PatientResponse, error) {
	patients, err := uc.repo.GetPatients(tenantID)
	if err != nil {
		return nil, err
	}
	return healthtourism.ToPatientResponseList(patients), nil
}

func (uc *HealthUseCase) UpdatePatient(tenantID, patientID, actorID uint, req *healthtourism.UpdatePatientRequest) (*healthtourism.PatientResponse, error) {
	op := "HealthUseCase.UpdatePatient"
	log := uc.log.With(slog.String("op", op), slog.Uint64("patientID", uint64(patientID)))

	prev, err := uc.repo.GetPatientByID(tenantID, patientID)
	if err != nil {
		return nil, err
	}

	next := *prev
	if req.FullName != nil {
		next.FullName = *req.FullName
	}
	if req.Country != nil {
		next.Country = req.Country
	}
	if req.Phone != nil {
		next.Phone = req.Phone
	}
	if req.Email != nil {
		next.Email = req.Email
	}
	if req.CoordinatorID != nil {
		next.CoordinatorID = req.CoordinatorID
	}
	if req.ArrivalDate != nil {
		next.ArrivalDate = req.ArrivalDate
	}
	if req.DepartureDate != nil {
		next.DepartureDate = req.DepartureDate
	}
	if req.Notes != nil {
		next.Notes = req.Notes
	}

	updated, err := uc.repo.UpdatePatient(&next)
	if err != nil {
		log.Error("failed to update patient", "error", err)
		return nil, err
	}

	uc.notifyCoordinatorAssignment(context.Background(), prev, updated)

	return healthtourism.ToPatientResponse(updated), nil
}

// notifyCoordinatorAssignment fires only when a non-nil coordinator is newly
// set, and only the new coordinator is notified.
func (uc *HealthUseCase) notifyCoordinatorAssignment(ctx context.Context, prev, next *healthtourism.Patient) {
	op := "HealthUseCase.notifyCoordinatorAssignment"
	log := uc.log.With(slog.String("op", op), slog.Uint64("patientID", uint64(next.PatientID)))

	newID := next.CoordinatorID
	if newID == nil {
		return
	}
	if prev != nil && prev.CoordinatorID != nil && *prev.CoordinatorID == *newID {
		return
	}

	ref := &notification.Reference{ID: next.PatientID, Type: notification.ReferenceHealthPatient}
	message := fmt.Sprintf("You were assigned as Coordinator for patient %q.", next.FullName)
	if err := uc.dispatcher.NotifyUser(ctx, next.TenantID, *newID, "New Assignment", message, notification.TypePatientAssignment, ref); err != nil {
		log.Error("coordinator assignment notification failed", "userID", *newID, "error", err)
	}
}
