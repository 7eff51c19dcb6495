package database

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"moiport/internal/modules/dental"
)

type DentalDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewDentalDatabase(db *gorm.DB, log *slog.Logger) *DentalDatabase {
	return &DentalDatabase{
		db:  db,
		log: log,
	}
}

func (r *DentalDatabase) CreatePatient(p *dental.Patient) (*dental.Patient, error) {
	op := "DentalDatabase.CreatePatient"
	log := r.log.With(slog.String("op", op))

	if err := r.db.Create(p).Error; err != nil {
		log.Error("failed to create patient in DB", "error", err)
		return nil, dental.ErrDentalInternal
	}

	log.Info("patient created in DB", slog.Uint64("patientID", uint64(p.PatientID)))
	return p, nil
}

func (r *DentalDatabase) GetPatientByID(tenantID, patientID uint) (*dental.Patient, error) {
	op := "DentalDatabase.GetPatientByID"
	log := r.log.With(slog.String("op", op), slog.Uint64("patientID", uint64(patientID)))
	var patient dental.Patient

	if err := r.db.Where("tenant_id = ?", tenantID).First(&patient, patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("patient not found by ID")
			return nil, dental.ErrPatientNotFound
		}
		log.Error("failed to get patient by ID from DB", "error", err)
		return nil, dental.ErrDentalInternal
	}

	return &patient, nil
}

func (r *DentalDatabase) GetPatients(tenantID uint) ([]*dental.Patient, error) {
	op := "DentalDatabase.GetPatients"
	log := r.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(tenantID)))
	var patients []*dental.Patient

	if err := r.db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&patients).Error; err != nil {
		log.Error("failed to get patients from DB", "error", err)
		return nil, dental.ErrDentalInternal
	}

	return patients, nil
}

func (r *DentalDatabase) UpdatePatient(p *dental.Patient) (*dental.Patient, error) {
	op := "DentalDatabase.UpdatePatient"
	log := r.log.With(slog.String("op", op), slog.Uint64("patientID", uint64(p.PatientID)))

	if err := r.db.Save(p).Error; err != nil {
		log.Error("failed to update patient in DB", "error", err)
		return nil, dental.ErrDentalInternal
	}

	return p, nil
}

func (r *DentalDatabase) CreateTreatment(t *dental.Treatment) (*dental.Treatment, error) {
	op := "DentalDatabase.CreateTreatment"
	log := r.log.With(slog.String("op", op), slog.Uint64("patientID", uint64(t.PatientID)))

	if err := r.db.Create(t).Error; err != nil {
		log.Error("failed to create treatment in DB", "error", err)
		return nil, dental.ErrDentalInternal
	}

	log.Info("treatment created in DB", slog.Uint64("treatmentID", uint64(t.TreatmentID)))
	return t, nil
}

func (r *DentalDatabase) GetTreatmentsByPatient(tenantID, patientID uint) ([]*dental.Treatment, error) {
	op := "DentalDatabase.GetTreatmentsByPatient"
	log := r.log.With(slog.String("op", op), slog.Uint64("patientID", uint64(patientID)))
	var treatments []*dental.Treatment

	if err := r.db.Where("tenant_id = ? AND patient_id = ?", tenantID, patientID).
		Order("created_at DESC").Find(&treatments).Error; err != nil {
		log.Error("failed to get treatments from DB", "error", err)
		return nil, dental.ErrDentalInternal
	}

	return treatments, nil
}
