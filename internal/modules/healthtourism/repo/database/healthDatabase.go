package database

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"moiport/internal/modules/healthtourism"
)

type HealthDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewHealthDatabase(db *gorm.DB, log *slog.Logger) *HealthDatabase {
	return &HealthDatabase{
		db:  db,
		log: log,
	}
}

func (r *HealthDatabase) CreatePatient(p *healthtourism.Patient) (*healthtourism.Patient, error) {
	op := "HealthDatabase.CreatePatient"
	log := r.log.With(slog.String("op", op))

	if err := r.db.Create(p).Error; err != nil {
		log.Error("failed to create patient in DB", "error", err)
		return nil, healthtourism.ErrHealthTourismInternal
	}

	log.Info("patient created in DB", slog.Uint64("patientID", uint64(p.PatientID)))
	return p, nil
}

func (r *HealthDatabase) GetPatientByID(tenantID, patientID uint) (*healthtourism.Patient, error) {
	op := "HealthDatabase.GetPatientByID"
	log := r.log.With(slog.String("op", op), slog.Uint64("patientID", uint64(patientID)))
	var patient healthtourism.Patient

	if err := r.db.Where("tenant_id = ?", tenantID).First(&patient, patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("patient not found by ID")
			return nil, healthtourism.ErrPatientNotFound
		}
		log.Error("failed to get patient by ID from DB", "error", err)
		return nil, healthtourism.ErrHealthTourismInternal
	}

	return &patient, nil
}

func (r *HealthDatabase) GetPatients(tenantID uint) ([]*healthtourism.Patient, error) {
	op := "HealthDatabase.GetPatients"
	log := r.log.With(slog.String("op", op), slog.Uint64("tenantID", uint64(tenantID)))
	var patients []*healthtourism.Patient

	if err := r.db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&patients).Error; err != nil {
		log.Error("failed to get patients from DB", "error", err)
		return nil, healthtourism.ErrHealthTourismInternal
	}

	return patients, nil
}

func (r *HealthDatabase) UpdatePatient(p *healthtourism.Patient) (*healthtourism.Patient, error) {
	op := "HealthDatabase.UpdatePatient"
	log := r.log.With(slog.String("op", op), slog.Uint64("patientID", uint64(p.PatientID)))

	if err := r.db.Save(p).Error; err != nil {
		log.Error("failed to update patient in DB", "error", err)
		return nil, healthtourism.ErrHealthTourismInternal
	}

	return p, nil
}
