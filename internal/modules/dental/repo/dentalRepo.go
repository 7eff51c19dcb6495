package repo

import (
	"moiport/internal/modules/dental"
)

type DentalDb interface {
	CreatePatient(p *dental.Patient) (*dental.Patient, error)
	GetPatientByID(tenantID, patientID uint) (*dental.Patient, error)
	GetPatients(tenantID uint) ([]*dental.Patient, error)
	UpdatePatient(p *dental.Patient) (*dental.Patient, error)
	CreateTreatment(t *dental.Treatment) (*dental.Treatment, error)
	GetTreatmentsByPatient(tenantID, patientID uint) ([]*dental.Treatment, error)
}

type repo struct {
	db DentalDb
}

func NewRepo(db DentalDb) dental.Repo {
	return &repo{db: db}
}

func (r *repo) CreatePatient(p *dental.Patient) (*dental.Patient, error) {
	return r.db.CreatePatient(p)
}

func (r *repo) GetPatientByID(tenantID, patientID uint) (*dental.Patient, error) {
	return r.db.GetPatientByID(tenantID, patientID)
}

func (r *repo) GetPatients(tenantID uint) ([]*dental.Patient, error) {
	return r.db.GetPatients(tenantID)
}

func (r *repo) UpdatePatient(p *dental.Patient) (*dental.Patient, error) {
	return r.db.UpdatePatient(p)
}

func (r *repo) CreateTreatment(t *dental.Treatment) (*dental.Treatment, error) {
	return r.db.CreateTreatment(t)
}

func (r *repo) GetTreatmentsByPatient(tenantID, patientID uint) ([]*dental.Treatment, error) {
	return r.db.GetTreatmentsByPatient(tenantID, patientID)
}
