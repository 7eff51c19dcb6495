package repo

import (
	"moiport/internal/modules/healthtourism"
)

type HealthDb interface {
	CreatePatient(p *healthtourism.Patient) (*healthtourism.Patient, error)
	GetPatientByID(tenantID, patientID uint) (*healthtourism.Patient, error)
	GetPatients(tenantID uint) ([]*healthtourism.Patient, error)
	UpdatePatient(p *healthtourism.Patient) (*healthtourism.Patient, error)
}

type repo struct {
	db HealthDb
}

func NewRepo(db HealthDb) healthtourism.Repo {
	return &repo{db: db}
}

func (r *repo) CreatePatient(p *healthtourism.Patient) (*healthtourism.Patient, error) {
	return r.db.CreatePatient(p)
}

func (r *repo) GetPatientByID(tenantID, patientID uint) (*healthtourism.Patient, error) {
	return r.db.GetPatientByID(tenantID, patientID)
}

func (r *repo) GetPatients(tenantID uint) ([]*healthtourism.Patient, error) {
	return r.db.GetPatients(tenantID)
}

func (r *repo) UpdatePatient(p *healthtourism.Patient) (*healthtourism.Patient, error) {
	return r.db.UpdatePatient(p)
}
