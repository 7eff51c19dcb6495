package dental

import (
	"time"
)

// --- GORM models ---

// Patient - GORM model for the 'dental_patients' table.
type Patient struct {
	PatientID        uint      `gorm:"primaryKey;column:patient_id;autoIncrement"`
	TenantID         uint      `gorm:"column:tenant_id;not null;index"`
	FullName         string    `gorm:"type:varchar(150);not null;column:full_name"`
	Phone            *string   `gorm:"type:varchar(30);column:phone"`
	Email            *string   `gorm:"type:varchar(100);column:email"`
	AssignedDoctorID *uint     `gorm:"column:assigned_doctor_id"`
	Notes            *string   `gorm:"type:text;column:notes"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func (Patient) TableName() string {
	return "dental_patients"
}

// Treatment - GORM model for the 'dental_treatments' table.
type Treatment struct {
	TreatmentID      uint      `gorm:"primaryKey;column:treatment_id;autoIncrement"`
	TenantID         uint      `gorm:"column:tenant_id;not null;index"`
	PatientID        uint      `gorm:"column:patient_id;not null;index"`
	Name             string    `gorm:"type:varchar(255);not null;column:name"`
	Status           string    `gorm:"type:varchar(50);default:'Bekliyor';not null;column:status"`
	AssignedDoctorID *uint     `gorm:"column:assigned_doctor_id"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func (Treatment) TableName() string {
	return "dental_treatments"
}

// --- DTO ---

type PatientResponse struct {
	PatientID        uint      `json:"patient_id"`
	FullName         string    `json:"full_name"`
	Phone            *string   `json:"phone,omitempty"`
	Email            *string   `json:"email,omitempty"`
	AssignedDoctorID *uint     `json:"assigned_doctor_id,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func ToPatientResponse(p *Patient) *PatientResponse {
	if p == nil {
		return nil
	}
	return &PatientResponse{
		PatientID:        p.PatientID,
		FullName:         p.FullName,
		Phone:            p.Phone,
		Email:            p.Email,
		AssignedDoctorID: p.AssignedDoctorID,
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func ToPatientResponseList(patients []*Patient) []*PatientResponse {
	responses := make([]*PatientResponse, len(patients))
	for i, p := range patients {
		responses[i] = ToPatientResponse(p)
	}
	return responses
}

type TreatmentResponse struct {
	TreatmentID      uint      `json:"treatment_id"`
	PatientID        uint      `json:"patient_id"`
	Name             string    `json:"name"`
	Status           string    `json:"status"`
	AssignedDoctorID *uint     `json:"assigned_doctor_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func ToTreatmentResponse(t *Treatment) *TreatmentResponse {
	if t == nil {
		return nil
	}
	return &TreatmentResponse{
		TreatmentID:      t.TreatmentID,
		PatientID:        t.PatientID,
		Name:             t.Name,
		Status:           t.Status,
		AssignedDoctorID: t.AssignedDoctorID,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

type CreatePatientRequest struct {
	FullName         string  `json:"full_name" validate:"required,min=1,max=150"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	AssignedDoctorID *uint   `json:"assigned_doctor_id,omitempty"`
	Notes            *string `json:"notes,omitempty" validate:"omitempty,max=65535"`
}

type UpdatePatientRequest struct {
	FullName         *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=150"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	AssignedDoctorID *uint   `json:"assigned_doctor_id,omitempty"`
	Notes            *string `json:"notes,omitempty" validate:"omitempty,max=65535"`
}

type CreateTreatmentRequest struct {
	PatientID        uint    `json:"patient_id" validate:"required"`
	Name             string  `json:"name" validate:"required,min=1,max=255"`
	Status           *string `json:"status,omitempty" validate:"omitempty,max=50"`
	AssignedDoctorID *uint   `json:"assigned_doctor_id,omitempty"`
}

// --- Interfaces ---

type Repo interface {
	CreatePatient(p *Patient) (*Patient, error)
	GetPatientByID(tenantID, patientID uint) (*Patient, error)
	GetPatients(tenantID uint) ([]*Patient, error)
	UpdatePatient(p *Patient) (*Patient, error)
	CreateTreatment(t *Treatment) (*Treatment, error)
	GetTreatmentsByPatient(tenantID, patientID uint) ([]*Treatment, error)
}

type UseCase interface {
	CreatePatient(tenantID, actorID uint, req *CreatePatientRequest) (*PatientResponse, error)
	GetPatient(tenantID, patientID uint) (*PatientResponse, error)
	GetPatients(tenantID uint) ([]*PatientResponse, error)
	UpdatePatient(tenantID, patientID, actorID uint, req *UpdatePatientRequest) (*PatientResponse, error)
	CreateTreatment(tenantID, actorID uint, req *CreateTreatmentRequest) (*TreatmentResponse, error)
	GetTreatments(tenantID, patientID uint) ([]*TreatmentResponse, error)
}
