package healthtourism

import (
	"time"
)

// Patient - GORM model for the 'health_patients' table. Health tourism
// patients carry travel details on top of the basic contact fields.
type Patient struct {
	PatientID     uint       `gorm:"primaryKey;column:patient_id;autoIncrement"`
	TenantID      uint       `gorm:"column:tenant_id;not null;index"`
	FullName      string     `gorm:"type:varchar(150);not null;column:full_name"`
	Country       *string    `gorm:"type:varchar(100);column:country"`
	Phone         *string    `gorm:"type:varchar(30);column:phone"`
	Email         *string    `gorm:"type:varchar(100);column:email"`
	CoordinatorID *uint      `gorm:"column:coordinator_id"`
	ArrivalDate   *time.Time `gorm:"column:arrival_date"`
	DepartureDate *time.Time `gorm:"column:departure_date"`
	Notes         *string    `gorm:"type:text;column:notes"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func (Patient) TableName() string {
	return "health_patients"
}

type PatientResponse struct {
	PatientID     uint       `json:"patient_id"`
	FullName      string     `json:"full_name"`
	Country       *string    `json:"country,omitempty"`
	Phone         *string    `json:"phone,omitempty"`
	Email         *string    `json:"email,omitempty"`
	CoordinatorID *uint      `json:"coordinator_id,omitempty"`
	ArrivalDate   *time.Time `json:"arrival_date,omitempty"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func ToPatientResponse(p *Patient) *PatientResponse {
	if p == nil {
		return nil
	}
	return &PatientResponse{
		PatientID:     p.PatientID,
		FullName:      p.FullName,
		Country:       p.Country,
		Phone:         p.Phone,
		Email:         p.Email,
		CoordinatorID: p.CoordinatorID,
		ArrivalDate:   p.ArrivalDate,
		DepartureDate: p.DepartureDate,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToPatientResponseList(patients []*Patient) []*PatientResponse {
	responses := make([]*PatientResponse, len(patients))
	for i, p := range patients {
		responses[i] = ToPatientResponse(p)
	}
	return responses
}

type CreatePatientRequest struct {
	FullName      string     `json:"full_name" validate:"required,min=1,max=150"`
	Country       *string    `json:"country,omitempty" validate:"omitempty,max=100"`
	Phone         *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email         *string    `json:"email,omitempty" validate:"omitempty,email"`
	CoordinatorID *uint      `json:"coordinator_id,omitempty"`
	ArrivalDate   *time.Time `json:"arrival_date,omitempty"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=65535"`
}

type UpdatePatientRequest struct {
	FullName      *string    `json:"full_name,omitempty" validate:"omitempty,min=1,max=150"`
	Country       *string    `json:"country,omitempty" validate:"omitempty,max=100"`
	Phone         *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email         *string    `json:"email,omitempty" validate:"omitempty,email"`
	CoordinatorID *uint      `json:"coordinator_id,omitempty"`
	ArrivalDate   *time.Time `json:"arrival_date,omitempty"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=65535"`
}

type Repo interface {
	CreatePatient(p *Patient) (*Patient, error)
	GetPatientByID(tenantID, patientID uint) (*Patient, error)
	GetPatients(tenantID uint) ([]*Patient, error)
	UpdatePatient(p *Patient) (*Patient, error)
}

type UseCase interface {
	CreatePatient(tenantID, actorID uint, req *CreatePatientRequest) (*PatientResponse, error)
	GetPatient(tenantID, patientID uint) (*PatientResponse, error)
	GetPatients(tenantID uint) ([]*PatientResponse, error)
	UpdatePatient(tenantID, patientID, actorID uint, req *UpdatePatientRequest) (*PatientResponse, error)
}
