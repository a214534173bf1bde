package registry

import (
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/registry"
	csvimport "github.com/labqueue/backend/internal/infrastructure/import"
)

// CreatePatientRequest carries the data to register a patient
type CreatePatientRequest struct {
	DocumentNumber string    `json:"document_number" binding:"required,min=5,max=20"`
	FullName       string    `json:"full_name" binding:"required,min=2,max=200"`
	BirthDate      time.Time `json:"birth_date" binding:"required" time_format:"2006-01-02"`
	Gender         string    `json:"gender" binding:"required,oneof=M F Otro"`
	Phone          string    `json:"phone" binding:"omitempty,max=20"`
	Email          string    `json:"email" binding:"omitempty,email,max=200"`
}

// UpdatePatientRequest carries the mutable patient fields
type UpdatePatientRequest struct {
	FullName  string     `json:"full_name" binding:"omitempty,min=2,max=200"`
	BirthDate *time.Time `json:"birth_date" binding:"omitempty" time_format:"2006-01-02"`
	Gender    string     `json:"gender" binding:"omitempty,oneof=M F Otro"`
	Phone     string     `json:"phone" binding:"omitempty,max=20"`
	Email     string     `json:"email" binding:"omitempty,email,max=200"`
}

// PatientResponse is the API representation of a patient
type PatientResponse struct {
	ID             uuid.UUID `json:"id"`
	DocumentNumber string    `json:"document_number"`
	FullName       string    `json:"full_name"`
	BirthDate      time.Time `json:"birth_date"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	Phone          string    `json:"phone,omitempty"`
	Email          string    `json:"email,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int       `json:"version"`
}

// PatientListFilter holds query parameters for listing patients
type PatientListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PatientTicketInfo describes one of a patient's active tickets
type PatientTicketInfo struct {
	TicketID          uuid.UUID `json:"ticket_id"`
	TicketNumber      string    `json:"ticket_number"`
	ServiceTypeID     uuid.UUID `json:"service_type_id"`
	ServiceCode       string    `json:"service_code"`
	ServiceName       string    `json:"service_name"`
	Status            string    `json:"status"`
	Position          int       `json:"position"`
	EstimatedWaitTime int       `json:"estimated_wait_time"`
	CreatedAt         time.Time `json:"created_at"`
}

// PatientQueueInfoResponse summarizes a patient's presence in the queues
type PatientQueueInfoResponse struct {
	PatientID     uuid.UUID           `json:"patient_id"`
	FullName      string              `json:"full_name"`
	ActiveTickets []PatientTicketInfo `json:"active_tickets"`
}

// ToPatientResponse converts a domain patient to its API representation
func ToPatientResponse(patient *registry.Patient) PatientResponse {
	return PatientResponse{
		ID:             patient.ID,
		DocumentNumber: patient.DocumentNumber,
		FullName:       patient.FullName,
		BirthDate:      patient.BirthDate,
		Age:            patient.Age(),
		Gender:         patient.Gender,
		Phone:          patient.Phone,
		Email:          patient.Email,
		IsActive:       patient.IsActive,
		CreatedAt:      patient.CreatedAt,
		UpdatedAt:      patient.UpdatedAt,
		Version:        patient.Version,
	}
}

// ToPatientResponses converts a slice of domain patients
func ToPatientResponses(patients []registry.Patient) []PatientResponse {
	responses := make([]PatientResponse, len(patients))
	for i := range patients {
		responses[i] = ToPatientResponse(&patients[i])
	}
	return responses
}

// ImportRosterResponse summarizes a bulk patient import
type ImportRosterResponse struct {
	TotalRows       int                  `json:"total_rows"`
	Imported        int                  `json:"imported"`
	Skipped         int                  `json:"skipped"`
	Failed          int                  `json:"failed"`
	Errors          []csvimport.RowError `json:"errors,omitempty"`
	ErrorsTruncated bool                 `json:"errors_truncated,omitempty"`
}
