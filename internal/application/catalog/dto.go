package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/catalog"
)

// CreateServiceTypeRequest represents a request to create a service type
type CreateServiceTypeRequest struct {
	Code               string `json:"code" binding:"required,min=1,max=10"`
	Name               string `json:"name" binding:"required,min=1,max=100"`
	Description        string `json:"description" binding:"max=2000"`
	TicketPrefix       string `json:"ticket_prefix" binding:"max=5"`
	Priority           int    `json:"priority" binding:"omitempty,min=1,max=5"`
	AverageTimeMinutes int    `json:"average_time_minutes" binding:"omitempty,min=1"`
	Color              string `json:"color" binding:"omitempty,len=7"`
}

// UpdateServiceTypeRequest represents a request to update a service type
type UpdateServiceTypeRequest struct {
	Name               string `json:"name" binding:"omitempty,min=1,max=100"`
	Description        string `json:"description" binding:"max=2000"`
	Priority           int    `json:"priority" binding:"omitempty,min=1,max=5"`
	AverageTimeMinutes int    `json:"average_time_minutes" binding:"omitempty,min=1"`
	Color              string `json:"color" binding:"omitempty,len=7"`
}

// ServiceTypeResponse represents a service type in API responses
type ServiceTypeResponse struct {
	ID                 uuid.UUID `json:"id"`
	Code               string    `json:"code"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	TicketPrefix       string    `json:"ticket_prefix"`
	Priority           int       `json:"priority"`
	AverageTimeMinutes int       `json:"average_time_minutes"`
	Color              string    `json:"color"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Version            int       `json:"version"`
}

// ServiceTypeListFilter represents filter options for the service type list
type ServiceTypeListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ServiceTypeStatsResponse holds today's ticket counts for a service type
type ServiceTypeStatsResponse struct {
	ServiceTypeID uuid.UUID        `json:"service_type_id"`
	Code          string           `json:"code"`
	Date          string           `json:"date"`
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// CodeAvailabilityResponse reports whether a code or prefix is free
type CodeAvailabilityResponse struct {
	Value     string `json:"value"`
	Available bool   `json:"available"`
}

// ToServiceTypeResponse converts a domain ServiceType to a response DTO
func ToServiceTypeResponse(st *catalog.ServiceType) ServiceTypeResponse {
	return ServiceTypeResponse{
		ID:                 st.ID,
		Code:               st.Code,
		Name:               st.Name,
		Description:        st.Description,
		TicketPrefix:       st.TicketPrefix,
		Priority:           st.Priority,
		AverageTimeMinutes: st.AverageTimeMinutes,
		Color:              st.Color,
		IsActive:           st.IsActive,
		CreatedAt:          st.CreatedAt,
		UpdatedAt:          st.UpdatedAt,
		Version:            st.Version,
	}
}

// ToServiceTypeResponses converts a slice of service types
func ToServiceTypeResponses(serviceTypes []catalog.ServiceType) []ServiceTypeResponse {
	responses := make([]ServiceTypeResponse, len(serviceTypes))
	for i := range serviceTypes {
		responses[i] = ToServiceTypeResponse(&serviceTypes[i])
	}
	return responses
}
