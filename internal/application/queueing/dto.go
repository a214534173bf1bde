package queueing

import (
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/queueing"
)

// Actor identifies who performed an operation, for audit logging
type Actor struct {
	UserID    *uuid.UUID
	StationID *uuid.UUID
	IPAddress string
	UserAgent string
}

// CreateTicketRequest carries the data to issue a ticket
type CreateTicketRequest struct {
	PatientID     uuid.UUID `json:"patient_id" binding:"required"`
	ServiceTypeID uuid.UUID `json:"service_type_id" binding:"required"`
	Notes         string    `json:"notes" binding:"omitempty,max=500"`
}

// QuickTicketRequest issues a ticket from a kiosk, registering the
// patient on the fly when the document is unknown
type QuickTicketRequest struct {
	DocumentNumber string     `json:"document_number" binding:"required,min=5,max=20"`
	ServiceTypeID  uuid.UUID  `json:"service_type_id" binding:"required"`
	FullName       string     `json:"full_name" binding:"omitempty,min=2,max=200"`
	BirthDate      *time.Time `json:"birth_date" binding:"omitempty" time_format:"2006-01-02"`
	Gender         string     `json:"gender" binding:"omitempty,oneof=M F Otro"`
	Phone          string     `json:"phone" binding:"omitempty,max=20"`
}

// CallTicketRequest assigns the calling station
type CallTicketRequest struct {
	StationID uuid.UUID `json:"station_id" binding:"required"`
}

// CompleteTicketRequest optionally records attention notes
type CompleteTicketRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

// CancelTicketRequest aborts a ticket; NoShow marks a called patient
// who never appeared
type CancelTicketRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
	NoShow bool   `json:"no_show"`
}

// TransferTicketRequest moves a ticket to another service queue
type TransferTicketRequest struct {
	TargetServiceTypeID uuid.UUID `json:"target_service_type_id" binding:"required"`
}

// TicketResponse is the API representation of a ticket
type TicketResponse struct {
	ID                uuid.UUID  `json:"id"`
	TicketNumber      string     `json:"ticket_number"`
	PatientID         uuid.UUID  `json:"patient_id"`
	ServiceTypeID     uuid.UUID  `json:"service_type_id"`
	StationID         *uuid.UUID `json:"station_id,omitempty"`
	Status            string     `json:"status"`
	Position          int        `json:"position"`
	Priority          int        `json:"priority"`
	EstimatedWaitTime int        `json:"estimated_wait_time"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	CalledAt          *time.Time `json:"called_at,omitempty"`
	AttendedAt        *time.Time `json:"attended_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	ActualWaitTime    *int       `json:"actual_wait_time,omitempty"`
	ServiceTime       *int       `json:"service_time,omitempty"`
	Version           int        `json:"version"`
}

// TicketListFilter holds query parameters for listing tickets
type TicketListFilter struct {
	Status        string     `form:"status" binding:"omitempty,oneof=WAITING CALLED IN_PROGRESS COMPLETED CANCELLED NO_SHOW"`
	ServiceTypeID *uuid.UUID `form:"service_type_id"`
	StationID     *uuid.UUID `form:"station_id"`
	PatientID     *uuid.UUID `form:"patient_id"`
	Date          string     `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Search        string     `form:"search"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TicketPositionResponse reports where a ticket stands in its queue
type TicketPositionResponse struct {
	TicketID          uuid.UUID `json:"ticket_id"`
	TicketNumber      string    `json:"ticket_number"`
	Status            string    `json:"status"`
	Position          int       `json:"position"`
	PeopleAhead       int       `json:"people_ahead"`
	EstimatedWaitTime int       `json:"estimated_wait_time"`
}

// TicketStatsResponse summarizes today's ticket activity
type TicketStatsResponse struct {
	Date                  string           `json:"date"`
	Total                 int64            `json:"total"`
	ByStatus              map[string]int64 `json:"by_status"`
	AverageWaitMinutes    float64          `json:"average_wait_minutes"`
	AverageServiceMinutes float64          `json:"average_service_minutes"`
}

// QueueStateResponse is the API representation of a queue snapshot
type QueueStateResponse struct {
	ID              uuid.UUID  `json:"id"`
	ServiceTypeID   uuid.UUID  `json:"service_type_id"`
	StationID       *uuid.UUID `json:"station_id,omitempty"`
	CurrentTicketID *uuid.UUID `json:"current_ticket_id,omitempty"`
	NextTicketID    *uuid.UUID `json:"next_ticket_id,omitempty"`
	QueueLength     int        `json:"queue_length"`
	AverageWaitTime int        `json:"average_wait_time"`
	LastUpdateAt    time.Time  `json:"last_update_at"`
	Version         int        `json:"version"`
}

// QueueSummaryResponse is the dashboard-level view across all queues
type QueueSummaryResponse struct {
	TotalQueues     int     `json:"total_queues"`
	ActiveQueues    int     `json:"active_queues"`
	TotalWaiting    int64   `json:"total_waiting"`
	InAttention     int64   `json:"in_attention"`
	StationsBusy    int64   `json:"stations_busy"`
	AverageWaitTime float64 `json:"average_wait_time"`
	CompletedToday  int64   `json:"completed_today"`
}

// ConsistencyIssue describes one queue snapshot problem found by the check
type ConsistencyIssue struct {
	ServiceTypeID uuid.UUID  `json:"service_type_id"`
	StationID     *uuid.UUID `json:"station_id,omitempty"`
	Kind          string     `json:"kind"`
	Detail        string     `json:"detail"`
	Fixed         bool       `json:"fixed"`
}

// ConsistencyReport is the result of a queue consistency check
type ConsistencyReport struct {
	Checked int                `json:"checked"`
	Issues  []ConsistencyIssue `json:"issues"`
	Fixed   int                `json:"fixed"`
}

// CreateStationRequest carries the data to register a workstation
type CreateStationRequest struct {
	Code        string `json:"code" binding:"required,max=10"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateStationRequest carries the mutable station fields
type UpdateStationRequest struct {
	Name        string `json:"name" binding:"omitempty,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// SetStationStatusRequest changes a station's operational status
type SetStationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=AVAILABLE BREAK MAINTENANCE OFFLINE"`
}

// StationResponse is the API representation of a workstation
type StationResponse struct {
	ID              uuid.UUID  `json:"id"`
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status"`
	CurrentTicketID *uuid.UUID `json:"current_ticket_id,omitempty"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Version         int        `json:"version"`
}

// StationListFilter holds query parameters for listing stations
type StationListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=AVAILABLE BUSY BREAK MAINTENANCE OFFLINE"`
	IsActive *bool  `form:"is_active"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToTicketResponse converts a domain ticket to its API representation
func ToTicketResponse(ticket *queueing.Ticket) TicketResponse {
	return TicketResponse{
		ID:                ticket.ID,
		TicketNumber:      ticket.TicketNumber,
		PatientID:         ticket.PatientID,
		ServiceTypeID:     ticket.ServiceTypeID,
		StationID:         ticket.StationID,
		Status:            string(ticket.Status),
		Position:          ticket.Position,
		Priority:          ticket.Priority,
		EstimatedWaitTime: ticket.EstimatedWaitTime,
		Notes:             ticket.Notes,
		CreatedAt:         ticket.CreatedAt,
		CalledAt:          ticket.CalledAt,
		AttendedAt:        ticket.AttendedAt,
		CompletedAt:       ticket.CompletedAt,
		ActualWaitTime:    ticket.ActualWaitTime(),
		ServiceTime:       ticket.ServiceTime(),
		Version:           ticket.Version,
	}
}

// ToTicketResponses converts a slice of domain tickets
func ToTicketResponses(tickets []queueing.Ticket) []TicketResponse {
	responses := make([]TicketResponse, len(tickets))
	for i := range tickets {
		responses[i] = ToTicketResponse(&tickets[i])
	}
	return responses
}

// ToQueueStateResponse converts a domain queue snapshot
func ToQueueStateResponse(state *queueing.QueueState) QueueStateResponse {
	return QueueStateResponse{
		ID:              state.ID,
		ServiceTypeID:   state.ServiceTypeID,
		StationID:       state.StationID,
		CurrentTicketID: state.CurrentTicketID,
		NextTicketID:    state.NextTicketID,
		QueueLength:     state.QueueLength,
		AverageWaitTime: state.AverageWaitTime,
		LastUpdateAt:    state.LastUpdateAt,
		Version:         state.Version,
	}
}

// ToQueueStateResponses converts a slice of domain queue snapshots
func ToQueueStateResponses(states []queueing.QueueState) []QueueStateResponse {
	responses := make([]QueueStateResponse, len(states))
	for i := range states {
		responses[i] = ToQueueStateResponse(&states[i])
	}
	return responses
}

// ToStationResponse converts a domain station to its API representation
func ToStationResponse(station *queueing.Station) StationResponse {
	return StationResponse{
		ID:              station.ID,
		Code:            station.Code,
		Name:            station.Name,
		Description:     station.Description,
		Status:          string(station.Status),
		CurrentTicketID: station.CurrentTicketID,
		IsActive:        station.IsActive,
		CreatedAt:       station.CreatedAt,
		UpdatedAt:       station.UpdatedAt,
		Version:         station.Version,
	}
}

// ToStationResponses converts a slice of domain stations
func ToStationResponses(stations []queueing.Station) []StationResponse {
	responses := make([]StationResponse, len(stations))
	for i := range stations {
		responses[i] = ToStationResponse(&stations[i])
	}
	return responses
}
