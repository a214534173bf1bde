package reporting

import (
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/reporting"
)

// ActivityListFilter contains query parameters for the audit trail
type ActivityListFilter struct {
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	Action    string     `form:"action"`
	UserID    *uuid.UUID `form:"user_id"`
	StationID *uuid.UUID `form:"station_id"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}

// ActivityResponse is the API representation of an audit entry
type ActivityResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	TicketID  *uuid.UUID `json:"ticket_id,omitempty"`
	StationID *uuid.UUID `json:"station_id,omitempty"`
	Action    string     `json:"action"`
	Details   string     `json:"details,omitempty"`
	IPAddress string     `json:"ip_address,omitempty"`
	UserAgent string     `json:"user_agent,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToActivityResponse converts a domain audit entry to its response DTO
func ToActivityResponse(log *reporting.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:        log.ID,
		UserID:    log.UserID,
		TicketID:  log.TicketID,
		StationID: log.StationID,
		Action:    log.Action,
		Details:   log.Details,
		IPAddress: log.IPAddress,
		UserAgent: log.UserAgent,
		CreatedAt: log.CreatedAt,
	}
}

// ToActivityResponses converts a slice of audit entries
func ToActivityResponses(logs []reporting.ActivityLog) []ActivityResponse {
	responses := make([]ActivityResponse, len(logs))
	for i := range logs {
		responses[i] = ToActivityResponse(&logs[i])
	}
	return responses
}

// ReportRangeFilter bounds a report query to a date range. Zero values
// default to the last seven days.
type ReportRangeFilter struct {
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	ServiceTypeID *uuid.UUID `form:"service_type_id"`
}

// DailyMetricsResponse is the API representation of a daily rollup row
type DailyMetricsResponse struct {
	Date               time.Time  `json:"date"`
	ServiceTypeID      uuid.UUID  `json:"service_type_id"`
	StationID          *uuid.UUID `json:"station_id,omitempty"`
	TotalTickets       int        `json:"total_tickets"`
	CompletedTickets   int        `json:"completed_tickets"`
	CancelledTickets   int        `json:"cancelled_tickets"`
	NoShowTickets      int        `json:"no_show_tickets"`
	AverageWaitTime    float64    `json:"average_wait_time"`
	AverageServiceTime float64    `json:"average_service_time"`
	PeakHour           *int       `json:"peak_hour,omitempty"`
}

// ToDailyMetricsResponse converts a domain rollup row to its response DTO
func ToDailyMetricsResponse(m *reporting.DailyMetrics) DailyMetricsResponse {
	return DailyMetricsResponse{
		Date:               m.Date,
		ServiceTypeID:      m.ServiceTypeID,
		StationID:          m.StationID,
		TotalTickets:       m.TotalTickets,
		CompletedTickets:   m.CompletedTickets,
		CancelledTickets:   m.CancelledTickets,
		NoShowTickets:      m.NoShowTickets,
		AverageWaitTime:    m.AverageWaitTime,
		AverageServiceTime: m.AverageServiceTime,
		PeakHour:           m.PeakHour,
	}
}

// DashboardResponse is the operational snapshot for the admin landing page
type DashboardResponse struct {
	Date             time.Time                    `json:"date"`
	TotalToday       int64                        `json:"total_today"`
	Waiting          int64                        `json:"waiting"`
	InAttention      int64                        `json:"in_attention"`
	CompletedToday   int64                        `json:"completed_today"`
	CancelledToday   int64                        `json:"cancelled_today"`
	NoShowToday      int64                        `json:"no_show_today"`
	ServiceBreakdown []reporting.ServiceBreakdown `json:"service_breakdown"`
}
