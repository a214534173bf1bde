package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TicketsByDay is a read model row for the daily ticket trend
type TicketsByDay struct {
	Date      time.Time `json:"date"`
	Total     int64     `json:"total"`
	Completed int64     `json:"completed"`
	Cancelled int64     `json:"cancelled"`
	NoShow    int64     `json:"no_show"`
}

// TicketsByHour is a read model row for intraday load
type TicketsByHour struct {
	Hour  int   `json:"hour"`
	Total int64 `json:"total"`
}

// ServiceBreakdown aggregates ticket figures per service type
type ServiceBreakdown struct {
	ServiceTypeID      uuid.UUID `json:"service_type_id"`
	ServiceCode        string    `json:"service_code"`
	ServiceName        string    `json:"service_name"`
	Total              int64     `json:"total"`
	Completed          int64     `json:"completed"`
	AverageWaitTime    float64   `json:"average_wait_time"`
	AverageServiceTime float64   `json:"average_service_time"`
}

// StationBreakdown aggregates attended tickets per station
type StationBreakdown struct {
	StationID          uuid.UUID `json:"station_id"`
	StationCode        string    `json:"station_code"`
	StationName        string    `json:"station_name"`
	Attended           int64     `json:"attended"`
	Completed          int64     `json:"completed"`
	AverageServiceTime float64   `json:"average_service_time"`
}

// WaitTimeBucket is one bar of the wait-time histogram. UpToMinutes is
// the bucket's inclusive upper bound; the last bucket has no bound (-1).
type WaitTimeBucket struct {
	Label       string `json:"label"`
	UpToMinutes int    `json:"up_to_minutes"`
	Count       int64  `json:"count"`
}

// QueueReportFilter defines filtering options for report queries
type QueueReportFilter struct {
	From          time.Time
	To            time.Time
	ServiceTypeID *uuid.UUID
}

// QueueReportRepository defines read-only aggregate queries over the
// tickets table. These read models never touch aggregate state.
type QueueReportRepository interface {
	TicketsByDay(ctx context.Context, filter QueueReportFilter) ([]TicketsByDay, error)
	TicketsByHour(ctx context.Context, filter QueueReportFilter) ([]TicketsByHour, error)
	ServiceBreakdown(ctx context.Context, filter QueueReportFilter) ([]ServiceBreakdown, error)
	StationBreakdown(ctx context.Context, filter QueueReportFilter) ([]StationBreakdown, error)
	WaitTimeDistribution(ctx context.Context, filter QueueReportFilter) ([]WaitTimeBucket, error)
}
