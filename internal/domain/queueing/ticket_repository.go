package queueing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// TicketRepository defines the persistence operations for tickets
type TicketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	// FindByNumber looks a ticket up by display number among tickets
	// created on the given day; numbers restart daily per service.
	FindByNumber(ctx context.Context, number string, day time.Time) (*Ticket, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Ticket, error)
	Save(ctx context.Context, ticket *Ticket) error
	// Issue atomically assigns the next daily sequence and queue position
	// for a service and inserts the ticket returned by build. Concurrent
	// issuers racing for the same number are retried with fresh counts.
	Issue(ctx context.Context, serviceTypeID uuid.UUID, day time.Time, build func(sequence, position int) (*Ticket, error)) (*Ticket, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindWaiting returns the waiting tickets of a service in position order
	FindWaiting(ctx context.Context, serviceTypeID uuid.UUID) ([]Ticket, error)
	// FindFirstWaiting returns the head of a service's waiting queue
	FindFirstWaiting(ctx context.Context, serviceTypeID uuid.UUID) (*Ticket, error)
	// FindCurrentHead returns the most recently called or in-progress
	// ticket of a service, if any
	FindCurrentHead(ctx context.Context, serviceTypeID uuid.UUID) (*Ticket, error)
	// FindActiveByPatient returns the patient's active tickets
	FindActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]Ticket, error)

	CountWaiting(ctx context.Context, serviceTypeID uuid.UUID) (int64, error)
	CountActive(ctx context.Context, serviceTypeID uuid.UUID) (int64, error)
	CountCreatedOn(ctx context.Context, serviceTypeID uuid.UUID, day time.Time) (int64, error)
	HasActiveForPatient(ctx context.Context, patientID, serviceTypeID uuid.UUID) (bool, error)

	// FindCompletedBetween returns completed tickets of a service within
	// the window, used for rolling wait-time averages
	FindCompletedBetween(ctx context.Context, serviceTypeID uuid.UUID, from, to time.Time) ([]Ticket, error)
	// StatusCountsOn returns the per-status ticket counts for a day;
	// a nil service filter aggregates across all services
	StatusCountsOn(ctx context.Context, serviceTypeID *uuid.UUID, day time.Time) (map[TicketStatus]int64, error)
	CountInProgress(ctx context.Context) (int64, error)
	CountCompletedOn(ctx context.Context, day time.Time) (int64, error)
}
