package queueing

import (
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// QueueState is the live snapshot of a single queue. One row exists per
// (service type, station) pair; a nil StationID denotes the service's
// general queue that feeds all stations.
type QueueState struct {
	shared.BaseAggregateRoot
	ServiceTypeID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_queue_states_key"`
	StationID       *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_queue_states_key"`
	CurrentTicketID *uuid.UUID `gorm:"type:uuid"`
	NextTicketID    *uuid.UUID `gorm:"type:uuid"`
	QueueLength     int        `gorm:"not null;default:0"`
	AverageWaitTime int        `gorm:"not null;default:0"`
	LastUpdateAt    time.Time  `gorm:"not null"`
}

// TableName returns the database table name
func (QueueState) TableName() string {
	return "queue_states"
}

// NewQueueState creates an empty queue snapshot for the given key
func NewQueueState(serviceTypeID uuid.UUID, stationID *uuid.UUID) (*QueueState, error) {
	if serviceTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SERVICE_TYPE", "Queue state requires a service type")
	}
	return &QueueState{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ServiceTypeID:     serviceTypeID,
		StationID:         stationID,
		LastUpdateAt:      time.Now(),
	}, nil
}

// Advance promotes the next ticket to current and pulls the following
// waiting ticket in behind it. Advancing an empty queue leaves the
// snapshot unchanged apart from the update timestamp.
func (q *QueueState) Advance(followingTicketID *uuid.UUID) {
	if q.NextTicketID != nil {
		q.CurrentTicketID = q.NextTicketID
		q.NextTicketID = followingTicketID
		if q.QueueLength > 0 {
			q.QueueLength--
		}
	}
	q.markUpdated()
}

// Reset clears the queue snapshot
func (q *QueueState) Reset() {
	q.CurrentTicketID = nil
	q.NextTicketID = nil
	q.QueueLength = 0
	q.AverageWaitTime = 0
	q.markUpdated()
}

// Refresh overwrites the snapshot with values recomputed from the tickets table
func (q *QueueState) Refresh(currentTicketID, nextTicketID *uuid.UUID, queueLength int) {
	if queueLength < 0 {
		queueLength = 0
	}
	q.CurrentTicketID = currentTicketID
	q.NextTicketID = nextTicketID
	q.QueueLength = queueLength
	q.markUpdated()
}

// SetAverageWaitTime records a newly calculated average wait in minutes
func (q *QueueState) SetAverageWaitTime(minutes int) {
	if minutes < 0 {
		minutes = 0
	}
	q.AverageWaitTime = minutes
	q.markUpdated()
}

// IsIdle reports whether the queue holds no tickets at all
func (q *QueueState) IsIdle() bool {
	return q.QueueLength == 0 && q.CurrentTicketID == nil
}

// IsStale reports whether an idle queue has not been touched within maxAge
func (q *QueueState) IsStale(maxAge time.Duration) bool {
	return q.IsIdle() && time.Since(q.LastUpdateAt) > maxAge
}

func (q *QueueState) markUpdated() {
	q.LastUpdateAt = time.Now()
	q.Touch()
	q.IncrementVersion()
}
