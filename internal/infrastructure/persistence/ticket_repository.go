package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var ticketSortColumns = map[string]bool{
	"created_at":    true,
	"ticket_number": true,
	"position":      true,
	"status":        true,
	"priority":      true,
	"called_at":     true,
}

// GormTicketRepository implements queueing.TicketRepository using GORM
type GormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository creates a new GormTicketRepository
func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// dayBounds returns the half-open [start, end) window of the day's local date
func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.Add(24 * time.Hour)
}

// FindByID finds a ticket by ID
func (r *GormTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*queueing.Ticket, error) {
	var ticket queueing.Ticket
	if err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// FindByNumber finds a ticket by display number among the day's tickets
func (r *GormTicketRepository) FindByNumber(ctx context.Context, number string, day time.Time) (*queueing.Ticket, error) {
	start, end := dayBounds(day)
	var ticket queueing.Ticket
	if err := r.db.WithContext(ctx).
		Where("ticket_number = ? AND created_at >= ? AND created_at < ?", number, start, end).
		Order("created_at DESC").
		First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// FindAll finds tickets matching the filter
func (r *GormTicketRepository) FindAll(ctx context.Context, filter shared.Filter) ([]queueing.Ticket, error) {
	var tickets []queueing.Ticket
	query := r.applyFilter(r.db.WithContext(ctx).Model(&queueing.Ticket{}), filter)
	if err := query.Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// Save creates or updates a ticket
func (r *GormTicketRepository) Save(ctx context.Context, ticket *queueing.Ticket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

// issueAttempts bounds the retries when concurrent issuers collide on a
// ticket number
const issueAttempts = 3

// Issue assigns the next daily sequence and queue position inside a
// transaction and inserts the ticket built from them. The unique index on
// (service_type_id, ticket_number, day) rejects a concurrent issuer that
// raced to the same number; the insert is then retried with fresh counts.
func (r *GormTicketRepository) Issue(ctx context.Context, serviceTypeID uuid.UUID, day time.Time, build func(sequence, position int) (*queueing.Ticket, error)) (*queueing.Ticket, error) {
	start, end := dayBounds(day)
	var ticket *queueing.Ticket

	for attempt := 0; attempt < issueAttempts; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var issued int64
			if err := tx.Model(&queueing.Ticket{}).
				Where("service_type_id = ? AND created_at >= ? AND created_at < ?", serviceTypeID, start, end).
				Count(&issued).Error; err != nil {
				return err
			}
			var active int64
			if err := tx.Model(&queueing.Ticket{}).
				Where("service_type_id = ? AND status IN ?", serviceTypeID, queueing.ActiveStatuses()).
				Count(&active).Error; err != nil {
				return err
			}

			built, err := build(int(issued)+1, int(active)+1)
			if err != nil {
				return err
			}
			if err := tx.Create(built).Error; err != nil {
				return err
			}
			ticket = built
			return nil
		})
		if err == nil {
			return ticket, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, shared.NewDomainError("CONFLICT", "could not issue a unique ticket number")
}

// Count counts tickets matching the filter
func (r *GormTicketRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&queueing.Ticket{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindWaiting returns the waiting tickets of a service in position order
func (r *GormTicketRepository) FindWaiting(ctx context.Context, serviceTypeID uuid.UUID) ([]queueing.Ticket, error) {
	var tickets []queueing.Ticket
	if err := r.db.WithContext(ctx).
		Where("service_type_id = ? AND status = ?", serviceTypeID, queueing.TicketStatusWaiting).
		Order("position ASC, created_at ASC").
		Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// FindFirstWaiting returns the head of a service's waiting queue
func (r *GormTicketRepository) FindFirstWaiting(ctx context.Context, serviceTypeID uuid.UUID) (*queueing.Ticket, error) {
	var ticket queueing.Ticket
	if err := r.db.WithContext(ctx).
		Where("service_type_id = ? AND status = ?", serviceTypeID, queueing.TicketStatusWaiting).
		Order("position ASC, created_at ASC").
		First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// FindCurrentHead returns the most recently called or in-progress ticket of a service
func (r *GormTicketRepository) FindCurrentHead(ctx context.Context, serviceTypeID uuid.UUID) (*queueing.Ticket, error) {
	var ticket queueing.Ticket
	if err := r.db.WithContext(ctx).
		Where("service_type_id = ? AND status IN ?", serviceTypeID,
			[]queueing.TicketStatus{queueing.TicketStatusCalled, queueing.TicketStatusInProgress}).
		Order("called_at DESC").
		First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// FindActiveByPatient returns the patient's active tickets
func (r *GormTicketRepository) FindActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]queueing.Ticket, error) {
	var tickets []queueing.Ticket
	if err := r.db.WithContext(ctx).
		Where("patient_id = ? AND status IN ?", patientID, queueing.ActiveStatuses()).
		Order("created_at ASC").
		Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// CountWaiting counts a service's waiting tickets
func (r *GormTicketRepository) CountWaiting(ctx context.Context, serviceTypeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&queueing.Ticket{}).
		Where("service_type_id = ? AND status = ?", serviceTypeID, queueing.TicketStatusWaiting).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActive counts a service's tickets still occupying the queue
func (r *GormTicketRepository) CountActive(ctx context.Context, serviceTypeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&queueing.Ticket{}).
		Where("service_type_id = ? AND status IN ?", serviceTypeID, queueing.ActiveStatuses()).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountCreatedOn counts the tickets a service issued on the given day,
// which drives the daily display-number sequence
func (r *GormTicketRepository) CountCreatedOn(ctx context.Context, serviceTypeID uuid.UUID, day time.Time) (int64, error) {
	start, end := dayBounds(day)
	var count int64
	if err := r.db.WithContext(ctx).Model(&queueing.Ticket{}).
		Where("service_type_id = ? AND created_at >= ? AND created_at < ?", serviceTypeID, start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasActiveForPatient reports whether the patient already holds an active
// ticket for the service
func (r *GormTicketRepository) HasActiveForPatient(ctx context.Context, patientID, serviceTypeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&queueing.Ticket{}).
		Where("patient_id = ? AND service_type_id = ? AND status IN ?",
			patientID, serviceTypeID, queueing.ActiveStatuses()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindCompletedBetween returns a service's completed tickets in the window
func (r *GormTicketRepository) FindCompletedBetween(ctx context.Context, serviceTypeID uuid.UUID, from, to time.Time) ([]queueing.Ticket, error) {
	var tickets []queueing.Ticket
	if err := r.db.WithContext(ctx).
		Where("service_type_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			serviceTypeID, queueing.TicketStatusCompleted, from, to).
		Order("completed_at ASC").
		Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// StatusCountsOn returns the per-status ticket counts for a day
func (r *GormTicketRepository) StatusCountsOn(ctx context.Context, serviceTypeID *uuid.UUID, day time.Time) (map[queueing.TicketStatus]int64, error) {
	start, end := dayBounds(day)
	var rows []struct {
		Status queueing.TicketStatus
		Total  int64
	}
	query := r.db.WithContext(ctx).Model(&queueing.Ticket{}).
		Select("status, COUNT(*) AS total").
		Where("created_at >= ? AND created_at < ?", start, end)
	if serviceTypeID != nil {
		query = query.Where("service_type_id = ?", *serviceTypeID)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[queueing.TicketStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// CountInProgress counts tickets currently being attended across all services
func (r *GormTicketRepository) CountInProgress(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&queueing.Ticket{}).
		Where("status = ?", queueing.TicketStatusInProgress).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountCompletedOn counts tickets completed on the given day
func (r *GormTicketRepository) CountCompletedOn(ctx context.Context, day time.Time) (int64, error) {
	start, end := dayBounds(day)
	var count int64
	if err := r.db.WithContext(ctx).Model(&queueing.Ticket{}).
		Where("status = ? AND completed_at >= ? AND completed_at < ?",
			queueing.TicketStatusCompleted, start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTicketRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if serviceTypeID, ok := filter.Filters["service_type_id"]; ok {
		query = query.Where("service_type_id = ?", serviceTypeID)
	}
	if stationID, ok := filter.Filters["station_id"]; ok {
		query = query.Where("station_id = ?", stationID)
	}
	if patientID, ok := filter.Filters["patient_id"]; ok {
		query = query.Where("patient_id = ?", patientID)
	}
	if day, ok := filter.Filters["day"].(time.Time); ok {
		start, end := dayBounds(day)
		query = query.Where("created_at >= ? AND created_at < ?", start, end)
	}
	if filter.Search != "" {
		query = query.Where("ticket_number LIKE ?", filter.Search+"%")
	}
	return query
}

func (r *GormTicketRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)
	query = applySort(query, filter, ticketSortColumns)
	return applyPagination(query, filter)
}

var _ queueing.TicketRepository = (*GormTicketRepository)(nil)
