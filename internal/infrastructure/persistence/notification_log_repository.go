package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/notification"
	"github.com/labqueue/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var notificationSortColumns = map[string]bool{
	"created_at": true,
	"sent_at":    true,
	"status":     true,
}

// GormNotificationLogRepository implements notification.NotificationLogRepository using GORM
type GormNotificationLogRepository struct {
	db *gorm.DB
}

// NewGormNotificationLogRepository creates a new GormNotificationLogRepository
func NewGormNotificationLogRepository(db *gorm.DB) *GormNotificationLogRepository {
	return &GormNotificationLogRepository{db: db}
}

// FindByID finds a notification entry by ID
func (r *GormNotificationLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.NotificationLog, error) {
	var entry notification.NotificationLog
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByTicket returns the notifications produced for a ticket
func (r *GormNotificationLogRepository) FindByTicket(ctx context.Context, ticketID uuid.UUID) ([]notification.NotificationLog, error) {
	var entries []notification.NotificationLog
	if err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll finds notifications matching the filter
func (r *GormNotificationLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.NotificationLog, error) {
	var entries []notification.NotificationLog
	query := r.applyConditions(r.db.WithContext(ctx).Model(&notification.NotificationLog{}), filter)
	query = applySort(query, filter, notificationSortColumns)
	query = applyPagination(query, filter)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindFailed returns the failed notifications, most recent first
func (r *GormNotificationLogRepository) FindFailed(ctx context.Context, filter shared.Filter) ([]notification.NotificationLog, error) {
	var entries []notification.NotificationLog
	query := r.db.WithContext(ctx).Model(&notification.NotificationLog{}).
		Where("status = ?", notification.NotificationStatusFailed).
		Order("created_at DESC")
	query = applyPagination(query, filter)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Save creates or updates a notification entry
func (r *GormNotificationLogRepository) Save(ctx context.Context, log *notification.NotificationLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

// Count counts notifications matching the filter
func (r *GormNotificationLogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&notification.NotificationLog{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormNotificationLogRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if notifType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", notifType)
	}
	if ticketID, ok := filter.Filters["ticket_id"]; ok {
		query = query.Where("ticket_id = ?", ticketID)
	}
	return query
}

var _ notification.NotificationLogRepository = (*GormNotificationLogRepository)(nil)
