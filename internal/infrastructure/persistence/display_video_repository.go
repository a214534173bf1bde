package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/display"
	"github.com/labqueue/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var displayVideoSortColumns = map[string]bool{
	"created_at":    true,
	"title":         true,
	"display_order": true,
}

// GormVideoRepository implements display.VideoRepository using GORM
type GormVideoRepository struct {
	db *gorm.DB
}

// NewGormVideoRepository creates a new GormVideoRepository
func NewGormVideoRepository(db *gorm.DB) *GormVideoRepository {
	return &GormVideoRepository{db: db}
}

// FindByID finds a video by its ID
func (r *GormVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*display.Video, error) {
	var video display.Video
	if err := r.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

// FindAll finds videos matching the filter
func (r *GormVideoRepository) FindAll(ctx context.Context, filter shared.Filter) ([]display.Video, error) {
	var videos []display.Video
	query := r.applyConditions(r.db.WithContext(ctx).Model(&display.Video{}), filter)
	query = applySort(query, filter, displayVideoSortColumns)
	query = applyPagination(query, filter)
	if err := query.Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

// FindActive returns the active playlist in display order
func (r *GormVideoRepository) FindActive(ctx context.Context, limit int) ([]display.Video, error) {
	var videos []display.Video
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, created_at ASC").
		Limit(limit).
		Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

// Save creates or updates a video
func (r *GormVideoRepository) Save(ctx context.Context, video *display.Video) error {
	return r.db.WithContext(ctx).Save(video).Error
}

// Delete removes a video from the playlist
func (r *GormVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&display.Video{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts videos matching the filter
func (r *GormVideoRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&display.Video{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByYouTubeID checks whether a YouTube ID is already in the playlist
func (r *GormVideoRepository) ExistsByYouTubeID(ctx context.Context, youtubeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&display.Video{}).
		Where("youtube_id = ?", youtubeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MaxDisplayOrder returns the highest order in use, or -1 for an empty playlist
func (r *GormVideoRepository) MaxDisplayOrder(ctx context.Context) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).Model(&display.Video{}).
		Select("MAX(display_order)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (r *GormVideoRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR youtube_id LIKE ?", term, filter.Search+"%")
	}
	return query
}

var _ display.VideoRepository = (*GormVideoRepository)(nil)
