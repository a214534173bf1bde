package display

import (
	"regexp"
	"strings"

	"github.com/labqueue/backend/internal/domain/shared"
)

// youtubeIDPattern accepts the URL-safe alphabet YouTube uses for video IDs
var youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)

// Video is a YouTube clip played on the waiting-room screens between
// queue updates.
type Video struct {
	shared.BaseAggregateRoot
	YouTubeID    string `gorm:"column:youtube_id;type:varchar(50);uniqueIndex;not null"`
	Title        string `gorm:"type:varchar(200)"`
	Description  string `gorm:"type:varchar(500)"`
	DisplayOrder int    `gorm:"not null;default:0;index"`
	IsActive     bool   `gorm:"not null;default:true;index"`
}

// TableName returns the database table name
func (Video) TableName() string {
	return "display_videos"
}

// NewVideo creates a playlist video with validated invariants
func NewVideo(youtubeID, title, description string, displayOrder int) (*Video, error) {
	youtubeID = strings.TrimSpace(youtubeID)
	if !youtubeIDPattern.MatchString(youtubeID) {
		return nil, shared.NewDomainError("INVALID_VIDEO_ID", "YouTube video ID must be 1-50 URL-safe characters")
	}

	title = strings.TrimSpace(title)
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Video title cannot exceed 200 characters")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Video description cannot exceed 500 characters")
	}
	if displayOrder < 0 {
		return nil, shared.NewDomainError("INVALID_ORDER", "Display order cannot be negative")
	}

	return &Video{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		YouTubeID:         youtubeID,
		Title:             title,
		Description:       description,
		DisplayOrder:      displayOrder,
		IsActive:          true,
	}, nil
}

// Update modifies the mutable fields of the video
func (v *Video) Update(title, description string, displayOrder *int) error {
	title = strings.TrimSpace(title)
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Video title cannot exceed 200 characters")
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Video description cannot exceed 500 characters")
	}
	if title != "" {
		v.Title = title
	}
	v.Description = description

	if displayOrder != nil {
		if *displayOrder < 0 {
			return shared.NewDomainError("INVALID_ORDER", "Display order cannot be negative")
		}
		v.DisplayOrder = *displayOrder
	}

	v.Touch()
	v.IncrementVersion()
	return nil
}

// SetOrder moves the video to the given playlist position
func (v *Video) SetOrder(order int) error {
	if order < 0 {
		return shared.NewDomainError("INVALID_ORDER", "Display order cannot be negative")
	}
	v.DisplayOrder = order
	v.Touch()
	v.IncrementVersion()
	return nil
}

// ToggleActive flips whether the video plays on the displays
func (v *Video) ToggleActive() {
	v.IsActive = !v.IsActive
	v.Touch()
	v.IncrementVersion()
}
