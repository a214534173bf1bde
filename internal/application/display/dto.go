package display

import (
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/display"
)

// CreateVideoRequest represents a request to add a playlist video
type CreateVideoRequest struct {
	YouTubeID    string `json:"youtube_id" binding:"required,min=1,max=50"`
	Title        string `json:"title" binding:"max=200"`
	Description  string `json:"description" binding:"max=500"`
	DisplayOrder *int   `json:"display_order" binding:"omitempty,min=0"`
}

// UpdateVideoRequest represents a request to update a playlist video
type UpdateVideoRequest struct {
	Title        string `json:"title" binding:"omitempty,max=200"`
	Description  string `json:"description" binding:"max=500"`
	DisplayOrder *int   `json:"display_order" binding:"omitempty,min=0"`
}

// ReorderVideosRequest replaces the playlist order with the given sequence
type ReorderVideosRequest struct {
	VideoIDs []uuid.UUID `json:"video_ids" binding:"required,min=1"`
}

// VideoListFilter represents filter options for the video list
type VideoListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// VideoResponse represents a playlist video in API responses
type VideoResponse struct {
	ID           uuid.UUID `json:"id"`
	YouTubeID    string    `json:"youtube_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// ToVideoResponse converts a domain Video to a response DTO
func ToVideoResponse(v *display.Video) VideoResponse {
	return VideoResponse{
		ID:           v.ID,
		YouTubeID:    v.YouTubeID,
		Title:        v.Title,
		Description:  v.Description,
		DisplayOrder: v.DisplayOrder,
		IsActive:     v.IsActive,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
		Version:      v.Version,
	}
}

// ToVideoResponses converts a slice of videos
func ToVideoResponses(videos []display.Video) []VideoResponse {
	responses := make([]VideoResponse, len(videos))
	for i := range videos {
		responses[i] = ToVideoResponse(&videos[i])
	}
	return responses
}
