package display

import (
	"context"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/display"
	"github.com/labqueue/backend/internal/domain/shared"
)

// playlistLimit caps how many videos the waiting-room screens cycle through
const playlistLimit = 50

// VideoService manages the waiting-room video playlist
type VideoService struct {
	videoRepo display.VideoRepository
}

// NewVideoService creates a new VideoService
func NewVideoService(videoRepo display.VideoRepository) *VideoService {
	return &VideoService{videoRepo: videoRepo}
}

// Create adds a video to the playlist. Without an explicit order the video
// goes to the end.
func (s *VideoService) Create(ctx context.Context, req CreateVideoRequest) (*VideoResponse, error) {
	exists, err := s.videoRepo.ExistsByYouTubeID(ctx, req.YouTubeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Video is already in the playlist")
	}

	order := 0
	if req.DisplayOrder != nil {
		order = *req.DisplayOrder
	} else {
		max, err := s.videoRepo.MaxDisplayOrder(ctx)
		if err != nil {
			return nil, err
		}
		order = max + 1
	}

	video, err := display.NewVideo(req.YouTubeID, req.Title, req.Description, order)
	if err != nil {
		return nil, err
	}
	if err := s.videoRepo.Save(ctx, video); err != nil {
		return nil, err
	}

	resp := ToVideoResponse(video)
	return &resp, nil
}

// GetByID returns a playlist video by ID
func (s *VideoService) GetByID(ctx context.Context, id uuid.UUID) (*VideoResponse, error) {
	video, err := s.videoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToVideoResponse(video)
	return &resp, nil
}

// List returns playlist videos matching the filter with the total count
func (s *VideoService) List(ctx context.Context, filter VideoListFilter) ([]VideoResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = "display_order"
	domainFilter.OrderDir = "asc"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	videos, err := s.videoRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.videoRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToVideoResponses(videos), total, nil
}

// Playlist returns the active videos in display order for the public screens
func (s *VideoService) Playlist(ctx context.Context) ([]VideoResponse, error) {
	videos, err := s.videoRepo.FindActive(ctx, playlistLimit)
	if err != nil {
		return nil, err
	}
	return ToVideoResponses(videos), nil
}

// Update modifies a playlist video
func (s *VideoService) Update(ctx context.Context, id uuid.UUID, req UpdateVideoRequest) (*VideoResponse, error) {
	video, err := s.videoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := video.Update(req.Title, req.Description, req.DisplayOrder); err != nil {
		return nil, err
	}
	if err := s.videoRepo.Save(ctx, video); err != nil {
		return nil, err
	}
	resp := ToVideoResponse(video)
	return &resp, nil
}

// ToggleActive flips whether the video plays on the displays
func (s *VideoService) ToggleActive(ctx context.Context, id uuid.UUID) (*VideoResponse, error) {
	video, err := s.videoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	video.ToggleActive()
	if err := s.videoRepo.Save(ctx, video); err != nil {
		return nil, err
	}
	resp := ToVideoResponse(video)
	return &resp, nil
}

// Reorder rewrites the playlist order to match the given ID sequence
func (s *VideoService) Reorder(ctx context.Context, req ReorderVideosRequest) ([]VideoResponse, error) {
	responses := make([]VideoResponse, 0, len(req.VideoIDs))
	for position, id := range req.VideoIDs {
		video, err := s.videoRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := video.SetOrder(position); err != nil {
			return nil, err
		}
		if err := s.videoRepo.Save(ctx, video); err != nil {
			return nil, err
		}
		responses = append(responses, ToVideoResponse(video))
	}
	return responses, nil
}

// Delete removes a video from the playlist
func (s *VideoService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.videoRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.videoRepo.Delete(ctx, id)
}
