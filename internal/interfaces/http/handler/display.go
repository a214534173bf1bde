package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/application/display"
)

// DisplayHandler handles waiting-room playlist HTTP requests
type DisplayHandler struct {
	BaseHandler
	videoService *display.VideoService
}

// NewDisplayHandler creates a new display handler
func NewDisplayHandler(videoService *display.VideoService) *DisplayHandler {
	return &DisplayHandler{videoService: videoService}
}

// Playlist godoc
// @Summary      Get the active video playlist for the waiting-room screens
// @Tags         display
// @Router       /public/display/videos [get]
func (h *DisplayHandler) Playlist(c *gin.Context) {
	results, err := h.videoService.Playlist(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// List godoc
// @Summary      List playlist videos with filters and pagination
// @Tags         display
// @Router       /display/videos [get]
func (h *DisplayHandler) List(c *gin.Context) {
	var filter display.VideoListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	results, total, err := h.videoService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// Create godoc
// @Summary      Add a video to the playlist
// @Tags         display
// @Router       /display/videos [post]
func (h *DisplayHandler) Create(c *gin.Context) {
	var req display.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.videoService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID godoc
// @Summary      Get a playlist video by ID
// @Tags         display
// @Router       /display/videos/{id} [get]
func (h *DisplayHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid video ID")
		return
	}

	result, err := h.videoService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update godoc
// @Summary      Update a playlist video
// @Tags         display
// @Router       /display/videos/{id} [put]
func (h *DisplayHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid video ID")
		return
	}

	var req display.UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.videoService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ToggleActive godoc
// @Summary      Toggle whether a video plays on the displays
// @Tags         display
// @Router       /display/videos/{id}/toggle [post]
func (h *DisplayHandler) ToggleActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid video ID")
		return
	}

	result, err := h.videoService.ToggleActive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reorder godoc
// @Summary      Rewrite the playlist order
// @Tags         display
// @Router       /display/videos/reorder [put]
func (h *DisplayHandler) Reorder(c *gin.Context) {
	var req display.ReorderVideosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	results, err := h.videoService.Reorder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// Delete godoc
// @Summary      Remove a video from the playlist
// @Tags         display
// @Router       /display/videos/{id} [delete]
func (h *DisplayHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid video ID")
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
