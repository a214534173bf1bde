package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/application/catalog"
)

// ServiceTypeHandler handles service catalog HTTP requests
type ServiceTypeHandler struct {
	BaseHandler
	serviceTypeService *catalog.ServiceTypeService
}

// NewServiceTypeHandler creates a new service type handler
func NewServiceTypeHandler(serviceTypeService *catalog.ServiceTypeService) *ServiceTypeHandler {
	return &ServiceTypeHandler{
		serviceTypeService: serviceTypeService,
	}
}

// Create godoc
// @Summary      Create a service type
// @Tags         services
// @Router       /services [post]
func (h *ServiceTypeHandler) Create(c *gin.Context) {
	var req catalog.CreateServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.serviceTypeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID godoc
// @Summary      Get a service type by ID
// @Tags         services
// @Router       /services/{id} [get]
func (h *ServiceTypeHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	result, err := h.serviceTypeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByCode godoc
// @Summary      Get a service type by code
// @Tags         services
// @Router       /services/code/{code} [get]
func (h *ServiceTypeHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Service code is required")
		return
	}

	result, err := h.serviceTypeService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List service types with filters and pagination
// @Tags         services
// @Router       /services [get]
func (h *ServiceTypeHandler) List(c *gin.Context) {
	var filter catalog.ServiceTypeListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	results, total, err := h.serviceTypeService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// ListActive godoc
// @Summary      List active service types
// @Tags         services
// @Router       /services/active [get]
func (h *ServiceTypeHandler) ListActive(c *gin.Context) {
	results, err := h.serviceTypeService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// Update godoc
// @Summary      Update a service type
// @Tags         services
// @Router       /services/{id} [put]
func (h *ServiceTypeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	var req catalog.UpdateServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.serviceTypeService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Activate godoc
// @Summary      Reactivate a service type
// @Tags         services
// @Router       /services/{id}/activate [post]
func (h *ServiceTypeHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	result, err := h.serviceTypeService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Deactivate godoc
// @Summary      Deactivate a service type
// @Tags         services
// @Router       /services/{id}/deactivate [post]
func (h *ServiceTypeHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	result, err := h.serviceTypeService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete a service type with no ticket history
// @Tags         services
// @Router       /services/{id} [delete]
func (h *ServiceTypeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	if err := h.serviceTypeService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ValidateCode godoc
// @Summary      Check whether a service code is available
// @Tags         services
// @Router       /services/validate-code [get]
func (h *ServiceTypeHandler) ValidateCode(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		h.BadRequest(c, "Code is required")
		return
	}

	result, err := h.serviceTypeService.ValidateCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ValidatePrefix godoc
// @Summary      Check whether a ticket prefix is available
// @Tags         services
// @Router       /services/validate-prefix [get]
func (h *ServiceTypeHandler) ValidatePrefix(c *gin.Context) {
	prefix := c.Query("prefix")
	if prefix == "" {
		h.BadRequest(c, "Prefix is required")
		return
	}

	result, err := h.serviceTypeService.ValidatePrefix(c.Request.Context(), prefix)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Stats godoc
// @Summary      Get today's ticket stats for a service type
// @Tags         services
// @Router       /services/{id}/stats [get]
func (h *ServiceTypeHandler) Stats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service type ID")
		return
	}

	result, err := h.serviceTypeService.Stats(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// QuickSetup godoc
// @Summary      Seed the default laboratory service catalog
// @Tags         services
// @Router       /services/quick-setup [post]
func (h *ServiceTypeHandler) QuickSetup(c *gin.Context) {
	results, err := h.serviceTypeService.QuickSetup(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, results)
}
