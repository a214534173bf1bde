package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/application/registry"
	csvimport "github.com/labqueue/backend/internal/infrastructure/import"
)

// PatientHandler handles patient registry HTTP requests
type PatientHandler struct {
	BaseHandler
	patientService *registry.PatientService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(patientService *registry.PatientService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
	}
}

// Create godoc
// @Summary      Register a patient
// @Tags         patients
// @Router       /patients [post]
func (h *PatientHandler) Create(c *gin.Context) {
	var req registry.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.patientService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID godoc
// @Summary      Get a patient by ID
// @Tags         patients
// @Router       /patients/{id} [get]
func (h *PatientHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID")
		return
	}

	result, err := h.patientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByDocument godoc
// @Summary      Look up a patient by document number
// @Tags         patients
// @Router       /patients/document/{document} [get]
func (h *PatientHandler) GetByDocument(c *gin.Context) {
	document := c.Param("document")
	if document == "" {
		h.BadRequest(c, "Document number is required")
		return
	}

	result, err := h.patientService.GetByDocument(c.Request.Context(), document)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List patients with filters and pagination
// @Tags         patients
// @Router       /patients [get]
func (h *PatientHandler) List(c *gin.Context) {
	var filter registry.PatientListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	results, total, err := h.patientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// Search godoc
// @Summary      Search patients by name or document
// @Tags         patients
// @Router       /patients/search [get]
func (h *PatientHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		h.BadRequest(c, "Search term is required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	results, err := h.patientService.Search(c.Request.Context(), term, page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// Update godoc
// @Summary      Update a patient's contact data
// @Tags         patients
// @Router       /patients/{id} [put]
func (h *PatientHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID")
		return
	}

	var req registry.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.patientService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Deactivate godoc
// @Summary      Deactivate a patient record
// @Tags         patients
// @Router       /patients/{id} [delete]
func (h *PatientHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID")
		return
	}

	if err := h.patientService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Import godoc
// @Summary      Bulk-register patients from a CSV file
// @Tags         patients
// @Accept       multipart/form-data
// @Router       /patients/import [post]
func (h *PatientHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file is required in the 'file' form field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	var opts []csvimport.Option
	if c.Query("delimiter") == ";" {
		opts = append(opts, csvimport.WithDelimiter(';'))
	}

	result, err := h.patientService.ImportRoster(c.Request.Context(), file, opts...)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// QueueInfo godoc
// @Summary      Get a patient's tickets in today's queues
// @Tags         patients
// @Router       /patients/{id}/queue [get]
func (h *PatientHandler) QueueInfo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID")
		return
	}

	result, err := h.patientService.QueueInfo(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
