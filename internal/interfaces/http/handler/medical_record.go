package handler

import (
	"github.com/gin-gonic/gin"

	clinicapp "github.com/vetcare/backend/internal/application/clinic"
)

// MedicalRecordHandler handles medical record API endpoints
type MedicalRecordHandler struct {
	BaseHandler
	recordService *clinicapp.MedicalRecordService
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler
func NewMedicalRecordHandler(recordService *clinicapp.MedicalRecordService) *MedicalRecordHandler {
	return &MedicalRecordHandler{recordService: recordService}
}

// Create records a clinical visit
func (h *MedicalRecordHandler) Create(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req clinicapp.CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.recordService.Create(c.Request.Context(), hospitalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, record)
}

// GetByID retrieves a medical record
func (h *MedicalRecordHandler) GetByID(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	recordID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.recordService.GetByID(c.Request.Context(), hospitalID, recordID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// List retrieves medical records with optional filtering
func (h *MedicalRecordHandler) List(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	filter := clinicapp.MedicalRecordListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}

	animalID, err := queryUUIDPtr(c, "animal_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.AnimalID = animalID

	vetID, err := queryUUIDPtr(c, "vet_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.VetID = vetID

	dateFrom, err := queryTimePtr(c, "date_from")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.DateFrom = dateFrom

	dateTo, err := queryTimePtr(c, "date_to")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.DateTo = dateTo

	records, total, err := h.recordService.List(c.Request.Context(), hospitalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// ListByAnimal retrieves an animal's clinical history
func (h *MedicalRecordHandler) ListByAnimal(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	animalID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	q := bindListQuery(c)
	filter := clinicapp.MedicalRecordListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}

	records, err := h.recordService.ListByAnimal(c.Request.Context(), hospitalID, animalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, records)
}

// Update revises an unfinalized medical record
func (h *MedicalRecordHandler) Update(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	recordID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req clinicapp.UpdateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.recordService.Update(c.Request.Context(), hospitalID, recordID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// Finalize locks a medical record against further edits
func (h *MedicalRecordHandler) Finalize(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	recordID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.recordService.Finalize(c.Request.Context(), hospitalID, recordID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}
