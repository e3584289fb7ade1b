package handler

import (
	"github.com/gin-gonic/gin"

	clinicapp "github.com/vetcare/backend/internal/application/clinic"
	"github.com/vetcare/backend/internal/domain/clinic"
)

// AnimalHandler handles patient animal API endpoints
type AnimalHandler struct {
	BaseHandler
	animalService *clinicapp.AnimalService
}

// NewAnimalHandler creates a new AnimalHandler
func NewAnimalHandler(animalService *clinicapp.AnimalService) *AnimalHandler {
	return &AnimalHandler{animalService: animalService}
}

// ChangeAnimalStatusRequest represents a patient status transition
type ChangeAnimalStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE DECEASED"`
}

// Register registers a new patient animal
func (h *AnimalHandler) Register(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req clinicapp.RegisterAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	animal, err := h.animalService.Register(c.Request.Context(), hospitalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, animal)
}

// GetByID retrieves an animal
func (h *AnimalHandler) GetByID(c *gin.Context) {
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

	animal, err := h.animalService.GetByID(c.Request.Context(), hospitalID, animalID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, animal)
}

// List retrieves animals with optional filtering
func (h *AnimalHandler) List(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	filter := clinicapp.AnimalListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
		Species:  c.Query("species"),
	}
	guardianID, err := queryUUIDPtr(c, "guardian_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.GuardianID = guardianID
	if statusStr := c.Query("status"); statusStr != "" {
		status := clinic.AnimalStatus(statusStr)
		filter.Status = &status
	}

	animals, total, err := h.animalService.List(c.Request.Context(), hospitalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, animals, total, filter.Page, filter.PageSize)
}

// ListByGuardian retrieves all animals linked to a guardian
func (h *AnimalHandler) ListByGuardian(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	guardianID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	animals, err := h.animalService.ListByGuardian(c.Request.Context(), hospitalID, guardianID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, animals)
}

// Update updates an animal's details
func (h *AnimalHandler) Update(c *gin.Context) {
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

	var req clinicapp.UpdateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	animal, err := h.animalService.Update(c.Request.Context(), hospitalID, animalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, animal)
}

// ChangeStatus transitions an animal between active, inactive and deceased
func (h *AnimalHandler) ChangeStatus(c *gin.Context) {
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

	var req ChangeAnimalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	animal, err := h.animalService.ChangeStatus(c.Request.Context(), hospitalID, animalID, clinic.AnimalStatus(req.Status))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, animal)
}
