package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vetcare/backend/internal/application/partner"
)

// GuardianHandler handles animal guardian API endpoints
type GuardianHandler struct {
	BaseHandler
	guardianService *partner.GuardianService
}

// NewGuardianHandler creates a new GuardianHandler
func NewGuardianHandler(guardianService *partner.GuardianService) *GuardianHandler {
	return &GuardianHandler{guardianService: guardianService}
}

// Create registers a new guardian
func (h *GuardianHandler) Create(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req partner.CreateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	guardian, err := h.guardianService.Create(c.Request.Context(), hospitalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, guardian)
}

// GetByID retrieves a guardian
func (h *GuardianHandler) GetByID(c *gin.Context) {
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

	guardian, err := h.guardianService.GetByID(c.Request.Context(), hospitalID, guardianID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, guardian)
}

// List retrieves guardians with optional filtering
func (h *GuardianHandler) List(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	active, err := queryBoolPtr(c, "active")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := partner.GuardianListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
		Active:   active,
	}

	guardians, total, err := h.guardianService.List(c.Request.Context(), hospitalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, guardians, total, filter.Page, filter.PageSize)
}

// Update updates a guardian's details
func (h *GuardianHandler) Update(c *gin.Context) {
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

	var req partner.UpdateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	guardian, err := h.guardianService.Update(c.Request.Context(), hospitalID, guardianID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, guardian)
}

// Deactivate disables a guardian
func (h *GuardianHandler) Deactivate(c *gin.Context) {
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

	if err := h.guardianService.Deactivate(c.Request.Context(), hospitalID, guardianID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a guardian with no linked animals
func (h *GuardianHandler) Delete(c *gin.Context) {
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

	if err := h.guardianService.Delete(c.Request.Context(), hospitalID, guardianID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
