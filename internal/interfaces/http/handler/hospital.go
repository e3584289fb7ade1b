package handler

import (
	"github.com/gin-gonic/gin"

	clinicapp "github.com/vetcare/backend/internal/application/clinic"
)

// HospitalHandler handles hospital onboarding and profile endpoints
type HospitalHandler struct {
	BaseHandler
	hospitalService *clinicapp.HospitalService
}

// NewHospitalHandler creates a new HospitalHandler
func NewHospitalHandler(hospitalService *clinicapp.HospitalService) *HospitalHandler {
	return &HospitalHandler{hospitalService: hospitalService}
}

// Register onboards a new hospital together with its first admin account.
// This endpoint is unauthenticated and listed in the JWT skip paths.
func (h *HospitalHandler) Register(c *gin.Context) {
	var req clinicapp.RegisterHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	hospital, err := h.hospitalService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, hospital)
}

// GetCurrent retrieves the authenticated user's hospital profile
func (h *HospitalHandler) GetCurrent(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	hospital, err := h.hospitalService.GetByID(c.Request.Context(), hospitalID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, hospital)
}

// UpdateCurrent updates the authenticated user's hospital profile
func (h *HospitalHandler) UpdateCurrent(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req clinicapp.UpdateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	hospital, err := h.hospitalService.Update(c.Request.Context(), hospitalID, getRole(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, hospital)
}
