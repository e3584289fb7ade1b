package handler

import (
	"github.com/gin-gonic/gin"

	clinicapp "github.com/vetcare/backend/internal/application/clinic"
	"github.com/vetcare/backend/internal/domain/clinic"
)

// AppointmentHandler handles appointment scheduling API endpoints
type AppointmentHandler struct {
	BaseHandler
	appointmentService *clinicapp.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(appointmentService *clinicapp.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// Schedule books a new appointment
func (h *AppointmentHandler) Schedule(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req clinicapp.ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.appointmentService.Schedule(c.Request.Context(), hospitalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, appointment)
}

// GetByID retrieves an appointment
func (h *AppointmentHandler) GetByID(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	appointmentID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.appointmentService.GetByID(c.Request.Context(), hospitalID, appointmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, appointment)
}

// List retrieves appointments with optional filtering
func (h *AppointmentHandler) List(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	filter := clinicapp.AppointmentListFilter{
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

	if statusStr := c.Query("status"); statusStr != "" {
		status := clinic.AppointmentStatus(statusStr)
		filter.Status = &status
	}

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

	appointments, total, err := h.appointmentService.List(c.Request.Context(), hospitalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, appointments, total, filter.Page, filter.PageSize)
}

// Reschedule moves an appointment to a new time slot
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	appointmentID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req clinicapp.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.appointmentService.Reschedule(c.Request.Context(), hospitalID, appointmentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, appointment)
}

// ChangeStatus transitions an appointment through its lifecycle
func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	appointmentID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req clinicapp.ChangeAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.appointmentService.ChangeStatus(c.Request.Context(), hospitalID, appointmentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, appointment)
}
