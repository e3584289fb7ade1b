package clinic

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/clinic"
	"github.com/vetcare/backend/internal/domain/identity"
	"github.com/vetcare/backend/internal/domain/shared"
)

// AppointmentService handles appointment scheduling.
// A vet can hold only one active appointment per time slot.
type AppointmentService struct {
	appointmentRepo clinic.AppointmentRepository
	animalRepo      clinic.AnimalRepository
	userRepo        identity.UserRepository
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(appointmentRepo clinic.AppointmentRepository, animalRepo clinic.AnimalRepository, userRepo identity.UserRepository) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		animalRepo:      animalRepo,
		userRepo:        userRepo,
	}
}

// Schedule books a new appointment. Double-booking the vet is rejected.
func (s *AppointmentService) Schedule(ctx context.Context, hospitalID uuid.UUID, req ScheduleAppointmentRequest) (*AppointmentResponse, error) {
	animal, err := s.animalRepo.FindByIDForHospital(ctx, hospitalID, req.AnimalID)
	if err != nil {
		return nil, err
	}
	if animal.Status != clinic.AnimalStatusActive {
		return nil, shared.NewDomainError("INACTIVE_ANIMAL", "진료 중이 아닌 동물은 예약할 수 없습니다")
	}

	vet, err := s.userRepo.FindByIDForHospital(ctx, hospitalID, req.VetID)
	if err != nil {
		return nil, err
	}
	if vet.Role != identity.RoleVet {
		return nil, shared.NewDomainError("INVALID_VET", "수의사만 진료 예약을 받을 수 있습니다")
	}

	taken, err := s.appointmentRepo.ExistsOverlapping(ctx, hospitalID, req.VetID, req.ScheduledAt, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("SLOT_TAKEN", "해당 시간에 이미 예약이 있습니다")
	}

	appointment, err := clinic.NewAppointment(hospitalID, animal.ID, animal.GuardianID, req.VetID, req.ScheduledAt, req.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Save(ctx, appointment); err != nil {
		return nil, err
	}

	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// GetByID retrieves an appointment by ID
func (s *AppointmentService) GetByID(ctx context.Context, hospitalID, appointmentID uuid.UUID) (*AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByIDForHospital(ctx, hospitalID, appointmentID)
	if err != nil {
		return nil, err
	}

	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// List retrieves appointments with filtering and pagination
func (s *AppointmentService) List(ctx context.Context, hospitalID uuid.UUID, filter AppointmentListFilter) ([]AppointmentResponse, int64, error) {
	domainFilter := buildAppointmentFilter(filter)

	appointments, err := s.appointmentRepo.FindAllForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.appointmentRepo.CountForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToAppointmentResponses(appointments), total, nil
}

// Reschedule moves an appointment to a new slot. The new slot must also
// be free for the vet.
func (s *AppointmentService) Reschedule(ctx context.Context, hospitalID, appointmentID uuid.UUID, req RescheduleAppointmentRequest) (*AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByIDForHospital(ctx, hospitalID, appointmentID)
	if err != nil {
		return nil, err
	}

	excludeID := appointment.ID
	taken, err := s.appointmentRepo.ExistsOverlapping(ctx, hospitalID, appointment.VetID, req.ScheduledAt, &excludeID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("SLOT_TAKEN", "해당 시간에 이미 예약이 있습니다")
	}

	if err := appointment.Reschedule(req.ScheduledAt); err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Save(ctx, appointment); err != nil {
		return nil, err
	}

	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// ChangeStatus transitions an appointment through its lifecycle
func (s *AppointmentService) ChangeStatus(ctx context.Context, hospitalID, appointmentID uuid.UUID, req ChangeAppointmentStatusRequest) (*AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByIDForHospital(ctx, hospitalID, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := appointment.ChangeStatus(req.Status); err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Save(ctx, appointment); err != nil {
		return nil, err
	}

	response := ToAppointmentResponse(appointment)
	return &response, nil
}

func buildAppointmentFilter(filter AppointmentListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "scheduled_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	if filter.AnimalID != nil {
		domainFilter.Filters["animal_id"] = *filter.AnimalID
	}
	if filter.VetID != nil {
		domainFilter.Filters["vet_id"] = *filter.VetID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.DateFrom != nil {
		domainFilter.Filters["start_date"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		domainFilter.Filters["end_date"] = *filter.DateTo
	}

	return domainFilter
}
