package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/clinic"
	"github.com/vetcare/backend/internal/domain/partner"
	"github.com/vetcare/backend/internal/domain/shared"
)

// GuardianService handles guardian registration and lifecycle.
// Phone numbers are unique per hospital.
type GuardianService struct {
	guardianRepo partner.GuardianRepository
	animalRepo   clinic.AnimalRepository
}

// NewGuardianService creates a new GuardianService
func NewGuardianService(guardianRepo partner.GuardianRepository, animalRepo clinic.AnimalRepository) *GuardianService {
	return &GuardianService{
		guardianRepo: guardianRepo,
		animalRepo:   animalRepo,
	}
}

// Create registers a new guardian
func (s *GuardianService) Create(ctx context.Context, hospitalID uuid.UUID, req CreateGuardianRequest) (*GuardianResponse, error) {
	exists, err := s.guardianRepo.ExistsByPhone(ctx, hospitalID, req.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_PHONE", "이미 등록된 전화번호입니다")
	}

	guardian, err := partner.NewGuardian(hospitalID, req.Name, req.Phone, req.Email, req.Address)
	if err != nil {
		return nil, err
	}

	if err := s.guardianRepo.Save(ctx, guardian); err != nil {
		return nil, err
	}

	response := ToGuardianResponse(guardian)
	return &response, nil
}

// GetByID retrieves a guardian by ID
func (s *GuardianService) GetByID(ctx context.Context, hospitalID, guardianID uuid.UUID) (*GuardianResponse, error) {
	guardian, err := s.guardianRepo.FindByIDForHospital(ctx, hospitalID, guardianID)
	if err != nil {
		return nil, err
	}

	response := ToGuardianResponse(guardian)
	return &response, nil
}

// List retrieves guardians with filtering and pagination
func (s *GuardianService) List(ctx context.Context, hospitalID uuid.UUID, filter GuardianListFilter) ([]GuardianResponse, int64, error) {
	domainFilter := buildGuardianFilter(filter)

	guardians, err := s.guardianRepo.FindAllForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.guardianRepo.CountForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToGuardianResponses(guardians), total, nil
}

// Update updates a guardian's details. Changing the phone number to one
// already registered is rejected.
func (s *GuardianService) Update(ctx context.Context, hospitalID, guardianID uuid.UUID, req UpdateGuardianRequest) (*GuardianResponse, error) {
	guardian, err := s.guardianRepo.FindByIDForHospital(ctx, hospitalID, guardianID)
	if err != nil {
		return nil, err
	}

	if req.Phone != guardian.Phone {
		exists, err := s.guardianRepo.ExistsByPhone(ctx, hospitalID, req.Phone)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("DUPLICATE_PHONE", "이미 등록된 전화번호입니다")
		}
	}

	if err := guardian.Update(req.Name, req.Phone, req.Email, req.Address, req.Notes); err != nil {
		return nil, err
	}

	if err := s.guardianRepo.Save(ctx, guardian); err != nil {
		return nil, err
	}

	response := ToGuardianResponse(guardian)
	return &response, nil
}

// Deactivate deactivates a guardian
func (s *GuardianService) Deactivate(ctx context.Context, hospitalID, guardianID uuid.UUID) error {
	guardian, err := s.guardianRepo.FindByIDForHospital(ctx, hospitalID, guardianID)
	if err != nil {
		return err
	}

	guardian.Deactivate()
	return s.guardianRepo.Save(ctx, guardian)
}

// Delete removes a guardian that has no registered animals
func (s *GuardianService) Delete(ctx context.Context, hospitalID, guardianID uuid.UUID) error {
	if _, err := s.guardianRepo.FindByIDForHospital(ctx, hospitalID, guardianID); err != nil {
		return err
	}

	count, err := s.animalRepo.CountByGuardian(ctx, hospitalID, guardianID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("HAS_ANIMALS", "등록된 동물이 있는 보호자는 삭제할 수 없습니다")
	}

	return s.guardianRepo.DeleteForHospital(ctx, hospitalID, guardianID)
}

func buildGuardianFilter(filter GuardianListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	return domainFilter
}
