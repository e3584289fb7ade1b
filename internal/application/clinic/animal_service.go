package clinic

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/clinic"
	"github.com/vetcare/backend/internal/domain/partner"
	"github.com/vetcare/backend/internal/domain/shared"
)

// AnimalService handles patient animal registration and lifecycle
type AnimalService struct {
	animalRepo   clinic.AnimalRepository
	guardianRepo partner.GuardianRepository
}

// NewAnimalService creates a new AnimalService
func NewAnimalService(animalRepo clinic.AnimalRepository, guardianRepo partner.GuardianRepository) *AnimalService {
	return &AnimalService{
		animalRepo:   animalRepo,
		guardianRepo: guardianRepo,
	}
}

// Register registers a new animal under a guardian
func (s *AnimalService) Register(ctx context.Context, hospitalID uuid.UUID, req RegisterAnimalRequest) (*AnimalResponse, error) {
	guardian, err := s.guardianRepo.FindByIDForHospital(ctx, hospitalID, req.GuardianID)
	if err != nil {
		return nil, err
	}
	if !guardian.Active {
		return nil, shared.NewDomainError("INACTIVE_GUARDIAN", "비활성화된 보호자에게는 동물을 등록할 수 없습니다")
	}

	animal, err := clinic.NewAnimal(hospitalID, guardian.ID, req.Name, req.Species, req.Breed, req.Sex, req.BirthDate, req.WeightKg)
	if err != nil {
		return nil, err
	}

	if err := s.animalRepo.Save(ctx, animal); err != nil {
		return nil, err
	}

	response := ToAnimalResponse(animal)
	return &response, nil
}

// GetByID retrieves an animal by ID
func (s *AnimalService) GetByID(ctx context.Context, hospitalID, animalID uuid.UUID) (*AnimalResponse, error) {
	animal, err := s.animalRepo.FindByIDForHospital(ctx, hospitalID, animalID)
	if err != nil {
		return nil, err
	}

	response := ToAnimalResponse(animal)
	return &response, nil
}

// List retrieves animals with filtering and pagination
func (s *AnimalService) List(ctx context.Context, hospitalID uuid.UUID, filter AnimalListFilter) ([]AnimalResponse, int64, error) {
	domainFilter := buildAnimalFilter(filter)

	animals, err := s.animalRepo.FindAllForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.animalRepo.CountForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToAnimalResponses(animals), total, nil
}

// ListByGuardian retrieves all animals of one guardian
func (s *AnimalService) ListByGuardian(ctx context.Context, hospitalID, guardianID uuid.UUID) ([]AnimalResponse, error) {
	if _, err := s.guardianRepo.FindByIDForHospital(ctx, hospitalID, guardianID); err != nil {
		return nil, err
	}

	animals, err := s.animalRepo.FindByGuardian(ctx, hospitalID, guardianID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	return ToAnimalResponses(animals), nil
}

// Update updates an animal's details
func (s *AnimalService) Update(ctx context.Context, hospitalID, animalID uuid.UUID, req UpdateAnimalRequest) (*AnimalResponse, error) {
	animal, err := s.animalRepo.FindByIDForHospital(ctx, hospitalID, animalID)
	if err != nil {
		return nil, err
	}

	if err := animal.Update(req.Name, req.Species, req.Breed, req.Sex, req.BirthDate, req.WeightKg, req.Neutered, req.Notes); err != nil {
		return nil, err
	}

	if err := s.animalRepo.Save(ctx, animal); err != nil {
		return nil, err
	}

	response := ToAnimalResponse(animal)
	return &response, nil
}

// ChangeStatus transitions an animal's lifecycle status
func (s *AnimalService) ChangeStatus(ctx context.Context, hospitalID, animalID uuid.UUID, status clinic.AnimalStatus) (*AnimalResponse, error) {
	animal, err := s.animalRepo.FindByIDForHospital(ctx, hospitalID, animalID)
	if err != nil {
		return nil, err
	}

	if err := animal.ChangeStatus(status); err != nil {
		return nil, err
	}

	if err := s.animalRepo.Save(ctx, animal); err != nil {
		return nil, err
	}

	response := ToAnimalResponse(animal)
	return &response, nil
}

func buildAnimalFilter(filter AnimalListFilter) shared.Filter {
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

	if filter.GuardianID != nil {
		domainFilter.Filters["guardian_id"] = *filter.GuardianID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.Species != "" {
		domainFilter.Filters["species"] = filter.Species
	}

	return domainFilter
}
