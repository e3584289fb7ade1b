package clinic

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/clinic"
	"github.com/vetcare/backend/internal/domain/shared"
)

// MedicalRecordService handles clinical records of visits
type MedicalRecordService struct {
	recordRepo clinic.MedicalRecordRepository
	animalRepo clinic.AnimalRepository
}

// NewMedicalRecordService creates a new MedicalRecordService
func NewMedicalRecordService(recordRepo clinic.MedicalRecordRepository, animalRepo clinic.AnimalRepository) *MedicalRecordService {
	return &MedicalRecordService{
		recordRepo: recordRepo,
		animalRepo: animalRepo,
	}
}

// Create records a new visit
func (s *MedicalRecordService) Create(ctx context.Context, hospitalID uuid.UUID, req CreateMedicalRecordRequest) (*MedicalRecordResponse, error) {
	if _, err := s.animalRepo.FindByIDForHospital(ctx, hospitalID, req.AnimalID); err != nil {
		return nil, err
	}

	record, err := clinic.NewMedicalRecord(hospitalID, req.AnimalID, req.VetID, req.AppointmentID, req.Symptoms, req.Diagnosis, req.Treatment, req.Prescriptions, req.VisitedAt)
	if err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToMedicalRecordResponse(record)
	return &response, nil
}

// GetByID retrieves a medical record by ID
func (s *MedicalRecordService) GetByID(ctx context.Context, hospitalID, recordID uuid.UUID) (*MedicalRecordResponse, error) {
	record, err := s.recordRepo.FindByIDForHospital(ctx, hospitalID, recordID)
	if err != nil {
		return nil, err
	}

	response := ToMedicalRecordResponse(record)
	return &response, nil
}

// ListByAnimal retrieves the visit history of one animal
func (s *MedicalRecordService) ListByAnimal(ctx context.Context, hospitalID, animalID uuid.UUID, filter MedicalRecordListFilter) ([]MedicalRecordResponse, error) {
	if _, err := s.animalRepo.FindByIDForHospital(ctx, hospitalID, animalID); err != nil {
		return nil, err
	}

	records, err := s.recordRepo.FindByAnimal(ctx, hospitalID, animalID, buildRecordFilter(filter))
	if err != nil {
		return nil, err
	}

	return ToMedicalRecordResponses(records), nil
}

// List retrieves medical records with filtering and pagination
func (s *MedicalRecordService) List(ctx context.Context, hospitalID uuid.UUID, filter MedicalRecordListFilter) ([]MedicalRecordResponse, int64, error) {
	domainFilter := buildRecordFilter(filter)

	records, err := s.recordRepo.FindAllForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.recordRepo.CountForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToMedicalRecordResponses(records), total, nil
}

// Update revises a record that has not been finalized yet
func (s *MedicalRecordService) Update(ctx context.Context, hospitalID, recordID uuid.UUID, req UpdateMedicalRecordRequest) (*MedicalRecordResponse, error) {
	record, err := s.recordRepo.FindByIDForHospital(ctx, hospitalID, recordID)
	if err != nil {
		return nil, err
	}

	if err := record.Update(req.Symptoms, req.Diagnosis, req.Treatment, req.Prescriptions); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToMedicalRecordResponse(record)
	return &response, nil
}

// Finalize locks the record against further edits
func (s *MedicalRecordService) Finalize(ctx context.Context, hospitalID, recordID uuid.UUID) (*MedicalRecordResponse, error) {
	record, err := s.recordRepo.FindByIDForHospital(ctx, hospitalID, recordID)
	if err != nil {
		return nil, err
	}

	if err := record.Finalize(); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToMedicalRecordResponse(record)
	return &response, nil
}

func buildRecordFilter(filter MedicalRecordListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "visited_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
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
	if filter.DateFrom != nil {
		domainFilter.Filters["start_date"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		domainFilter.Filters["end_date"] = *filter.DateTo
	}

	return domainFilter
}
