package clinic

import (
	"context"

	"github.com/google/uuid"

	"github.com/vetcare/backend/internal/domain/clinic"
	"github.com/vetcare/backend/internal/domain/identity"
	"github.com/vetcare/backend/internal/domain/shared"
)

// HospitalService handles hospital onboarding and profile management
type HospitalService struct {
	hospitalRepo clinic.HospitalRepository
	userRepo     identity.UserRepository
	txManager    shared.TransactionManager
}

// NewHospitalService creates a new HospitalService
func NewHospitalService(
	hospitalRepo clinic.HospitalRepository,
	userRepo identity.UserRepository,
	txManager shared.TransactionManager,
) *HospitalService {
	return &HospitalService{
		hospitalRepo: hospitalRepo,
		userRepo:     userRepo,
		txManager:    txManager,
	}
}

// RegisterHospitalRequest is the input for onboarding a hospital with
// its first administrator account
type RegisterHospitalRequest struct {
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password"`
	AdminName     string `json:"admin_name"`
	AdminEmail    string `json:"admin_email,omitempty"`
}

// UpdateHospitalRequest is the input for updating a hospital profile
type UpdateHospitalRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// HospitalResponse is the API representation of a hospital
type HospitalResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	LicenseNumber string    `json:"license_number"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	Active        bool      `json:"active"`
}

// ToHospitalResponse converts a hospital aggregate to its API representation
func ToHospitalResponse(h *clinic.Hospital) HospitalResponse {
	return HospitalResponse{
		ID:            h.ID,
		Name:          h.Name,
		LicenseNumber: h.LicenseNumber,
		Phone:         h.Phone,
		Address:       h.Address,
		Active:        h.Active,
	}
}

// Register onboards a new hospital together with its first ADMIN account.
// Both rows are written in one transaction.
func (s *HospitalService) Register(ctx context.Context, req RegisterHospitalRequest) (*HospitalResponse, error) {
	existing, err := s.hospitalRepo.FindByLicenseNumber(ctx, req.LicenseNumber)
	if err != nil && !isNotFoundErr(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_LICENSE", "이미 등록된 인허가 번호입니다")
	}

	hospital, err := clinic.NewHospital(req.Name, req.LicenseNumber, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}

	admin, err := identity.NewUser(hospital.ID, req.AdminUsername, req.AdminPassword, req.AdminName, identity.RoleAdmin, req.AdminEmail)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.hospitalRepo.Save(txCtx, hospital); err != nil {
			return err
		}
		return s.userRepo.Save(txCtx, admin)
	})
	if err != nil {
		return nil, err
	}

	response := ToHospitalResponse(hospital)
	return &response, nil
}

// GetByID retrieves a hospital profile
func (s *HospitalService) GetByID(ctx context.Context, hospitalID uuid.UUID) (*HospitalResponse, error) {
	hospital, err := s.hospitalRepo.FindByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	response := ToHospitalResponse(hospital)
	return &response, nil
}

// Update replaces the hospital's profile details. Only ADMIN accounts
// may change hospital information.
func (s *HospitalService) Update(ctx context.Context, hospitalID uuid.UUID, actorRole identity.Role, req UpdateHospitalRequest) (*HospitalResponse, error) {
	if actorRole != identity.RoleAdmin {
		return nil, shared.NewDomainError("FORBIDDEN", "병원 정보를 수정할 권한이 없습니다")
	}

	hospital, err := s.hospitalRepo.FindByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	if err := hospital.Update(req.Name, req.Phone, req.Address); err != nil {
		return nil, err
	}

	if err := s.hospitalRepo.Save(ctx, hospital); err != nil {
		return nil, err
	}

	response := ToHospitalResponse(hospital)
	return &response, nil
}

func isNotFoundErr(err error) bool {
	if domainErr, ok := err.(*shared.DomainError); ok {
		return domainErr.Code == "NOT_FOUND"
	}
	return false
}
