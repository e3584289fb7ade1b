package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/identity"
	"github.com/vetcare/backend/internal/domain/shared"
)

// UserService handles staff account administration.
// Only ADMIN may create, update or deactivate accounts.
type UserService struct {
	userRepo identity.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Create registers a new staff account
func (s *UserService) Create(ctx context.Context, hospitalID uuid.UUID, actorRole identity.Role, req CreateUserRequest) (*UserResponse, error) {
	if actorRole != identity.RoleAdmin {
		return nil, shared.NewDomainError("FORBIDDEN", "계정을 생성할 권한이 없습니다")
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, hospitalID, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_USERNAME", "이미 사용 중인 아이디입니다")
	}

	user, err := identity.NewUser(hospitalID, req.Username, req.Password, req.Name, req.Role, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a staff account by ID
func (s *UserService) GetByID(ctx context.Context, hospitalID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForHospital(ctx, hospitalID, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves staff accounts with filtering and pagination
func (s *UserService) List(ctx context.Context, hospitalID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := buildUserFilter(filter)

	users, err := s.userRepo.FindAllForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.CountForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// Update updates a staff account's name, role and email
func (s *UserService) Update(ctx context.Context, hospitalID, userID uuid.UUID, actorRole identity.Role, req UpdateUserRequest) (*UserResponse, error) {
	if actorRole != identity.RoleAdmin {
		return nil, shared.NewDomainError("FORBIDDEN", "계정을 수정할 권한이 없습니다")
	}

	user, err := s.userRepo.FindByIDForHospital(ctx, hospitalID, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Update(req.Name, req.Role, req.Email); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Deactivate deactivates a staff account
func (s *UserService) Deactivate(ctx context.Context, hospitalID, userID uuid.UUID, actorRole identity.Role) error {
	if actorRole != identity.RoleAdmin {
		return shared.NewDomainError("FORBIDDEN", "계정을 비활성화할 권한이 없습니다")
	}

	user, err := s.userRepo.FindByIDForHospital(ctx, hospitalID, userID)
	if err != nil {
		return err
	}

	user.Deactivate()
	return s.userRepo.Save(ctx, user)
}

// Activate reactivates a staff account
func (s *UserService) Activate(ctx context.Context, hospitalID, userID uuid.UUID, actorRole identity.Role) error {
	if actorRole != identity.RoleAdmin {
		return shared.NewDomainError("FORBIDDEN", "계정을 활성화할 권한이 없습니다")
	}

	user, err := s.userRepo.FindByIDForHospital(ctx, hospitalID, userID)
	if err != nil {
		return err
	}

	user.Activate()
	return s.userRepo.Save(ctx, user)
}

func buildUserFilter(filter UserListFilter) shared.Filter {
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

	if filter.Role != nil {
		domainFilter.Filters["role"] = string(*filter.Role)
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	return domainFilter
}
