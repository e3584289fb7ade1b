package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/identity"
)

// LoginInput is the input for authenticating a staff account
type LoginInput struct {
	HospitalID uuid.UUID `json:"hospital_id"`
	Username   string    `json:"username"`
	Password   string    `json:"password"`
}

// LoginResult carries the issued tokens and the authenticated user
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// RefreshTokenInput is the input for refreshing a token pair
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenResult carries the freshly issued token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput is the input for revoking the current session
type LogoutInput struct {
	UserID      uuid.UUID
	TokenID     string
	TokenTTL    time.Duration
	AllSessions bool
}

// ChangePasswordInput is the input for changing a user's own password
type ChangePasswordInput struct {
	UserID      uuid.UUID `json:"-"`
	OldPassword string    `json:"old_password"`
	NewPassword string    `json:"new_password"`
}

// CreateUserRequest is the input for registering a staff account
type CreateUserRequest struct {
	Username string        `json:"username"`
	Password string        `json:"password"`
	Name     string        `json:"name"`
	Role     identity.Role `json:"role"`
	Email    string        `json:"email,omitempty"`
}

// UpdateUserRequest is the input for updating a staff account
type UpdateUserRequest struct {
	Name  string        `json:"name"`
	Role  identity.Role `json:"role"`
	Email string        `json:"email,omitempty"`
}

// UserListFilter is the filter input for listing staff accounts
type UserListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Role     *identity.Role
	Active   *bool
}

// UserResponse is the API representation of a staff account
type UserResponse struct {
	ID          uuid.UUID     `json:"id"`
	HospitalID  uuid.UUID     `json:"hospital_id"`
	Username    string        `json:"username"`
	Name        string        `json:"name"`
	Role        identity.Role `json:"role"`
	Email       string        `json:"email,omitempty"`
	Active      bool          `json:"active"`
	LastLoginAt *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ToUserResponse converts a user to its response representation
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		HospitalID:  u.HospitalID,
		Username:    u.Username,
		Name:        u.Name,
		Role:        u.Role,
		Email:       u.Email,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToUserResponses converts a slice of users
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
