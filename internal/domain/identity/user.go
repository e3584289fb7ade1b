package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents a staff member's role at a hospital
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleVet       Role = "VET"
	RoleTech      Role = "TECH"
	RoleReception Role = "RECEPTION"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleVet, RoleTech, RoleReception:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// CanManageBilling returns true for roles allowed to update or delete invoices
func (r Role) CanManageBilling() bool {
	return r == RoleAdmin || r == RoleVet
}

// User represents a staff account at a hospital
type User struct {
	shared.HospitalAggregateRoot
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_hospital_username,priority:2"`
	PasswordHash string `gorm:"type:varchar(100);not null"`
	Name         string `gorm:"type:varchar(100);not null"`
	Role         Role   `gorm:"type:varchar(20);not null"`
	Email        string `gorm:"type:varchar(200)"`
	Active       bool   `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new staff account with a bcrypt-hashed password
func NewUser(hospitalID uuid.UUID, username, password, name string, role Role, email string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "사용자 이름을 입력해야 합니다")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "비밀번호는 8자 이상이어야 합니다")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "이름을 입력해야 합니다")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "지원하지 않는 역할입니다")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		HospitalAggregateRoot: shared.NewHospitalAggregateRoot(hospitalID),
		Username:              username,
		PasswordHash:          string(hash),
		Name:                  name,
		Role:                  role,
		Email:                 email,
		Active:                true,
	}, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password hash
func (u *User) ChangePassword(newPassword string) error {
	if len(newPassword) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "비밀번호는 8자 이상이어야 합니다")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()

	return nil
}

// Update replaces the user's profile fields
func (u *User) Update(name string, role Role, email string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "이름을 입력해야 합니다")
	}
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "지원하지 않는 역할입니다")
	}

	u.Name = name
	u.Role = role
	u.Email = email
	u.UpdatedAt = time.Now()

	return nil
}

// RecordLogin stamps the last successful login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now()
}

// Activate re-enables the account
func (u *User) Activate() {
	u.Active = true
	u.UpdatedAt = time.Now()
}
