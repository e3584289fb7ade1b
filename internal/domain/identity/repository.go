package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
)

// UserRepository defines the interface for staff account persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, hospitalID uuid.UUID, username string) (*User, error)
	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]User, error)
	Save(ctx context.Context, u *User) error
	DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByUsername(ctx context.Context, hospitalID uuid.UUID, username string) (bool, error)
}
