package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
)

// GuardianRepository defines the interface for guardian persistence
type GuardianRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Guardian, error)
	FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*Guardian, error)
	FindByPhone(ctx context.Context, hospitalID uuid.UUID, phone string) (*Guardian, error)
	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]Guardian, error)
	Save(ctx context.Context, g *Guardian) error
	DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByPhone(ctx context.Context, hospitalID uuid.UUID, phone string) (bool, error)
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*Supplier, error)
	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]Supplier, error)
	Save(ctx context.Context, s *Supplier) error
	DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)
}
