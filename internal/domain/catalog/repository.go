package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, hospitalID uuid.UUID, sku string) (*Product, error)
	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]Product, error)
	Save(ctx context.Context, p *Product) error
	DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsBySKU(ctx context.Context, hospitalID uuid.UUID, sku string) (bool, error)
}
