package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/catalog"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.conn(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDForHospital finds a product by ID within a hospital
func (r *GormProductRepository) FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.conn(ctx).
		Where("hospital_id = ? AND id = ?", hospitalID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by its SKU within a hospital
func (r *GormProductRepository) FindBySKU(ctx context.Context, hospitalID uuid.UUID, sku string) (*catalog.Product, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU는 비워 둘 수 없습니다")
	}
	var product catalog.Product
	if err := r.conn(ctx).
		Where("hospital_id = ? AND sku = ?", hospitalID, sku).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAllForHospital finds products for a hospital with filtering
func (r *GormProductRepository) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.conn(ctx).Model(&catalog.Product{}).Where("hospital_id = ?", hospitalID), filter)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, ProductSortFields, "created_at"))

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return r.conn(ctx).Save(p).Error
}

// DeleteForHospital deletes a product within a hospital
func (r *GormProductRepository) DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&catalog.Product{}, "hospital_id = ? AND id = ?", hospitalID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForHospital counts products for a hospital with optional filters
func (r *GormProductRepository) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.conn(ctx).Model(&catalog.Product{}).Where("hospital_id = ?", hospitalID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySKU checks if a product with the given SKU exists in the hospital
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, hospitalID uuid.UUID, sku string) (bool, error) {
	if sku == "" {
		return false, nil
	}
	var count int64
	if err := r.conn(ctx).
		Model(&catalog.Product{}).
		Where("hospital_id = ? AND sku = ?", hospitalID, sku).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}
	return query
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
