package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/shared"
)

// ProductCategory classifies what a product is sold or consumed as
type ProductCategory string

const (
	ProductCategoryDrug    ProductCategory = "DRUG"
	ProductCategorySupply  ProductCategory = "SUPPLY"
	ProductCategoryFood    ProductCategory = "FOOD"
	ProductCategoryService ProductCategory = "SERVICE" // Not stock-tracked
)

// IsValid checks if the category is valid
func (c ProductCategory) IsValid() bool {
	switch c {
	case ProductCategoryDrug, ProductCategorySupply, ProductCategoryFood, ProductCategoryService:
		return true
	}
	return false
}

// String returns the string representation of ProductCategory
func (c ProductCategory) String() string {
	return string(c)
}

// IsStockTracked returns true if inventory quantities are tracked for this category
func (c ProductCategory) IsStockTracked() bool {
	return c != ProductCategoryService
}

// Product represents a sellable or consumable item in the hospital catalog
type Product struct {
	shared.HospitalAggregateRoot
	SKU          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_hospital_sku,priority:2"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Category     ProductCategory `gorm:"type:varchar(20);not null"`
	Unit         string          `gorm:"type:varchar(20);not null;default:'EA'"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Low-stock threshold
	Description  string          `gorm:"type:text"`
	Active       bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new catalog product
func NewProduct(hospitalID uuid.UUID, sku, name string, category ProductCategory, unit string, costPrice, salePrice decimal.Decimal) (*Product, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU를 입력해야 합니다")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "상품명을 입력해야 합니다")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "지원하지 않는 상품 분류입니다")
	}
	if costPrice.IsNegative() || salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "가격은 음수일 수 없습니다")
	}
	if unit == "" {
		unit = "EA"
	}

	return &Product{
		HospitalAggregateRoot: shared.NewHospitalAggregateRoot(hospitalID),
		SKU:                   strings.ToUpper(sku),
		Name:                  name,
		Category:              category,
		Unit:                  unit,
		CostPrice:             costPrice,
		SalePrice:             salePrice,
		ReorderLevel:          decimal.Zero,
		Active:                true,
	}, nil
}

// Update replaces the product's mutable fields
func (p *Product) Update(name string, category ProductCategory, unit string, costPrice, salePrice, reorderLevel decimal.Decimal, description string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "상품명을 입력해야 합니다")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "지원하지 않는 상품 분류입니다")
	}
	if costPrice.IsNegative() || salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "가격은 음수일 수 없습니다")
	}
	if reorderLevel.IsNegative() {
		return shared.NewDomainError("INVALID_REORDER_LEVEL", "재주문 기준은 음수일 수 없습니다")
	}

	p.Name = name
	p.Category = category
	if unit != "" {
		p.Unit = unit
	}
	p.CostPrice = costPrice
	p.SalePrice = salePrice
	p.ReorderLevel = reorderLevel
	p.Description = description
	p.UpdatedAt = time.Now()

	return nil
}

// Deactivate marks the product inactive. Referenced products are
// deactivated instead of deleted.
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

// Activate re-enables an inactive product
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
}

// IsLowStock reports whether the given total quantity is at or below the reorder level
func (p *Product) IsLowStock(totalQuantity decimal.Decimal) bool {
	return p.ReorderLevel.GreaterThan(decimal.Zero) && totalQuantity.LessThanOrEqual(p.ReorderLevel)
}
