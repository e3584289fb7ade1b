package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/catalog"
)

// CreateProductRequest is the input for adding a catalog product
type CreateProductRequest struct {
	SKU          string                  `json:"sku"`
	Name         string                  `json:"name"`
	Category     catalog.ProductCategory `json:"category"`
	Unit         string                  `json:"unit,omitempty"`
	CostPrice    decimal.Decimal         `json:"cost_price"`
	SalePrice    decimal.Decimal         `json:"sale_price"`
	ReorderLevel decimal.Decimal         `json:"reorder_level"`
	Description  string                  `json:"description,omitempty"`
}

// UpdateProductRequest is the input for updating a catalog product
type UpdateProductRequest struct {
	Name         string                  `json:"name"`
	Category     catalog.ProductCategory `json:"category"`
	Unit         string                  `json:"unit"`
	CostPrice    decimal.Decimal         `json:"cost_price"`
	SalePrice    decimal.Decimal         `json:"sale_price"`
	ReorderLevel decimal.Decimal         `json:"reorder_level"`
	Description  string                  `json:"description,omitempty"`
}

// ProductListFilter is the filter input for listing products
type ProductListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Category *catalog.ProductCategory
	Active   *bool
}

// ProductResponse is the API representation of a catalog product
type ProductResponse struct {
	ID           uuid.UUID               `json:"id"`
	SKU          string                  `json:"sku"`
	Name         string                  `json:"name"`
	Category     catalog.ProductCategory `json:"category"`
	Unit         string                  `json:"unit"`
	CostPrice    decimal.Decimal         `json:"cost_price"`
	SalePrice    decimal.Decimal         `json:"sale_price"`
	ReorderLevel decimal.Decimal         `json:"reorder_level"`
	Description  string                  `json:"description,omitempty"`
	Active       bool                    `json:"active"`
	StockTracked bool                    `json:"stock_tracked"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// ToProductResponse converts a product to its response representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Category:     p.Category,
		Unit:         p.Unit,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		ReorderLevel: p.ReorderLevel,
		Description:  p.Description,
		Active:       p.Active,
		StockTracked: p.Category.IsStockTracked(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
