package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/catalog"
	"github.com/vetcare/backend/internal/domain/inventory"
	"github.com/vetcare/backend/internal/domain/shared"
)

// ProductService handles catalog product management.
// SKUs are unique per hospital.
type ProductService struct {
	productRepo catalog.ProductRepository
	stockRepo   inventory.StockRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, stockRepo inventory.StockRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		stockRepo:   stockRepo,
	}
}

// Create adds a new product to the catalog
func (s *ProductService) Create(ctx context.Context, hospitalID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))

	exists, err := s.productRepo.ExistsBySKU(ctx, hospitalID, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_SKU", "이미 등록된 SKU입니다")
	}

	product, err := catalog.NewProduct(hospitalID, sku, req.Name, req.Category, req.Unit, req.CostPrice, req.SalePrice)
	if err != nil {
		return nil, err
	}
	if req.ReorderLevel.IsNegative() {
		return nil, shared.NewDomainError("INVALID_REORDER_LEVEL", "재주문 기준 수량은 음수일 수 없습니다")
	}
	product.ReorderLevel = req.ReorderLevel
	product.Description = req.Description

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, hospitalID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForHospital(ctx, hospitalID, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by its SKU
func (s *ProductService) GetBySKU(ctx context.Context, hospitalID uuid.UUID, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, hospitalID, strings.ToUpper(strings.TrimSpace(sku)))
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, hospitalID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := buildProductFilter(filter)

	products, err := s.productRepo.FindAllForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update updates a product's details. The SKU is immutable.
func (s *ProductService) Update(ctx context.Context, hospitalID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForHospital(ctx, hospitalID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Category, req.Unit, req.CostPrice, req.SalePrice, req.ReorderLevel, req.Description); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Deactivate deactivates a product without removing it from the catalog
func (s *ProductService) Deactivate(ctx context.Context, hospitalID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForHospital(ctx, hospitalID, productID)
	if err != nil {
		return err
	}

	product.Deactivate()
	return s.productRepo.Save(ctx, product)
}

// Delete removes a product with no remaining stock
func (s *ProductService) Delete(ctx context.Context, hospitalID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForHospital(ctx, hospitalID, productID)
	if err != nil {
		return err
	}

	if product.Category.IsStockTracked() {
		total, err := s.stockRepo.TotalQuantityByProduct(ctx, hospitalID, productID)
		if err != nil {
			return err
		}
		if !total.IsZero() {
			return shared.NewDomainError("HAS_STOCK", "재고가 남아 있는 품목은 삭제할 수 없습니다")
		}
	}

	return s.productRepo.DeleteForHospital(ctx, hospitalID, productID)
}

func buildProductFilter(filter ProductListFilter) shared.Filter {
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

	if filter.Category != nil {
		domainFilter.Filters["category"] = string(*filter.Category)
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	return domainFilter
}
