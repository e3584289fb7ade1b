package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/partner"
	"github.com/vetcare/backend/internal/domain/procurement"
	"github.com/vetcare/backend/internal/domain/shared"
)

// SupplierService handles supplier registration and lifecycle
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	orderRepo    procurement.PurchaseOrderRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, orderRepo procurement.PurchaseOrderRepository) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		orderRepo:    orderRepo,
	}
}

// Create registers a new supplier
func (s *SupplierService) Create(ctx context.Context, hospitalID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(hospitalID, req.Name, req.BusinessNumber, req.ContactName, req.Phone, req.Email, req.Address)
	if err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, hospitalID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForHospital(ctx, hospitalID, supplierID)
	if err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, hospitalID uuid.UUID, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	domainFilter := buildSupplierFilter(filter)

	suppliers, err := s.supplierRepo.FindAllForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.supplierRepo.CountForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSupplierResponses(suppliers), total, nil
}

// Update updates a supplier's details
func (s *SupplierService) Update(ctx context.Context, hospitalID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForHospital(ctx, hospitalID, supplierID)
	if err != nil {
		return nil, err
	}

	if err := supplier.Update(req.Name, req.BusinessNumber, req.ContactName, req.Phone, req.Email, req.Address, req.Notes); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Deactivate deactivates a supplier
func (s *SupplierService) Deactivate(ctx context.Context, hospitalID, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForHospital(ctx, hospitalID, supplierID)
	if err != nil {
		return err
	}

	supplier.Deactivate()
	return s.supplierRepo.Save(ctx, supplier)
}

// Delete removes a supplier with no purchase orders
func (s *SupplierService) Delete(ctx context.Context, hospitalID, supplierID uuid.UUID) error {
	if _, err := s.supplierRepo.FindByIDForHospital(ctx, hospitalID, supplierID); err != nil {
		return err
	}

	count, err := s.orderRepo.CountBySupplier(ctx, hospitalID, supplierID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("HAS_ORDERS", "발주 이력이 있는 공급업체는 삭제할 수 없습니다")
	}

	return s.supplierRepo.DeleteForHospital(ctx, hospitalID, supplierID)
}

func buildSupplierFilter(filter SupplierListFilter) shared.Filter {
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

	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	return domainFilter
}
