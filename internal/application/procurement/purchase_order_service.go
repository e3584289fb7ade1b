package procurement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/vetcare/backend/internal/application/inventory"
	"github.com/vetcare/backend/internal/domain/catalog"
	"github.com/vetcare/backend/internal/domain/inventory"
	"github.com/vetcare/backend/internal/domain/partner"
	"github.com/vetcare/backend/internal/domain/procurement"
	"github.com/vetcare/backend/internal/domain/shared"
	"github.com/vetcare/backend/internal/domain/shared/valueobject"
)

// PurchaseOrderService handles purchase order business operations.
// Receiving posts inventory movements and updates the order in one
// database transaction so the ledger and the order never disagree.
type PurchaseOrderService struct {
	orderRepo      procurement.PurchaseOrderRepository
	supplierRepo   partner.SupplierRepository
	productRepo    catalog.ProductRepository
	inventorySvc   *inventoryapp.InventoryService
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo procurement.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	productRepo catalog.ProductRepository,
	inventorySvc *inventoryapp.InventoryService,
	txManager shared.TransactionManager,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		inventorySvc: inventorySvc,
		txManager:    txManager,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new purchase order in DRAFT status
func (s *PurchaseOrderService) Create(ctx context.Context, hospitalID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForHospital(ctx, hospitalID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	order, err := procurement.NewPurchaseOrder(hospitalID, orderNumber, supplier.ID, supplier.Name, req.ExpectedDate)
	if err != nil {
		return nil, err
	}

	for _, input := range req.Items {
		if err := s.addItemToOrder(ctx, hospitalID, order, input); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}
	if req.CreatedBy != nil {
		order.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, hospitalID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForHospital(ctx, hospitalID, orderID)
	if err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, hospitalID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	domainFilter := buildOrderFilter(filter)

	var (
		orders []procurement.PurchaseOrder
		err    error
	)
	if filter.PendingReceipt {
		orders, err = s.orderRepo.FindPendingReceipt(ctx, hospitalID, domainFilter)
	} else {
		orders, err = s.orderRepo.FindAllForHospital(ctx, hospitalID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderListItemResponses(orders), total, nil
}

// Update updates the order's expected date and notes
func (s *PurchaseOrderService) Update(ctx context.Context, hospitalID, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForHospital(ctx, hospitalID, orderID)
	if err != nil {
		return nil, err
	}

	if req.ExpectedDate != nil {
		order.ExpectedDate = req.ExpectedDate
	}
	if req.Notes != nil {
		order.SetNotes(*req.Notes)
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// AddItem adds a line to a draft order
func (s *PurchaseOrderService) AddItem(ctx context.Context, hospitalID, orderID uuid.UUID, input CreatePurchaseOrderItemInput) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForHospital(ctx, hospitalID, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.addItemToOrder(ctx, hospitalID, order, input); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// UpdateItemQuantity updates the ordered quantity of a draft order line
func (s *PurchaseOrderService) UpdateItemQuantity(ctx context.Context, hospitalID, orderID, itemID uuid.UUID, quantity decimal.Decimal) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForHospital(ctx, hospitalID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RemoveItem removes a line from a draft order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, hospitalID, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForHospital(ctx, hospitalID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Submit submits a draft order for approval
func (s *PurchaseOrderService) Submit(ctx context.Context, hospitalID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, hospitalID, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Submit()
	})
}

// Approve approves a pending order
func (s *PurchaseOrderService) Approve(ctx context.Context, hospitalID, orderID, approvedBy uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, hospitalID, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Approve(approvedBy)
	})
}

// MarkOrdered marks an approved order as sent to the supplier
func (s *PurchaseOrderService) MarkOrdered(ctx context.Context, hospitalID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, hospitalID, orderID, func(order *procurement.PurchaseOrder) error {
		return order.MarkOrdered()
	})
}

// Cancel cancels an order before any goods have been received
func (s *PurchaseOrderService) Cancel(ctx context.Context, hospitalID, orderID uuid.UUID, req CancelRequest) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, hospitalID, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Cancel(req.Reason)
	})
}

// Receive records goods arriving against the order. Each received line is
// posted to the inventory ledger as a PURCHASE movement; the line updates,
// the status change and the ledger entries commit or roll back together.
func (s *PurchaseOrderService) Receive(ctx context.Context, hospitalID, orderID uuid.UUID, req ReceiveRequest) (*PurchaseOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "입고할 항목이 없습니다")
	}

	receiveItems := make([]procurement.ReceiveItem, len(req.Items))
	for i, item := range req.Items {
		receiveItems[i] = procurement.ReceiveItem{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			LotNumber:      item.LotNumber,
			ExpirationDate: item.ExpirationDate,
		}
	}

	var order *procurement.PurchaseOrder

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDForHospital(txCtx, hospitalID, orderID)
		if err != nil {
			return err
		}

		received, err := order.Receive(receiveItems)
		if err != nil {
			return err
		}

		refID := order.ID
		for _, info := range received {
			_, err := s.inventorySvc.PostMovement(txCtx, hospitalID, inventoryapp.RecordMovementRequest{
				ProductID:      info.ProductID,
				LotNumber:      info.LotNumber,
				Type:           inventory.TransactionTypePurchase,
				Quantity:       info.Quantity,
				ExpirationDate: info.ExpirationDate,
				ReferenceType:  inventory.ReferenceTypePurchaseOrder,
				ReferenceID:    &refID,
				Reason:         fmt.Sprintf("발주 입고: %s", order.OrderNumber),
				CreatedBy:      req.ReceivedBy,
			})
			if err != nil {
				return err
			}
		}

		return s.orderRepo.SaveWithLock(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete removes a draft order
func (s *PurchaseOrderService) Delete(ctx context.Context, hospitalID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForHospital(ctx, hospitalID, orderID)
	if err != nil {
		return err
	}

	if order.Status != procurement.PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "작성 중인 발주서만 삭제할 수 있습니다")
	}

	return s.orderRepo.DeleteForHospital(ctx, hospitalID, orderID)
}

func (s *PurchaseOrderService) transition(ctx context.Context, hospitalID, orderID uuid.UUID, fn func(*procurement.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForHospital(ctx, hospitalID, orderID)
	if err != nil {
		return nil, err
	}

	if err := fn(order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

func (s *PurchaseOrderService) addItemToOrder(ctx context.Context, hospitalID uuid.UUID, order *procurement.PurchaseOrder, input CreatePurchaseOrderItemInput) error {
	product, err := s.productRepo.FindByIDForHospital(ctx, hospitalID, input.ProductID)
	if err != nil {
		return err
	}
	if !product.Category.IsStockTracked() {
		return shared.NewDomainError("NOT_STOCK_TRACKED", "재고를 관리하지 않는 품목은 발주할 수 없습니다")
	}

	unitPrice := product.CostPrice
	if input.UnitPrice != nil {
		unitPrice = *input.UnitPrice
	}

	_, err = order.AddItem(product.ID, product.Name, input.Quantity, valueobject.NewMoneyKRW(unitPrice))
	return err
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *procurement.PurchaseOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

func buildOrderFilter(filter PurchaseOrderListFilter) shared.Filter {
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

	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	return domainFilter
}
