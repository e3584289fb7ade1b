package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/catalog"
	"github.com/vetcare/backend/internal/domain/inventory"
	"github.com/vetcare/backend/internal/domain/shared"
)

// InventoryService maintains stock levels through the transaction ledger.
// Every quantity change goes through PostMovement so the ledger and the
// stock row can never drift apart.
type InventoryService struct {
	stockRepo      inventory.StockRepository
	txRepo         inventory.TransactionRepository
	productRepo    catalog.ProductRepository
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(stockRepo inventory.StockRepository, txRepo inventory.TransactionRepository, productRepo catalog.ProductRepository, txManager shared.TransactionManager) *InventoryService {
	return &InventoryService{
		stockRepo:   stockRepo,
		txRepo:      txRepo,
		productRepo: productRepo,
		txManager:   txManager,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RecordMovement records one stock movement in its own transaction.
// An outbound movement that would drive the stock negative fails without
// writing a ledger entry.
func (s *InventoryService) RecordMovement(ctx context.Context, hospitalID uuid.UUID, req RecordMovementRequest) (*TransactionResponse, error) {
	var tx *inventory.InventoryTransaction

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		tx, err = s.PostMovement(txCtx, hospitalID, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterMovement(ctx, tx)

	response := ToTransactionResponse(tx)
	return &response, nil
}

// PostMovement applies a movement to the stock row and appends the ledger
// entry. The caller must supply a transactional context; purchase order
// receiving posts several movements atomically through this path.
func (s *InventoryService) PostMovement(ctx context.Context, hospitalID uuid.UUID, req RecordMovementRequest) (*inventory.InventoryTransaction, error) {
	product, err := s.productRepo.FindByIDForHospital(ctx, hospitalID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Category.IsStockTracked() {
		return nil, shared.NewDomainError("NOT_STOCK_TRACKED", "재고를 관리하지 않는 품목입니다")
	}

	delta, err := movementDelta(req.Type, req.Quantity)
	if err != nil {
		return nil, err
	}

	stock, created, err := s.findOrCreateStock(ctx, hospitalID, req)
	if err != nil {
		return nil, err
	}

	previous := stock.Quantity
	if err := stock.Apply(delta); err != nil {
		return nil, err
	}

	transactionNumber, err := s.txRepo.GenerateTransactionNumber(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	tx, err := inventory.NewInventoryTransaction(
		hospitalID,
		transactionNumber,
		req.ProductID,
		stock.ID,
		stock.LotNumber,
		req.Type,
		delta,
		previous,
		stock.Quantity,
		req.ReferenceType,
		req.ReferenceID,
		req.Reason,
		req.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	if created {
		err = s.stockRepo.Save(ctx, stock)
	} else {
		err = s.stockRepo.SaveWithLock(ctx, stock)
	}
	if err != nil {
		return nil, err
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// AdjustStock sets a lot's quantity to an absolute target count. The
// difference to the current quantity is recorded as an ADJUSTMENT entry.
func (s *InventoryService) AdjustStock(ctx context.Context, hospitalID uuid.UUID, req AdjustStockRequest) (*TransactionResponse, error) {
	if req.TargetQuantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "목표 수량은 0 이상이어야 합니다")
	}
	if req.Reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "조정 사유를 입력해야 합니다")
	}

	var tx *inventory.InventoryTransaction

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		current := decimal.Zero
		stock, err := s.stockRepo.FindByProductAndLot(txCtx, hospitalID, req.ProductID, req.LotNumber)
		if err == nil {
			current = stock.Quantity
		} else if !isNotFound(err) {
			return err
		}

		delta := req.TargetQuantity.Sub(current)
		if delta.IsZero() {
			return shared.NewDomainError("NO_CHANGE", "현재 수량과 목표 수량이 같습니다")
		}

		tx, err = s.PostMovement(txCtx, hospitalID, RecordMovementRequest{
			ProductID:     req.ProductID,
			LotNumber:     req.LotNumber,
			Type:          inventory.TransactionTypeAdjustment,
			Quantity:      delta,
			ReferenceType: inventory.ReferenceTypeManual,
			Reason:        req.Reason,
			CreatedBy:     req.CreatedBy,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterMovement(ctx, tx)

	response := ToTransactionResponse(tx)
	return &response, nil
}

// GetProductStock returns all lot rows of a product with the summed total
func (s *InventoryService) GetProductStock(ctx context.Context, hospitalID, productID uuid.UUID) (*ProductStockResponse, error) {
	if _, err := s.productRepo.FindByIDForHospital(ctx, hospitalID, productID); err != nil {
		return nil, err
	}

	stocks, err := s.stockRepo.FindByProduct(ctx, hospitalID, productID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i := range stocks {
		total = total.Add(stocks[i].Quantity)
	}

	return &ProductStockResponse{
		ProductID:     productID,
		TotalQuantity: total,
		Lots:          ToStockResponses(stocks),
	}, nil
}

// ListStock retrieves stock rows with filtering and pagination
func (s *InventoryService) ListStock(ctx context.Context, hospitalID uuid.UUID, filter StockListFilter) ([]StockResponse, int64, error) {
	domainFilter := buildStockFilter(filter)

	stocks, err := s.stockRepo.FindAllForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.stockRepo.CountForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToStockResponses(stocks), total, nil
}

// GetTransaction retrieves a single ledger entry
func (s *InventoryService) GetTransaction(ctx context.Context, hospitalID, transactionID uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.HospitalID != hospitalID {
		return nil, shared.ErrNotFound
	}

	response := ToTransactionResponse(tx)
	return &response, nil
}

// ListTransactions retrieves ledger entries with filtering and pagination
func (s *InventoryService) ListTransactions(ctx context.Context, hospitalID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := buildTransactionFilter(filter)

	txs, err := s.txRepo.FindAllForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.txRepo.CountForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransactionResponses(txs), total, nil
}

// ListTransactionsByReference retrieves the ledger entries created by a
// source document, such as one purchase order receipt
func (s *InventoryService) ListTransactionsByReference(ctx context.Context, hospitalID uuid.UUID, referenceType inventory.ReferenceType, referenceID uuid.UUID) ([]TransactionResponse, error) {
	txs, err := s.txRepo.FindByReference(ctx, hospitalID, referenceType, referenceID)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(txs), nil
}

// afterMovement publishes the movement event and, for outbound movements,
// checks the product's reorder level.
func (s *InventoryService) afterMovement(ctx context.Context, tx *inventory.InventoryTransaction) {
	if s.eventPublisher == nil || tx == nil {
		return
	}

	_ = s.eventPublisher.Publish(ctx, inventory.NewStockMovementRecordedEvent(tx))

	if !tx.Quantity.IsNegative() {
		return
	}
	product, err := s.productRepo.FindByIDForHospital(ctx, tx.HospitalID, tx.ProductID)
	if err != nil {
		return
	}
	total, err := s.stockRepo.TotalQuantityByProduct(ctx, tx.HospitalID, tx.ProductID)
	if err != nil {
		return
	}
	if product.IsLowStock(total) {
		_ = s.eventPublisher.Publish(ctx, inventory.NewLowStockDetectedEvent(tx.HospitalID, product.ID, product.Name, total, product.ReorderLevel))
	}
}

func (s *InventoryService) findOrCreateStock(ctx context.Context, hospitalID uuid.UUID, req RecordMovementRequest) (*inventory.InventoryStock, bool, error) {
	stock, err := s.stockRepo.FindByProductAndLot(ctx, hospitalID, req.ProductID, req.LotNumber)
	if err == nil {
		return stock, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	stock, err = inventory.NewInventoryStock(hospitalID, req.ProductID, req.LotNumber, req.ExpirationDate)
	if err != nil {
		return nil, false, err
	}
	return stock, true, nil
}

// movementDelta converts the request quantity into the signed delta applied
// to the stock. Inbound and outbound types take a positive magnitude;
// ADJUSTMENT passes its signed quantity through.
func movementDelta(txType inventory.TransactionType, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !txType.IsValid() {
		return decimal.Zero, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "지원하지 않는 거래 유형입니다")
	}
	if txType == inventory.TransactionTypeAdjustment {
		if quantity.IsZero() {
			return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "수량은 0일 수 없습니다")
		}
		return quantity, nil
	}

	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "수량은 0보다 커야 합니다")
	}
	if txType.IsOutbound() {
		return quantity.Neg(), nil
	}
	return quantity, nil
}

func isNotFound(err error) bool {
	domainErr, ok := err.(*shared.DomainError)
	return ok && domainErr.Code == "NOT_FOUND"
}

func buildStockFilter(filter StockListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "updated_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.LowStock {
		domainFilter.Filters["low_stock"] = true
	}
	if filter.Expired {
		domainFilter.Filters["expired"] = true
	}

	return domainFilter
}

func buildTransactionFilter(filter TransactionListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "transaction_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.Type != nil {
		domainFilter.Filters["type"] = string(*filter.Type)
	}
	if filter.ReferenceType != nil {
		domainFilter.Filters["reference_type"] = string(*filter.ReferenceType)
	}
	if filter.ReferenceID != nil {
		domainFilter.Filters["reference_id"] = *filter.ReferenceID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	return domainFilter
}
