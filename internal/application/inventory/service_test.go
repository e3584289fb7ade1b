package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/backend/internal/domain/catalog"
	"github.com/vetcare/backend/internal/domain/inventory"
	"github.com/vetcare/backend/internal/domain/shared"
)

// In-memory fakes. The repositories key by ID and ignore filters beyond
// what the tests exercise; the transaction manager just runs the function.

type fakeStockRepo struct {
	stocks map[uuid.UUID]*inventory.InventoryStock
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stocks: make(map[uuid.UUID]*inventory.InventoryStock)}
}

func (r *fakeStockRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryStock, error) {
	s, ok := r.stocks[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "재고를 찾을 수 없습니다")
	}
	copied := *s
	return &copied, nil
}

func (r *fakeStockRepo) FindByProductAndLot(ctx context.Context, hospitalID, productID uuid.UUID, lotNumber string) (*inventory.InventoryStock, error) {
	for _, s := range r.stocks {
		if s.HospitalID == hospitalID && s.ProductID == productID && s.LotNumber == lotNumber {
			copied := *s
			return &copied, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "재고를 찾을 수 없습니다")
}

func (r *fakeStockRepo) FindByProduct(ctx context.Context, hospitalID, productID uuid.UUID) ([]inventory.InventoryStock, error) {
	var out []inventory.InventoryStock
	for _, s := range r.stocks {
		if s.HospitalID == hospitalID && s.ProductID == productID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]inventory.InventoryStock, error) {
	var out []inventory.InventoryStock
	for _, s := range r.stocks {
		if s.HospitalID == hospitalID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) TotalQuantityByProduct(ctx context.Context, hospitalID, productID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range r.stocks {
		if s.HospitalID == hospitalID && s.ProductID == productID {
			total = total.Add(s.Quantity)
		}
	}
	return total, nil
}

func (r *fakeStockRepo) Save(ctx context.Context, stock *inventory.InventoryStock) error {
	copied := *stock
	r.stocks[stock.ID] = &copied
	return nil
}

func (r *fakeStockRepo) SaveWithLock(ctx context.Context, stock *inventory.InventoryStock) error {
	return r.Save(ctx, stock)
}

func (r *fakeStockRepo) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	for _, s := range r.stocks {
		if s.HospitalID == hospitalID {
			count++
		}
	}
	return count, nil
}

type fakeTransactionRepo struct {
	transactions []*inventory.InventoryTransaction
	seq          int
}

func (r *fakeTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	for _, tx := range r.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "거래 내역을 찾을 수 없습니다")
}

func (r *fakeTransactionRepo) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var out []inventory.InventoryTransaction
	for _, tx := range r.transactions {
		if tx.HospitalID == hospitalID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindByProduct(ctx context.Context, hospitalID, productID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var out []inventory.InventoryTransaction
	for _, tx := range r.transactions {
		if tx.HospitalID == hospitalID && tx.ProductID == productID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindByReference(ctx context.Context, hospitalID uuid.UUID, referenceType inventory.ReferenceType, referenceID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var out []inventory.InventoryTransaction
	for _, tx := range r.transactions {
		if tx.HospitalID == hospitalID && tx.ReferenceType == referenceType && tx.ReferenceID != nil && *tx.ReferenceID == referenceID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	r.transactions = append(r.transactions, tx)
	return nil
}

func (r *fakeTransactionRepo) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	for _, tx := range r.transactions {
		if tx.HospitalID == hospitalID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTransactionRepo) GenerateTransactionNumber(ctx context.Context, hospitalID uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("TXN-20260829-%04d", r.seq), nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "품목을 찾을 수 없습니다")
	}
	return p, nil
}

func (r *fakeProductRepo) FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok || p.HospitalID != hospitalID {
		return nil, shared.NewDomainError("NOT_FOUND", "품목을 찾을 수 없습니다")
	}
	return p, nil
}

func (r *fakeProductRepo) FindBySKU(ctx context.Context, hospitalID uuid.UUID, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.HospitalID == hospitalID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "품목을 찾을 수 없습니다")
}

func (r *fakeProductRepo) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Save(ctx context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) ExistsBySKU(ctx context.Context, hospitalID uuid.UUID, sku string) (bool, error) {
	_, err := r.FindBySKU(ctx, hospitalID, sku)
	return err == nil, nil
}

type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type inventoryFixture struct {
	svc       *InventoryService
	stockRepo *fakeStockRepo
	txRepo    *fakeTransactionRepo
	publisher *capturingPublisher
	hospital  uuid.UUID
	product   *catalog.Product
}

func setupInventoryService(t *testing.T, category catalog.ProductCategory) *inventoryFixture {
	t.Helper()
	hospitalID := uuid.New()

	product, err := catalog.NewProduct(hospitalID, "VAC-001", "광견병 백신", category, "EA",
		decimal.NewFromInt(5000), decimal.NewFromInt(15000))
	require.NoError(t, err)

	productRepo := newFakeProductRepo()
	require.NoError(t, productRepo.Save(context.Background(), product))

	stockRepo := newFakeStockRepo()
	txRepo := &fakeTransactionRepo{}
	publisher := &capturingPublisher{}

	svc := NewInventoryService(stockRepo, txRepo, productRepo, fakeTxManager{})
	svc.SetEventPublisher(publisher)

	return &inventoryFixture{
		svc:       svc,
		stockRepo: stockRepo,
		txRepo:    txRepo,
		publisher: publisher,
		hospital:  hospitalID,
		product:   product,
	}
}

func (f *inventoryFixture) seedStock(t *testing.T, lotNumber string, quantity int64) {
	t.Helper()
	_, err := f.svc.RecordMovement(context.Background(), f.hospital, RecordMovementRequest{
		ProductID: f.product.ID,
		LotNumber: lotNumber,
		Type:      inventory.TransactionTypeInitial,
		Quantity:  decimal.NewFromInt(quantity),
	})
	require.NoError(t, err)
	f.publisher.events = nil
}

func TestInventoryServiceRecordMovement(t *testing.T) {
	t.Run("inbound purchase creates stock row and ledger entry", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)

		resp, err := f.svc.RecordMovement(context.Background(), f.hospital, RecordMovementRequest{
			ProductID: f.product.ID,
			LotNumber: "LOT-A",
			Type:      inventory.TransactionTypePurchase,
			Quantity:  decimal.NewFromInt(10),
		})

		require.NoError(t, err)
		assert.Equal(t, inventory.TransactionTypePurchase, resp.Type)
		assert.True(t, resp.PreviousQuantity.IsZero())
		assert.Equal(t, int64(10), resp.Quantity.IntPart())
		assert.Equal(t, int64(10), resp.CurrentQuantity.IntPart())

		stock, err := f.stockRepo.FindByProductAndLot(context.Background(), f.hospital, f.product.ID, "LOT-A")
		require.NoError(t, err)
		assert.Equal(t, int64(10), stock.Quantity.IntPart())
		require.Len(t, f.txRepo.transactions, 1)

		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, inventory.EventTypeStockMovementRecorded, f.publisher.events[0].EventType())
	})

	t.Run("outbound sale reduces the lot quantity", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)
		f.seedStock(t, "LOT-A", 10)

		resp, err := f.svc.RecordMovement(context.Background(), f.hospital, RecordMovementRequest{
			ProductID: f.product.ID,
			LotNumber: "LOT-A",
			Type:      inventory.TransactionTypeSale,
			Quantity:  decimal.NewFromInt(4),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(-4), resp.Quantity.IntPart())
		assert.Equal(t, int64(10), resp.PreviousQuantity.IntPart())
		assert.Equal(t, int64(6), resp.CurrentQuantity.IntPart())

		stock, err := f.stockRepo.FindByProductAndLot(context.Background(), f.hospital, f.product.ID, "LOT-A")
		require.NoError(t, err)
		assert.Equal(t, int64(6), stock.Quantity.IntPart())
	})

	t.Run("outbound beyond stock writes no ledger entry and leaves stock untouched", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)
		f.seedStock(t, "LOT-A", 5)
		ledgerBefore := len(f.txRepo.transactions)

		_, err := f.svc.RecordMovement(context.Background(), f.hospital, RecordMovementRequest{
			ProductID: f.product.ID,
			LotNumber: "LOT-A",
			Type:      inventory.TransactionTypeSale,
			Quantity:  decimal.NewFromInt(9),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)

		assert.Len(t, f.txRepo.transactions, ledgerBefore)
		stock, err := f.stockRepo.FindByProductAndLot(context.Background(), f.hospital, f.product.ID, "LOT-A")
		require.NoError(t, err)
		assert.Equal(t, int64(5), stock.Quantity.IntPart())
		assert.Empty(t, f.publisher.events)
	})

	t.Run("service items are not stock tracked", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryService)

		_, err := f.svc.RecordMovement(context.Background(), f.hospital, RecordMovementRequest{
			ProductID: f.product.ID,
			Type:      inventory.TransactionTypePurchase,
			Quantity:  decimal.NewFromInt(1),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_STOCK_TRACKED", domainErr.Code)
		assert.Empty(t, f.txRepo.transactions)
	})

	t.Run("unknown product rejected", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)

		_, err := f.svc.RecordMovement(context.Background(), f.hospital, RecordMovementRequest{
			ProductID: uuid.New(),
			Type:      inventory.TransactionTypePurchase,
			Quantity:  decimal.NewFromInt(1),
		})
		assert.Error(t, err)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)

		_, err := f.svc.RecordMovement(context.Background(), f.hospital, RecordMovementRequest{
			ProductID: f.product.ID,
			Type:      inventory.TransactionTypePurchase,
			Quantity:  decimal.Zero,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("outbound to or below reorder level raises low stock event", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)
		f.product.ReorderLevel = decimal.NewFromInt(5)
		f.seedStock(t, "LOT-A", 6)

		_, err := f.svc.RecordMovement(context.Background(), f.hospital, RecordMovementRequest{
			ProductID: f.product.ID,
			LotNumber: "LOT-A",
			Type:      inventory.TransactionTypeSale,
			Quantity:  decimal.NewFromInt(2),
		})
		require.NoError(t, err)

		require.Len(t, f.publisher.events, 2)
		assert.Equal(t, inventory.EventTypeStockMovementRecorded, f.publisher.events[0].EventType())
		assert.Equal(t, inventory.EventTypeLowStockDetected, f.publisher.events[1].EventType())
	})
}

func TestInventoryServiceAdjustStock(t *testing.T) {
	t.Run("adjustment down records the signed difference", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)
		f.seedStock(t, "LOT-A", 10)

		resp, err := f.svc.AdjustStock(context.Background(), f.hospital, AdjustStockRequest{
			ProductID:      f.product.ID,
			LotNumber:      "LOT-A",
			TargetQuantity: decimal.NewFromInt(6),
			Reason:         "실사 차이",
		})

		require.NoError(t, err)
		assert.Equal(t, inventory.TransactionTypeAdjustment, resp.Type)
		assert.Equal(t, int64(-4), resp.Quantity.IntPart())
		assert.Equal(t, int64(6), resp.CurrentQuantity.IntPart())

		stock, err := f.stockRepo.FindByProductAndLot(context.Background(), f.hospital, f.product.ID, "LOT-A")
		require.NoError(t, err)
		assert.Equal(t, int64(6), stock.Quantity.IntPart())
	})

	t.Run("adjustment up creates the stock row when missing", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)

		resp, err := f.svc.AdjustStock(context.Background(), f.hospital, AdjustStockRequest{
			ProductID:      f.product.ID,
			LotNumber:      "LOT-B",
			TargetQuantity: decimal.NewFromInt(7),
			Reason:         "초기 실사",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), resp.Quantity.IntPart())
		assert.True(t, resp.PreviousQuantity.IsZero())
		assert.Equal(t, inventory.ReferenceTypeManual, resp.ReferenceType)

		stock, err := f.stockRepo.FindByProductAndLot(context.Background(), f.hospital, f.product.ID, "LOT-B")
		require.NoError(t, err)
		assert.Equal(t, int64(7), stock.Quantity.IntPart())
	})

	t.Run("target equal to current rejected", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)
		f.seedStock(t, "LOT-A", 10)

		_, err := f.svc.AdjustStock(context.Background(), f.hospital, AdjustStockRequest{
			ProductID:      f.product.ID,
			LotNumber:      "LOT-A",
			TargetQuantity: decimal.NewFromInt(10),
			Reason:         "실사 차이",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_CHANGE", domainErr.Code)
	})

	t.Run("negative target rejected", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)

		_, err := f.svc.AdjustStock(context.Background(), f.hospital, AdjustStockRequest{
			ProductID:      f.product.ID,
			TargetQuantity: decimal.NewFromInt(-1),
			Reason:         "실사 차이",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("reason required", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)

		_, err := f.svc.AdjustStock(context.Background(), f.hospital, AdjustStockRequest{
			ProductID:      f.product.ID,
			TargetQuantity: decimal.NewFromInt(3),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REASON", domainErr.Code)
	})
}

func TestInventoryServiceQueries(t *testing.T) {
	t.Run("product stock sums all lots", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)
		f.seedStock(t, "LOT-A", 10)
		f.seedStock(t, "LOT-B", 5)

		resp, err := f.svc.GetProductStock(context.Background(), f.hospital, f.product.ID)

		require.NoError(t, err)
		assert.Equal(t, int64(15), resp.TotalQuantity.IntPart())
		assert.Len(t, resp.Lots, 2)
	})

	t.Run("transaction lookup is hospital scoped", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)
		f.seedStock(t, "LOT-A", 10)
		require.Len(t, f.txRepo.transactions, 1)
		txID := f.txRepo.transactions[0].ID

		_, err := f.svc.GetTransaction(context.Background(), f.hospital, txID)
		require.NoError(t, err)

		_, err = f.svc.GetTransaction(context.Background(), uuid.New(), txID)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("transactions by reference return receipt entries", func(t *testing.T) {
		f := setupInventoryService(t, catalog.ProductCategoryDrug)
		orderID := uuid.New()

		_, err := f.svc.RecordMovement(context.Background(), f.hospital, RecordMovementRequest{
			ProductID:     f.product.ID,
			LotNumber:     "LOT-A",
			Type:          inventory.TransactionTypePurchase,
			Quantity:      decimal.NewFromInt(10),
			ReferenceType: inventory.ReferenceTypePurchaseOrder,
			ReferenceID:   &orderID,
		})
		require.NoError(t, err)

		txs, err := f.svc.ListTransactionsByReference(context.Background(), f.hospital, inventory.ReferenceTypePurchaseOrder, orderID)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, inventory.TransactionTypePurchase, txs[0].Type)
	})
}
