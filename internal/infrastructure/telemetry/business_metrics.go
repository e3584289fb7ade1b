// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the hospital platform.
// It tracks invoicing, payment activity, purchase order receiving, and
// inventory health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	invoiceIssuedTotal  *Counter
	invoiceAmountTotal  *Counter
	paymentTotal        *Counter
	orderReceivedTotal  *Counter
	stockMovementTotal  *Counter

	// Gauge metrics (point-in-time values)
	stockOnHandQuantity *FloatGauge
	lowStockCount       *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	inventoryProvider InventoryMetricsProvider
}

// InventoryMetricsProvider provides inventory data for periodic metrics
// collection. The interface lets the telemetry layer query stock state
// without depending on the inventory domain directly.
type InventoryMetricsProvider interface {
	// GetOnHandQuantityByProduct returns the total on-hand quantity per
	// product for a hospital.
	GetOnHandQuantityByProduct(ctx context.Context, hospitalID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// GetLowStockCount returns the number of products at or below their
	// reorder level for a hospital.
	GetLowStockCount(ctx context.Context, hospitalID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration // Default: 5 minutes
	InventoryProvider InventoryMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:             cfg.Meter,
		logger:            logger,
		stopChan:          make(chan struct{}),
		inventoryProvider: cfg.InventoryProvider,
	}

	var err error

	// Invoice metrics
	bm.invoiceIssuedTotal, err = NewCounter(
		cfg.Meter,
		"vetcare_invoice_issued_total",
		"Total number of invoices issued",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	bm.invoiceAmountTotal, err = NewCounter(
		cfg.Meter,
		"vetcare_invoice_amount_total",
		"Total invoiced amount in won",
		"{won}",
	)
	if err != nil {
		return nil, err
	}

	// Payment metrics
	bm.paymentTotal, err = NewCounter(
		cfg.Meter,
		"vetcare_payment_total",
		"Total number of payment transactions",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	// Procurement metrics
	bm.orderReceivedTotal, err = NewCounter(
		cfg.Meter,
		"vetcare_purchase_order_received_total",
		"Total number of purchase order receipts recorded",
		"{receipts}",
	)
	if err != nil {
		return nil, err
	}

	// Inventory counter metrics
	bm.stockMovementTotal, err = NewCounter(
		cfg.Meter,
		"vetcare_stock_movement_total",
		"Total number of inventory ledger transactions",
		"{transactions}",
	)
	if err != nil {
		return nil, err
	}

	// Inventory gauge metrics
	bm.stockOnHandQuantity, err = NewFloatGauge(
		cfg.Meter,
		"vetcare_stock_on_hand_quantity",
		"Current on-hand quantity per product",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	bm.lowStockCount, err = NewGauge(
		cfg.Meter,
		"vetcare_stock_low_stock_count",
		"Number of products at or below their reorder level",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Invoice Metrics
// =============================================================================

// RecordInvoiceIssued records an invoice issuance.
// This should be called from the application layer when an invoice is issued.
func (bm *BusinessMetrics) RecordInvoiceIssued(ctx context.Context, hospitalID uuid.UUID) {
	bm.invoiceIssuedTotal.Inc(ctx,
		AttrHospitalID.String(hospitalID.String()),
	)
}

// RecordInvoiceAmount records the invoiced total in won.
func (bm *BusinessMetrics) RecordInvoiceAmount(ctx context.Context, hospitalID uuid.UUID, amountWon int64) {
	bm.invoiceAmountTotal.Add(ctx, amountWon,
		AttrHospitalID.String(hospitalID.String()),
	)
}

// RecordInvoiceIssuedWithAmount records both the invoice count and total.
func (bm *BusinessMetrics) RecordInvoiceIssuedWithAmount(ctx context.Context, hospitalID uuid.UUID, total decimal.Decimal) {
	bm.RecordInvoiceIssued(ctx, hospitalID)
	bm.RecordInvoiceAmount(ctx, hospitalID, total.IntPart())
}

// =============================================================================
// Payment Metrics
// =============================================================================

// PaymentOutcome represents the outcome of a payment for metrics labeling.
type PaymentOutcome string

const (
	PaymentOutcomeCompleted PaymentOutcome = "completed"
	PaymentOutcomeRefunded  PaymentOutcome = "refunded"
	PaymentOutcomeCancelled PaymentOutcome = "cancelled"
)

// RecordPayment records a payment transaction.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, hospitalID uuid.UUID, method string, outcome PaymentOutcome) {
	bm.paymentTotal.Inc(ctx,
		AttrHospitalID.String(hospitalID.String()),
		AttrPaymentMethod.String(method),
		AttrPaymentStatus.String(string(outcome)),
	)
}

// =============================================================================
// Procurement Metrics
// =============================================================================

// RecordOrderReceipt records a purchase order receipt. The resulting order
// status (partial or received) is attached as a label.
func (bm *BusinessMetrics) RecordOrderReceipt(ctx context.Context, hospitalID uuid.UUID, orderStatus string) {
	bm.orderReceivedTotal.Inc(ctx,
		AttrHospitalID.String(hospitalID.String()),
		AttrOrderStatus.String(orderStatus),
	)
}

// =============================================================================
// Inventory Metrics
// =============================================================================

// RecordStockMovement records an inventory ledger transaction by type
// (RECEIPT, DISPENSE, ADJUSTMENT, DISPOSAL).
func (bm *BusinessMetrics) RecordStockMovement(ctx context.Context, hospitalID uuid.UUID, transactionType string) {
	bm.stockMovementTotal.Inc(ctx,
		AttrHospitalID.String(hospitalID.String()),
		AttrTransactionType.String(transactionType),
	)
}

// RecordOnHandQuantity records the current on-hand quantity for a product.
// This is a gauge metric updated by the periodic collector.
func (bm *BusinessMetrics) RecordOnHandQuantity(ctx context.Context, hospitalID, productID uuid.UUID, quantity decimal.Decimal) {
	qty, _ := quantity.Float64()
	bm.stockOnHandQuantity.Record(ctx, qty,
		AttrHospitalID.String(hospitalID.String()),
		AttrProductID.String(productID.String()),
	)
}

// RecordLowStockCount records the number of products at or below reorder level.
func (bm *BusinessMetrics) RecordLowStockCount(ctx context.Context, hospitalID uuid.UUID, count int64) {
	bm.lowStockCount.Record(ctx, count,
		AttrHospitalID.String(hospitalID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// HospitalProvider provides hospital IDs for periodic metrics collection.
type HospitalProvider interface {
	GetActiveHospitalIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects inventory metrics every interval (default: 5 minutes).
// This is non-blocking. Use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, hospitals HospitalProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, hospitals, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, hospitals HospitalProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectInventoryMetrics(ctx, hospitals)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectInventoryMetrics(ctx, hospitals)
		}
	}
}

func (bm *BusinessMetrics) collectInventoryMetrics(ctx context.Context, hospitals HospitalProvider) {
	if bm.inventoryProvider == nil {
		bm.logger.Debug("No inventory provider configured, skipping inventory metrics collection")
		return
	}

	hospitalIDs, err := hospitals.GetActiveHospitalIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get hospital IDs for metrics collection", zap.Error(err))
		return
	}

	for _, hospitalID := range hospitalIDs {
		bm.collectHospitalInventoryMetrics(ctx, hospitalID)
	}
}

func (bm *BusinessMetrics) collectHospitalInventoryMetrics(ctx context.Context, hospitalID uuid.UUID) {
	onHand, err := bm.inventoryProvider.GetOnHandQuantityByProduct(ctx, hospitalID)
	if err != nil {
		bm.logger.Warn("Failed to get on-hand quantities for hospital",
			zap.String("hospital_id", hospitalID.String()),
			zap.Error(err),
		)
	} else {
		for productID, quantity := range onHand {
			bm.RecordOnHandQuantity(ctx, hospitalID, productID, quantity)
		}
	}

	lowStockCount, err := bm.inventoryProvider.GetLowStockCount(ctx, hospitalID)
	if err != nil {
		bm.logger.Warn("Failed to get low stock count for hospital",
			zap.String("hospital_id", hospitalID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordLowStockCount(ctx, hospitalID, lowStockCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
