// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInventoryMetricsProvider implements InventoryMetricsProvider using GORM.
// It queries the inventory_stocks table directly for aggregated metrics.
type GormInventoryMetricsProvider struct {
	db *gorm.DB
}

// NewGormInventoryMetricsProvider creates a new GormInventoryMetricsProvider.
func NewGormInventoryMetricsProvider(db *gorm.DB) *GormInventoryMetricsProvider {
	return &GormInventoryMetricsProvider{db: db}
}

// GetOnHandQuantityByProduct returns the total on-hand quantity per product
// for a hospital, summed across lots.
func (p *GormInventoryMetricsProvider) GetOnHandQuantityByProduct(ctx context.Context, hospitalID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	type result struct {
		ProductID uuid.UUID       `gorm:"column:product_id"`
		Quantity  decimal.Decimal `gorm:"column:quantity"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("inventory_stocks").
		Select("product_id, COALESCE(SUM(quantity), 0) as quantity").
		Where("hospital_id = ?", hospitalID).
		Group("product_id").
		Having("SUM(quantity) > 0").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]decimal.Decimal, len(results))
	for _, r := range results {
		m[r.ProductID] = r.Quantity
	}

	return m, nil
}

// GetLowStockCount returns the number of products whose total on-hand
// quantity is at or below their reorder level.
func (p *GormInventoryMetricsProvider) GetLowStockCount(ctx context.Context, hospitalID uuid.UUID) (int64, error) {
	lowStock := p.db.
		Table("inventory_stocks").
		Select("inventory_stocks.product_id").
		Joins("JOIN products ON products.id = inventory_stocks.product_id").
		Where("inventory_stocks.hospital_id = ? AND products.reorder_level > 0", hospitalID).
		Group("inventory_stocks.product_id, products.reorder_level").
		Having("SUM(inventory_stocks.quantity) <= products.reorder_level")

	var count int64
	err := p.db.WithContext(ctx).
		Table("(?) as low_stock", lowStock).
		Count(&count).Error

	return count, err
}

// GormHospitalProvider implements HospitalProvider using GORM.
type GormHospitalProvider struct {
	db *gorm.DB
}

// NewGormHospitalProvider creates a new GormHospitalProvider.
func NewGormHospitalProvider(db *gorm.DB) *GormHospitalProvider {
	return &GormHospitalProvider{db: db}
}

// GetActiveHospitalIDs returns all active hospital IDs.
func (p *GormHospitalProvider) GetActiveHospitalIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("hospitals").
		Select("id").
		Where("active = ?", true).
		Find(&ids).Error

	return ids, err
}
