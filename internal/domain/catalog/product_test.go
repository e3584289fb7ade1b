package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/backend/internal/domain/shared"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates active product with upper-cased SKU", func(t *testing.T) {
		p, err := NewProduct(uuid.New(), "vac-001", "광견병 백신", ProductCategoryDrug, "",
			decimal.NewFromInt(3000), decimal.NewFromInt(5000))
		require.NoError(t, err)
		assert.Equal(t, "VAC-001", p.SKU)
		assert.Equal(t, "EA", p.Unit)
		assert.True(t, p.Active)
		assert.True(t, p.ReorderLevel.IsZero())
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name     string
			sku      string
			prodName string
			category ProductCategory
			cost     decimal.Decimal
			wantCode string
		}{
			{"empty sku", "", "백신", ProductCategoryDrug, decimal.Zero, "INVALID_SKU"},
			{"empty name", "VAC-001", "", ProductCategoryDrug, decimal.Zero, "INVALID_NAME"},
			{"bad category", "VAC-001", "백신", ProductCategory("TOY"), decimal.Zero, "INVALID_CATEGORY"},
			{"negative price", "VAC-001", "백신", ProductCategoryDrug, decimal.NewFromInt(-1), "INVALID_PRICE"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewProduct(uuid.New(), tc.sku, tc.prodName, tc.category, "EA", tc.cost, decimal.Zero)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tc.wantCode, domainErr.Code)
			})
		}
	})
}

func TestProductUpdate(t *testing.T) {
	p, err := NewProduct(uuid.New(), "VAC-001", "백신", ProductCategoryDrug, "EA",
		decimal.NewFromInt(3000), decimal.NewFromInt(5000))
	require.NoError(t, err)

	t.Run("updates mutable fields", func(t *testing.T) {
		err := p.Update("광견병 백신", ProductCategoryDrug, "VIAL",
			decimal.NewFromInt(3500), decimal.NewFromInt(6000), decimal.NewFromInt(10), "냉장 보관")
		require.NoError(t, err)
		assert.Equal(t, "광견병 백신", p.Name)
		assert.Equal(t, "VIAL", p.Unit)
		assert.Equal(t, int64(10), p.ReorderLevel.IntPart())
	})

	t.Run("empty unit keeps previous unit", func(t *testing.T) {
		require.NoError(t, p.Update("광견병 백신", ProductCategoryDrug, "",
			decimal.NewFromInt(3500), decimal.NewFromInt(6000), decimal.NewFromInt(10), ""))
		assert.Equal(t, "VIAL", p.Unit)
	})

	t.Run("negative reorder level rejected", func(t *testing.T) {
		err := p.Update("백신", ProductCategoryDrug, "EA",
			decimal.Zero, decimal.Zero, decimal.NewFromInt(-1), "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REORDER_LEVEL", domainErr.Code)
	})
}

func TestProductLowStock(t *testing.T) {
	p, err := NewProduct(uuid.New(), "VAC-001", "백신", ProductCategoryDrug, "EA",
		decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	// Reorder level of zero disables the check entirely.
	assert.False(t, p.IsLowStock(decimal.Zero))

	require.NoError(t, p.Update("백신", ProductCategoryDrug, "EA",
		decimal.Zero, decimal.Zero, decimal.NewFromInt(5), ""))
	assert.True(t, p.IsLowStock(decimal.NewFromInt(5)))
	assert.True(t, p.IsLowStock(decimal.NewFromInt(3)))
	assert.False(t, p.IsLowStock(decimal.NewFromInt(6)))
}

func TestProductCategory(t *testing.T) {
	assert.True(t, ProductCategoryDrug.IsStockTracked())
	assert.True(t, ProductCategorySupply.IsStockTracked())
	assert.False(t, ProductCategoryService.IsStockTracked())
	assert.False(t, ProductCategory("TOY").IsValid())
}

func TestProductActivation(t *testing.T) {
	p, err := NewProduct(uuid.New(), "VAC-001", "백신", ProductCategoryDrug, "EA",
		decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	p.Deactivate()
	assert.False(t, p.Active)
	p.Activate()
	assert.True(t, p.Active)
}
