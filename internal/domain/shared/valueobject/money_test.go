package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyKRW(t *testing.T) {
	m := NewMoneyKRW(decimal.NewFromInt(50000))
	assert.Equal(t, KRW, m.Currency())
	assert.Equal(t, int64(50000), m.Amount().IntPart())
}

func TestNewMoneyKRWFromInt(t *testing.T) {
	m := NewMoneyKRWFromInt(18000)
	assert.Equal(t, KRW, m.Currency())
	assert.Equal(t, int64(18000), m.Amount().IntPart())
}

func TestNewMoneyKRWFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyKRWFromString("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyKRWFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestZeroKRW(t *testing.T) {
	m := ZeroKRW()
	assert.True(t, m.IsZero())
	assert.Equal(t, KRW, m.Currency())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a := NewMoneyKRWFromInt(10000)
		b := NewMoneyKRWFromInt(8000)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, int64(18000), sum.Amount().IntPart())
	})

	t.Run("rejects different currencies", func(t *testing.T) {
		a := NewMoneyKRWFromInt(10000)
		b, _ := NewMoney(decimal.NewFromInt(10), USD)
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("original values unchanged", func(t *testing.T) {
		a := NewMoneyKRWFromInt(100)
		b := NewMoneyKRWFromInt(50)
		_, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, int64(100), a.Amount().IntPart())
		assert.Equal(t, int64(50), b.Amount().IntPart())
	})
}

func TestMoneySubtract(t *testing.T) {
	t.Run("subtracts same currency", func(t *testing.T) {
		a := NewMoneyKRWFromInt(20000)
		b := NewMoneyKRWFromInt(2000)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, int64(18000), diff.Amount().IntPart())
	})

	t.Run("result can be negative", func(t *testing.T) {
		a := NewMoneyKRWFromInt(100)
		b := NewMoneyKRWFromInt(300)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
	})

	t.Run("rejects different currencies", func(t *testing.T) {
		a := NewMoneyKRWFromInt(100)
		b, _ := NewMoney(decimal.NewFromInt(1), JPY)
		_, err := a.Subtract(b)
		assert.Error(t, err)
	})
}

func TestMoneyClampNonNegative(t *testing.T) {
	t.Run("negative clamps to zero", func(t *testing.T) {
		m := NewMoneyKRWFromInt(-500).ClampNonNegative()
		assert.True(t, m.IsZero())
		assert.Equal(t, KRW, m.Currency())
	})

	t.Run("positive unchanged", func(t *testing.T) {
		m := NewMoneyKRWFromInt(500).ClampNonNegative()
		assert.Equal(t, int64(500), m.Amount().IntPart())
	})
}

func TestMoneyMultiply(t *testing.T) {
	m := NewMoneyKRWFromInt(10000).Multiply(decimal.NewFromInt(2))
	assert.Equal(t, int64(20000), m.Amount().IntPart())

	m = NewMoneyKRWFromInt(10000).MultiplyByInt(3)
	assert.Equal(t, int64(30000), m.Amount().IntPart())
}

func TestMoneyComparisons(t *testing.T) {
	a := NewMoneyKRWFromInt(100)
	b := NewMoneyKRWFromInt(200)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	gte, err := a.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, a.Equals(NewMoneyKRWFromInt(100)))
	assert.False(t, a.Equals(b))

	t.Run("comparison rejects different currencies", func(t *testing.T) {
		c, _ := NewMoney(decimal.NewFromInt(100), USD)
		_, err := a.LessThan(c)
		assert.Error(t, err)
	})
}

func TestMoneyCalculatePercentage(t *testing.T) {
	m := NewMoneyKRWFromInt(20000)
	pct := m.CalculatePercentage(decimal.NewFromInt(10))
	assert.Equal(t, int64(2000), pct.Amount().IntPart())
}

func TestMoneyApplyDiscount(t *testing.T) {
	m := NewMoneyKRWFromInt(20000).ApplyDiscount(decimal.NewFromInt(10))
	assert.Equal(t, int64(18000), m.Amount().IntPart())
}

func TestMoneyString(t *testing.T) {
	m := NewMoneyKRWFromInt(1500)
	assert.Equal(t, "1500 KRW", m.String())
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		m := NewMoneyKRWFromInt(18000)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"18000","currency":"KRW"}`, string(data))
	})

	t.Run("unmarshal", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"123.45","currency":"KRW"}`), &m)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
		assert.Equal(t, KRW, m.Currency())
	})

	t.Run("unmarshal defaults empty currency to KRW", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"10"}`), &m)
		require.NoError(t, err)
		assert.Equal(t, KRW, m.Currency())
	})

	t.Run("unmarshal rejects invalid amount", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"abc","currency":"KRW"}`), &m)
		assert.Error(t, err)
	})
}
