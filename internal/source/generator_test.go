package source

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/pkg/utilities"
)

func TestGeneratorIsSeeded(t *testing.T) {
	g := &Generator{Seed: 42, Customers: 100, Purchases: 1000}
	a, err := g.Load(context.Background())
	require.NoError(t, err)
	b, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := (&Generator{Seed: 43, Customers: 100, Purchases: 1000}).Load(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a.Customers, other.Customers)
}

func TestGeneratorShape(t *testing.T) {
	in, err := (&Generator{Seed: 1, Customers: 20, Purchases: 200}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, in.Customers, 20)
	require.Len(t, in.Purchases, 200)
	assert.Equal(t, "generator", in.Origin)
	assert.Equal(t, int64(1), in.Seed)

	assert.Equal(t, "CUST_00001", in.Customers[0].CustomerID)
	assert.Equal(t, "CUST_00020", in.Customers[19].CustomerID)
	assert.Equal(t, "PUR_000001", in.Purchases[0].PurchaseID)
	assert.Equal(t, "PUR_000200", in.Purchases[199].PurchaseID)

	known := map[string]bool{}
	for _, c := range in.Customers {
		known[c.CustomerID] = true
		assert.True(t, strings.HasSuffix(c.Email, "@example.com"), c.Email)
		assert.Contains(t, cities, c.City)
		joined, err := utilities.ParseDate(c.JoinDate)
		require.NoError(t, err)
		assert.False(t, joined.Before(joinEpoch))
		assert.LessOrEqual(t, utilities.DaysBetween(joinEpoch, joined), joinSpanDays)
	}

	lo, hi := decimal.RequireFromString("1.99"), decimal.RequireFromString("9.99")
	for _, p := range in.Purchases {
		assert.True(t, known[p.CustomerID], p.CustomerID)
		assert.Contains(t, products, p.Product)
		assert.Contains(t, stores, p.StoreID)
		assert.GreaterOrEqual(t, p.Quantity, 1)
		assert.LessOrEqual(t, p.Quantity, 5)
		assert.True(t, p.Price.GreaterThanOrEqual(lo) && p.Price.LessThanOrEqual(hi), p.Price.String())
		assert.LessOrEqual(t, -p.Price.Exponent(), int32(2))
		bought, err := utilities.ParseDate(p.PurchaseDate)
		require.NoError(t, err)
		assert.LessOrEqual(t, utilities.DaysBetween(purchaseEpoch, bought), purchaseSpanDays)
	}
}

func TestGeneratorRejectsEmptyCustomerPool(t *testing.T) {
	_, err := (&Generator{Seed: 1, Customers: 0, Purchases: 10}).Load(context.Background())
	assert.Error(t, err)
}
