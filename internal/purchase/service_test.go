package purchase

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/purchase/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/pkg/utilities"
)

func rawPurchase(id string, qty int, price string) entity.RawPurchase {
	return entity.RawPurchase{
		PurchaseID:   id,
		CustomerID:   "CUST_00001",
		Product:      "Milk",
		Quantity:     qty,
		Price:        decimal.RequireFromString(price),
		StoreID:      "Store_A",
		PurchaseDate: "2024-02-29",
	}
}

func TestCleanDropsNonPositive(t *testing.T) {
	svc := NewService(zap.NewNop().Sugar())
	out, err := svc.Clean([]entity.RawPurchase{
		rawPurchase("PUR_000001", 0, "2.50"),
		rawPurchase("PUR_000002", -1, "2.50"),
		rawPurchase("PUR_000003", 2, "0"),
		rawPurchase("PUR_000004", 2, "-1.99"),
		rawPurchase("PUR_000005", 3, "1.99"),
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "PUR_000005", out[0].PurchaseID)
}

func TestCleanDerivesTotal(t *testing.T) {
	svc := NewService(zap.NewNop().Sugar())
	out, err := svc.Clean([]entity.RawPurchase{
		rawPurchase("PUR_000001", 3, "1.10"),
		rawPurchase("PUR_000002", 1, "9.99"),
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	// 3 * 1.10 is exact in decimal, unlike float64
	assert.Equal(t, "3.3", out[0].TotalAmount.String())
	assert.Equal(t, "9.99", out[1].TotalAmount.String())
	assert.Equal(t, "2024-02-29", utilities.FormatDate(out[0].PurchaseDate))

	for _, p := range out {
		assert.Positive(t, p.Quantity)
		assert.True(t, p.Price.IsPositive())
		assert.True(t, p.TotalAmount.Equal(decimal.NewFromInt(int64(p.Quantity)).Mul(p.Price)))
	}
}

func TestCleanMalformedPurchaseDateIsFatal(t *testing.T) {
	bad := rawPurchase("PUR_000002", 1, "2.00")
	bad.PurchaseDate = "2024-02-30"

	out, err := NewService(zap.NewNop().Sugar()).Clean([]entity.RawPurchase{rawPurchase("PUR_000001", 1, "2.00"), bad})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, utilities.ErrMalformedDate))
	assert.Contains(t, err.Error(), "PUR_000002")
}

func TestCleanIgnoresDateOfDroppedRow(t *testing.T) {
	bad := rawPurchase("PUR_000001", 0, "2.00")
	bad.PurchaseDate = "not a date"

	out, err := NewService(zap.NewNop().Sugar()).Clean([]entity.RawPurchase{bad})
	require.NoError(t, err)
	assert.Empty(t, out)
}
