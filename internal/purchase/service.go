package purchase

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/purchase/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/pkg/utilities"
)

// Service cleans raw purchase records.
type Service struct {
	logger *zap.SugaredLogger
}

// NewService constructs a Service.
func NewService(logger *zap.SugaredLogger) *Service {
	return &Service{logger: logger}
}

// Clean drops lines with a non-positive quantity or price, parses purchase
// dates and derives total_amount. A malformed date fails the whole batch.
func (s *Service) Clean(raw []entity.RawPurchase) ([]entity.Purchase, error) {
	out := make([]entity.Purchase, 0, len(raw))
	var dropped int

	for _, rp := range raw {
		if rp.Quantity <= 0 || !rp.Price.IsPositive() {
			dropped++
			continue
		}
		bought, err := utilities.ParseDate(rp.PurchaseDate)
		if err != nil {
			return nil, fmt.Errorf("purchase %s purchase_date: %w", rp.PurchaseID, err)
		}
		out = append(out, entity.Purchase{
			PurchaseID:   rp.PurchaseID,
			CustomerID:   rp.CustomerID,
			Product:      rp.Product,
			Quantity:     rp.Quantity,
			Price:        rp.Price,
			StoreID:      rp.StoreID,
			PurchaseDate: bought,
			TotalAmount:  decimal.NewFromInt(int64(rp.Quantity)).Mul(rp.Price),
		})
	}

	s.logger.Debugw("purchases cleaned", "in", len(raw), "out", len(out), "dropped", dropped)
	return out, nil
}
