package summary

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	customerentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/customer/entity"
	purchaseentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/purchase/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/summary/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/pkg/utilities"
)

// DefaultReferenceDate is the date tenure is measured against unless
// configured otherwise.
var DefaultReferenceDate = time.Date(2025, time.June, 27, 0, 0, 0, 0, time.UTC)

// Service aggregates cleaned purchases into per-customer summaries.
type Service struct {
	logger        *zap.SugaredLogger
	referenceDate time.Time
}

// NewService constructs a Service measuring tenure up to referenceDate.
func NewService(logger *zap.SugaredLogger, referenceDate time.Time) *Service {
	return &Service{logger: logger, referenceDate: referenceDate}
}

// group accumulates one customer's joined purchase rows.
type group struct {
	customerID string
	total      decimal.Decimal
	count      int
	last       time.Time

	// city comes from the row with the smallest purchase_id
	firstPurchaseID string
	city            string
}

// Aggregate left-joins purchases to customers, groups by customer_id and
// re-attaches join_date. Groups whose customer_id has no cleaned customer are
// left out, since they have no join date to measure tenure from. Rows are
// ordered by customer_id.
func (s *Service) Aggregate(customers []customerentity.Customer, purchases []purchaseentity.Purchase) []entity.CustomerSummary {
	byID := make(map[string]customerentity.Customer, len(customers))
	for _, c := range customers {
		if _, ok := byID[c.CustomerID]; !ok {
			byID[c.CustomerID] = c
		}
	}

	groups := make(map[string]*group)
	for _, p := range purchases {
		g, ok := groups[p.CustomerID]
		if !ok {
			g = &group{customerID: p.CustomerID, total: decimal.Zero}
			groups[p.CustomerID] = g
		}
		g.total = g.total.Add(p.TotalAmount)
		g.count++
		if p.PurchaseDate.After(g.last) {
			g.last = p.PurchaseDate
		}
		if g.firstPurchaseID == "" || p.PurchaseID < g.firstPurchaseID {
			g.firstPurchaseID = p.PurchaseID
			// unmatched rows carry no city
			g.city = byID[p.CustomerID].City
		}
	}

	out := make([]entity.CustomerSummary, 0, len(groups))
	var unmatched, unmatchedRows int
	for id, g := range groups {
		c, ok := byID[id]
		if !ok {
			unmatched++
			unmatchedRows += g.count
			continue
		}
		out = append(out, entity.CustomerSummary{
			CustomerID:    id,
			TotalSpent:    g.total,
			PurchaseCount: g.count,
			LastPurchase:  g.last,
			City:          g.city,
			JoinDate:      c.JoinDate,
			TenureDays:    utilities.DaysBetween(c.JoinDate, s.referenceDate),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })

	if unmatched > 0 {
		s.logger.Warnw("purchases reference unknown customers; excluded from summary",
			"customers", unmatched,
			"purchases", unmatchedRows,
		)
	}
	s.logger.Debugw("customer summary built", "groups", len(groups), "rows", len(out))
	return out
}
