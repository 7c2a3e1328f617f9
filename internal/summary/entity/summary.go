package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerSummary holds the per-customer purchase metrics.
type CustomerSummary struct {
	CustomerID    string          `db:"customer_id"`
	TotalSpent    decimal.Decimal `db:"total_spent"`
	PurchaseCount int             `db:"purchase_count"`
	LastPurchase  time.Time       `db:"last_purchase"`
	City          string          `db:"city"`
	JoinDate      time.Time       `db:"join_date"`
	TenureDays    int             `db:"tenure_days"`
}

// Columns is the fixed column order of the customer summary dataset.
var Columns = []string{"customer_id", "total_spent", "purchase_count", "last_purchase", "city", "join_date", "tenure_days"}
