package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawPurchase is a purchase row as produced by a source, before cleaning.
type RawPurchase struct {
	PurchaseID   string
	CustomerID   string
	Product      string
	Quantity     int
	Price        decimal.Decimal
	StoreID      string
	PurchaseDate string
}

// Purchase is a cleaned purchase line with its derived total.
type Purchase struct {
	PurchaseID   string          `db:"purchase_id"`
	CustomerID   string          `db:"customer_id"`
	Product      string          `db:"product"`
	Quantity     int             `db:"quantity"`
	Price        decimal.Decimal `db:"price"`
	StoreID      string          `db:"store_id"`
	PurchaseDate time.Time       `db:"purchase_date"`
	TotalAmount  decimal.Decimal `db:"total_amount"`
}

// Columns is the fixed column order of the purchases dataset.
var Columns = []string{"purchase_id", "customer_id", "product", "quantity", "price", "store_id", "purchase_date", "total_amount"}
