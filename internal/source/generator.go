package source

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	customerentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/customer/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/pipeline"
	purchaseentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/purchase/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/pkg/utilities"
)

var (
	firstNames = []string{"John", "Jane", "Mike", "Sarah", "Emma", "David", "Lisa", "Chris", "Amy", "Tom"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis"}
	cities     = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix"}
	products   = []string{"Milk", "Bread", "Eggs", "Cheese", "Yogurt", "Apples", "Bananas", "Chicken", "Pasta", "Rice"}
	stores     = []string{"Store_A", "Store_B", "Store_C"}

	joinEpoch     = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	purchaseEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
)

const (
	joinSpanDays     = 1825
	purchaseSpanDays = 365

	minPrice = 1.99
	maxPrice = 9.99
)

// Generator produces mock grocery customers and purchases. Output depends
// only on its fields, so equal generators yield equal input.
type Generator struct {
	Seed      int64
	Customers int
	Purchases int
}

// NewGenerator constructs a Generator from pipeline config.
func NewGenerator(cfg pipeline.Config) *Generator {
	return &Generator{Seed: cfg.Seed, Customers: cfg.CustomerCount, Purchases: cfg.PurchaseCount}
}

// Load generates a fresh input from the seed.
func (g *Generator) Load(_ context.Context) (pipeline.Input, error) {
	if g.Customers <= 0 {
		return pipeline.Input{}, fmt.Errorf("generator: customer count must be positive, got %d", g.Customers)
	}
	r := rand.New(rand.NewSource(g.Seed))
	return pipeline.Input{
		Customers: g.customers(r),
		Purchases: g.purchases(r),
		Origin:    "generator",
		Seed:      g.Seed,
	}, nil
}

func (g *Generator) customers(r *rand.Rand) []customerentity.RawCustomer {
	out := make([]customerentity.RawCustomer, g.Customers)
	for i := range out {
		// the email uses its own name draw, so it rarely matches the
		// customer's name and collides often
		emailFirst, emailLast := pick(r, firstNames), pick(r, lastNames)
		out[i] = customerentity.RawCustomer{
			CustomerID: customerID(i + 1),
			FirstName:  pick(r, firstNames),
			LastName:   pick(r, lastNames),
			Email:      strings.ToLower(emailFirst) + "." + strings.ToLower(emailLast) + "@example.com",
			City:       pick(r, cities),
			JoinDate:   utilities.FormatDate(joinEpoch.AddDate(0, 0, r.Intn(joinSpanDays+1))),
		}
	}
	return out
}

func (g *Generator) purchases(r *rand.Rand) []purchaseentity.RawPurchase {
	out := make([]purchaseentity.RawPurchase, g.Purchases)
	for i := range out {
		price := minPrice + r.Float64()*(maxPrice-minPrice)
		out[i] = purchaseentity.RawPurchase{
			PurchaseID:   fmt.Sprintf("PUR_%06d", i+1),
			CustomerID:   customerID(r.Intn(g.Customers) + 1),
			Product:      pick(r, products),
			Quantity:     r.Intn(5) + 1,
			Price:        decimal.NewFromFloat(price).Round(2),
			StoreID:      pick(r, stores),
			PurchaseDate: utilities.FormatDate(purchaseEpoch.AddDate(0, 0, r.Intn(purchaseSpanDays+1))),
		}
	}
	return out
}

func customerID(n int) string {
	return fmt.Sprintf("CUST_%05d", n)
}

func pick(r *rand.Rand, xs []string) string {
	return xs[r.Intn(len(xs))]
}
