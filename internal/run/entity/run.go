package entity

import "time"

// Run records one completed pipeline execution.
type Run struct {
	ID            string    `db:"id"`
	Seed          int64     `db:"seed"`
	ReferenceDate time.Time `db:"reference_date"`
	Customers     int       `db:"customers"`
	Purchases     int       `db:"purchases"`
	Summaries     int       `db:"summaries"`
	Metadata      string    `db:"metadata"` // JSON object
	CreatedAt     time.Time `db:"created_at"`
}

// NewRun creates a Run stamped with the current UTC time.
func NewRun(id string, seed int64, referenceDate time.Time, customers, purchases, summaries int) *Run {
	return &Run{
		ID:            id,
		Seed:          seed,
		ReferenceDate: referenceDate,
		Customers:     customers,
		Purchases:     purchases,
		Summaries:     summaries,
		Metadata:      "{}",
		CreatedAt:     time.Now().UTC(),
	}
}
