package entity

import "time"

// RawCustomer is a customer row as produced by a source, before cleaning.
type RawCustomer struct {
	CustomerID string
	FirstName  string
	LastName   string
	Email      string
	City       string
	JoinDate   string
}

// Customer is a cleaned customer: lowercase unique email and a parsed join date.
type Customer struct {
	CustomerID string    `db:"customer_id"`
	FirstName  string    `db:"first_name"`
	LastName   string    `db:"last_name"`
	Email      string    `db:"email"`
	City       string    `db:"city"`
	JoinDate   time.Time `db:"join_date"`
}

// Columns is the fixed column order of the customers dataset.
var Columns = []string{"customer_id", "first_name", "last_name", "email", "city", "join_date"}
