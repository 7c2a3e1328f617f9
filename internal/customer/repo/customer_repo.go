package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/customer/entity"
)

// batchSize keeps each multi-row INSERT well under the postgres bind limit.
const batchSize = 500

// CustomerRepo stores cleaned customers.
type CustomerRepo struct {
	db *sqlx.DB
}

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// EnsureTable creates the customers table if not exists (idempotent).
func (r *CustomerRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS customers (
  customer_id varchar(32) PRIMARY KEY,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL,
  city TEXT NOT NULL DEFAULT '',
  join_date DATE NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_email ON customers(email);
CREATE INDEX IF NOT EXISTS idx_customers_city ON customers(city);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// ReplaceAll swaps the table contents for rows inside tx.
func (r *CustomerRepo) ReplaceAll(ctx context.Context, tx *sqlx.Tx, rows []entity.Customer) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM customers`); err != nil {
		return err
	}
	const q = `INSERT INTO customers (customer_id,first_name,last_name,email,city,join_date)
		VALUES (:customer_id,:first_name,:last_name,:email,:city,:join_date)`
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		if _, err := tx.NamedExecContext(ctx, q, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}
