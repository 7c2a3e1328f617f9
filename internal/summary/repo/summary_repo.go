package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/summary/entity"
)

const batchSize = 500

// SummaryRepo stores the customer summary table.
type SummaryRepo struct {
	db *sqlx.DB
}

func NewSummaryRepo(db *sqlx.DB) *SummaryRepo { return &SummaryRepo{db: db} }

// EnsureTable creates the customer_summary table if not exists (idempotent).
func (r *SummaryRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS customer_summary (
  customer_id varchar(32) PRIMARY KEY,
  total_spent NUMERIC NOT NULL,
  purchase_count INT NOT NULL,
  last_purchase DATE NOT NULL,
  city TEXT NOT NULL DEFAULT '',
  join_date DATE NOT NULL,
  tenure_days INT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// ReplaceAll swaps the table contents for rows inside tx.
func (r *SummaryRepo) ReplaceAll(ctx context.Context, tx *sqlx.Tx, rows []entity.CustomerSummary) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM customer_summary`); err != nil {
		return err
	}
	const q = `INSERT INTO customer_summary (customer_id,total_spent,purchase_count,last_purchase,city,join_date,tenure_days)
		VALUES (:customer_id,:total_spent,:purchase_count,:last_purchase,:city,:join_date,:tenure_days)`
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		if _, err := tx.NamedExecContext(ctx, q, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}
