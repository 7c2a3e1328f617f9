package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/purchase/entity"
)

const batchSize = 500

// PurchaseRepo stores cleaned purchases.
type PurchaseRepo struct {
	db *sqlx.DB
}

func NewPurchaseRepo(db *sqlx.DB) *PurchaseRepo { return &PurchaseRepo{db: db} }

// EnsureTable creates the purchases table if not exists (idempotent).
// customer_id is deliberately not a foreign key: dangling references are kept.
func (r *PurchaseRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS purchases (
  purchase_id varchar(32) PRIMARY KEY,
  customer_id varchar(32) NOT NULL,
  product TEXT NOT NULL DEFAULT '',
  quantity INT NOT NULL CHECK (quantity > 0),
  price NUMERIC NOT NULL CHECK (price > 0),
  store_id varchar(32) NOT NULL DEFAULT '',
  purchase_date DATE NOT NULL,
  total_amount NUMERIC NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_purchases_customer_id ON purchases(customer_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// ReplaceAll swaps the table contents for rows inside tx.
func (r *PurchaseRepo) ReplaceAll(ctx context.Context, tx *sqlx.Tx, rows []entity.Purchase) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM purchases`); err != nil {
		return err
	}
	const q = `INSERT INTO purchases (purchase_id,customer_id,product,quantity,price,store_id,purchase_date,total_amount)
		VALUES (:purchase_id,:customer_id,:product,:quantity,:price,:store_id,:purchase_date,:total_amount)`
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		if _, err := tx.NamedExecContext(ctx, q, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}
