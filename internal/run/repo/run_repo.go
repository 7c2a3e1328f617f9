package repo

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/run/entity"
)

// Repo stores pipeline run records in PostgreSQL.
type Repo struct {
	db *sqlx.DB
}

// NewRepo constructs a new Repo with an existing connection.
func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

// EnsureTable ensures the pipeline_runs table and its index exist.
// Fields:
// - id varchar(32) PRIMARY KEY (snowflake or ksuid)
// - seed bigint
// - reference_date date
// - customers, purchases, summaries int row counts
// - metadata jsonb
// - created_at timestamptz (indexed)
func (r *Repo) EnsureTable(ctx context.Context) error {
	// Check if table exists using to_regclass (Postgres). If it exists, skip creation.
	var tblName sql.NullString
	if err := r.db.QueryRowContext(ctx, "SELECT to_regclass('public.pipeline_runs')").Scan(&tblName); err != nil {
		return err
	}
	if !tblName.Valid {
		createTable := `CREATE TABLE pipeline_runs (
			id varchar(32) PRIMARY KEY,
			seed bigint NOT NULL DEFAULT 0,
			reference_date date NOT NULL,
			customers int NOT NULL DEFAULT 0,
			purchases int NOT NULL DEFAULT 0,
			summaries int NOT NULL DEFAULT 0,
			metadata jsonb DEFAULT '{}'::jsonb,
			created_at timestamptz NOT NULL DEFAULT NOW()
		)`
		if _, err := r.db.ExecContext(ctx, createTable); err != nil {
			return err
		}
	}

	var idxName sql.NullString
	if err := r.db.QueryRowContext(ctx, "SELECT to_regclass('public.idx_pipeline_runs_created_at')").Scan(&idxName); err != nil {
		return err
	}
	if !idxName.Valid {
		createIndex := `CREATE INDEX idx_pipeline_runs_created_at ON pipeline_runs (created_at)`
		if _, err := r.db.ExecContext(ctx, createIndex); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a run record inside tx.
func (r *Repo) Create(ctx context.Context, tx *sqlx.Tx, run *entity.Run) error {
	const q = `INSERT INTO pipeline_runs (id,seed,reference_date,customers,purchases,summaries,metadata,created_at)
		VALUES (:id,:seed,:reference_date,:customers,:purchases,:summaries,:metadata,:created_at)`
	_, err := tx.NamedExecContext(ctx, q, run)
	return err
}
