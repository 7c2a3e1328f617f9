package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	customerrepo "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/customer/repo"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/pipeline"
	purchaserepo "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/purchase/repo"
	runentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/run/entity"
	runrepo "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/run/repo"
	summaryrepo "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/summary/repo"
)

// Postgres replaces the customers, purchases and customer_summary tables with
// the run's datasets and records the run, all in one transaction.
type Postgres struct {
	db        *sqlx.DB
	logger    *zap.SugaredLogger
	customers *customerrepo.CustomerRepo
	purchases *purchaserepo.PurchaseRepo
	summary   *summaryrepo.SummaryRepo
	runs      *runrepo.Repo
}

// NewPostgres constructs a Postgres sink on an open connection.
func NewPostgres(db *sqlx.DB, logger *zap.SugaredLogger) *Postgres {
	return &Postgres{
		db:        db,
		logger:    logger,
		customers: customerrepo.NewCustomerRepo(db),
		purchases: purchaserepo.NewPurchaseRepo(db),
		summary:   summaryrepo.NewSummaryRepo(db),
		runs:      runrepo.NewRepo(db),
	}
}

// EnsureTables creates every table the sink writes to.
func (s *Postgres) EnsureTables(ctx context.Context) error {
	steps := []struct {
		table  string
		ensure func(context.Context) error
	}{
		{"customers", s.customers.EnsureTable},
		{"purchases", s.purchases.EnsureTable},
		{"customer_summary", s.summary.EnsureTable},
		{"pipeline_runs", s.runs.EnsureTable},
	}
	for _, step := range steps {
		if err := step.ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s: %w", step.table, err)
		}
	}
	return nil
}

func (s *Postgres) Write(ctx context.Context, res *pipeline.Result) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.customers.ReplaceAll(ctx, tx, res.Customers); err != nil {
		return fmt.Errorf("store customers: %w", err)
	}
	if err = s.purchases.ReplaceAll(ctx, tx, res.Purchases); err != nil {
		return fmt.Errorf("store purchases: %w", err)
	}
	if err = s.summary.ReplaceAll(ctx, tx, res.Summary); err != nil {
		return fmt.Errorf("store customer summary: %w", err)
	}
	if err = s.runs.Create(ctx, tx, runRecord(res)); err != nil {
		return fmt.Errorf("store run: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debugw("postgres written", "run_id", res.RunID)
	return nil
}

func runRecord(res *pipeline.Result) *runentity.Run {
	run := runentity.NewRun(res.RunID, res.Seed, res.ReferenceDate, len(res.Customers), len(res.Purchases), len(res.Summary))
	if meta, err := json.Marshal(map[string]string{"origin": res.Origin}); err == nil {
		run.Metadata = string(meta)
	}
	return run
}
