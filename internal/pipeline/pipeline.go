package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/customer"
	customerentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/customer/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/purchase"
	purchaseentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/purchase/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/summary"
	summaryentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/summary/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/pkg/utilities"
)

var ErrNoSink = errors.New("no sink configured")

// Input is the raw data handed to a run by a Source.
type Input struct {
	Customers []customerentity.RawCustomer
	Purchases []purchaseentity.RawPurchase

	// Origin names the source ("generator", "csv") and Seed is the generator
	// seed, if any. Both are recorded with the run only.
	Origin string
	Seed   int64
}

// Source produces the raw input of a run.
type Source interface {
	Load(ctx context.Context) (Input, error)
}

// Result holds the three datasets of a completed run.
type Result struct {
	RunID         string
	Origin        string
	Seed          int64
	ReferenceDate time.Time
	Customers     []customerentity.Customer
	Purchases     []purchaseentity.Purchase
	Summary       []summaryentity.CustomerSummary
}

// Sink persists a Result.
type Sink interface {
	Write(ctx context.Context, res *Result) error
}

// Pipeline runs the clean and aggregate stages.
type Pipeline struct {
	logger        *zap.SugaredLogger
	referenceDate time.Time
	customers     *customer.Service
	purchases     *purchase.Service
	summary       *summary.Service
}

// New constructs a Pipeline measuring customer tenure up to referenceDate.
func New(logger *zap.SugaredLogger, referenceDate time.Time) *Pipeline {
	return &Pipeline{
		logger:        logger,
		referenceDate: referenceDate,
		customers:     customer.NewService(logger.Named("customer")),
		purchases:     purchase.NewService(logger.Named("purchase")),
		summary:       summary.NewService(logger.Named("summary"), referenceDate),
	}
}

// Transform cleans both inputs and builds the customer summary. It does no I/O.
func (p *Pipeline) Transform(in Input) (*Result, error) {
	customers, err := p.customers.Clean(in.Customers)
	if err != nil {
		return nil, fmt.Errorf("clean customers: %w", err)
	}
	purchases, err := p.purchases.Clean(in.Purchases)
	if err != nil {
		return nil, fmt.Errorf("clean purchases: %w", err)
	}
	return &Result{
		Origin:        in.Origin,
		Seed:          in.Seed,
		ReferenceDate: p.referenceDate,
		Customers:     customers,
		Purchases:     purchases,
		Summary:       p.summary.Aggregate(customers, purchases),
	}, nil
}

// Run transforms in and hands the result to every sink in order. Nothing is
// written when the transform fails.
func (p *Pipeline) Run(ctx context.Context, in Input, sinks ...Sink) (*Result, error) {
	if len(sinks) == 0 {
		return nil, ErrNoSink
	}
	res, err := p.Transform(in)
	if err != nil {
		return nil, err
	}
	res.RunID = utilities.NewRunID()

	log := p.logger.With("run_id", res.RunID)
	for _, s := range sinks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.Write(ctx, res); err != nil {
			return nil, fmt.Errorf("write %T: %w", s, err)
		}
		log.Debugw("sink written", "sink", fmt.Sprintf("%T", s))
	}
	log.Infow("pipeline completed",
		"customers", len(res.Customers),
		"purchases", len(res.Purchases),
		"summary_rows", len(res.Summary),
	)
	return res, nil
}
