package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/pipeline"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/sink"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/source"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/pkg/database"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, sugar); err != nil {
		sugar.Fatalf("pipeline failed: %v", err)
	}
}

func run(ctx context.Context, sugar *zap.SugaredLogger) error {
	cfg, err := pipeline.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	sugar.Infow("starting grocery pipeline",
		"output_dir", cfg.OutputDir,
		"input_dir", cfg.InputDir,
		"seed", cfg.Seed,
		"reference_date", utilities.FormatDate(cfg.ReferenceDate),
	)

	var src pipeline.Source = source.NewGenerator(cfg)
	if cfg.InputDir != "" {
		src = source.Dir{Path: cfg.InputDir}
	}
	in, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}

	sinks := []pipeline.Sink{sink.NewCSV(cfg.OutputDir, sugar.Named("csv"))}

	// optional database sink
	dbCfg := database.ConfigFromEnv()
	if dbCfg.Enabled() {
		db, err := database.Connect(ctx, dbCfg)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()

		pg := sink.NewPostgres(db, sugar.Named("postgres"))
		if err := pg.EnsureTables(ctx); err != nil {
			return err
		}
		sinks = append(sinks, pg)
	}

	res, err := pipeline.New(sugar, cfg.ReferenceDate).Run(ctx, in, sinks...)
	if err != nil {
		return err
	}
	sugar.Infof("processed %d customers and %d purchases", len(res.Customers), len(res.Purchases))
	sugar.Infof("generated customer summary with %d records", len(res.Summary))
	return nil
}
