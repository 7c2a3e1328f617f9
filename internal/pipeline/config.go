package pipeline

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/summary"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/pkg/utilities"
)

type Config struct {
	OutputDir     string
	InputDir      string // empty: generate mock data
	Seed          int64
	CustomerCount int
	PurchaseCount int
	ReferenceDate time.Time
}

// ConfigFromEnv reads pipeline config from environment variables, falling
// back to the defaults of the original grocery job.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		OutputDir:     os.Getenv("OUTPUT_DIR"),
		InputDir:      os.Getenv("INPUT_DIR"),
		Seed:          42,
		CustomerCount: 100,
		PurchaseCount: 1000,
		ReferenceDate: summary.DefaultReferenceDate,
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "grocery_data"
	}
	if v := os.Getenv("PIPELINE_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("PIPELINE_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	var err error
	if cfg.CustomerCount, err = positiveFromEnv("CUSTOMER_COUNT", cfg.CustomerCount); err != nil {
		return Config{}, err
	}
	if cfg.PurchaseCount, err = positiveFromEnv("PURCHASE_COUNT", cfg.PurchaseCount); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("REFERENCE_DATE"); v != "" {
		ref, err := utilities.ParseDate(v)
		if err != nil {
			return Config{}, fmt.Errorf("REFERENCE_DATE: %w", err)
		}
		cfg.ReferenceDate = ref
	}
	return cfg, nil
}

func positiveFromEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}
