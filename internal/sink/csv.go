package sink

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	customerentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/customer/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/pipeline"
	purchaseentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/purchase/entity"
	summaryentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/summary/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/pkg/utilities"
)

const (
	CustomersFile = "customers.csv"
	PurchasesFile = "purchases.csv"
	SummaryFile   = "customer_summary.csv"
)

// CSV writes the three datasets as comma-separated files with a header row.
type CSV struct {
	dir    string
	logger *zap.SugaredLogger
}

// NewCSV constructs a CSV sink writing into dir, which is created if missing.
func NewCSV(dir string, logger *zap.SugaredLogger) *CSV {
	return &CSV{dir: dir, logger: logger}
}

type table struct {
	name   string
	header []string
	rows   [][]string
}

// Write renders every table to a temporary file first and moves them into
// place only once all of them are written. If moving fails part way, the
// previous run's files are put back.
func (s *CSV) Write(_ context.Context, res *pipeline.Result) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tables := []table{
		{name: CustomersFile, header: customerentity.Columns, rows: customerRows(res.Customers)},
		{name: PurchasesFile, header: purchaseentity.Columns, rows: purchaseRows(res.Purchases)},
		{name: SummaryFile, header: summaryentity.Columns, rows: summaryRows(res.Summary)},
	}

	var staged []string
	cleanup := func() {
		for _, p := range staged {
			_ = os.Remove(p)
		}
	}
	for _, t := range tables {
		tmp := filepath.Join(s.dir, t.name+".tmp")
		staged = append(staged, tmp)
		if err := writeTable(tmp, t); err != nil {
			cleanup()
			return err
		}
	}
	if err := s.swap(tables, staged); err != nil {
		cleanup()
		return err
	}
	for _, t := range tables {
		s.logger.Debugw("csv written", "file", t.name, "rows", len(t.rows))
	}
	return nil
}

// swap sets existing outputs aside as <name>.prev, renames the staged files
// into place and drops the .prev copies. Any failure restores the .prev
// copies and removes new files already placed.
func (s *CSV) swap(tables []table, staged []string) error {
	var backedUp, placed []string
	rollback := func() {
		for _, p := range placed {
			_ = os.Remove(p)
		}
		for _, final := range backedUp {
			_ = os.Rename(final+".prev", final)
		}
	}

	for _, t := range tables {
		final := filepath.Join(s.dir, t.name)
		_, err := os.Lstat(final)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err == nil {
			err = os.Rename(final, final+".prev")
		}
		if err != nil {
			rollback()
			return fmt.Errorf("set aside %s: %w", t.name, err)
		}
		backedUp = append(backedUp, final)
	}

	for i, t := range tables {
		final := filepath.Join(s.dir, t.name)
		if err := os.Rename(staged[i], final); err != nil {
			rollback()
			return fmt.Errorf("rename %s: %w", t.name, err)
		}
		placed = append(placed, final)
	}

	for _, final := range backedUp {
		_ = os.Remove(final + ".prev")
	}
	return nil
}

func writeTable(path string, t table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", t.name, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(t.header); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", t.name, err)
	}
	if err := w.WriteAll(t.rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", t.name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", t.name, err)
	}
	return nil
}

func customerRows(customers []customerentity.Customer) [][]string {
	rows := make([][]string, len(customers))
	for i, c := range customers {
		rows[i] = []string{c.CustomerID, c.FirstName, c.LastName, c.Email, c.City, utilities.FormatDate(c.JoinDate)}
	}
	return rows
}

func purchaseRows(purchases []purchaseentity.Purchase) [][]string {
	rows := make([][]string, len(purchases))
	for i, p := range purchases {
		rows[i] = []string{
			p.PurchaseID,
			p.CustomerID,
			p.Product,
			strconv.Itoa(p.Quantity),
			p.Price.String(),
			p.StoreID,
			utilities.FormatDate(p.PurchaseDate),
			p.TotalAmount.String(),
		}
	}
	return rows
}

func summaryRows(summary []summaryentity.CustomerSummary) [][]string {
	rows := make([][]string, len(summary))
	for i, s := range summary {
		rows[i] = []string{
			s.CustomerID,
			s.TotalSpent.String(),
			strconv.Itoa(s.PurchaseCount),
			utilities.FormatDate(s.LastPurchase),
			s.City,
			utilities.FormatDate(s.JoinDate),
			strconv.Itoa(s.TenureDays),
		}
	}
	return rows
}
