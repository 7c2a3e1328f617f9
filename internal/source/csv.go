package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	customerentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/customer/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/pipeline"
	purchaseentity "github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/purchase/entity"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/sink"
)

var (
	ErrMissingColumn  = errors.New("missing column")
	ErrMalformedField = errors.New("malformed field")
)

// Dir loads raw customers.csv and purchases.csv from a directory laid out
// like the CSV sink output. Columns are matched by header name; extra columns are ignored.
type Dir struct {
	Path string
}

// Load reads both files. Numeric fields that do not parse fail the load.
func (d Dir) Load(_ context.Context) (pipeline.Input, error) {
	customers, err := readTable(filepath.Join(d.Path, sink.CustomersFile), customerentity.Columns, func(row record) (customerentity.RawCustomer, error) {
		return customerentity.RawCustomer{
			CustomerID: row.get("customer_id"),
			FirstName:  row.get("first_name"),
			LastName:   row.get("last_name"),
			Email:      row.get("email"),
			City:       row.get("city"),
			JoinDate:   row.get("join_date"),
		}, nil
	})
	if err != nil {
		return pipeline.Input{}, err
	}

	purchaseColumns := purchaseentity.Columns[:len(purchaseentity.Columns)-1] // total_amount is derived
	purchases, err := readTable(filepath.Join(d.Path, sink.PurchasesFile), purchaseColumns, func(row record) (purchaseentity.RawPurchase, error) {
		id := row.get("purchase_id")
		qty, err := strconv.Atoi(row.get("quantity"))
		if err != nil {
			return purchaseentity.RawPurchase{}, fmt.Errorf("purchase %s quantity %q: %w", id, row.get("quantity"), ErrMalformedField)
		}
		price, err := decimal.NewFromString(row.get("price"))
		if err != nil {
			return purchaseentity.RawPurchase{}, fmt.Errorf("purchase %s price %q: %w", id, row.get("price"), ErrMalformedField)
		}
		return purchaseentity.RawPurchase{
			PurchaseID:   id,
			CustomerID:   row.get("customer_id"),
			Product:      row.get("product"),
			Quantity:     qty,
			Price:        price,
			StoreID:      row.get("store_id"),
			PurchaseDate: row.get("purchase_date"),
		}, nil
	})
	if err != nil {
		return pipeline.Input{}, err
	}

	return pipeline.Input{Customers: customers, Purchases: purchases, Origin: "csv"}, nil
}

// record is one CSV row addressed by header name.
type record struct {
	index  map[string]int
	fields []string
}

func (r record) get(col string) string {
	return r.fields[r.index[col]]
}

func readTable[T any](path string, required []string, decode func(record) (T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: %w %q", path, ErrMissingColumn, col)
		}
	}

	var out []T
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		v, err := decode(record{index: index, fields: fields})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, v)
	}
	return out, nil
}
