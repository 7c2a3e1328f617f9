package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/pipeline"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/sink"
	"github.com/ovaphlow/pitchfork/service-grocery-pipeline/internal/summary"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDirLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, sink.CustomersFile,
		"email,customer_id,first_name,last_name,city,join_date,extra\n"+
			"Jane.Doe@example.com,CUST_00001,Jane,Doe,Chicago,2021-02-03,x\n")
	writeFile(t, dir, sink.PurchasesFile,
		"purchase_id,customer_id,product,quantity,price,store_id,purchase_date\n"+
			"PUR_000001,CUST_00001,Milk,2,3.49,Store_A,2024-05-06\n")

	in, err := Dir{Path: dir}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "csv", in.Origin)
	require.Len(t, in.Customers, 1)
	assert.Equal(t, "CUST_00001", in.Customers[0].CustomerID)
	assert.Equal(t, "Jane.Doe@example.com", in.Customers[0].Email)
	assert.Equal(t, "2021-02-03", in.Customers[0].JoinDate)
	require.Len(t, in.Purchases, 1)
	assert.Equal(t, 2, in.Purchases[0].Quantity)
	assert.Equal(t, "3.49", in.Purchases[0].Price.String())
}

func TestDirLoadErrors(t *testing.T) {
	customers := "customer_id,first_name,last_name,email,city,join_date\n"

	t.Run("missing file", func(t *testing.T) {
		_, err := Dir{Path: t.TempDir()}.Load(context.Background())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("missing column", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, sink.CustomersFile, "customer_id,email\n")
		_, err := Dir{Path: dir}.Load(context.Background())
		assert.ErrorIs(t, err, ErrMissingColumn)
	})
	t.Run("bad quantity", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, sink.CustomersFile, customers)
		writeFile(t, dir, sink.PurchasesFile,
			"purchase_id,customer_id,product,quantity,price,store_id,purchase_date\n"+
				"PUR_000001,CUST_00001,Milk,two,3.49,Store_A,2024-05-06\n")
		_, err := Dir{Path: dir}.Load(context.Background())
		assert.ErrorIs(t, err, ErrMalformedField)
		assert.Contains(t, err.Error(), "PUR_000001")
	})
	t.Run("bad price", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, sink.CustomersFile, customers)
		writeFile(t, dir, sink.PurchasesFile,
			"purchase_id,customer_id,product,quantity,price,store_id,purchase_date\n"+
				"PUR_000001,CUST_00001,Milk,2,$3.49,Store_A,2024-05-06\n")
		_, err := Dir{Path: dir}.Load(context.Background())
		assert.ErrorIs(t, err, ErrMalformedField)
	})
}

// The CSV sink output of one run is valid input for the next, and cleaning
// it again changes nothing.
func TestDirLoadsSinkOutput(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	p := pipeline.New(zap.NewNop().Sugar(), summary.DefaultReferenceDate)

	generated, err := (&Generator{Seed: 42, Customers: 50, Purchases: 300}).Load(ctx)
	require.NoError(t, err)
	first, err := p.Run(ctx, generated, sink.NewCSV(dir, zap.NewNop().Sugar()))
	require.NoError(t, err)

	reloaded, err := Dir{Path: dir}.Load(ctx)
	require.NoError(t, err)
	second, err := p.Transform(reloaded)
	require.NoError(t, err)

	assert.Equal(t, first.Customers, second.Customers)
	require.Len(t, second.Purchases, len(first.Purchases))
	for i := range first.Purchases {
		assert.True(t, first.Purchases[i].TotalAmount.Equal(second.Purchases[i].TotalAmount))
	}

	// decimals are compared by value; the reloaded ones carry fewer trailing zeros
	require.Len(t, second.Summary, len(first.Summary))
	for i, want := range first.Summary {
		got := second.Summary[i]
		assert.True(t, want.TotalSpent.Equal(got.TotalSpent), want.CustomerID)
		want.TotalSpent = got.TotalSpent
		assert.Equal(t, want, got)
	}
}
