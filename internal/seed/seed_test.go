package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/repository"
	"repairdesk/internal/service"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Len(t, c.Brands, 11)
	require.Len(t, c.Products, 1)
	require.Len(t, c.UnlockDevices, 2)
	require.Len(t, c.Quotes, 2)

	p := c.Products[0]
	require.Equal(t, "Samsung", p.Brand)
	require.True(t, p.RetailPrice.Equal(decimal.NewFromInt(1300)))
	require.Equal(t, []string{"11.0", "12.0", "13.0"}, c.UnlockDevices[0].VersionOptions)
	require.False(t, c.UnlockDevices[1].CanUnlock)
	require.Equal(t, "https://supplier.com/s21-battery", c.Quotes[1].Link)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	products := service.NewProductService(store)
	devices := service.NewDeviceService(repository.NewMemoryDevices(store), nil)
	quotes := service.NewQuoteService(repository.NewMemoryQuotes(store))

	c, err := Default()
	require.NoError(t, err)
	require.NoError(t, Apply(ctx, c, products, devices, quotes))

	d, err := devices.GetByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Motorola", d.Brand)
	require.Equal(t, "13.0", d.Version)

	q, err := quotes.List(ctx, repository.QuoteFilter{Query: "battery"})
	require.NoError(t, err)
	require.Len(t, q, 1)
}

func TestLoad_FileAndErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("brands: [Nokia]\nproducts:\n  - brand: Nokia\n    model: \"3310\"\n    part: Battery\n    stock: 4\n    partPrice: 2.5\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Nokia"}, c.Brands)
	require.Len(t, c.Products, 1)
	require.Equal(t, "3310", c.Products[0].Model)
	require.True(t, c.Products[0].PartPrice.Equal(decimal.RequireFromString("2.5")))

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	_, err = Parse([]byte("products: {"))
	require.Error(t, err)
}

func TestApply_InvalidEntry(t *testing.T) {
	store := repository.NewMemoryStore()
	c, err := Parse([]byte("products:\n  - brand: Nokia\n"))
	require.NoError(t, err)
	err = Apply(context.Background(), c,
		service.NewProductService(store),
		service.NewDeviceService(repository.NewMemoryDevices(store), nil),
		service.NewQuoteService(repository.NewMemoryQuotes(store)))
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestParse_MoneyIsExact(t *testing.T) {
	c, err := Parse([]byte("quotes:\n  - product: Cable\n    price: 0.1\n    unitPrice: \"19.99\"\n    shipping: 1234567.89\n"))
	require.NoError(t, err)
	require.Len(t, c.Quotes, 1)
	q := c.Quotes[0]
	require.Equal(t, "0.1", q.Price.String())
	require.True(t, q.UnitPrice.Equal(decimal.RequireFromString("19.99")))
	require.Equal(t, "1234567.89", q.Shipping.String())
	require.True(t, q.RetailPrice.IsZero())

	_, err = Parse([]byte("quotes:\n  - product: Cable\n    price: cheap\n"))
	require.Error(t, err)
}
