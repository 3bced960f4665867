package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/domain"
	"repairdesk/internal/repository"
)

func samsungA12() domain.UnlockDevice {
	return domain.UnlockDevice{
		Brand:           "Samsung",
		Model:           "A12",
		GoogleLock:      true,
		CanUnlock:       true,
		VersionOptions:  []string{"11.0", "12.0", "13.0"},
		SecurityOptions: []string{"January 2024", "February 2024"},
		BasebandOptions: []string{"1.0", "2.0", "3.0"},
	}
}

func TestDevice_Create_DefaultsSelectionsToFirstOption(t *testing.T) {
	ds := NewDeviceService(repository.NewMemoryDevices(repository.NewMemoryStore()), nil)
	d, err := ds.Create(context.Background(), samsungA12())
	require.NoError(t, err)
	require.Equal(t, int64(1), d.ID)
	require.Equal(t, "11.0", d.Version)
	require.Equal(t, "January 2024", d.Security)
	require.Equal(t, "1.0", d.Baseband)
}

func TestDevice_Create_KeepsExplicitSelection(t *testing.T) {
	ds := NewDeviceService(repository.NewMemoryDevices(repository.NewMemoryStore()), nil)
	in := samsungA12()
	in.Version = "12.0"
	in.BasebandOptions = []string{"1.0", " ", "2.0"}
	d, err := ds.Create(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "12.0", d.Version)
	require.Equal(t, []string{"1.0", "2.0"}, d.BasebandOptions)
}

func TestDevice_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	ds := NewDeviceService(repository.NewMemoryDevices(repository.NewMemoryStore()), nil)

	outside := samsungA12()
	outside.Version = "15.0"
	_, err := ds.Create(ctx, outside)
	require.ErrorIs(t, err, ErrInvalidInput)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "version", verr.Field)

	noOptions := samsungA12()
	noOptions.SecurityOptions = nil
	_, err = ds.Create(ctx, noOptions)
	require.ErrorIs(t, err, ErrInvalidInput)

	noModel := samsungA12()
	noModel.Model = ""
	_, err = ds.Create(ctx, noModel)
	require.ErrorIs(t, err, ErrInvalidInput)

	list, err := ds.List(ctx, repository.DeviceFilter{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestDevice_UpdateAndBrands(t *testing.T) {
	ctx := context.Background()
	ds := NewDeviceService(repository.NewMemoryDevices(repository.NewMemoryStore()), nil)
	d, err := ds.Create(ctx, samsungA12())
	require.NoError(t, err)

	d.CanUnlock = false
	d.Security = "February 2024"
	_, err = ds.Update(ctx, *d)
	require.NoError(t, err)

	got, err := ds.GetByID(ctx, d.ID)
	require.NoError(t, err)
	require.False(t, got.CanUnlock)
	require.Equal(t, "February 2024", got.Security)

	missing := samsungA12()
	missing.ID = 42
	_, err = ds.Update(ctx, missing)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.Equal(t, DefaultBrands, ds.Brands())
	custom := NewDeviceService(repository.NewMemoryDevices(repository.NewMemoryStore()), []string{"Nokia"})
	require.Equal(t, []string{"Nokia"}, custom.Brands())
}

func iphoneScreenQuote() domain.Quote {
	return domain.Quote{
		Product:        "iPhone 13 Screen",
		Price:          decimal.NewFromInt(150),
		RetailPrice:    decimal.NewFromInt(199),
		WholesalePrice: decimal.NewFromInt(175),
		UnitPrice:      decimal.NewFromInt(145),
		Shipping:       decimal.NewFromInt(15),
		Link:           "https://supplier.com/iphone-13-screen",
	}
}

func TestQuote_CreateUpdate(t *testing.T) {
	ctx := context.Background()
	qs := NewQuoteService(repository.NewMemoryQuotes(repository.NewMemoryStore()))

	q, err := qs.Create(ctx, iphoneScreenQuote())
	require.NoError(t, err)
	require.Equal(t, int64(1), q.ID)

	q.Shipping = decimal.NewFromInt(20)
	_, err = qs.Update(ctx, *q)
	require.NoError(t, err)
	got, err := qs.GetByID(ctx, q.ID)
	require.NoError(t, err)
	require.True(t, got.Shipping.Equal(decimal.NewFromInt(20)))

	list, err := qs.List(ctx, repository.QuoteFilter{Query: "iphone"})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestQuote_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	qs := NewQuoteService(repository.NewMemoryQuotes(repository.NewMemoryStore()))

	badLink := iphoneScreenQuote()
	badLink.Link = "not a link"
	_, err := qs.Create(ctx, badLink)
	require.ErrorIs(t, err, ErrInvalidInput)

	negative := iphoneScreenQuote()
	negative.Shipping = decimal.NewFromInt(-1)
	_, err = qs.Create(ctx, negative)
	require.ErrorIs(t, err, ErrInvalidInput)

	noProduct := iphoneScreenQuote()
	noProduct.Product = ""
	_, err = qs.Create(ctx, noProduct)
	require.ErrorIs(t, err, ErrInvalidInput)

	noLink := iphoneScreenQuote()
	noLink.Link = ""
	_, err = qs.Create(ctx, noLink)
	require.NoError(t, err)
}
