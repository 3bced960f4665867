package repository

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/domain"
)

func samsungA12() domain.Product {
	return domain.Product{
		Brand: "Samsung", Model: "A12", Part: "Screen", Color: "Black", Stock: 1,
		RetailPrice:    decimal.NewFromInt(1300),
		WholesalePrice: decimal.NewFromInt(999),
		PartPrice:      decimal.NewFromInt(600),
	}
}

func TestMemoryStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := samsungA12()
	require.NoError(t, store.Create(ctx, &p))
	require.Equal(t, int64(1), p.ID)

	got, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)

	p.Stock = 12
	require.NoError(t, store.Update(ctx, &p))
	got, _ = store.GetByID(ctx, p.ID)
	require.Equal(t, int64(12), got.Stock)

	require.NoError(t, store.Delete(ctx, p.ID))
	_, err = store.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SequentialIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for i := 1; i <= 5; i++ {
		p := samsungA12()
		require.NoError(t, store.Create(ctx, &p))
		require.Equal(t, int64(i), p.ID)
	}
	list, err := store.List(ctx, ProductFilter{})
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, p := range list {
		require.Equal(t, int64(i+1), p.ID)
	}
}

func TestMemoryStore_IDsNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a, b := samsungA12(), samsungA12()
	require.NoError(t, store.Create(ctx, &a))
	require.NoError(t, store.Create(ctx, &b))
	require.NoError(t, store.Delete(ctx, a.ID))

	c := samsungA12()
	require.NoError(t, store.Create(ctx, &c))
	require.Equal(t, int64(3), c.ID)
}

func TestMemoryStore_UpdateMissingLeavesCollection(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := samsungA12()
	require.NoError(t, store.Create(ctx, &p))
	before, _ := store.List(ctx, ProductFilter{})

	ghost := samsungA12()
	ghost.ID = 99
	ghost.Brand = "Nokia"
	require.ErrorIs(t, store.Update(ctx, &ghost), ErrNotFound)

	after, _ := store.List(ctx, ProductFilter{})
	require.Equal(t, before, after)
}

func TestMemoryStore_ProductSearch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := samsungA12()
	require.NoError(t, store.Create(ctx, &p))

	for _, q := range []string{"samsung", "A12", "SAMSUNG", "scr", "1300"} {
		list, err := store.List(ctx, ProductFilter{Query: q})
		require.NoError(t, err)
		require.Len(t, list, 1, "query %q", q)
	}
	list, err := store.List(ctx, ProductFilter{Query: "iphone"})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestMemoryDevices_BrandFilterAndSearch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	devices := NewMemoryDevices(store)

	a := domain.UnlockDevice{Brand: "Samsung", Model: "A12", Version: "12.0", VersionOptions: []string{"11.0", "12.0"}}
	b := domain.UnlockDevice{Brand: "Motorola", Model: "G Power", Version: "13.0", VersionOptions: []string{"13.0"}}
	require.NoError(t, devices.Create(ctx, &a))
	require.NoError(t, devices.Create(ctx, &b))
	require.Equal(t, int64(1), a.ID)
	require.Equal(t, int64(2), b.ID)

	list, err := devices.List(ctx, DeviceFilter{Brand: "Motorola"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "G Power", list[0].Model)

	list, err = devices.List(ctx, DeviceFilter{Query: "11.0"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "A12", list[0].Model)

	list, err = devices.List(ctx, DeviceFilter{Brand: "Samsung", Query: "power"})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestMemoryDevices_StoredCopyIsIsolated(t *testing.T) {
	ctx := context.Background()
	devices := NewMemoryDevices(NewMemoryStore())
	d := domain.UnlockDevice{Brand: "Samsung", Model: "A12", VersionOptions: []string{"11.0"}}
	require.NoError(t, devices.Create(ctx, &d))

	d.VersionOptions[0] = "mutated"
	got, err := devices.GetByID(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, "11.0", got.VersionOptions[0])
}

func TestMemoryQuotes_CRUD(t *testing.T) {
	ctx := context.Background()
	quotes := NewMemoryQuotes(NewMemoryStore())
	q := domain.Quote{Product: "iPhone 13 Screen", Price: decimal.NewFromInt(150)}
	require.NoError(t, quotes.Create(ctx, &q))
	require.Equal(t, int64(1), q.ID)

	q.Price = decimal.NewFromInt(140)
	require.NoError(t, quotes.Update(ctx, &q))
	got, err := quotes.GetByID(ctx, q.ID)
	require.NoError(t, err)
	require.True(t, got.Price.Equal(decimal.NewFromInt(140)))

	missing := domain.Quote{ID: 42}
	require.ErrorIs(t, quotes.Update(ctx, &missing), ErrNotFound)

	list, err := quotes.List(ctx, QuoteFilter{Query: "IPHONE"})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestMemoryOrders_CreateListFilter(t *testing.T) {
	ctx := context.Background()
	orders := NewMemoryOrders(NewMemoryStore())

	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		o := domain.Order{
			OrderNumber: fmt.Sprintf("ORD-123456-00%d", i),
			Timestamp:   ts.AddDate(0, 0, i),
			Status:      domain.OrderStatusNew,
		}
		require.NoError(t, orders.Create(ctx, &o))
		require.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}$`), o.ID)
		require.NotNil(t, o.Comments)
	}

	all, err := orders.List(ctx, OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "ORD-123456-000", all[0].OrderNumber)
	require.Equal(t, "ORD-123456-002", all[2].OrderNumber)

	byNumber, err := orders.List(ctx, OrderFilter{Number: "ord-123456-001"})
	require.NoError(t, err)
	require.Len(t, byNumber, 1)

	byDate, err := orders.List(ctx, OrderFilter{Date: "2024-03-03"})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	require.Equal(t, "ORD-123456-002", byDate[0].OrderNumber)

	taken, err := orders.NumberTaken(ctx, "ORD-123456-001")
	require.NoError(t, err)
	require.True(t, taken)
	taken, _ = orders.NumberTaken(ctx, "ORD-123456-999")
	require.False(t, taken)
}

func TestMemoryOrders_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	orders := NewMemoryOrders(NewMemoryStore())
	o := domain.Order{ID: "nope"}
	require.ErrorIs(t, orders.Update(ctx, &o), ErrNotFound)
	_, err := orders.GetByID(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTx_SerializesWriters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tx := NewMemoryTx(store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tx.WithTransaction(ctx, func(ctx context.Context) error {
				p := samsungA12()
				return store.Create(ctx, &p)
			})
		}()
	}
	wg.Wait()

	list, err := store.List(ctx, ProductFilter{})
	require.NoError(t, err)
	require.Len(t, list, 20)
	for i, p := range list {
		require.Equal(t, int64(i+1), p.ID)
	}
}

func TestMatchesQuery(t *testing.T) {
	require.True(t, MatchesQuery("", nil))
	require.True(t, MatchesQuery("sam", []string{"x", "Samsung"}))
	require.False(t, MatchesQuery("sam", []string{"Nokia"}))
}
