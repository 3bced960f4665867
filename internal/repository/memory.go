package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"repairdesk/internal/domain"
)

// MemoryStore единое in-memory хранилище мастерской и генератор ID
type MemoryStore struct {
	mu           sync.RWMutex
	nextProdID   int64
	nextDeviceID int64
	nextQuoteID  int64
	productsByID map[int64]domain.Product
	devicesByID  map[int64]domain.UnlockDevice
	quotesByID   map[int64]domain.Quote
	ordersByID   map[string]domain.Order
	orderSeq     []string
	orderNumbers map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextProdID:   1,
		nextDeviceID: 1,
		nextQuoteID:  1,
		productsByID: make(map[int64]domain.Product),
		devicesByID:  make(map[int64]domain.UnlockDevice),
		quotesByID:   make(map[int64]domain.Quote),
		ordersByID:   make(map[string]domain.Order),
		orderNumbers: make(map[string]string),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var _ ProductRepository = (*MemoryStore)(nil)

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	p.ID = m.nextProdID
	m.nextProdID++
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := p
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[p.ID]; !ok {
		return ErrNotFound
	}
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0, len(m.productsByID))
	for _, p := range m.productsByID {
		if f.Brand != "" && p.Brand != f.Brand {
			continue
		}
		if !MatchesQuery(f.Query, p.SearchFields()) {
			continue
		}
		out = append(out, p)
	}
	// ids are handed out in insertion order
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeviceRepository implementation on wrapper type
type MemoryDevices struct{ store *MemoryStore }

func NewMemoryDevices(store *MemoryStore) *MemoryDevices { return &MemoryDevices{store: store} }

var _ DeviceRepository = (*MemoryDevices)(nil)

func (md *MemoryDevices) Create(ctx context.Context, d *domain.UnlockDevice) error {
	md.store.wlock(ctx)
	defer md.store.wunlock(ctx)
	d.ID = md.store.nextDeviceID
	md.store.nextDeviceID++
	md.store.devicesByID[d.ID] = d.Clone()
	return nil
}

func (md *MemoryDevices) GetByID(ctx context.Context, id int64) (*domain.UnlockDevice, error) {
	md.store.rlock(ctx)
	defer md.store.runlock(ctx)
	d, ok := md.store.devicesByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := d.Clone()
	return &cp, nil
}

func (md *MemoryDevices) Update(ctx context.Context, d *domain.UnlockDevice) error {
	md.store.wlock(ctx)
	defer md.store.wunlock(ctx)
	if _, ok := md.store.devicesByID[d.ID]; !ok {
		return ErrNotFound
	}
	md.store.devicesByID[d.ID] = d.Clone()
	return nil
}

func (md *MemoryDevices) List(ctx context.Context, f DeviceFilter) ([]domain.UnlockDevice, error) {
	md.store.rlock(ctx)
	defer md.store.runlock(ctx)
	out := make([]domain.UnlockDevice, 0, len(md.store.devicesByID))
	for _, d := range md.store.devicesByID {
		if f.Brand != "" && d.Brand != f.Brand {
			continue
		}
		if !MatchesQuery(f.Query, d.SearchFields()) {
			continue
		}
		out = append(out, d.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// QuoteRepository implementation on wrapper type
type MemoryQuotes struct{ store *MemoryStore }

func NewMemoryQuotes(store *MemoryStore) *MemoryQuotes { return &MemoryQuotes{store: store} }

var _ QuoteRepository = (*MemoryQuotes)(nil)

func (mq *MemoryQuotes) Create(ctx context.Context, q *domain.Quote) error {
	mq.store.wlock(ctx)
	defer mq.store.wunlock(ctx)
	q.ID = mq.store.nextQuoteID
	mq.store.nextQuoteID++
	mq.store.quotesByID[q.ID] = *q
	return nil
}

func (mq *MemoryQuotes) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	mq.store.rlock(ctx)
	defer mq.store.runlock(ctx)
	q, ok := mq.store.quotesByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := q
	return &cp, nil
}

func (mq *MemoryQuotes) Update(ctx context.Context, q *domain.Quote) error {
	mq.store.wlock(ctx)
	defer mq.store.wunlock(ctx)
	if _, ok := mq.store.quotesByID[q.ID]; !ok {
		return ErrNotFound
	}
	mq.store.quotesByID[q.ID] = *q
	return nil
}

func (mq *MemoryQuotes) List(ctx context.Context, f QuoteFilter) ([]domain.Quote, error) {
	mq.store.rlock(ctx)
	defer mq.store.runlock(ctx)
	out := make([]domain.Quote, 0, len(mq.store.quotesByID))
	for _, q := range mq.store.quotesByID {
		if !MatchesQuery(f.Query, q.SearchFields()) {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

// Create stores o, assigning a fresh UUID when o.ID is empty. The caller
// stamps the timestamp and order number.
func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Comments == nil {
		o.Comments = []string{}
	}
	mo.store.ordersByID[o.ID] = o.Clone()
	mo.store.orderSeq = append(mo.store.orderSeq, o.ID)
	if o.OrderNumber != "" {
		mo.store.orderNumbers[o.OrderNumber] = o.ID
	}
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o.Clone()
	return &cp, nil
}

func (mo *MemoryOrders) Update(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	prev, ok := mo.store.ordersByID[o.ID]
	if !ok {
		return ErrNotFound
	}
	if prev.OrderNumber != o.OrderNumber {
		delete(mo.store.orderNumbers, prev.OrderNumber)
		mo.store.orderNumbers[o.OrderNumber] = o.ID
	}
	mo.store.ordersByID[o.ID] = o.Clone()
	return nil
}

// List returns orders in creation order.
func (mo *MemoryOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0, len(mo.store.orderSeq))
	for _, id := range mo.store.orderSeq {
		o := mo.store.ordersByID[id]
		if !containsIgnoreCase(o.OrderNumber, f.Number) {
			continue
		}
		if f.Date != "" && !strings.Contains(o.TimestampISO(), f.Date) {
			continue
		}
		out = append(out, o.Clone())
	}
	return out, nil
}

func (mo *MemoryOrders) NumberTaken(ctx context.Context, number string) (bool, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	_, ok := mo.store.orderNumbers[number]
	return ok, nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Для in-memory используем блокировку записи и помечаем контекст, чтобы репозитории пропускали внутренние локи
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}
