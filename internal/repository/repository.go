package repository

import (
	"context"
	"errors"
	"strings"

	"repairdesk/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// ProductFilter параметры фильтрации списка товаров
type ProductFilter struct {
	Query string
	Brand string
}

// DeviceFilter параметры фильтрации профилей разблокировки
type DeviceFilter struct {
	Query string
	Brand string
}

// QuoteFilter параметры фильтрации предложений поставщиков
type QuoteFilter struct {
	Query string
}

// OrderFilter фильтр доски заказов: подстрока номера и подстрока даты
type OrderFilter struct {
	Number string
	Date   string
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
}

// DeviceRepository интерфейс репозитория устройств для разблокировки
type DeviceRepository interface {
	Create(ctx context.Context, d *domain.UnlockDevice) error
	GetByID(ctx context.Context, id int64) (*domain.UnlockDevice, error)
	Update(ctx context.Context, d *domain.UnlockDevice) error
	List(ctx context.Context, f DeviceFilter) ([]domain.UnlockDevice, error)
}

// QuoteRepository интерфейс репозитория предложений
type QuoteRepository interface {
	Create(ctx context.Context, q *domain.Quote) error
	GetByID(ctx context.Context, id int64) (*domain.Quote, error)
	Update(ctx context.Context, q *domain.Quote) error
	List(ctx context.Context, f QuoteFilter) ([]domain.Quote, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	NumberTaken(ctx context.Context, number string) (bool, error)
}

// TxManager абстракция транзакции. Для in-memory — глобальная блокировка записи.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// MatchesQuery reports whether any of the fields contains query, ignoring case.
func MatchesQuery(query string, fields []string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
