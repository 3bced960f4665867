package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"repairdesk/internal/domain"
	"repairdesk/internal/events"
	"repairdesk/internal/repository"
)

var ErrInvalidState = errors.New("invalid state")

// MaxCommentLength ограничение длины комментария к заказу
const MaxCommentLength = 250

const eventProducer = "repairdesk"

// ItemRef ссылка на позицию каталога, которая копируется в заказ
type ItemRef struct {
	Kind domain.ItemKind `json:"kind" validate:"required,oneof=product unlock-device quote"`
	ID   int64           `json:"id" validate:"gt=0"`
}

type CreateOrderInput struct {
	OrderType     string  `json:"orderType" validate:"required"`
	UserName      string  `json:"userName" validate:"required"`
	CustomerName  string  `json:"customerName" validate:"required"`
	CustomerPhone string  `json:"customerPhone" validate:"required"`
	Item          ItemRef `json:"item"`
}

// OrderPatch частичное обновление: применяются только заданные поля
type OrderPatch struct {
	OrderType     *string `json:"orderType"`
	UserName      *string `json:"userName"`
	CustomerName  *string `json:"customerName"`
	CustomerPhone *string `json:"customerPhone"`
}

func (p OrderPatch) empty() bool {
	return p.OrderType == nil && p.UserName == nil && p.CustomerName == nil && p.CustomerPhone == nil
}

type commentInput struct {
	Comment string `json:"comment" validate:"required,max=250"`
}

type cancelInput struct {
	Reason string `json:"reason" validate:"required"`
}

type orderMetrics struct {
	created       metric.Int64Counter
	canceled      metric.Int64Counter
	statusChanges metric.Int64Counter
	comments      metric.Int64Counter
}

func newOrderMetrics(meter metric.Meter) orderMetrics {
	fallback := noop.NewMeterProvider().Meter("repairdesk/orders")
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			c, _ = fallback.Int64Counter(name)
		}
		return c
	}
	return orderMetrics{
		created:       counter("orders_created_total", "Orders created"),
		canceled:      counter("orders_canceled_total", "Orders canceled"),
		statusChanges: counter("order_status_changes_total", "Order status transitions"),
		comments:      counter("order_comments_total", "Comments added to orders"),
	}
}

// OrderService ведёт доску заказов: создание, смена статуса, комментарии, отмена
type OrderService struct {
	products  repository.ProductRepository
	devices   repository.DeviceRepository
	quotes    repository.QuoteRepository
	orders    repository.OrderRepository
	tx        repository.TxManager
	numbers   *OrderNumberGenerator
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
	metrics   orderMetrics
}

type OrderOption func(*OrderService)

func WithPublisher(p events.Publisher) OrderOption {
	return func(s *OrderService) { s.publisher = p }
}

func WithLogger(l *zap.Logger) OrderOption {
	return func(s *OrderService) { s.log = l }
}

func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

func WithNumberGenerator(g *OrderNumberGenerator) OrderOption {
	return func(s *OrderService) { s.numbers = g }
}

func WithMeter(m metric.Meter) OrderOption {
	return func(s *OrderService) { s.metrics = newOrderMetrics(m) }
}

func NewOrderService(
	products repository.ProductRepository,
	devices repository.DeviceRepository,
	quotes repository.QuoteRepository,
	orders repository.OrderRepository,
	tx repository.TxManager,
	opts ...OrderOption,
) *OrderService {
	s := &OrderService{
		products:  products,
		devices:   devices,
		quotes:    quotes,
		orders:    orders,
		tx:        tx,
		numbers:   NewOrderNumberGenerator(),
		publisher: events.NopPublisher{},
		log:       zap.NewNop(),
		now:       time.Now,
		metrics:   newOrderMetrics(otel.Meter("repairdesk/orders")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OrderService) snapshot(ctx context.Context, ref ItemRef) (domain.ItemDetails, error) {
	switch ref.Kind {
	case domain.ItemKindProduct:
		p, err := s.products.GetByID(ctx, ref.ID)
		if err != nil {
			return domain.ItemDetails{}, fmt.Errorf("product %d: %w", ref.ID, err)
		}
		return domain.ProductItem(*p), nil
	case domain.ItemKindUnlockDevice:
		d, err := s.devices.GetByID(ctx, ref.ID)
		if err != nil {
			return domain.ItemDetails{}, fmt.Errorf("unlock device %d: %w", ref.ID, err)
		}
		return domain.UnlockDeviceItem(*d), nil
	case domain.ItemKindQuote:
		q, err := s.quotes.GetByID(ctx, ref.ID)
		if err != nil {
			return domain.ItemDetails{}, fmt.Errorf("quote %d: %w", ref.ID, err)
		}
		return domain.QuoteItem(*q), nil
	}
	return domain.ItemDetails{}, invalidField("item.kind", "must be one of product, unlock-device, quote")
}

// Create копирует позицию каталога в новый заказ со статусом new
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	in.OrderType = strings.TrimSpace(in.OrderType)
	in.UserName = strings.TrimSpace(in.UserName)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	var created *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		item, err := s.snapshot(ctx, in.Item)
		if err != nil {
			return err
		}
		now := s.now().UTC().Truncate(time.Millisecond)
		number, err := s.numbers.Next(ctx, now, s.orders.NumberTaken)
		if err != nil {
			return err
		}
		o := domain.Order{
			ID:            uuid.NewString(),
			OrderNumber:   number,
			OrderType:     in.OrderType,
			UserName:      in.UserName,
			Timestamp:     now,
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
			ItemDetails:   item,
			Status:        domain.OrderStatusNew,
			Comments:      []string{},
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.created.Add(ctx, 1)
	s.log.Info("order created",
		zap.String("order_id", created.ID),
		zap.String("order_number", created.OrderNumber),
		zap.String("item_kind", string(created.ItemDetails.Kind)),
	)
	s.publish(ctx, events.EventOrderCreated, *created)
	return created, nil
}

// mutate загружает заказ, отклоняет изменения отменённого и сохраняет результат
func (s *OrderService) mutate(ctx context.Context, id string, fn func(o *domain.Order) error) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o.Status == domain.OrderStatusCanceled {
			return ErrInvalidState
		}
		if err := fn(o); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus переводит заказ между new, in-progress и completed
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	switch status {
	case domain.OrderStatusNew, domain.OrderStatusInProgress, domain.OrderStatusCompleted:
	case domain.OrderStatusCanceled:
		return nil, invalidField("status", "use cancel with a reason to cancel an order")
	default:
		return nil, invalidField("status", "must be one of new, in-progress, completed")
	}

	o, err := s.mutate(ctx, id, func(o *domain.Order) error {
		o.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
	s.log.Info("order status changed", zap.String("order_id", o.ID), zap.String("status", string(status)))
	s.publish(ctx, events.EventOrderStatusChanged, *o)
	return o, nil
}

// AddComment appends the comment exactly as given; earlier comments are never
// touched. Blankness and length are checked on the trimmed text.
func (s *OrderService) AddComment(ctx context.Context, id, comment string) (*domain.Order, error) {
	in := commentInput{Comment: strings.TrimSpace(comment)}
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	o, err := s.mutate(ctx, id, func(o *domain.Order) error {
		o.Comments = append(o.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.comments.Add(ctx, 1)
	s.log.Debug("order commented", zap.String("order_id", o.ID), zap.Int("comments", len(o.Comments)))
	s.publish(ctx, events.EventOrderCommented, *o)
	return o, nil
}

func (s *OrderService) Update(ctx context.Context, id string, patch OrderPatch) (*domain.Order, error) {
	if patch.empty() {
		return nil, invalidField("patch", "must set at least one field")
	}
	fields := []struct {
		name  string
		value **string
	}{
		{"orderType", &patch.OrderType},
		{"userName", &patch.UserName},
		{"customerName", &patch.CustomerName},
		{"customerPhone", &patch.CustomerPhone},
	}
	for _, f := range fields {
		if *f.value == nil {
			continue
		}
		// trimmed copy, the caller's strings stay as they are
		v := strings.TrimSpace(**f.value)
		if v == "" {
			return nil, invalidField(f.name, "must not be empty")
		}
		*f.value = &v
	}

	o, err := s.mutate(ctx, id, func(o *domain.Order) error {
		if patch.OrderType != nil {
			o.OrderType = *patch.OrderType
		}
		if patch.UserName != nil {
			o.UserName = *patch.UserName
		}
		if patch.CustomerName != nil {
			o.CustomerName = *patch.CustomerName
		}
		if patch.CustomerPhone != nil {
			o.CustomerPhone = *patch.CustomerPhone
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order updated", zap.String("order_id", o.ID))
	s.publish(ctx, events.EventOrderUpdated, *o)
	return o, nil
}

// Cancel ставит статус canceled и сохраняет причину как есть. Повторная отмена запрещена.
func (s *OrderService) Cancel(ctx context.Context, id, reason string) (*domain.Order, error) {
	in := cancelInput{Reason: strings.TrimSpace(reason)}
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	o, err := s.mutate(ctx, id, func(o *domain.Order) error {
		o.Status = domain.OrderStatusCanceled
		o.CancellationReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.canceled.Add(ctx, 1)
	s.log.Info("order canceled", zap.String("order_id", o.ID), zap.String("reason", o.CancellationReason))
	s.publish(ctx, events.EventOrderCanceled, *o)
	return o, nil
}

func (s *OrderService) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	return s.orders.List(ctx, f)
}

// Board группирует отфильтрованные заказы по статусу
func (s *OrderService) Board(ctx context.Context, f repository.OrderFilter) (domain.OrderBoard, error) {
	orders, err := s.orders.List(ctx, f)
	if err != nil {
		return domain.OrderBoard{}, err
	}
	return domain.PartitionByStatus(orders), nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, o domain.Order) {
	ev, err := events.NewOrderEnvelope(eventType, eventProducer, o, s.now())
	if err != nil {
		s.log.Error("build order event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, o.ID, ev); err != nil {
		s.log.Warn("publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}
