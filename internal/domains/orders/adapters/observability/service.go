package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/avetrov/go-shop-api/internal/domains/orders/domain"
	"github.com/avetrov/go-shop-api/internal/domains/orders/ports"
)

const tracerName = "github.com/avetrov/go-shop-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders application port with tracing, logging, and
// metrics. Line-item mutations carry stock attributes since they are the
// contended path.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// CreateOrder opens an empty order for a user.
func (s *Service) CreateOrder(ctx context.Context, userID string, payment domain.PaymentStatus, delivery domain.DeliveryStatus) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateOrder", attribute.String("order.user_id", userID))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.String("user.id", userID))
	order, err := s.inner.CreateOrder(ctx, userID, payment, delivery)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.String("user.id", userID))
	}
	s.metrics.recordOrderCreated(ctx)
	s.logInfo(ctx, "order created", slog.String("order.id", order.ID))
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", attribute.String("order.id", id))
	defer span.End()

	order, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrders")
	defer span.End()

	orders, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(orders)))
	return orders, nil
}

// UpdateOrder mutates order statuses.
func (s *Service) UpdateOrder(ctx context.Context, id string, update ports.OrderUpdate) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateOrder", attribute.String("order.id", id))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.String("order.id", id))
	order, err := s.inner.UpdateOrder(ctx, id, update)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.String("order.id", id))
	}
	s.logInfo(ctx, "order updated",
		slog.String("order.id", order.ID),
		slog.String("order.payment_status", string(order.PaymentStatus)),
		slog.String("order.delivery_status", string(order.DeliveryStatus)))
	return order, nil
}

// UpdateOrderPaymentStatus handles the payment callback path.
func (s *Service) UpdateOrderPaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateOrderPaymentStatus",
		attribute.String("order.id", id),
		attribute.String("order.payment_status", string(status)),
	)
	defer span.End()

	s.logInfo(ctx, "updating order payment status", slog.String("order.id", id), slog.String("status", string(status)))
	order, err := s.inner.UpdateOrderPaymentStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update payment status", slog.String("order.id", id))
	}
	s.metrics.recordPaymentStatus(ctx, order.PaymentStatus)
	return order, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteOrder", attribute.String("order.id", id))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.String("order.id", id))
	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", id))
	}
	s.logInfo(ctx, "order deleted", slog.String("order.id", id))
	return nil
}

// AddLineItem reserves stock and appends an item inside one transaction.
func (s *Service) AddLineItem(ctx context.Context, orderID, productID string, quantity int) (*domain.LineItem, error) {
	ctx, span := s.startSpan(ctx, "Service.AddLineItem",
		attribute.String("order.id", orderID),
		attribute.String("product.id", productID),
		attribute.Int("item.quantity", quantity),
	)
	defer span.End()

	s.logInfo(ctx, "adding line item",
		slog.String("order.id", orderID),
		slog.String("product.id", productID),
		slog.Int("quantity", quantity))
	item, err := s.inner.AddLineItem(ctx, orderID, productID, quantity)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add line item",
			slog.String("order.id", orderID), slog.String("product.id", productID))
	}
	s.metrics.recordItemAdded(ctx, int64(quantity))
	s.logInfo(ctx, "line item added",
		slog.String("item.id", item.ID),
		slog.String("item.price_at_purchase", item.PriceAtPurchase.String()))
	return item, nil
}

func (s *Service) GetLineItem(ctx context.Context, id string) (*domain.LineItem, error) {
	ctx, span := s.startSpan(ctx, "Service.GetLineItem", attribute.String("item.id", id))
	defer span.End()

	item, err := s.inner.GetLineItem(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load line item", slog.String("item.id", id))
	}
	return item, nil
}

func (s *Service) ListLineItems(ctx context.Context) ([]*domain.LineItem, error) {
	ctx, span := s.startSpan(ctx, "Service.ListLineItems")
	defer span.End()

	items, err := s.inner.ListLineItems(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list line items")
	}
	span.SetAttributes(attribute.Int("item.result.count", len(items)))
	return items, nil
}

func (s *Service) ListLineItemsByOrder(ctx context.Context, orderID string) ([]*domain.LineItem, error) {
	ctx, span := s.startSpan(ctx, "Service.ListLineItemsByOrder", attribute.String("order.id", orderID))
	defer span.End()

	items, err := s.inner.ListLineItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list order line items", slog.String("order.id", orderID))
	}
	span.SetAttributes(attribute.Int("item.result.count", len(items)))
	return items, nil
}

// UpdateLineItem changes an item's quantity, moving stock by the delta.
func (s *Service) UpdateLineItem(ctx context.Context, id string, quantity *int) (*domain.LineItem, error) {
	attrs := []attribute.KeyValue{attribute.String("item.id", id)}
	if quantity != nil {
		attrs = append(attrs, attribute.Int("item.quantity", *quantity))
	}
	ctx, span := s.startSpan(ctx, "Service.UpdateLineItem", attrs...)
	defer span.End()

	s.logInfo(ctx, "updating line item", slog.String("item.id", id))
	item, err := s.inner.UpdateLineItem(ctx, id, quantity)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update line item", slog.String("item.id", id))
	}
	s.metrics.recordItemUpdated(ctx)
	s.logInfo(ctx, "line item updated",
		slog.String("item.id", item.ID),
		slog.Int("quantity", item.Quantity),
		slog.String("item.price_at_purchase", item.PriceAtPurchase.String()))
	return item, nil
}

// RemoveLineItem deletes an item and restocks its quantity.
func (s *Service) RemoveLineItem(ctx context.Context, id string) error {
	ctx, span := s.startSpan(ctx, "Service.RemoveLineItem", attribute.String("item.id", id))
	defer span.End()

	s.logInfo(ctx, "removing line item", slog.String("item.id", id))
	if err := s.inner.RemoveLineItem(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to remove line item", slog.String("item.id", id))
	}
	s.metrics.recordItemRemoved(ctx)
	s.logInfo(ctx, "line item removed", slog.String("item.id", id))
	return nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersCreated metric.Int64Counter
	payments      metric.Int64Counter
	itemsAdded    metric.Int64Counter
	itemsUpdated  metric.Int64Counter
	itemsRemoved  metric.Int64Counter
	unitsReserved metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	payments, _ := m.Int64Counter("orders.service.payment_updates", metric.WithDescription("Number of payment status updates"))
	itemsAdded, _ := m.Int64Counter("orders.service.items_added", metric.WithDescription("Number of line items added"))
	itemsUpdated, _ := m.Int64Counter("orders.service.items_updated", metric.WithDescription("Number of line items updated"))
	itemsRemoved, _ := m.Int64Counter("orders.service.items_removed", metric.WithDescription("Number of line items removed"))
	unitsReserved, _ := m.Int64Counter("orders.service.units_reserved", metric.WithDescription("Stock units reserved through added items"))
	return serviceMetrics{
		ordersCreated: ordersCreated,
		payments:      payments,
		itemsAdded:    itemsAdded,
		itemsUpdated:  itemsUpdated,
		itemsRemoved:  itemsRemoved,
		unitsReserved: unitsReserved,
	}
}

func (m serviceMetrics) recordOrderCreated(ctx context.Context) {
	addCounter(ctx, m.ordersCreated, 1)
}

func (m serviceMetrics) recordPaymentStatus(ctx context.Context, status domain.PaymentStatus) {
	addCounter(ctx, m.payments, 1, attribute.String("order.payment_status", string(status)))
}

func (m serviceMetrics) recordItemAdded(ctx context.Context, quantity int64) {
	addCounter(ctx, m.itemsAdded, 1)
	addCounter(ctx, m.unitsReserved, quantity)
}

func (m serviceMetrics) recordItemUpdated(ctx context.Context) {
	addCounter(ctx, m.itemsUpdated, 1)
}

func (m serviceMetrics) recordItemRemoved(ctx context.Context) {
	addCounter(ctx, m.itemsRemoved, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
