package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordertypes "github.com/ordercore/go-orders-service/internal/domains/orders/application/types"
	orderports "github.com/ordercore/go-orders-service/internal/domains/orders/ports"
)

const tracerName = "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
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
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*ordertypes.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int("order.draft_lines", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int("draft_lines", len(input.Items)))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order")
	}
	s.metrics.recordCreated(ctx, result.Status)
	span.SetAttributes(attribute.String("order.id", result.ID))
	s.logInfo(ctx, "order created",
		slog.String("order.id", result.ID),
		slog.Float64("order.total_amount", result.TotalAmount),
		slog.Int("order.total_items", int(result.TotalItems)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*ordertypes.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder",
		trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	s.logInfo(ctx, "order loaded", slog.String("order.id", result.ID), slog.String("status", result.Status))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, input ordertypes.ListOrdersInput) (*ordertypes.OrderPage, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders",
		trace.WithAttributes(
			attribute.Int("page", input.Page),
			attribute.Int("limit", input.Limit),
			attribute.String("status", input.Status)))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int64("orders.total", result.Meta.Total))
	return result, nil
}

func (s *Service) ChangeOrderStatus(ctx context.Context, input ordertypes.ChangeOrderStatusInput) (*ordertypes.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ChangeOrderStatus",
		trace.WithAttributes(
			attribute.String("order.id", input.ID),
			attribute.String("order.status", input.Status)))
	defer span.End()

	s.logInfo(ctx, "changing order status", slog.String("order.id", input.ID), slog.String("status", input.Status))
	result, err := s.inner.ChangeOrderStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change order status", slog.String("order.id", input.ID))
	}
	s.metrics.recordStatusChange(ctx, result.Status)
	s.logInfo(ctx, "order status changed", slog.String("order.id", result.ID), slog.String("status", result.Status))
	return result, nil
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
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated metric.Int64Counter
	statusChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.orders_created", metric.WithDescription("Number of orders created"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of order status transitions"))
	return serviceMetrics{ordersCreated: ordersCreated, statusChanges: statusChanges}
}

func (m serviceMetrics) recordCreated(ctx context.Context, status string) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", status)))
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status string) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", status)))
	}
}

var _ orderports.Service = (*Service)(nil)
