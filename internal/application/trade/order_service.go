package trade

import (
	"context"

	"github.com/billing/backend/internal/domain/trade"
	applogger "github.com/billing/backend/internal/infrastructure/logger"
	"github.com/billing/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrderService handles the public order operations
type OrderService struct {
	orderRepo trade.OrderRepository
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// List returns every order in its public representation
func (s *OrderService) List(ctx context.Context) ([]OrderOut, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "list")
	defer span.End()

	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		applogger.Or(ctx, s.logger).Error("failed to list orders", zap.Error(err))
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, len(orders))
	return ToOrderOuts(orders), nil
}

// Create validates and stores a new order
func (s *OrderService) Create(ctx context.Context, order *trade.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	if err := s.orderRepo.Insert(ctx, order); err != nil {
		return err
	}

	applogger.Or(ctx, s.logger).Info("order created",
		zap.String("order_id", order.OrderID.String()),
		zap.String("customer_email", order.CustomerEmail))
	return nil
}

// CreateFromFields builds an order from untyped values and stores it
func (s *OrderService) CreateFromFields(ctx context.Context, fields map[string]any) (*trade.Order, error) {
	order, err := trade.BuildOrder(fields)
	if err != nil {
		return nil, err
	}
	if err := s.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
