package admin

import (
	"context"
	"strings"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/trade"
	applogger "github.com/billing/backend/internal/infrastructure/logger"
	"github.com/billing/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderAdminService backs the administrative order views.
// Orders can be listed, inspected, created and have their status edited;
// they cannot be deleted.
type OrderAdminService struct {
	orderRepo trade.OrderRepository
	filters   map[string]OrderFilter
	names     []string
	logger    *zap.Logger
}

// NewOrderAdminService creates a new OrderAdminService with the default filters
func NewOrderAdminService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *OrderAdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &OrderAdminService{
		orderRepo: orderRepo,
		filters:   make(map[string]OrderFilter),
		logger:    logger,
	}
	for _, f := range DefaultOrderFilters(productRepo) {
		s.filters[f.Name()] = f
		s.names = append(s.names, f.Name())
	}
	return s
}

// Filters describes the list filters in display order
func (s *OrderAdminService) Filters() []FilterInfo {
	out := make([]FilterInfo, 0, len(s.names))
	for _, name := range s.names {
		f := s.filters[name]
		out = append(out, FilterInfo{Name: f.Name(), Operation: f.Operation()})
	}
	return out
}

// List returns one page of orders. Unknown filter names are ignored.
func (s *OrderAdminService) List(ctx context.Context, params ListParams) (shared.Paginated[OrderRow], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "admin_order", "list")
	defer span.End()

	query := trade.NewOrderQuery()
	if params.Page > 0 {
		query.Page = params.Page
	}
	if params.PageSize > 0 {
		query.PageSize = min(params.PageSize, shared.MaxPageSize)
	}
	query.Search = strings.TrimSpace(params.Search)
	if params.OrderBy != "" {
		query.OrderBy = params.OrderBy
	}
	if params.OrderDir != "" {
		query.OrderDir = params.OrderDir
	}

	for _, name := range s.names {
		value, ok := params.Filters[name]
		if !ok {
			continue
		}
		telemetry.SetAttributes(span, telemetry.SpanAttrFilter, name)
		if err := s.filters[name].Apply(ctx, &query, value); err != nil {
			return shared.Paginated[OrderRow]{}, err
		}
	}

	if query.Empty {
		return shared.NewPaginated([]OrderRow{}, 0, query.Page, query.PageSize), nil
	}

	orders, total, err := s.orderRepo.Find(ctx, query)
	if err != nil {
		telemetry.RecordError(span, err)
		applogger.Or(ctx, s.logger).Error("failed to list orders", zap.Error(err))
		return shared.Paginated[OrderRow]{}, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, len(orders))

	rows := make([]OrderRow, len(orders))
	for i := range orders {
		rows[i] = toRow(&orders[i])
	}
	return shared.NewPaginated(rows, total, query.Page, query.PageSize), nil
}

// Get returns the details of one order
func (s *OrderAdminService) Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := toDetail(order)
	return &detail, nil
}

// Create builds an order from untyped fields and stores it
func (s *OrderAdminService) Create(ctx context.Context, fields map[string]any) (*OrderDetail, error) {
	order, err := trade.BuildOrder(fields)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Insert(ctx, order); err != nil {
		return nil, err
	}

	applogger.Or(ctx, s.logger).Info("order created from admin",
		zap.String("order_id", order.OrderID.String()))

	detail := toDetail(order)
	return &detail, nil
}

// UpdateStatus sets the status of an order to any valid code or label
func (s *OrderAdminService) UpdateStatus(ctx context.Context, id uuid.UUID, value string) (*OrderDetail, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "admin_order", "update_status")
	defer span.End()

	status, err := trade.ParseOrderStatus(value)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := order.Status
	if err := order.SetStatus(status); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.OrderID.String(),
		telemetry.SpanAttrOrderStatus, status.String())

	applogger.Or(ctx, s.logger).Info("order status changed",
		zap.String("order_id", order.OrderID.String()),
		zap.String("from", previous.String()),
		zap.String("to", status.String()))

	detail := toDetail(order)
	return &detail, nil
}
