package telemetry

import (
	"context"
	"errors"

	"github.com/billing/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// Outcomes recorded for product operations
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeNotFound        = "not_found"
	OutcomeError           = "error"
)

// ProductMetrics counts product writes by operation and outcome.
// A nil *ProductMetrics records nothing.
type ProductMetrics struct {
	operations *Counter
}

// NewProductMetrics creates the product instruments on meter
func NewProductMetrics(meter metric.Meter) (*ProductMetrics, error) {
	operations, err := NewCounter(meter,
		"billing_product_operations_total",
		"Product create, update and delete operations by outcome",
		"{operation}",
	)
	if err != nil {
		return nil, err
	}
	return &ProductMetrics{operations: operations}, nil
}

// Record counts one operation, classifying err into an outcome
func (m *ProductMetrics) Record(ctx context.Context, operation string, err error) {
	if m == nil {
		return
	}
	m.operations.Inc(ctx, AttrOperation.String(operation), AttrOutcome.String(Outcome(err)))
}

// Outcome maps an operation error to its outcome label
func Outcome(err error) string {
	var verr *shared.ValidationError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &verr):
		return OutcomeValidationError
	case errors.Is(err, shared.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
