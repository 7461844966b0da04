package catalog

import (
	"net/url"
	"strings"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/shared"
)

// ProductFilterSchema builds a product filter from query parameters.
// Only name and available are accepted; any other parameter is dropped.
type ProductFilterSchema struct{}

// Load converts query parameters into a product filter
func (ProductFilterSchema) Load(values url.Values) (catalog.ProductFilter, error) {
	var filter catalog.ProductFilter
	errs := shared.NewValidationError()

	if values.Has("name") {
		name := values.Get("name")
		filter.Name = &name
	}

	if values.Has("available") {
		v, ok := boolLiterals[strings.ToLower(strings.TrimSpace(values.Get("available")))]
		if ok {
			filter.Available = &v
		} else {
			errs.Add("available", MsgNotBoolean)
		}
	}

	if err := errs.Err(); err != nil {
		return catalog.ProductFilter{}, err
	}
	return filter, nil
}
