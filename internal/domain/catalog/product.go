package catalog

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Field limits and reserved values for products
const (
	NameMaxLength        = 100
	DescriptionMaxLength = 255
	PricePrecision       = 2
	ReservedName         = "not_supported_name"
)

// Validation messages specific to products
var (
	MsgReservedName       = fmt.Sprintf("'%s' is not a valid name", ReservedName)
	MsgNameEqualsDesc     = "Name and Description should not be equal"
	MsgNameAlreadyExists  = "Product with this name already exists"
	MsgCategoryNotAllowed = "Value must be one of " + formatChoices(AllowedCategories)
)

// Category is a product category
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryToys        Category = "toys"
)

// AllowedCategories lists every accepted category in display order
var AllowedCategories = []Category{CategoryElectronics, CategoryClothing, CategoryToys}

// IsValid returns true if the category is one of the allowed values
func (c Category) IsValid() bool {
	for _, allowed := range AllowedCategories {
		if c == allowed {
			return true
		}
	}
	return false
}

// Product represents a sellable item in the catalog.
// UpdatedAt holds the last_updated timestamp and is advanced on every save.
type Product struct {
	shared.BaseEntity
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	Categories  []Category
	Available   bool
}

// NewProduct creates a product with defaults applied.
// The product is not validated here; Validate runs as part of every save.
func NewProduct(name string, price decimal.Decimal, quantity int) *Product {
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Price:      price.Round(PricePrecision),
		Quantity:   quantity,
		Categories: []Category{},
		Available:  true,
	}
}

// SetPrice sets the price rounded to storage precision
func (p *Product) SetPrice(price decimal.Decimal) {
	p.Price = price.Round(PricePrecision)
}

// Validate checks every product rule and returns a *shared.ValidationError
// holding all violations, or nil. Within one field the first failing rule is
// reported, in the order required, length, value. The name/description rule
// is checked independently of the field rules.
func (p *Product) Validate() error {
	p.Price = p.Price.Round(PricePrecision)

	errs := shared.NewValidationError()

	switch name := p.Name; {
	case name == "":
		errs.Add("name", shared.MsgRequired)
	case utf8.RuneCountInString(name) > NameMaxLength:
		errs.Add("name", shared.MsgStringTooLong)
	case name == ReservedName:
		errs.Add("name", MsgReservedName)
	}

	if utf8.RuneCountInString(p.Description) > DescriptionMaxLength {
		errs.Add("description", shared.MsgStringTooLong)
	}

	if p.Price.IsNegative() {
		errs.Add("price", shared.MsgDecimalTooLow)
	}

	if p.Quantity < 0 {
		errs.Add("quantity", shared.MsgIntegerTooLow)
	}

	for i, c := range p.Categories {
		if !c.IsValid() {
			errs.AddIndexed("categories", i, MsgCategoryNotAllowed)
		}
	}

	if p.Description != "" && p.Description == p.Name {
		errs.AddNonField(MsgNameEqualsDesc)
	}

	return errs.Err()
}

// PrepareSave validates the product and, when valid, advances last_updated.
// Every save path calls it right before writing.
func (p *Product) PrepareSave(now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Touch(now)
	return nil
}

// LastUpdated returns the time of the last successful save preparation
func (p *Product) LastUpdated() time.Time {
	return p.UpdatedAt
}

// String returns the product name
func (p *Product) String() string {
	return p.Name
}

func formatChoices(choices []Category) string {
	quoted := make([]string, len(choices))
	for i, c := range choices {
		quoted[i] = "'" + string(c) + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
