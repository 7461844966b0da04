package catalog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() *Product {
	p := NewProduct("Widget", decimal.RequireFromString("9.99"), 5)
	p.Categories = []Category{CategoryToys}
	return p
}

func validationErr(t *testing.T, err error) *shared.ValidationError {
	t.Helper()
	require.Error(t, err)
	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr), "expected *shared.ValidationError, got %T", err)
	return verr
}

func TestNewProduct(t *testing.T) {
	p := NewProduct("Widget", decimal.RequireFromString("9.999"), 5)

	assert.NotEmpty(t, p.ID)
	assert.True(t, p.Available)
	assert.Empty(t, p.Categories)
	assert.Equal(t, "10", p.Price.String())
	assert.Equal(t, "Widget", p.String())
	assert.False(t, p.CreatedAt.IsZero())
}

func TestProduct_Validate(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		assert.NoError(t, validProduct().Validate())
	})

	t.Run("reserved name", func(t *testing.T) {
		p := validProduct()
		p.Name = ReservedName

		verr := validationErr(t, p.Validate())
		assert.Equal(t, map[string]any{"name": "'not_supported_name' is not a valid name"}, verr.ToMap())
	})

	t.Run("name required", func(t *testing.T) {
		p := validProduct()
		p.Name = ""

		msg, ok := validationErr(t, p.Validate()).Message("name")
		require.True(t, ok)
		assert.Equal(t, shared.MsgRequired, msg)
	})

	t.Run("name too long", func(t *testing.T) {
		p := validProduct()
		p.Name = strings.Repeat("n", NameMaxLength+1)

		msg, _ := validationErr(t, p.Validate()).Message("name")
		assert.Equal(t, shared.MsgStringTooLong, msg)
	})

	t.Run("name at max length", func(t *testing.T) {
		p := validProduct()
		p.Name = strings.Repeat("n", NameMaxLength)
		assert.NoError(t, p.Validate())
	})

	t.Run("multibyte lengths count characters", func(t *testing.T) {
		p := validProduct()
		p.Name = strings.Repeat("é", NameMaxLength)
		p.Description = strings.Repeat("ü", DescriptionMaxLength)
		assert.NoError(t, p.Validate())

		p.Name = strings.Repeat("é", NameMaxLength+1)
		msg, _ := validationErr(t, p.Validate()).Message("name")
		assert.Equal(t, shared.MsgStringTooLong, msg)
	})

	t.Run("description too long", func(t *testing.T) {
		p := validProduct()
		p.Description = strings.Repeat("d", DescriptionMaxLength+1)

		verr := validationErr(t, p.Validate())
		assert.Equal(t, map[string]any{"description": "String value is too long"}, verr.ToMap())
	})

	t.Run("negative quantity", func(t *testing.T) {
		p := validProduct()
		p.Quantity = -1

		verr := validationErr(t, p.Validate())
		assert.Equal(t, map[string]any{"quantity": "Integer value is too small"}, verr.ToMap())
	})

	t.Run("negative price", func(t *testing.T) {
		p := validProduct()
		p.SetPrice(decimal.RequireFromString("-0.01"))

		msg, _ := validationErr(t, p.Validate()).Message("price")
		assert.Equal(t, shared.MsgDecimalTooLow, msg)
	})

	t.Run("price rounded before check", func(t *testing.T) {
		p := validProduct()
		p.Price = decimal.RequireFromString("-0.004")

		require.NoError(t, p.Validate())
		assert.True(t, p.Price.IsZero())
	})

	t.Run("category outside allowed set reports index", func(t *testing.T) {
		p := validProduct()
		p.Categories = []Category{CategoryToys, "food", CategoryClothing, "books"}

		verr := validationErr(t, p.Validate())
		assert.Equal(t, map[int]string{
			1: "Value must be one of ['electronics', 'clothing', 'toys']",
			3: "Value must be one of ['electronics', 'clothing', 'toys']",
		}, verr.Indexed("categories"))
	})

	t.Run("description equal to name is a document error", func(t *testing.T) {
		p := validProduct()
		p.Description = p.Name

		verr := validationErr(t, p.Validate())
		assert.Equal(t, map[string]any{shared.NonFieldKey: "Name and Description should not be equal"}, verr.ToMap())
		assert.False(t, verr.Has("name"))
		assert.False(t, verr.Has("description"))
	})

	t.Run("collects violations across fields", func(t *testing.T) {
		p := validProduct()
		p.Name = ""
		p.Quantity = -3
		p.Categories = []Category{"food"}
		p.Description = strings.Repeat("d", 300)

		verr := validationErr(t, p.Validate())
		assert.Equal(t, []string{"categories", "description", "name", "quantity"}, verr.Fields())
	})
}

func TestProduct_PrepareSave(t *testing.T) {
	t.Run("advances last updated", func(t *testing.T) {
		p := validProduct()
		created := p.CreatedAt

		require.NoError(t, p.PrepareSave(time.Now()))
		first := p.LastUpdated()
		require.NoError(t, p.PrepareSave(time.Now()))

		assert.True(t, p.LastUpdated().After(first))
		assert.Equal(t, created, p.CreatedAt)
	})

	t.Run("invalid product keeps timestamp", func(t *testing.T) {
		p := validProduct()
		p.Quantity = -1
		before := p.LastUpdated()

		require.Error(t, p.PrepareSave(time.Now().Add(time.Hour)))
		assert.Equal(t, before, p.LastUpdated())
	})
}

func TestProductFilter_Matches(t *testing.T) {
	p := validProduct()
	name := "Widget"
	other := "Gadget"
	avail := true
	unavail := false

	assert.True(t, ProductFilter{}.Matches(p))
	assert.True(t, ProductFilter{Name: &name, Available: &avail}.Matches(p))
	assert.False(t, ProductFilter{Name: &other}.Matches(p))
	assert.False(t, ProductFilter{Available: &unavail}.Matches(p))
}

func TestCategory_IsValid(t *testing.T) {
	for _, c := range AllowedCategories {
		assert.True(t, c.IsValid())
	}
	assert.False(t, Category("food").IsValid())
}
