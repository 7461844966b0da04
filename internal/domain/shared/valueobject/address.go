package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/billing/backend/internal/domain/shared"
)

// Address length limits, counted in characters
const (
	CityMaxLength  = 50
	StateMaxLength = 2
	ZipCodeLength  = 5
)

var zipCodePattern = regexp.MustCompile(`^\d{5}`)

// Address is a value object representing a postal address.
// It has no identity of its own and is always embedded in the owning document.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code"`
}

// NewAddress creates a validated Address
func NewAddress(street, city, state, zipCode string) (Address, error) {
	addr := Address{
		Street:  strings.TrimSpace(street),
		City:    strings.TrimSpace(city),
		State:   strings.TrimSpace(state),
		ZipCode: strings.TrimSpace(zipCode),
	}
	if err := addr.Validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(street, city, state, zipCode string) Address {
	addr, err := NewAddress(street, city, state, zipCode)
	if err != nil {
		panic(err)
	}
	return addr
}

// Validate checks every field and returns all violations, or nil
func (a Address) Validate() error {
	return a.Violations().Err()
}

// Violations returns the field violations of the address, possibly empty
func (a Address) Violations() *shared.ValidationError {
	errs := shared.NewValidationError()

	if a.Street == "" {
		errs.Add("street", shared.MsgRequired)
	}

	switch {
	case a.City == "":
		errs.Add("city", shared.MsgRequired)
	case utf8.RuneCountInString(a.City) > CityMaxLength:
		errs.Add("city", shared.MsgStringTooLong)
	}

	if utf8.RuneCountInString(a.State) > StateMaxLength {
		errs.Add("state", shared.MsgStringTooLong)
	}

	switch zipLen := utf8.RuneCountInString(a.ZipCode); {
	case zipLen == 0:
		errs.Add("zip_code", shared.MsgRequired)
	case zipLen > ZipCodeLength:
		errs.Add("zip_code", shared.MsgStringTooLong)
	case zipLen < ZipCodeLength:
		errs.Add("zip_code", shared.MsgStringTooShort)
	case !zipCodePattern.MatchString(a.ZipCode):
		errs.Add("zip_code", shared.MsgRegexMismatch)
	}

	return errs
}

// IsEmpty returns true if no field is set
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.ZipCode == ""
}

// FullAddress returns the address formatted as "street, city, state zip"
func (a Address) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.ZipCode)
}

// String returns a string representation of the address
func (a Address) String() string {
	return a.FullAddress()
}

// Value implements driver.Valuer so the address is stored as a JSON column
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSON columns
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = Address{}
		return nil
	}

	type plain Address
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse address JSON: %w", err)
	}
	*a = Address(p)
	return nil
}
