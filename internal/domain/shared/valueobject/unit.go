package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a value object representing a unit of measurement.
// Units of the same category convert into each other through their factor:
// the factor is how many reference units of the category equal one of this unit
// (e.g. in category "unit": PCS=1, BOX=24).
type Unit struct {
	code     string
	name     string
	category string
	factor   decimal.Decimal
}

// Common unit codes for convenience
const (
	UnitCodePCS = "PCS" // Pieces
	UnitCodeBOX = "BOX" // Box
	UnitCodeKG  = "KG"  // Kilograms
	UnitCodeG   = "G"   // Grams
	UnitCodeL   = "L"   // Liters
)

// NewUnit creates a new Unit.
// Returns error if:
//   - code is empty or longer than 20 chars
//   - category is empty
//   - factor is zero or negative
func NewUnit(code, name, category string, factor decimal.Decimal) (Unit, error) {
	code = NormalizeUnitCode(code)
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)

	if code == "" {
		return Unit{}, errors.New("unit code cannot be empty")
	}
	if len(code) > 20 {
		return Unit{}, errors.New("unit code cannot exceed 20 characters")
	}
	if category == "" {
		return Unit{}, errors.New("unit category cannot be empty")
	}
	if !factor.IsPositive() {
		return Unit{}, errors.New("unit factor must be positive")
	}
	if name == "" {
		name = code
	}

	return Unit{code: code, name: name, category: category, factor: factor}, nil
}

// MustNewUnit creates a Unit or panics; intended for static tables and tests
func MustNewUnit(code, name, category string, factor decimal.Decimal) Unit {
	u, err := NewUnit(code, name, category, factor)
	if err != nil {
		panic(err)
	}
	return u
}

// NormalizeUnitCode trims and uppercases a unit code
func NormalizeUnitCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Code returns the unit code
func (u Unit) Code() string {
	return u.code
}

// Name returns the display name
func (u Unit) Name() string {
	return u.name
}

// Category returns the measurement category
func (u Unit) Category() string {
	return u.category
}

// Factor returns the number of reference units in one of this unit
func (u Unit) Factor() decimal.Decimal {
	return u.factor
}

// SameCategory returns true if both units measure the same dimension
func (u Unit) SameCategory(other Unit) bool {
	return u.category == other.category
}

// ConvertQuantity converts a quantity expressed in u into target.
// Formula: quantity * u.factor / target.factor
func (u Unit) ConvertQuantity(quantity decimal.Decimal, target Unit) (decimal.Decimal, error) {
	if !u.SameCategory(target) {
		return decimal.Zero, fmt.Errorf("cannot convert %s (%s) to %s (%s)", u.code, u.category, target.code, target.category)
	}
	if u.code == target.code {
		return quantity, nil
	}
	return quantity.Mul(u.factor).Div(target.factor), nil
}

// ConvertPrice converts a price per u into a price per target.
// Formula: price * target.factor / u.factor
func (u Unit) ConvertPrice(price decimal.Decimal, target Unit) (decimal.Decimal, error) {
	if !u.SameCategory(target) {
		return decimal.Zero, fmt.Errorf("cannot convert %s (%s) to %s (%s)", u.code, u.category, target.code, target.category)
	}
	if u.code == target.code {
		return price, nil
	}
	return price.Mul(target.factor).Div(u.factor), nil
}

// String returns the unit code
func (u Unit) String() string {
	return u.code
}
