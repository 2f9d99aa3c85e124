package purchasing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingMode selects how derived values are quantized
type RoundingMode string

const (
	// RoundHalfEven rounds ties to the even neighbour (banker's rounding)
	RoundHalfEven RoundingMode = "half_even"
	// RoundHalfUp rounds ties away from zero
	RoundHalfUp RoundingMode = "half_up"
)

// ParseRoundingMode parses a configured rounding mode name
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch RoundingMode(strings.ToLower(strings.TrimSpace(s))) {
	case RoundHalfEven, "":
		return RoundHalfEven, nil
	case RoundHalfUp:
		return RoundHalfUp, nil
	}
	return "", fmt.Errorf("unknown rounding mode %q", s)
}

const (
	// DefaultPriceDigits is the scale of base prices
	DefaultPriceDigits int32 = 4
	// DefaultDiscountDigits is the scale of discount rates
	DefaultDiscountDigits int32 = 4
)

// Digits holds the decimal scales used by the reconciler.
// Net prices and discount amounts use Price+Discount digits so that
// base × (1 − rate) is representable without loss.
type Digits struct {
	Price    int32
	Discount int32
	Rounding RoundingMode
}

// DefaultDigits returns 4 price digits, 4 discount digits, half-even rounding
func DefaultDigits() Digits {
	return Digits{
		Price:    DefaultPriceDigits,
		Discount: DefaultDiscountDigits,
		Rounding: RoundHalfEven,
	}
}

// Net returns the scale of net prices and discount amounts
func (d Digits) Net() int32 {
	return d.Price + d.Discount
}

func (d Digits) round(v decimal.Decimal, places int32) decimal.Decimal {
	if d.Rounding == RoundHalfUp {
		return v.Round(places)
	}
	return v.RoundBank(places)
}
