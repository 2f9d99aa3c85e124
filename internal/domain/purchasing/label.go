package purchasing

import (
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Localizer formats decimals for display
type Localizer interface {
	// FormatPercent renders a fractional rate, 0.1 as "10%"
	FormatPercent(rate decimal.Decimal) string
	// FormatCurrency renders an amount with the currency symbol
	FormatCurrency(amount decimal.Decimal, currency valueobject.Currency) string
}

var (
	hundred          = decimal.NewFromInt(100)
	percentTolerance = decimal.RequireFromString("0.01")
)

// RenderDiscountLabel returns a short human readable summary of the discount
// of p. Whole percentages render as a percentage; anything else renders as
// the discount amount in the price currency, falling back to company when the
// price has none. An empty string means there is no discount.
func (r *Reconciler) RenderDiscountLabel(p SupplierPrice, company valueobject.Currency, loc Localizer) string {
	return r.discountLabel(p.DiscountRate, r.DiscountAmount(p), p.Currency, company, loc)
}

func (r *Reconciler) discountLabel(rate, amount decimal.NullDecimal, currency, company valueobject.Currency, loc Localizer) string {
	if loc == nil {
		return ""
	}
	if rate.Valid && !rate.Decimal.IsZero() && isWholePercent(rate.Decimal) {
		return loc.FormatPercent(rate.Decimal)
	}
	if !amount.Valid || amount.Decimal.IsZero() {
		return ""
	}
	if cur := currency.OrDefault(company); !cur.IsZero() {
		return loc.FormatCurrency(amount.Decimal, cur)
	}
	return amount.Decimal.String()
}

func isWholePercent(rate decimal.Decimal) bool {
	return rate.Mul(hundred).Mod(one).Abs().LessThan(percentTolerance)
}
