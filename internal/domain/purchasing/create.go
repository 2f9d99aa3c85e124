package purchasing

import (
	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Create builds a supplier price from a partial set of fields.
//
// A missing or zero base price is derived from the net price and the rate.
// Otherwise a missing or zero net price is derived from the base price and
// the rate. A missing rate becomes 0.
func (r *Reconciler) Create(in PriceInput) SupplierPrice {
	p := SupplierPrice{
		BaseEntity:        shared.NewBaseEntity(),
		ProductSupplierID: in.ProductSupplierID,
		Sequence:          in.Sequence,
		Quantity:          in.Quantity,
		Unit:              in.Unit,
		Currency:          in.Currency,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		BasePrice:         in.BasePrice,
		NetPrice:          in.NetPrice,
		DiscountRate:      in.DiscountRate,
	}

	switch {
	case isAbsentOrZero(in.BasePrice):
		base := in.NetPrice.Decimal
		if in.DiscountRate.Valid && !in.DiscountRate.Decimal.Equal(one) {
			base = r.digits.round(base.Div(one.Sub(in.DiscountRate.Decimal)), r.digits.Price)
		}
		p.BasePrice = decimal.NewNullDecimal(base)
	case isAbsentOrZero(in.NetPrice):
		rate := decimal.Zero
		if in.DiscountRate.Valid {
			rate = r.digits.round(in.DiscountRate.Decimal, r.digits.Discount)
			p.DiscountRate = decimal.NewNullDecimal(rate)
		}
		net := r.forward(in.BasePrice.Decimal, rate)
		p.BasePrice = decimal.NewNullDecimal(r.digits.round(in.BasePrice.Decimal, r.digits.Price))
		p.NetPrice = decimal.NewNullDecimal(net)
	}

	if !in.DiscountRate.Valid {
		p.DiscountRate = decimal.NewNullDecimal(decimal.Zero)
	}
	return p
}

// CreateBatch applies Create to every input independently, in order
func (r *Reconciler) CreateBatch(inputs []PriceInput) []SupplierPrice {
	prices := make([]SupplierPrice, 0, len(inputs))
	for _, in := range inputs {
		prices = append(prices, r.Create(in))
	}
	return prices
}

func isAbsentOrZero(v decimal.NullDecimal) bool {
	return !v.Valid || v.Decimal.IsZero()
}
