package purchasing

import (
	"fmt"

	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Reconciler keeps base price, discount and net price of a SupplierPrice
// consistent. It holds no state besides the configured digits and is safe
// for concurrent use.
type Reconciler struct {
	digits Digits
}

// NewReconciler creates a reconciler quantizing to the given digits
func NewReconciler(d Digits) *Reconciler {
	return &Reconciler{digits: d}
}

// Digits returns the configured scales
func (r *Reconciler) Digits() Digits {
	return r.digits
}

// ReconcileBaseAndRate recomputes the net price after the base price or the
// discount rate changed. With either input unset the net price is cleared
// and the base price is returned as given.
func (r *Reconciler) ReconcileBaseAndRate(p SupplierPrice) PriceUpdate {
	u := PriceUpdate{
		Fields:    []Field{FieldBasePrice, FieldNetPrice, FieldDiscountAmount},
		BasePrice: p.BasePrice,
	}
	if !p.BasePrice.Valid || !p.DiscountRate.Valid {
		return u
	}

	base := p.BasePrice.Decimal
	rate := r.digits.round(p.DiscountRate.Decimal, r.digits.Discount)
	net := r.forward(base, rate)
	// at 100% the net price is zero and carries no information about the base
	if !rate.Equal(one) {
		base = r.digits.round(net.Div(one.Sub(rate)), r.digits.Price)
	}

	u.BasePrice = decimal.NewNullDecimal(base)
	u.NetPrice = decimal.NewNullDecimal(net)
	u.DiscountAmount = r.DiscountAmountOf(u.BasePrice, u.NetPrice)
	return u
}

// ReconcileDiscountAmount recomputes the net price after the discount amount
// changed. The rate is re-derived so both views of the discount agree.
func (r *Reconciler) ReconcileDiscountAmount(p SupplierPrice, amount decimal.NullDecimal) PriceUpdate {
	if !p.BasePrice.Valid || !amount.Valid {
		return PriceUpdate{
			Fields:         []Field{FieldNetPrice, FieldDiscountAmount},
			DiscountAmount: amount,
		}
	}

	net := decimal.NewNullDecimal(r.digits.round(p.BasePrice.Decimal.Sub(amount.Decimal), r.digits.Net()))
	return PriceUpdate{
		Fields:         []Field{FieldNetPrice, FieldDiscountRate, FieldDiscountAmount},
		NetPrice:       net,
		DiscountRate:   r.DiscountRateOf(p.BasePrice, net),
		DiscountAmount: r.DiscountAmountOf(p.BasePrice, net),
	}
}

// ReconcileNetPrice re-derives both discount views after the net price was
// edited directly.
func (r *Reconciler) ReconcileNetPrice(p SupplierPrice) PriceUpdate {
	return PriceUpdate{
		Fields:         []Field{FieldDiscountRate, FieldDiscountAmount},
		DiscountRate:   r.DiscountRateOf(p.BasePrice, p.NetPrice),
		DiscountAmount: r.DiscountAmountOf(p.BasePrice, p.NetPrice),
	}
}

// DiscountRateOf returns 1 − net/base at discount scale, unset when base is
// zero or either price is unset.
func (r *Reconciler) DiscountRateOf(base, net decimal.NullDecimal) decimal.NullDecimal {
	if !base.Valid || !net.Valid || base.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	rate := one.Sub(net.Decimal.Div(base.Decimal))
	return decimal.NewNullDecimal(r.digits.round(rate, r.digits.Discount))
}

// DiscountAmountOf returns base − net at net scale, unset when either price
// is unset.
func (r *Reconciler) DiscountAmountOf(base, net decimal.NullDecimal) decimal.NullDecimal {
	if !base.Valid || !net.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(r.digits.round(base.Decimal.Sub(net.Decimal), r.digits.Net()))
}

// DiscountAmount returns the computed discount amount of p
func (r *Reconciler) DiscountAmount(p SupplierPrice) decimal.NullDecimal {
	return r.DiscountAmountOf(p.BasePrice, p.NetPrice)
}

// forward computes base × (1 − rate) from the base and rate quantized to
// their stored scales, so a second reconciliation sees the same inputs.
func (r *Reconciler) forward(base, rate decimal.Decimal) decimal.Decimal {
	base = r.digits.round(base, r.digits.Price)
	rate = r.digits.round(rate, r.digits.Discount)
	return r.digits.round(base.Mul(one.Sub(rate)), r.digits.Net())
}

type fieldHandler func(r *Reconciler, p SupplierPrice, value decimal.NullDecimal) PriceUpdate

// fieldHandlers maps an edited field to the reconciliation it triggers.
// The edited value has already been written to the record, except for the
// discount amount which is not stored.
var fieldHandlers = map[Field]fieldHandler{
	FieldBasePrice: func(r *Reconciler, p SupplierPrice, _ decimal.NullDecimal) PriceUpdate {
		return r.ReconcileBaseAndRate(p)
	},
	FieldDiscountRate: func(r *Reconciler, p SupplierPrice, _ decimal.NullDecimal) PriceUpdate {
		return r.ReconcileBaseAndRate(p)
	},
	FieldDiscountAmount: func(r *Reconciler, p SupplierPrice, value decimal.NullDecimal) PriceUpdate {
		return r.ReconcileDiscountAmount(p, value)
	},
	FieldNetPrice: func(r *Reconciler, p SupplierPrice, _ decimal.NullDecimal) PriceUpdate {
		return r.ReconcileNetPrice(p)
	},
}

// Apply writes the edited value onto p, runs the reconciliation registered
// for the field and applies its result. The returned update lists every
// field that was recomputed.
func (r *Reconciler) Apply(p *SupplierPrice, ev ChangeEvent) (PriceUpdate, error) {
	handler, ok := fieldHandlers[ev.Field]
	if !ok {
		return PriceUpdate{}, fmt.Errorf("%w: %q", shared.ErrUnknownField, ev.Field)
	}

	switch ev.Field {
	case FieldBasePrice:
		p.BasePrice = ev.Value
	case FieldNetPrice:
		p.NetPrice = ev.Value
	case FieldDiscountRate:
		p.DiscountRate = ev.Value
	}

	u := handler(r, *p, ev.Value)
	u.ApplyTo(p)
	return u, nil
}
