package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TierMatcher decides whether a price tier applies to a pattern
type TierMatcher interface {
	Match(ctx context.Context, tier SupplierPrice, pattern PricePattern) bool
}

// UnitConverter converts a unit price between units of the same category
type UnitConverter interface {
	ConvertPrice(ctx context.Context, price decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// CurrencyConverter converts an amount between currencies as of a date.
// With round set the result is rounded to the target currency digits.
type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to valueobject.Currency, date time.Time, round bool) (decimal.Decimal, error)
}

// LastPurchasePriceLookup returns the unit price of the most recent purchase
// of a product, expressed in unit.
type LastPurchasePriceLookup interface {
	LastPurchasePrice(ctx context.Context, productID uuid.UUID, unit string) (decimal.NullDecimal, error)
}

// Selector picks the price tier that applies to a purchase line and turns it
// into an effective unit price.
type Selector struct {
	reconciler *Reconciler
	matcher    TierMatcher
	units      UnitConverter
	currencies CurrencyConverter
	last       LastPurchasePriceLookup
	localizer  Localizer
}

// NewSelector wires a selector with its collaborators
func NewSelector(
	r *Reconciler,
	m TierMatcher,
	units UnitConverter,
	currencies CurrencyConverter,
	last LastPurchasePriceLookup,
	loc Localizer,
) *Selector {
	return &Selector{
		reconciler: r,
		matcher:    m,
		units:      units,
		currencies: currencies,
		last:       last,
		localizer:  loc,
	}
}

// ApplicablePrice returns the first tier, in the given order, accepted by
// the matcher. Tiers are not reordered.
func (s *Selector) ApplicablePrice(ctx context.Context, tiers []SupplierPrice, pattern PricePattern) (*SupplierPrice, bool) {
	for i := range tiers {
		if s.matcher.Match(ctx, tiers[i], pattern) {
			return &tiers[i], true
		}
	}
	return nil, false
}

// ComputeEffectivePrice returns the unit price a purchase line of quantity
// should use, or an unset value when nothing resolves.
func (s *Selector) ComputeEffectivePrice(ctx context.Context, product Product, quantity decimal.Decimal, pc PriceContext) (decimal.NullDecimal, error) {
	q, err := s.Quote(ctx, product, quantity, pc)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return q.UnitPrice, nil
}

// Quote resolves the price of product for quantity in the context pc.
//
// The product default price is used first, overridden by the first matching
// tier of the context supplier. Without either, the last purchase price and
// then the caller default are used.
func (s *Selector) Quote(ctx context.Context, product Product, quantity decimal.Decimal, pc PriceContext) (*PriceQuote, error) {
	quote := &PriceQuote{Source: SourceNone}

	if product.DefaultPurchasePrice.Valid {
		price, err := s.convert(ctx, product.DefaultPurchasePrice.Decimal, product.PurchaseUnit, pc.CompanyCurrency, pc)
		if err != nil {
			return nil, fmt.Errorf("convert product price: %w", err)
		}
		quote.UnitPrice = decimal.NewNullDecimal(price)
		quote.Source = SourceProduct
	}

	if pc.SupplierID != nil {
		tierQuote, err := s.quoteSupplier(ctx, product, *pc.SupplierID, quantity, pc)
		if err != nil {
			return nil, err
		}
		if tierQuote != nil {
			quote = tierQuote
		}
	}

	if !quote.UnitPrice.Valid && s.last != nil {
		price, err := s.last.LastPurchasePrice(ctx, product.ID, pc.Unit)
		if err != nil {
			return nil, fmt.Errorf("last purchase price: %w", err)
		}
		if price.Valid {
			quote.UnitPrice = price
			quote.Source = SourceLastPurchase
		}
	}

	if !quote.UnitPrice.Valid && pc.Default.Valid {
		quote.UnitPrice = pc.Default
		quote.Source = SourceCallerDefault
	}

	if quote.Source != SourceSupplierTier {
		quote.BasePrice = quote.UnitPrice
	}
	return quote, nil
}

func (s *Selector) quoteSupplier(ctx context.Context, product Product, supplierID uuid.UUID, quantity decimal.Decimal, pc PriceContext) (*PriceQuote, error) {
	pattern := pc.Pattern(quantity)
	for _, ps := range product.Suppliers {
		if ps.SupplierID != supplierID {
			continue
		}
		tier, ok := s.ApplicablePrice(ctx, ps.Prices, pattern)
		if !ok || !tier.NetPrice.Valid {
			continue
		}

		currency := tier.Currency.OrDefault(ps.Currency)
		net, err := s.convert(ctx, tier.NetPrice.Decimal, tier.Unit, currency, pc)
		if err != nil {
			return nil, fmt.Errorf("convert tier net price: %w", err)
		}
		base := decimal.NewNullDecimal(net)
		if tier.BasePrice.Valid {
			converted, err := s.convert(ctx, tier.BasePrice.Decimal, tier.Unit, currency, pc)
			if err != nil {
				return nil, fmt.Errorf("convert tier base price: %w", err)
			}
			base = decimal.NewNullDecimal(converted)
		}

		unitPrice := decimal.NewNullDecimal(net)
		amount := s.reconciler.DiscountAmountOf(base, unitPrice)
		return &PriceQuote{
			UnitPrice:      unitPrice,
			BasePrice:      base,
			DiscountRate:   tier.DiscountRate,
			DiscountAmount: amount,
			DiscountLabel:  s.reconciler.discountLabel(tier.DiscountRate, amount, pc.Currency, pc.CompanyCurrency, s.localizer),
			Tier:           tier,
			Source:         SourceSupplierTier,
		}, nil
	}
	return nil, nil
}

// convert brings a unit price expressed per unit in currency into the unit
// and currency of pc, unrounded.
func (s *Selector) convert(ctx context.Context, price decimal.Decimal, unit string, currency valueobject.Currency, pc PriceContext) (decimal.Decimal, error) {
	if unit != "" && pc.Unit != "" && unit != pc.Unit {
		converted, err := s.units.ConvertPrice(ctx, price, unit, pc.Unit)
		if err != nil {
			return decimal.Decimal{}, err
		}
		price = converted
	}
	if !currency.IsZero() && !pc.Currency.IsZero() && currency != pc.Currency {
		converted, err := s.currencies.Convert(ctx, price, currency, pc.Currency, pc.Date, false)
		if err != nil {
			return decimal.Decimal{}, err
		}
		price = converted
	}
	return price, nil
}
