package telemetry

import (
	"context"
)

// PricingMetrics counts reconciliations and quotes. A nil *PricingMetrics
// records nothing.
type PricingMetrics struct {
	fieldChanges  *Counter
	pricesCreated *Counter
	quotes        *Counter
}

// NewPricingMetrics creates the pricing instruments on the provider's
// "pricing" meter.
func NewPricingMetrics(mp *MeterProvider) (*PricingMetrics, error) {
	meter := mp.Meter("pricing")

	fieldChanges, err := NewCounter(meter,
		"pricing_field_change_total",
		"Supplier price field edits by field and outcome",
		"{change}",
	)
	if err != nil {
		return nil, err
	}

	pricesCreated, err := NewCounter(meter,
		"pricing_supplier_price_created_total",
		"Supplier price tiers created",
		"{price}",
	)
	if err != nil {
		return nil, err
	}

	quotes, err := NewCounter(meter,
		"pricing_quote_total",
		"Effective price lookups by the source that resolved them",
		"{quote}",
	)
	if err != nil {
		return nil, err
	}

	return &PricingMetrics{
		fieldChanges:  fieldChanges,
		pricesCreated: pricesCreated,
		quotes:        quotes,
	}, nil
}

// FieldChanged records an edit of field; err decides the outcome label.
func (m *PricingMetrics) FieldChanged(ctx context.Context, field string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.fieldChanges.Inc(ctx, AttrPriceField.String(field), AttrOutcome.String(outcome))
}

// PricesCreated records n new supplier price tiers.
func (m *PricingMetrics) PricesCreated(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.pricesCreated.Add(ctx, int64(n))
}

// Quoted records a resolved price by its source, "none" when nothing resolved.
func (m *PricingMetrics) Quoted(ctx context.Context, source string) {
	if m == nil {
		return
	}
	if source == "" {
		source = "none"
	}
	m.quotes.Inc(ctx, AttrPriceSource.String(source))
}
