// Package pricing holds the production implementation of tier matching.
package pricing

import (
	"context"
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuantityConverter converts a quantity between units; uom.Converter
// implements it.
type QuantityConverter interface {
	ConvertQuantity(ctx context.Context, qty decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// QuantityTierMatcher accepts a tier when the requested quantity, converted
// into the tier unit, reaches the tier threshold and the pattern date falls
// inside the tier validity window.
//
// Tiers are never reordered here; the selector takes the first tier accepted
// in storage order. A tier in another unit category, or whose unit is
// unknown, does not match. A tier or pattern without a unit compares
// quantities as given.
type QuantityTierMatcher struct {
	quantities QuantityConverter
}

// NewQuantityTierMatcher creates a matcher converting pattern quantities
// with quantities
func NewQuantityTierMatcher(quantities QuantityConverter) *QuantityTierMatcher {
	return &QuantityTierMatcher{quantities: quantities}
}

// Match implements purchasing.TierMatcher
func (m *QuantityTierMatcher) Match(ctx context.Context, tier purchasing.SupplierPrice, pattern purchasing.PricePattern) bool {
	if !inWindow(tier.StartDate, tier.EndDate, pattern.Date) {
		return false
	}

	qty := pattern.Quantity
	if tier.Unit != "" && pattern.Unit != "" {
		var err error
		qty, err = m.quantities.ConvertQuantity(ctx, pattern.Quantity, pattern.Unit, tier.Unit)
		if err != nil {
			logger.L(ctx).Debug("Tier skipped",
				zap.String("tier_id", tier.ID.String()),
				zap.String("tier_unit", tier.Unit),
				zap.String("unit", pattern.Unit),
				zap.Error(err),
			)
			return false
		}
	}
	return qty.GreaterThanOrEqual(tier.Quantity)
}

// inWindow reports whether date falls within [start, end], compared by day.
// A zero date matches any window.
func inWindow(start, end *time.Time, date time.Time) bool {
	if date.IsZero() {
		return true
	}
	day := dayOf(date)
	if start != nil && day.Before(dayOf(*start)) {
		return false
	}
	if end != nil && day.After(dayOf(*end)) {
		return false
	}
	return true
}

func dayOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

var _ purchasing.TierMatcher = (*QuantityTierMatcher)(nil)
