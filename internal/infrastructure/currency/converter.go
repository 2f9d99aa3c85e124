// Package currency converts amounts between currencies using dated rates
// against the company currency.
package currency

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/erp/purchase-discount/internal/infrastructure/cache"
	"github.com/erp/purchase-discount/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateSource returns how many units of currency equal one unit of the
// company currency on date.
type RateSource interface {
	RateAt(ctx context.Context, currency valueobject.Currency, date time.Time) (decimal.Decimal, error)
}

// Converter implements purchasing.CurrencyConverter.
// Rates are read through the cache; cache failures fall back to the source.
type Converter struct {
	company valueobject.Currency
	source  RateSource
	cache   cache.RateCache
	ttl     time.Duration
}

// NewConverter creates a converter. rateCache may be nil.
func NewConverter(company valueobject.Currency, source RateSource, rateCache cache.RateCache, ttl time.Duration) *Converter {
	return &Converter{
		company: company.OrDefault(valueobject.DefaultCurrency),
		source:  source,
		cache:   rateCache,
		ttl:     ttl,
	}
}

// Convert converts amount from one currency to another at the rates
// effective on date. With round set the result is rounded to the digits of to.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to valueobject.Currency, date time.Time, round bool) (decimal.Decimal, error) {
	result := amount
	if from != to {
		fromRate, err := c.rate(ctx, from, date)
		if err != nil {
			return decimal.Zero, err
		}
		toRate, err := c.rate(ctx, to, date)
		if err != nil {
			return decimal.Zero, err
		}
		result = amount.Mul(toRate).Div(fromRate)
	}
	if round {
		result = result.Round(to.Digits())
	}
	return result, nil
}

func (c *Converter) rate(ctx context.Context, cur valueobject.Currency, date time.Time) (decimal.Decimal, error) {
	if cur == c.company {
		return decimal.NewFromInt(1), nil
	}

	if c.cache != nil {
		rate, ok, err := c.cache.Get(ctx, cur, date)
		if err != nil {
			logger.L(ctx).Warn("Rate cache read failed", zap.String("currency", cur.String()), zap.Error(err))
		} else if ok {
			return rate, nil
		}
	}

	rate, err := c.source.RateAt(ctx, cur, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate of %s: %w", cur, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("rate of %s is not positive: %s", cur, rate)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cur, date, rate, c.ttl); err != nil {
			logger.L(ctx).Warn("Rate cache write failed", zap.String("currency", cur.String()), zap.Error(err))
		}
	}
	return rate, nil
}

var _ purchasing.CurrencyConverter = (*Converter)(nil)
