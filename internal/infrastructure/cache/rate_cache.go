// Package cache stores exchange rates looked up by the currency converter.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RateCache holds exchange rates keyed by currency and day
type RateCache interface {
	// Get returns the cached rate, with ok false on a miss
	Get(ctx context.Context, currency valueobject.Currency, date time.Time) (rate decimal.Decimal, ok bool, err error)
	// Set stores rate for ttl
	Set(ctx context.Context, currency valueobject.Currency, date time.Time, rate decimal.Decimal, ttl time.Duration) error
}

// rateKey returns the cache key of a currency rate on the day of date
func rateKey(currency valueobject.Currency, date time.Time) string {
	return fmt.Sprintf("%s:%s", currency, date.UTC().Format(time.DateOnly))
}
