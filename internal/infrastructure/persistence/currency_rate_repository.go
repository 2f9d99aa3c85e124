package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/erp/purchase-discount/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCurrencyRateRepository stores dated exchange rates against the company currency
type GormCurrencyRateRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRateRepository creates a new GormCurrencyRateRepository
func NewGormCurrencyRateRepository(db *gorm.DB) *GormCurrencyRateRepository {
	return &GormCurrencyRateRepository{db: db}
}

// Save records rate for currency effective from date
func (r *GormCurrencyRateRepository) Save(ctx context.Context, currency valueobject.Currency, date time.Time, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models.CurrencyRateModel{
			Currency:      currency.String(),
			EffectiveDate: truncateDay(date),
			Rate:          rate,
		}).Error
}

// RateAt returns the most recent rate of currency effective on or before date
func (r *GormCurrencyRateRepository) RateAt(ctx context.Context, currency valueobject.Currency, date time.Time) (decimal.Decimal, error) {
	var model models.CurrencyRateModel
	err := r.db.WithContext(ctx).
		Where("currency = ? AND effective_date <= ?", currency.String(), truncateDay(date)).
		Order("effective_date DESC").
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("%w: %s at %s", shared.ErrRateNotFound, currency, date.Format(time.DateOnly))
		}
		return decimal.Zero, err
	}
	return model.Rate, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
