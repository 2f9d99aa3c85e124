package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUnitRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUnitRepository(newTestDB(t))

	require.NoError(t, repo.Save(ctx, valueobject.MustNewUnit("box", "Box", "unit", decimal.NewFromInt(24))))
	// saving again replaces the factor
	require.NoError(t, repo.Save(ctx, valueobject.MustNewUnit("BOX", "Box", "unit", decimal.NewFromInt(12))))

	u, err := repo.FindByCode(ctx, " Box ")
	require.NoError(t, err)
	assert.Equal(t, "BOX", u.Code())
	assert.Equal(t, "unit", u.Category())
	assert.True(t, decimal.NewFromInt(12).Equal(u.Factor()))

	_, err = repo.FindByCode(ctx, "DOZEN")
	assert.ErrorIs(t, err, shared.ErrUnitNotFound)
}

func TestGormCurrencyRateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCurrencyRateRepository(newTestDB(t))
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, valueobject.USD, jan, dec("1.1")))
	require.NoError(t, repo.Save(ctx, valueobject.USD, feb, dec("1.2")))

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"on effective date", jan, "1.1"},
		{"between rates", jan.AddDate(0, 0, 15), "1.1"},
		{"after latest", feb.Add(36 * time.Hour), "1.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := repo.RateAt(ctx, valueobject.USD, tt.at)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(rate), "got %s", rate)
		})
	}

	t.Run("before first rate", func(t *testing.T) {
		_, err := repo.RateAt(ctx, valueobject.USD, jan.AddDate(0, 0, -1))
		assert.ErrorIs(t, err, shared.ErrRateNotFound)
	})

	t.Run("rejects non-positive rate", func(t *testing.T) {
		assert.Error(t, repo.Save(ctx, valueobject.GBP, jan, decimal.Zero))
	})
}
