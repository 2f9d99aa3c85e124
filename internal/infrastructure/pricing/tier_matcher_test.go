package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/erp/purchase-discount/internal/infrastructure/uom"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var errUnknownUnit = errors.New("unknown unit")

type unitTable map[string]valueobject.Unit

func (u unitTable) FindByCode(_ context.Context, code string) (valueobject.Unit, error) {
	unit, ok := u[code]
	if !ok {
		return valueobject.Unit{}, errUnknownUnit
	}
	return unit, nil
}

var units = unitTable{
	"PCS": valueobject.MustNewUnit("PCS", "Piece", "unit", decimal.NewFromInt(1)),
	"BOX": valueobject.MustNewUnit("BOX", "Box", "unit", decimal.NewFromInt(24)),
	"KG":  valueobject.MustNewUnit("KG", "Kilogram", "weight", decimal.NewFromInt(1)),
}

var converter = uom.NewConverter(units)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestQuantityTierMatcher_Match(t *testing.T) {
	matcher := NewQuantityTierMatcher(converter)
	date := time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)

	tier := func(qty int64, unit string) purchasing.SupplierPrice {
		return purchasing.SupplierPrice{Quantity: decimal.NewFromInt(qty), Unit: unit}
	}
	pattern := func(qty int64, unit string) purchasing.PricePattern {
		return purchasing.PricePattern{Quantity: decimal.NewFromInt(qty), Unit: unit, Date: date}
	}

	tests := []struct {
		name    string
		tier    purchasing.SupplierPrice
		pattern purchasing.PricePattern
		want    bool
	}{
		{"threshold reached", tier(5, "PCS"), pattern(6, "PCS"), true},
		{"threshold exact", tier(5, "PCS"), pattern(5, "PCS"), true},
		{"below threshold", tier(10, "PCS"), pattern(6, "PCS"), false},
		{"zero threshold", tier(0, "PCS"), pattern(1, "PCS"), true},
		{"boxes counted as pieces", tier(48, "PCS"), pattern(2, "BOX"), true},
		{"pieces counted as boxes", tier(1, "BOX"), pattern(12, "PCS"), false},
		{"case-insensitive units", tier(5, "pcs"), pattern(6, "PCS"), true},
		{"tier without unit", tier(5, ""), pattern(6, "BOX"), true},
		{"other category", tier(1, "KG"), pattern(10, "PCS"), false},
		{"unknown unit", tier(1, "DOZEN"), pattern(10, "PCS"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matcher.Match(context.Background(), tt.tier, tt.pattern))
		})
	}
}

func TestQuantityTierMatcher_Window(t *testing.T) {
	matcher := NewQuantityTierMatcher(converter)
	p := purchasing.PricePattern{
		Quantity: decimal.NewFromInt(1),
		Unit:     "PCS",
		Date:     time.Date(2026, 6, 15, 23, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name       string
		start, end *time.Time
		want       bool
	}{
		{"open window", nil, nil, true},
		{"started", day(2026, 6, 1), nil, true},
		{"starts same day", day(2026, 6, 15), nil, true},
		{"not started", day(2026, 6, 16), nil, false},
		{"ends same day", nil, day(2026, 6, 15), true},
		{"expired", nil, day(2026, 6, 14), false},
		{"inside", day(2026, 1, 1), day(2026, 12, 31), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := purchasing.SupplierPrice{Unit: "PCS", StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.want, matcher.Match(context.Background(), tier, p))
		})
	}

	t.Run("zero date ignores window", func(t *testing.T) {
		tier := purchasing.SupplierPrice{Unit: "PCS", EndDate: day(2000, 1, 1)}
		assert.True(t, matcher.Match(context.Background(), tier, purchasing.PricePattern{Quantity: decimal.NewFromInt(1)}))
	})
}

type mockQuantityConverter struct {
	mock.Mock
}

func (m *mockQuantityConverter) ConvertQuantity(ctx context.Context, qty decimal.Decimal, from, to string) (decimal.Decimal, error) {
	args := m.Called(ctx, qty, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func TestQuantityTierMatcher_Converter(t *testing.T) {
	ctx := context.Background()
	tier := purchasing.SupplierPrice{Quantity: decimal.NewFromInt(48), Unit: "PCS"}

	t.Run("pattern quantity converted into the tier unit", func(t *testing.T) {
		qc := new(mockQuantityConverter)
		qc.On("ConvertQuantity", ctx, decimal.NewFromInt(2), "BOX", "PCS").Return(decimal.NewFromInt(48), nil).Once()

		matcher := NewQuantityTierMatcher(qc)
		assert.True(t, matcher.Match(ctx, tier, purchasing.PricePattern{Quantity: decimal.NewFromInt(2), Unit: "BOX"}))
		qc.AssertExpectations(t)
	})

	t.Run("conversion error rejects the tier", func(t *testing.T) {
		qc := new(mockQuantityConverter)
		qc.On("ConvertQuantity", ctx, mock.Anything, "KG", "PCS").Return(decimal.Zero, shared.ErrUnitCategoryMismatch)

		matcher := NewQuantityTierMatcher(qc)
		assert.False(t, matcher.Match(ctx, tier, purchasing.PricePattern{Quantity: decimal.NewFromInt(100), Unit: "KG"}))
	})

	t.Run("pattern without unit is not converted", func(t *testing.T) {
		qc := new(mockQuantityConverter)

		matcher := NewQuantityTierMatcher(qc)
		assert.True(t, matcher.Match(ctx, tier, purchasing.PricePattern{Quantity: decimal.NewFromInt(48)}))
		qc.AssertNotCalled(t, "ConvertQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
