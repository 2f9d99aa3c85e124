package purchasing

import (
	"context"
	"testing"
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *purchasing.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.Product), args.Error(1)
}

type thresholdMatcher struct{}

func (thresholdMatcher) Match(_ context.Context, tier purchasing.SupplierPrice, pattern purchasing.PricePattern) bool {
	return pattern.Quantity.GreaterThanOrEqual(tier.Quantity) && (tier.Unit == "" || tier.Unit == pattern.Unit)
}

type identityUnits struct{}

func (identityUnits) ConvertPrice(_ context.Context, price decimal.Decimal, _, _ string) (decimal.Decimal, error) {
	return price, nil
}

type identityRates struct{}

func (identityRates) Convert(_ context.Context, amount decimal.Decimal, _, _ valueobject.Currency, _ time.Time, _ bool) (decimal.Decimal, error) {
	return amount, nil
}

func newTestSelector() *purchasing.Selector {
	return purchasing.NewSelector(
		purchasing.NewReconciler(purchasing.DefaultDigits()),
		thresholdMatcher{},
		identityUnits{},
		identityRates{},
		nil,
		percentLocalizer{},
	)
}

// newTestProduct returns a product with the three classic tiers
func newTestProduct(supplierID uuid.UUID) *purchasing.Product {
	r := purchasing.NewReconciler(purchasing.DefaultDigits())
	productID := uuid.New()
	return &purchasing.Product{
		BaseEntity:   shared.BaseEntity{ID: productID},
		Code:         "P-001",
		PurchaseUnit: "PCS",
		Suppliers: []purchasing.ProductSupplier{{
			ProductID:  productID,
			SupplierID: supplierID,
			Currency:   valueobject.EUR,
			Prices: r.CreateBatch([]purchasing.PriceInput{
				{Quantity: dec("10"), Unit: "PCS", NetPrice: decimal.NewNullDecimal(dec("12")), DiscountRate: decimal.NewNullDecimal(dec("0.2"))},
				{Quantity: dec("5"), Unit: "PCS", NetPrice: decimal.NewNullDecimal(dec("14")), DiscountRate: decimal.NewNullDecimal(dec("0.1"))},
				{Quantity: dec("0"), Unit: "PCS", BasePrice: decimal.NewNullDecimal(dec("16"))},
			}),
		}},
	}
}

func TestQuoteService_Quote(t *testing.T) {
	ctx := context.Background()
	supplierID := uuid.New()
	product := newTestProduct(supplierID)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	svc := NewQuoteService(productRepo, newTestSelector(), valueobject.EUR, zap.NewNop())

	tests := []struct {
		quantity  string
		wantPrice string
		wantLabel string
	}{
		{"1", "16", ""},
		{"6", "14", "10%"},
		{"20", "12", "20%"},
	}

	for _, tt := range tests {
		t.Run(tt.quantity, func(t *testing.T) {
			resp, err := svc.Quote(ctx, QuoteRequest{
				ProductID:  product.ID,
				SupplierID: &supplierID,
				Quantity:   dec(tt.quantity),
			})
			require.NoError(t, err)

			assert.Equal(t, "PCS", resp.Unit)
			assert.Equal(t, "EUR", resp.Currency)
			assert.Equal(t, string(purchasing.SourceSupplierTier), resp.Source)
			assert.NotNil(t, resp.TierID)
			assert.True(t, dec(tt.wantPrice).Equal(*resp.UnitPrice))
			assert.Equal(t, tt.wantLabel, resp.DiscountLabel)
		})
	}
}

func TestQuoteService_QuoteFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	product := newTestProduct(uuid.New())

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	svc := NewQuoteService(productRepo, newTestSelector(), valueobject.EUR, zap.NewNop())

	resp, err := svc.Quote(ctx, QuoteRequest{
		ProductID: product.ID,
		Quantity:  dec("3"),
		Unit:      "box",
		Currency:  "usd",
		Default:   decPtr("4.5"),
	})
	require.NoError(t, err)

	assert.Equal(t, "BOX", resp.Unit)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, string(purchasing.SourceCallerDefault), resp.Source)
	assert.True(t, dec("4.5").Equal(*resp.UnitPrice))
	assert.Nil(t, resp.DiscountRate)
	assert.Nil(t, resp.TierID)
}

func TestQuoteService_QuoteErrors(t *testing.T) {
	ctx := context.Background()
	productRepo := new(MockProductRepository)
	svc := NewQuoteService(productRepo, newTestSelector(), valueobject.EUR, zap.NewNop())

	_, err := svc.Quote(ctx, QuoteRequest{ProductID: uuid.New(), Quantity: dec("1"), Currency: "EURO"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	missing := uuid.New()
	productRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	_, err = svc.Quote(ctx, QuoteRequest{ProductID: missing, Quantity: dec("1")})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
