package purchasing

import (
	"context"
	"testing"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/erp/purchase-discount/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

// counterValues maps "metric attr=value,..." of every int64 counter point
func counterValues(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	values := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				key := m.Name
				for _, kv := range dp.Attributes.ToSlice() {
					key += " " + string(kv.Key) + "=" + kv.Value.Emit()
				}
				values[key] += dp.Value
			}
		}
	}
	return values
}

func newTestPricingMetrics(t *testing.T) (*telemetry.PricingMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, zap.NewNop())
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := telemetry.NewPricingMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func TestSupplierPriceService_Metrics(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestPricingMetrics(t)
	svc, priceRepo, supplierRepo := newTestSupplierPriceService()
	svc.WithMetrics(m)

	supplierID := uuid.New()
	supplierRepo.On("FindByID", ctx, supplierID).Return(&purchasing.ProductSupplier{Currency: valueobject.EUR}, nil)
	priceRepo.On("CreateBatch", ctx, mock.Anything).Return(nil)
	_, err := svc.CreateBatch(ctx, BatchCreateSupplierPricesRequest{Prices: []CreateSupplierPriceInput{
		{ProductSupplierID: supplierID, BasePrice: decPtr("16")},
		{ProductSupplierID: supplierID, Quantity: dec("5"), NetPrice: decPtr("14"), DiscountRate: decPtr("0.1")},
	}})
	require.NoError(t, err)

	price := purchasing.NewReconciler(purchasing.DefaultDigits()).Create(purchasing.PriceInput{
		BasePrice:    decimal.NewNullDecimal(dec("16")),
		DiscountRate: decimal.NewNullDecimal(dec("0.25")),
	})
	priceRepo.On("FindByID", ctx, price.ID).Return(&price, nil)
	priceRepo.On("Update", ctx, &price).Return(nil)

	_, err = svc.ChangeField(ctx, price.ID, "discount_rate", ChangeFieldRequest{Value: decPtr("0.5")})
	require.NoError(t, err)
	_, err = svc.ChangeField(ctx, price.ID, "discount_rate", ChangeFieldRequest{Value: decPtr("2")})
	require.Error(t, err)
	_, err = svc.ChangeField(ctx, price.ID, "margin", ChangeFieldRequest{Value: decPtr("1")})
	require.Error(t, err)

	got := counterValues(t, reader)
	assert.Equal(t, int64(2), got["pricing_supplier_price_created_total"])
	assert.Equal(t, int64(1), got["pricing_field_change_total outcome=ok price.field=discount_rate"])
	assert.Equal(t, int64(1), got["pricing_field_change_total outcome=error price.field=discount_rate"])
	assert.Equal(t, int64(1), got["pricing_field_change_total outcome=error price.field=unknown"])
}

func TestQuoteService_Metrics(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestPricingMetrics(t)

	supplierID := uuid.New()
	product := newTestProduct(supplierID)
	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	svc := NewQuoteService(productRepo, newTestSelector(), valueobject.EUR, zap.NewNop()).WithMetrics(m)

	_, err := svc.Quote(ctx, QuoteRequest{ProductID: product.ID, SupplierID: &supplierID, Quantity: dec("6")})
	require.NoError(t, err)
	_, err = svc.Quote(ctx, QuoteRequest{ProductID: product.ID, Quantity: dec("6"), Default: decPtr("9")})
	require.NoError(t, err)

	got := counterValues(t, reader)
	assert.Equal(t, int64(1), got["pricing_quote_total price.source=supplier_tier"])
	assert.Equal(t, int64(1), got["pricing_quote_total price.source=default"])
}
