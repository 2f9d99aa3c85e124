package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/erp/purchase-discount/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPurchaseOrderRepository is a mock implementation of PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

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
	return pattern.Quantity.GreaterThanOrEqual(tier.Quantity)
}

type noConversion struct{}

func (noConversion) ConvertPrice(_ context.Context, price decimal.Decimal, _, _ string) (decimal.Decimal, error) {
	return price, nil
}

func (noConversion) Convert(_ context.Context, amount decimal.Decimal, _, _ valueobject.Currency, _ time.Time, _ bool) (decimal.Decimal, error) {
	return amount, nil
}

type plainLocalizer struct{}

func (plainLocalizer) FormatPercent(rate decimal.Decimal) string {
	return rate.Shift(2).String() + "%"
}

func (plainLocalizer) FormatCurrency(amount decimal.Decimal, currency valueobject.Currency) string {
	return amount.StringFixed(2) + " " + currency.String()
}

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

type orderFixture struct {
	svc         *PurchaseOrderService
	orderRepo   *MockPurchaseOrderRepository
	productRepo *MockProductRepository
	product     *purchasing.Product
	supplierID  uuid.UUID
}

func newOrderFixture() orderFixture {
	r := purchasing.NewReconciler(purchasing.DefaultDigits())
	supplierID := uuid.New()
	productID := uuid.New()
	product := &purchasing.Product{
		BaseEntity:   shared.BaseEntity{ID: productID},
		Code:         "P-001",
		PurchaseUnit: "PCS",
		Suppliers: []purchasing.ProductSupplier{{
			ProductID:  productID,
			SupplierID: supplierID,
			Currency:   valueobject.EUR,
			Prices: r.CreateBatch([]purchasing.PriceInput{
				{Quantity: decimal.NewFromInt(10), NetPrice: nd("12"), DiscountRate: nd("0.2")},
				{Quantity: decimal.NewFromInt(5), NetPrice: nd("14"), DiscountRate: nd("0.1")},
				{Quantity: decimal.Zero, BasePrice: nd("16")},
			}),
		}},
	}

	orderRepo := new(MockPurchaseOrderRepository)
	productRepo := new(MockProductRepository)
	selector := purchasing.NewSelector(r, thresholdMatcher{}, noConversion{}, noConversion{}, nil, plainLocalizer{})

	return orderFixture{
		svc:         NewPurchaseOrderService(orderRepo, productRepo, selector, valueobject.EUR, zap.NewNop()),
		orderRepo:   orderRepo,
		productRepo: productRepo,
		product:     product,
		supplierID:  supplierID,
	}
}

func TestPurchaseOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("prices initial lines from the supplier tiers", func(t *testing.T) {
		f := newOrderFixture()
		f.orderRepo.On("ExistsByOrderNumber", ctx, "PO-1").Return(false, nil)
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.PurchaseOrder")).Return(nil)
		f.productRepo.On("FindByID", ctx, f.product.ID).Return(f.product, nil)

		resp, err := f.svc.Create(ctx, CreatePurchaseOrderRequest{
			OrderNumber: "PO-1",
			SupplierID:  f.supplierID,
			Lines: []AddPurchaseLineRequest{
				{ProductID: f.product.ID, Quantity: decimal.NewFromInt(6)},
				{ProductID: f.product.ID, Quantity: decimal.NewFromInt(1)},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "EUR", resp.Currency)
		assert.Equal(t, "DRAFT", resp.Status)
		require.Len(t, resp.Lines, 2)
		assert.Equal(t, "PCS", resp.Lines[0].Unit)
		assert.True(t, decimal.NewFromInt(14).Equal(*resp.Lines[0].UnitPrice))
		assert.True(t, decimal.RequireFromString("15.5556").Equal(*resp.Lines[0].BasePrice))
		assert.Equal(t, "10%", resp.Lines[0].DiscountLabel)
		assert.True(t, decimal.NewFromInt(16).Equal(*resp.Lines[1].UnitPrice))
		assert.True(t, decimal.NewFromInt(100).Equal(resp.TotalAmount))
		f.orderRepo.AssertExpectations(t)
	})

	t.Run("generates an order number", func(t *testing.T) {
		f := newOrderFixture()
		f.orderRepo.On("ExistsByOrderNumber", ctx, mock.AnythingOfType("string")).Return(false, nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.svc.Create(ctx, CreatePurchaseOrderRequest{SupplierID: f.supplierID, Currency: "usd"})
		require.NoError(t, err)
		assert.Regexp(t, `^PO-\d{8}-[0-9A-F]{8}$`, resp.OrderNumber)
		assert.Equal(t, "USD", resp.Currency)
	})

	t.Run("duplicate order number", func(t *testing.T) {
		f := newOrderFixture()
		f.orderRepo.On("ExistsByOrderNumber", ctx, "PO-1").Return(true, nil)

		_, err := f.svc.Create(ctx, CreatePurchaseOrderRequest{OrderNumber: "PO-1", SupplierID: f.supplierID})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid currency", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.svc.Create(ctx, CreatePurchaseOrderRequest{SupplierID: f.supplierID, Currency: "E1R"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestPurchaseOrderService_UpdateLineQuantity(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	f.productRepo.On("FindByID", ctx, f.product.ID).Return(f.product, nil)

	order, err := trade.NewPurchaseOrder("PO-2", f.supplierID, valueobject.EUR, time.Now())
	require.NoError(t, err)
	line, err := order.AddLine(f.product.ID, f.product.Code, "PCS", decimal.NewFromInt(1), &purchasing.PriceQuote{
		UnitPrice: nd("16"), BasePrice: nd("16"), Source: purchasing.SourceSupplierTier,
	})
	require.NoError(t, err)
	lineID := line.ID

	f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil)

	resp, err := f.svc.UpdateLineQuantity(ctx, order.ID, lineID, UpdateLineQuantityRequest{Quantity: decimal.NewFromInt(20)})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(12).Equal(*resp.UnitPrice))
	assert.True(t, decimal.NewFromInt(15).Equal(*resp.BasePrice))
	assert.True(t, decimal.RequireFromString("0.2").Equal(*resp.DiscountRate))
	assert.Equal(t, "20%", resp.DiscountLabel)
	assert.True(t, decimal.NewFromInt(240).Equal(resp.Amount))
	assert.True(t, decimal.NewFromInt(240).Equal(order.TotalAmount))

	_, err = f.svc.UpdateLineQuantity(ctx, order.ID, uuid.New(), UpdateLineQuantityRequest{Quantity: decimal.NewFromInt(2)})
	assert.Error(t, err)
}

func TestPurchaseOrderService_AddLine(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a priced line", func(t *testing.T) {
		f := newOrderFixture()
		order, err := trade.NewPurchaseOrder("PO-3", f.supplierID, valueobject.EUR, time.Now())
		require.NoError(t, err)
		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("Save", ctx, order).Return(nil)
		f.productRepo.On("FindByID", ctx, f.product.ID).Return(f.product, nil)

		resp, err := f.svc.AddLine(ctx, order.ID, AddPurchaseLineRequest{ProductID: f.product.ID, Quantity: decimal.NewFromInt(10), Unit: "pcs"})
		require.NoError(t, err)
		assert.Equal(t, string(purchasing.SourceSupplierTier), resp.PriceSource)
		assert.True(t, decimal.NewFromInt(12).Equal(*resp.UnitPrice))
		assert.Len(t, order.Lines, 1)
	})

	t.Run("product not found", func(t *testing.T) {
		f := newOrderFixture()
		order, err := trade.NewPurchaseOrder("PO-4", f.supplierID, valueobject.EUR, time.Now())
		require.NoError(t, err)
		missing := uuid.New()
		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.productRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err = f.svc.AddLine(ctx, order.ID, AddPurchaseLineRequest{ProductID: missing, Quantity: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("save failure", func(t *testing.T) {
		f := newOrderFixture()
		order, err := trade.NewPurchaseOrder("PO-5", f.supplierID, valueobject.EUR, time.Now())
		require.NoError(t, err)
		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("Save", ctx, order).Return(errors.New("db down"))
		f.productRepo.On("FindByID", ctx, f.product.ID).Return(f.product, nil)

		_, err = f.svc.AddLine(ctx, order.ID, AddPurchaseLineRequest{ProductID: f.product.ID, Quantity: decimal.NewFromInt(1)})
		assert.EqualError(t, err, "db down")
	})
}

func TestPurchaseOrderService_RemoveLine(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order, err := trade.NewPurchaseOrder("PO-7", f.supplierID, valueobject.EUR, time.Now())
	require.NoError(t, err)
	kept, err := order.AddLine(f.product.ID, f.product.Code, "PCS", decimal.NewFromInt(2), &purchasing.PriceQuote{UnitPrice: nd("16"), Source: purchasing.SourceSupplierTier})
	require.NoError(t, err)
	keptID := kept.ID
	removed, err := order.AddLine(f.product.ID, f.product.Code, "PCS", decimal.NewFromInt(1), &purchasing.PriceQuote{UnitPrice: nd("3.5"), Source: purchasing.SourceCallerDefault})
	require.NoError(t, err)
	removedID := removed.ID

	f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil).Once()

	resp, err := f.svc.RemoveLine(ctx, order.ID, removedID)
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, keptID, resp.Lines[0].ID)
	assert.True(t, decimal.NewFromInt(32).Equal(resp.TotalAmount))
	assert.Equal(t, "32.00 EUR", resp.TotalLabel)

	_, err = f.svc.RemoveLine(ctx, order.ID, removedID)
	assert.Error(t, err)
	f.orderRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestPurchaseOrderService_ConfirmAndCancel(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	order, err := trade.NewPurchaseOrder("PO-6", f.supplierID, valueobject.EUR, time.Now())
	require.NoError(t, err)
	f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil)

	_, err = f.svc.Confirm(ctx, order.ID)
	assert.Error(t, err, "order without lines")

	_, err = order.AddLine(f.product.ID, "P-001", "PCS", decimal.NewFromInt(1), &purchasing.PriceQuote{UnitPrice: nd("3"), Source: purchasing.SourceCallerDefault})
	require.NoError(t, err)

	resp, err := f.svc.Confirm(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)

	resp, err = f.svc.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)
	assert.NotNil(t, resp.CancelledAt)
}
