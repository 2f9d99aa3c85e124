package trade

import (
	"testing"
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers for PurchaseOrder
func createTestPurchaseOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder("PO-2024-001", uuid.New(), valueobject.EUR, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return order
}

func tierQuote(base, unit, rate, label string) *purchasing.PriceQuote {
	return &purchasing.PriceQuote{
		BasePrice:      decimal.NewNullDecimal(decimal.RequireFromString(base)),
		UnitPrice:      decimal.NewNullDecimal(decimal.RequireFromString(unit)),
		DiscountRate:   decimal.NewNullDecimal(decimal.RequireFromString(rate)),
		DiscountAmount: decimal.NewNullDecimal(decimal.RequireFromString(base).Sub(decimal.RequireFromString(unit))),
		DiscountLabel:  label,
		Source:         purchasing.SourceSupplierTier,
	}
}

// ============================================
// PurchaseOrderStatus Tests
// ============================================

func TestPurchaseOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  PurchaseOrderStatus
		isValid bool
	}{
		{PurchaseOrderStatusDraft, true},
		{PurchaseOrderStatusConfirmed, true},
		{PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatus("INVALID"), false},
		{PurchaseOrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestPurchaseOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PurchaseOrderStatus
		to       PurchaseOrderStatus
		canTrans bool
	}{
		{PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewPurchaseOrder(t *testing.T) {
	supplierID := uuid.New()

	t.Run("creates draft order", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-1", supplierID, valueobject.USD, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusDraft, order.Status)
		assert.Equal(t, valueobject.USD, order.Currency)
		assert.False(t, order.OrderDate.IsZero())
		assert.True(t, order.TotalAmount.IsZero())
		assert.NotEqual(t, uuid.Nil, order.ID)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewPurchaseOrder("", supplierID, valueobject.USD, time.Time{})
		assert.Error(t, err)

		_, err = NewPurchaseOrder(string(make([]byte, 51)), supplierID, valueobject.USD, time.Time{})
		assert.Error(t, err)

		_, err = NewPurchaseOrder("PO-1", uuid.Nil, valueobject.USD, time.Time{})
		assert.Error(t, err)

		_, err = NewPurchaseOrder("PO-1", supplierID, "", time.Time{})
		assert.Error(t, err)
	})
}

func TestNewPurchaseOrderLine(t *testing.T) {
	orderID := uuid.New()

	line, err := NewPurchaseOrderLine(orderID, uuid.New(), "P-001", "pcs", decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, orderID, line.OrderID)
	assert.Equal(t, purchasing.SourceNone, line.PriceSource)
	assert.False(t, line.UnitPrice.Valid)

	_, err = NewPurchaseOrderLine(orderID, uuid.Nil, "P-001", "pcs", decimal.NewFromInt(3))
	assert.Error(t, err)
	_, err = NewPurchaseOrderLine(orderID, uuid.New(), "P-001", "pcs", decimal.Zero)
	assert.Error(t, err)
	_, err = NewPurchaseOrderLine(orderID, uuid.New(), "P-001", "", decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestPurchaseOrder_AddLine(t *testing.T) {
	order := createTestPurchaseOrder(t)

	line, err := order.AddLine(uuid.New(), "P-001", "pcs", decimal.NewFromInt(6), tierQuote("10", "9", "0.1", "10%"))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(10).Equal(line.BasePrice.Decimal))
	assert.True(t, decimal.NewFromInt(9).Equal(line.UnitPrice.Decimal))
	assert.True(t, decimal.NewFromInt(1).Equal(line.DiscountAmount.Decimal))
	assert.Equal(t, "10%", line.DiscountLabel)
	assert.Equal(t, purchasing.SourceSupplierTier, line.PriceSource)
	assert.True(t, decimal.NewFromInt(54).Equal(line.Amount))
	assert.True(t, decimal.NewFromInt(54).Equal(order.TotalAmount))

	_, err = order.AddLine(uuid.New(), "P-002", "pcs", decimal.NewFromInt(2), tierQuote("2.345", "2.345", "0", ""))
	require.NoError(t, err)
	// 4.69 after rounding to the order currency
	assert.Equal(t, "58.69", order.TotalAmount.String())
	assert.Equal(t, "58.69 EUR", order.GetTotalMoney().String())
}

func TestPurchaseOrder_AddLine_Unpriced(t *testing.T) {
	order := createTestPurchaseOrder(t)

	line, err := order.AddLine(uuid.New(), "P-001", "pcs", decimal.NewFromInt(6), &purchasing.PriceQuote{Source: purchasing.SourceNone})
	require.NoError(t, err)
	assert.False(t, line.UnitPrice.Valid)
	assert.True(t, line.Amount.IsZero())

	err = order.Confirm()
	assert.Error(t, err)
}

func TestPurchaseOrder_UpdateLineQuantity(t *testing.T) {
	order := createTestPurchaseOrder(t)
	line, err := order.AddLine(uuid.New(), "P-001", "pcs", decimal.NewFromInt(1), tierQuote("16", "16", "0", ""))
	require.NoError(t, err)

	t.Run("reprices with the new quote", func(t *testing.T) {
		updated, err := order.UpdateLineQuantity(line.ID, decimal.NewFromInt(20), tierQuote("15", "12", "0.2", "20%"))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(12).Equal(updated.UnitPrice.Decimal))
		assert.Equal(t, "20%", updated.DiscountLabel)
		assert.True(t, decimal.NewFromInt(240).Equal(order.TotalAmount))
	})

	t.Run("keeps previous prices when nothing resolves", func(t *testing.T) {
		updated, err := order.UpdateLineQuantity(line.ID, decimal.NewFromInt(10), &purchasing.PriceQuote{Source: purchasing.SourceNone})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(15).Equal(updated.BasePrice.Decimal))
		assert.True(t, decimal.NewFromInt(12).Equal(updated.UnitPrice.Decimal))
		assert.True(t, decimal.NewFromInt(120).Equal(order.TotalAmount))
	})

	t.Run("rejects invalid quantity and unknown line", func(t *testing.T) {
		_, err := order.UpdateLineQuantity(line.ID, decimal.Zero, nil)
		assert.Error(t, err)

		_, err = order.UpdateLineQuantity(uuid.New(), decimal.NewFromInt(1), nil)
		assert.Error(t, err)
	})
}

func TestPurchaseOrder_RemoveLine(t *testing.T) {
	order := createTestPurchaseOrder(t)
	line, err := order.AddLine(uuid.New(), "P-001", "pcs", decimal.NewFromInt(2), tierQuote("5", "5", "0", ""))
	require.NoError(t, err)

	require.NoError(t, order.RemoveLine(line.ID))
	assert.Empty(t, order.Lines)
	assert.True(t, order.TotalAmount.IsZero())

	assert.Error(t, order.RemoveLine(line.ID))
}

func TestPurchaseOrder_ConfirmAndCancel(t *testing.T) {
	order := createTestPurchaseOrder(t)
	assert.Error(t, order.Confirm(), "no lines")

	_, err := order.AddLine(uuid.New(), "P-001", "pcs", decimal.NewFromInt(2), tierQuote("5", "5", "0", ""))
	require.NoError(t, err)

	require.NoError(t, order.Confirm())
	assert.Equal(t, PurchaseOrderStatusConfirmed, order.Status)
	assert.NotNil(t, order.ConfirmedAt)

	_, err = order.AddLine(uuid.New(), "P-002", "pcs", decimal.NewFromInt(1), nil)
	assert.Error(t, err, "confirmed orders are read only")

	require.NoError(t, order.Cancel())
	assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
	assert.NotNil(t, order.CancelledAt)
	assert.Error(t, order.Cancel())
}

func TestPurchaseOrder_PriceContext(t *testing.T) {
	order := createTestPurchaseOrder(t)
	pc := order.PriceContext("box", valueobject.USD)

	require.NotNil(t, pc.SupplierID)
	assert.Equal(t, order.SupplierID, *pc.SupplierID)
	assert.Equal(t, "box", pc.Unit)
	assert.Equal(t, valueobject.EUR, pc.Currency)
	assert.Equal(t, valueobject.USD, pc.CompanyCurrency)
	assert.Equal(t, order.OrderDate, pc.Date)
}
