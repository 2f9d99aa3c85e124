package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/erp/purchase-discount/internal/domain/trade"
	"github.com/erp/purchase-discount/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tierQuote(net, base, rate string) *purchasing.PriceQuote {
	return &purchasing.PriceQuote{
		UnitPrice:    nd(net),
		BasePrice:    nd(base),
		DiscountRate: nd(rate),
		Source:       purchasing.SourceSupplierTier,
	}
}

func newOrder(t *testing.T, number string) *trade.PurchaseOrder {
	t.Helper()
	order, err := trade.NewPurchaseOrder(number, uuid.New(), valueobject.EUR, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return order
}

func TestGormPurchaseOrderRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPurchaseOrderRepository(newTestDB(t))

	order := newOrder(t, "PO-1")
	first, err := order.AddLine(uuid.New(), "SKU-1", "PCS", dec("6"), tierQuote("14.4", "16", "0.1"))
	require.NoError(t, err)
	firstID := first.ID
	_, err = order.AddLine(uuid.New(), "SKU-2", "PCS", dec("2"), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "PO-1", got.OrderNumber)
	assert.Equal(t, trade.PurchaseOrderStatusDraft, got.Status)
	require.Len(t, got.Lines, 2)
	line, err := got.Line(firstID)
	require.NoError(t, err)
	assertDecimal(t, "14.4", line.UnitPrice)
	assertDecimal(t, "16", line.BasePrice)
	assert.Equal(t, purchasing.SourceSupplierTier, line.PriceSource)
	assert.True(t, dec("86.4").Equal(line.Amount))
	assert.True(t, dec("86.4").Equal(got.TotalAmount))

	t.Run("removed lines are deleted", func(t *testing.T) {
		require.NoError(t, got.RemoveLine(firstID))
		require.NoError(t, repo.Save(ctx, got))

		reloaded, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Lines, 1)
		assert.Equal(t, "SKU-2", reloaded.Lines[0].ProductCode)
		assert.False(t, reloaded.Lines[0].UnitPrice.Valid)
	})

	t.Run("order number exists", func(t *testing.T) {
		exists, err := repo.ExistsByOrderNumber(ctx, "PO-1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByOrderNumber(ctx, "PO-2")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPurchaseOrderRepository_UnknownStatus(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)

	order := newOrder(t, "PO-9")
	require.NoError(t, repo.Save(ctx, order))
	require.NoError(t, db.Model(&models.PurchaseOrderModel{}).
		Where("id = ?", order.ID).
		Update("status", "ARCHIVED").Error)

	_, err := repo.FindByID(ctx, order.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown status "ARCHIVED"`)
}
