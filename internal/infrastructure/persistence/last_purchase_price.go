package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/erp/purchase-discount/internal/domain/trade"
	"github.com/erp/purchase-discount/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLastPurchasePriceLookup finds the unit price of the most recent
// confirmed purchase of a product.
type GormLastPurchasePriceLookup struct {
	db    *gorm.DB
	units purchasing.UnitConverter
}

// NewGormLastPurchasePriceLookup creates a lookup that converts found prices
// into the requested unit with units.
func NewGormLastPurchasePriceLookup(db *gorm.DB, units purchasing.UnitConverter) *GormLastPurchasePriceLookup {
	return &GormLastPurchasePriceLookup{db: db, units: units}
}

// LastPurchasePrice returns the price per unit of the latest priced line of
// a confirmed order, or an unset value when the product was never purchased.
func (l *GormLastPurchasePriceLookup) LastPurchasePrice(ctx context.Context, productID uuid.UUID, unit string) (decimal.NullDecimal, error) {
	var line models.PurchaseOrderLineModel
	err := l.db.WithContext(ctx).
		Model(&models.PurchaseOrderLineModel{}).
		Select("purchase_order_lines.*").
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_lines.order_id").
		Where("purchase_order_lines.product_id = ?", productID).
		Where("purchase_order_lines.unit_price IS NOT NULL").
		Where("purchase_orders.status = ?", trade.PurchaseOrderStatusConfirmed).
		Order("purchase_orders.confirmed_at DESC").
		Order("purchase_order_lines.created_at DESC").
		Take(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.NullDecimal{}, nil
		}
		return decimal.NullDecimal{}, err
	}

	price := line.UnitPrice.Decimal
	from := valueobject.NormalizeUnitCode(line.Unit)
	to := valueobject.NormalizeUnitCode(unit)
	if to != "" && from != to {
		price, err = l.units.ConvertPrice(ctx, price, from, to)
		if err != nil {
			return decimal.NullDecimal{}, fmt.Errorf("convert last purchase price: %w", err)
		}
	}
	return decimal.NewNullDecimal(price), nil
}

var _ purchasing.LastPurchasePriceLookup = (*GormLastPurchasePriceLookup)(nil)
