// Package uom converts quantities and unit prices between units of measure.
package uom

import (
	"context"
	"fmt"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// UnitLookup resolves unit codes
type UnitLookup interface {
	FindByCode(ctx context.Context, code string) (valueobject.Unit, error)
}

// Converter implements purchasing.UnitConverter over a unit repository
type Converter struct {
	units UnitLookup
}

// NewConverter creates a Converter
func NewConverter(units UnitLookup) *Converter {
	return &Converter{units: units}
}

// ConvertPrice converts a price per unit from into a price per unit to
func (c *Converter) ConvertPrice(ctx context.Context, price decimal.Decimal, from, to string) (decimal.Decimal, error) {
	src, dst, same, err := c.resolve(ctx, from, to)
	if err != nil || same {
		return price, err
	}
	return src.ConvertPrice(price, dst)
}

// ConvertQuantity converts a quantity expressed in from into to
func (c *Converter) ConvertQuantity(ctx context.Context, qty decimal.Decimal, from, to string) (decimal.Decimal, error) {
	src, dst, same, err := c.resolve(ctx, from, to)
	if err != nil || same {
		return qty, err
	}
	return src.ConvertQuantity(qty, dst)
}

func (c *Converter) resolve(ctx context.Context, from, to string) (valueobject.Unit, valueobject.Unit, bool, error) {
	from = valueobject.NormalizeUnitCode(from)
	to = valueobject.NormalizeUnitCode(to)
	if from == to {
		return valueobject.Unit{}, valueobject.Unit{}, true, nil
	}

	src, err := c.units.FindByCode(ctx, from)
	if err != nil {
		return src, src, false, err
	}
	dst, err := c.units.FindByCode(ctx, to)
	if err != nil {
		return src, dst, false, err
	}
	if !src.SameCategory(dst) {
		return src, dst, false, fmt.Errorf("%w: %s (%s) to %s (%s)",
			shared.ErrUnitCategoryMismatch, src.Code(), src.Category(), dst.Code(), dst.Category())
	}
	return src, dst, false, nil
}

var _ purchasing.UnitConverter = (*Converter)(nil)
