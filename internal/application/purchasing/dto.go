package purchasing

import (
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Supplier Price DTOs ====================

// CreateSupplierPriceInput is one price tier of a batch create request.
// Any of base price, net price and discount rate may be omitted.
type CreateSupplierPriceInput struct {
	ProductSupplierID uuid.UUID        `json:"product_supplier_id" binding:"required"`
	Sequence          int              `json:"sequence" binding:"gte=0"`
	Quantity          decimal.Decimal  `json:"quantity" binding:"decimal_gte=0"`
	Unit              string           `json:"unit" binding:"max=20"`
	Currency          string           `json:"currency" binding:"omitempty,len=3"`
	StartDate         *time.Time       `json:"start_date"`
	EndDate           *time.Time       `json:"end_date"`
	BasePrice         *decimal.Decimal `json:"base_price" binding:"omitempty,decimal_gte=0"`
	NetPrice          *decimal.Decimal `json:"net_price" binding:"omitempty,decimal_gte=0"`
	DiscountRate      *decimal.Decimal `json:"discount_rate" binding:"omitempty,decimal_gte=0,decimal_lte=1"`
}

// BatchCreateSupplierPricesRequest creates several tiers at once
type BatchCreateSupplierPricesRequest struct {
	Prices []CreateSupplierPriceInput `json:"prices" binding:"required,min=1,dive"`
}

// ChangeFieldRequest sets one price field; a null value clears it
type ChangeFieldRequest struct {
	Value *decimal.Decimal `json:"value" binding:"omitempty,decimal_gte=0"`
}

// SupplierPriceResponse is a supplier price with its computed discount
type SupplierPriceResponse struct {
	ID                uuid.UUID        `json:"id"`
	ProductSupplierID uuid.UUID        `json:"product_supplier_id"`
	Sequence          int              `json:"sequence"`
	Quantity          decimal.Decimal  `json:"quantity"`
	Unit              string           `json:"unit,omitempty"`
	Currency          string           `json:"currency,omitempty"`
	StartDate         *time.Time       `json:"start_date,omitempty"`
	EndDate           *time.Time       `json:"end_date,omitempty"`
	BasePrice         *decimal.Decimal `json:"base_price"`
	NetPrice          *decimal.Decimal `json:"net_price"`
	DiscountRate      *decimal.Decimal `json:"discount_rate"`
	DiscountAmount    *decimal.Decimal `json:"discount_amount"`
	DiscountLabel     string           `json:"discount_label"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// PriceChangeResponse lists the fields recomputed by a field change
type PriceChangeResponse struct {
	Field   string                      `json:"field"`
	Updated map[string]*decimal.Decimal `json:"updated"`
	Price   SupplierPriceResponse       `json:"price"`
}

// ==================== Quote DTOs ====================

// QuoteRequest asks for the price of a product line
type QuoteRequest struct {
	ProductID  uuid.UUID        `json:"product_id" binding:"required"`
	SupplierID *uuid.UUID       `json:"supplier_id"`
	Quantity   decimal.Decimal  `json:"quantity" binding:"required"`
	Unit       string           `json:"unit" binding:"max=20"`
	Currency   string           `json:"currency" binding:"omitempty,len=3"`
	Date       *time.Time       `json:"date"`
	Default    *decimal.Decimal `json:"default_price" binding:"omitempty,decimal_gte=0"`
}

// QuoteResponse is the resolved price of a product line
type QuoteResponse struct {
	ProductID      uuid.UUID        `json:"product_id"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Unit           string           `json:"unit,omitempty"`
	Currency       string           `json:"currency"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
	BasePrice      *decimal.Decimal `json:"base_price"`
	DiscountRate   *decimal.Decimal `json:"discount_rate"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
	DiscountLabel  string           `json:"discount_label"`
	Source         string           `json:"source"`
	TierID         *uuid.UUID       `json:"tier_id,omitempty"`
}

// ToDecimalPtr converts an unset decimal to nil
func ToDecimalPtr(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}

// ToNullDecimal converts a nil decimal to an unset one
func ToNullDecimal(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*v)
}

// ToSupplierPriceResponse converts a supplier price, rendering its discount
// label for the company currency.
func ToSupplierPriceResponse(p *purchasing.SupplierPrice, r *purchasing.Reconciler, company valueobject.Currency, loc purchasing.Localizer) SupplierPriceResponse {
	return SupplierPriceResponse{
		ID:                p.ID,
		ProductSupplierID: p.ProductSupplierID,
		Sequence:          p.Sequence,
		Quantity:          p.Quantity,
		Unit:              p.Unit,
		Currency:          p.Currency.String(),
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		BasePrice:         ToDecimalPtr(p.BasePrice),
		NetPrice:          ToDecimalPtr(p.NetPrice),
		DiscountRate:      ToDecimalPtr(p.DiscountRate),
		DiscountAmount:    ToDecimalPtr(r.DiscountAmount(*p)),
		DiscountLabel:     r.RenderDiscountLabel(*p, company, loc),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ToPriceChangeResponse converts the result of a field change
func ToPriceChangeResponse(field purchasing.Field, u purchasing.PriceUpdate, price SupplierPriceResponse) PriceChangeResponse {
	updated := make(map[string]*decimal.Decimal, len(u.Fields))
	for _, f := range u.Fields {
		switch f {
		case purchasing.FieldBasePrice:
			updated[f.String()] = ToDecimalPtr(u.BasePrice)
		case purchasing.FieldNetPrice:
			updated[f.String()] = ToDecimalPtr(u.NetPrice)
		case purchasing.FieldDiscountRate:
			updated[f.String()] = ToDecimalPtr(u.DiscountRate)
		case purchasing.FieldDiscountAmount:
			updated[f.String()] = ToDecimalPtr(u.DiscountAmount)
		}
	}
	return PriceChangeResponse{
		Field:   field.String(),
		Updated: updated,
		Price:   price,
	}
}

// ToQuoteResponse converts a price quote
func ToQuoteResponse(req QuoteRequest, pc purchasing.PriceContext, q *purchasing.PriceQuote) QuoteResponse {
	resp := QuoteResponse{
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		Unit:           pc.Unit,
		Currency:       pc.Currency.String(),
		UnitPrice:      ToDecimalPtr(q.UnitPrice),
		BasePrice:      ToDecimalPtr(q.BasePrice),
		DiscountRate:   ToDecimalPtr(q.DiscountRate),
		DiscountAmount: ToDecimalPtr(q.DiscountAmount),
		DiscountLabel:  q.DiscountLabel,
		Source:         string(q.Source),
	}
	if q.Tier != nil {
		id := q.Tier.ID
		resp.TierID = &id
	}
	return resp
}
