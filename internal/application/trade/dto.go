package trade

import (
	"time"

	apppurchasing "github.com/erp/purchase-discount/internal/application/purchasing"
	"github.com/erp/purchase-discount/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Purchase Order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	OrderNumber string                   `json:"order_number" binding:"omitempty,max=50"`
	SupplierID  uuid.UUID                `json:"supplier_id" binding:"required"`
	Currency    string                   `json:"currency" binding:"omitempty,len=3"`
	OrderDate   *time.Time               `json:"order_date"`
	Lines       []AddPurchaseLineRequest `json:"lines" binding:"dive"`
}

// AddPurchaseLineRequest represents a request to add a line to a purchase order.
// The line is priced from the supplier price list of the order.
type AddPurchaseLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"decimal_gt=0"`
	Unit      string          `json:"unit" binding:"max=20"`
}

// UpdateLineQuantityRequest represents a request to change a line quantity
type UpdateLineQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"decimal_gt=0"`
}

// PurchaseOrderLineResponse represents a priced purchase order line
type PurchaseOrderLineResponse struct {
	ID             uuid.UUID        `json:"id"`
	ProductID      uuid.UUID        `json:"product_id"`
	ProductCode    string           `json:"product_code"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Unit           string           `json:"unit"`
	BasePrice      *decimal.Decimal `json:"base_price"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
	DiscountRate   *decimal.Decimal `json:"discount_rate"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
	DiscountLabel  string           `json:"discount_label"`
	PriceSource    string           `json:"price_source"`
	Amount         decimal.Decimal  `json:"amount"`
}

// PurchaseOrderResponse represents a purchase order with its lines
type PurchaseOrderResponse struct {
	ID          uuid.UUID                   `json:"id"`
	OrderNumber string                      `json:"order_number"`
	SupplierID  uuid.UUID                   `json:"supplier_id"`
	Currency    string                      `json:"currency"`
	OrderDate   time.Time                   `json:"order_date"`
	Status      string                      `json:"status"`
	Lines       []PurchaseOrderLineResponse `json:"lines"`
	TotalAmount decimal.Decimal             `json:"total_amount"`
	TotalLabel  string                      `json:"total_label"`
	ConfirmedAt *time.Time                  `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time                  `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// ToPurchaseOrderLineResponse converts a domain line to a response
func ToPurchaseOrderLineResponse(l *trade.PurchaseOrderLine) PurchaseOrderLineResponse {
	return PurchaseOrderLineResponse{
		ID:             l.ID,
		ProductID:      l.ProductID,
		ProductCode:    l.ProductCode,
		Quantity:       l.Quantity,
		Unit:           l.Unit,
		BasePrice:      apppurchasing.ToDecimalPtr(l.BasePrice),
		UnitPrice:      apppurchasing.ToDecimalPtr(l.UnitPrice),
		DiscountRate:   apppurchasing.ToDecimalPtr(l.DiscountRate),
		DiscountAmount: apppurchasing.ToDecimalPtr(l.DiscountAmount),
		DiscountLabel:  l.DiscountLabel,
		PriceSource:    string(l.PriceSource),
		Amount:         l.Amount,
	}
}

// ToPurchaseOrderResponse converts a domain order to a response
func ToPurchaseOrderResponse(o *trade.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(o.Lines))
	for i := range o.Lines {
		lines = append(lines, ToPurchaseOrderLineResponse(&o.Lines[i]))
	}
	return PurchaseOrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		SupplierID:  o.SupplierID,
		Currency:    o.Currency.String(),
		OrderDate:   o.OrderDate,
		Status:      o.Status.String(),
		Lines:       lines,
		TotalAmount: o.TotalAmount,
		TotalLabel:  o.GetTotalMoney().String(),
		ConfirmedAt: o.ConfirmedAt,
		CancelledAt: o.CancelledAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
