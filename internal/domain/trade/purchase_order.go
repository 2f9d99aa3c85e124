package trade

import (
	"fmt"
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusConfirmed PurchaseOrderStatus = "CONFIRMED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is one of the known states; stored orders
// with any other status are refused on load
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusCancelled:
		return false // Terminal state
	}
	return false
}

// PurchaseOrderLine is a product line of a purchase order. Its prices are
// expressed per Unit in the order currency.
type PurchaseOrderLine struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	ProductCode    string
	Quantity       decimal.Decimal
	Unit           string
	BasePrice      decimal.NullDecimal
	UnitPrice      decimal.NullDecimal
	DiscountRate   decimal.NullDecimal
	DiscountAmount decimal.NullDecimal
	DiscountLabel  string
	PriceSource    purchasing.PriceSource
	Amount         decimal.Decimal // Quantity * UnitPrice, rounded to the order currency
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPurchaseOrderLine creates an unpriced line
func NewPurchaseOrderLine(orderID, productID uuid.UUID, productCode, unit string, quantity decimal.Decimal) (*PurchaseOrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	now := time.Now()
	return &PurchaseOrderLine{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductCode: productCode,
		Quantity:    quantity,
		Unit:        unit,
		PriceSource: purchasing.SourceNone,
		Amount:      decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ApplyQuote copies a price quote onto the line. When the quote resolved no
// price the line keeps its previous prices.
func (l *PurchaseOrderLine) ApplyQuote(q *purchasing.PriceQuote, currency valueobject.Currency) {
	if q != nil && q.UnitPrice.Valid {
		l.BasePrice = q.BasePrice
		l.UnitPrice = q.UnitPrice
		l.DiscountRate = q.DiscountRate
		l.DiscountAmount = q.DiscountAmount
		l.DiscountLabel = q.DiscountLabel
		l.PriceSource = q.Source
	}
	l.recalculateAmount(currency)
	l.UpdatedAt = time.Now()
}

func (l *PurchaseOrderLine) recalculateAmount(currency valueobject.Currency) {
	if !l.UnitPrice.Valid {
		l.Amount = decimal.Zero
		return
	}
	m, _ := valueobject.NewMoney(l.UnitPrice.Decimal.Mul(l.Quantity), currency.OrDefault(valueobject.DefaultCurrency))
	l.Amount = m.RoundToCurrency().Amount()
}

// GetAmountMoney returns the line amount as Money in the order currency
func (l *PurchaseOrderLine) GetAmountMoney(currency valueobject.Currency) valueobject.Money {
	m, _ := valueobject.NewMoney(l.Amount, currency.OrDefault(valueobject.DefaultCurrency))
	return m
}

// PurchaseOrder is a draft or confirmed order placed with one supplier
type PurchaseOrder struct {
	shared.BaseEntity
	OrderNumber string
	SupplierID  uuid.UUID
	Currency    valueobject.Currency
	OrderDate   time.Time
	Lines       []PurchaseOrderLine
	TotalAmount decimal.Decimal
	Status      PurchaseOrderStatus
	ConfirmedAt *time.Time
	CancelledAt *time.Time
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, currency valueobject.Currency, orderDate time.Time) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if currency.IsZero() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	return &PurchaseOrder{
		BaseEntity:  shared.NewBaseEntity(),
		OrderNumber: orderNumber,
		SupplierID:  supplierID,
		Currency:    currency,
		OrderDate:   orderDate,
		Lines:       make([]PurchaseOrderLine, 0),
		TotalAmount: decimal.Zero,
		Status:      PurchaseOrderStatusDraft,
	}, nil
}

// PriceContext returns the context lines of this order are priced in
func (o *PurchaseOrder) PriceContext(unit string, companyCurrency valueobject.Currency) purchasing.PriceContext {
	supplierID := o.SupplierID
	return purchasing.PriceContext{
		SupplierID:      &supplierID,
		Unit:            unit,
		Currency:        o.Currency,
		CompanyCurrency: companyCurrency,
		Date:            o.OrderDate,
	}
}

// AddLine adds a line priced with quote
// Only allowed in DRAFT status
func (o *PurchaseOrder) AddLine(productID uuid.UUID, productCode, unit string, quantity decimal.Decimal, quote *purchasing.PriceQuote) (*PurchaseOrderLine, error) {
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft order")
	}

	line, err := NewPurchaseOrderLine(o.ID, productID, productCode, unit, quantity)
	if err != nil {
		return nil, err
	}
	line.ApplyQuote(quote, o.Currency)

	o.Lines = append(o.Lines, *line)
	o.recalculateTotals()
	o.Touch()

	return &o.Lines[len(o.Lines)-1], nil
}

// UpdateLineQuantity changes the quantity of a line and reprices it with quote
// Only allowed in DRAFT status
func (o *PurchaseOrder) UpdateLineQuantity(lineID uuid.UUID, quantity decimal.Decimal, quote *purchasing.PriceQuote) (*PurchaseOrderLine, error) {
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot update lines in a non-draft order")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	line, err := o.Line(lineID)
	if err != nil {
		return nil, err
	}
	line.Quantity = quantity
	line.ApplyQuote(quote, o.Currency)

	o.recalculateTotals()
	o.Touch()
	return line, nil
}

// RemoveLine removes a line from the order
// Only allowed in DRAFT status
func (o *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft order")
	}

	for idx, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			o.recalculateTotals()
			o.Touch()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// Line returns the line with the given ID
func (o *PurchaseOrder) Line(lineID uuid.UUID) (*PurchaseOrderLine, error) {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx], nil
		}
	}
	return nil, shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// Confirm confirms the order, transitioning from DRAFT to CONFIRMED
// Every line must be priced
func (o *PurchaseOrder) Confirm() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot confirm order without lines")
	}
	for _, line := range o.Lines {
		if !line.UnitPrice.Valid {
			return shared.NewDomainError("UNPRICED_LINE", fmt.Sprintf("Line for product %s has no unit price", line.ProductCode))
		}
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	return nil
}

// Cancel cancels the order
func (o *PurchaseOrder) Cancel() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now
	return nil
}

// GetTotalMoney returns the order total as Money
func (o *PurchaseOrder) GetTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(o.TotalAmount, o.Currency.OrDefault(valueobject.DefaultCurrency))
	return m
}

func (o *PurchaseOrder) recalculateTotals() {
	total := valueobject.Zero(o.Currency)
	for _, line := range o.Lines {
		total, _ = total.Add(line.GetAmountMoney(o.Currency))
	}
	o.TotalAmount = total.Amount()
}
