package models

import (
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/erp/purchase-discount/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	BaseModel
	OrderNumber string                    `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID  uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Currency    string                    `gorm:"type:char(3);not null"`
	OrderDate   time.Time                 `gorm:"not null"`
	Lines       []PurchaseOrderLineModel  `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount decimal.Decimal           `gorm:"type:numeric;not null;default:0"`
	Status      trade.PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ConfirmedAt *time.Time                `gorm:"index"`
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	order := &trade.PurchaseOrder{
		BaseEntity:  m.BaseModel.ToDomain(),
		OrderNumber: m.OrderNumber,
		SupplierID:  m.SupplierID,
		Currency:    valueobject.Currency(m.Currency),
		OrderDate:   m.OrderDate,
		TotalAmount: m.TotalAmount,
		Status:      m.Status,
		ConfirmedAt: m.ConfirmedAt,
		CancelledAt: m.CancelledAt,
		Lines:       make([]trade.PurchaseOrderLine, len(m.Lines)),
	}
	for i := range m.Lines {
		order.Lines[i] = *m.Lines[i].ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) FromDomain(o *trade.PurchaseOrder) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.OrderNumber = o.OrderNumber
	m.SupplierID = o.SupplierID
	m.Currency = o.Currency.String()
	m.OrderDate = o.OrderDate
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.ConfirmedAt = o.ConfirmedAt
	m.CancelledAt = o.CancelledAt
	m.Lines = make([]PurchaseOrderLineModel, len(o.Lines))
	for i := range o.Lines {
		m.Lines[i] = *PurchaseOrderLineModelFromDomain(&o.Lines[i])
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder entity.
func PurchaseOrderModelFromDomain(o *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

// PurchaseOrderLineModel is the persistence model for a purchase order line.
type PurchaseOrderLineModel struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key"`
	OrderID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductCode    string              `gorm:"type:varchar(50);not null"`
	Quantity       decimal.Decimal     `gorm:"type:numeric;not null"`
	Unit           string              `gorm:"type:varchar(20);not null"`
	BasePrice      decimal.NullDecimal `gorm:"type:numeric"`
	UnitPrice      decimal.NullDecimal `gorm:"type:numeric"`
	DiscountRate   decimal.NullDecimal `gorm:"type:numeric"`
	DiscountAmount decimal.NullDecimal `gorm:"type:numeric"`
	DiscountLabel  string              `gorm:"type:varchar(50)"`
	PriceSource    string              `gorm:"type:varchar(20);not null;default:'none'"`
	Amount         decimal.Decimal     `gorm:"type:numeric;not null;default:0"`
	CreatedAt      time.Time           `gorm:"not null"`
	UpdatedAt      time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLineModel) TableName() string {
	return "purchase_order_lines"
}

// ToDomain converts the persistence model to a domain PurchaseOrderLine.
func (m *PurchaseOrderLineModel) ToDomain() *trade.PurchaseOrderLine {
	return &trade.PurchaseOrderLine{
		ID:             m.ID,
		OrderID:        m.OrderID,
		ProductID:      m.ProductID,
		ProductCode:    m.ProductCode,
		Quantity:       m.Quantity,
		Unit:           m.Unit,
		BasePrice:      m.BasePrice,
		UnitPrice:      m.UnitPrice,
		DiscountRate:   m.DiscountRate,
		DiscountAmount: m.DiscountAmount,
		DiscountLabel:  m.DiscountLabel,
		PriceSource:    purchasing.PriceSource(m.PriceSource),
		Amount:         m.Amount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// PurchaseOrderLineModelFromDomain creates a new persistence model from a domain PurchaseOrderLine.
func PurchaseOrderLineModelFromDomain(l *trade.PurchaseOrderLine) *PurchaseOrderLineModel {
	return &PurchaseOrderLineModel{
		ID:             l.ID,
		OrderID:        l.OrderID,
		ProductID:      l.ProductID,
		ProductCode:    l.ProductCode,
		Quantity:       l.Quantity,
		Unit:           l.Unit,
		BasePrice:      l.BasePrice,
		UnitPrice:      l.UnitPrice,
		DiscountRate:   l.DiscountRate,
		DiscountAmount: l.DiscountAmount,
		DiscountLabel:  l.DiscountLabel,
		PriceSource:    string(l.PriceSource),
		Amount:         l.Amount,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}
