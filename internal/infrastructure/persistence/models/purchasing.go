package models

import (
	"time"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product entity.
type ProductModel struct {
	BaseModel
	Code                 string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name                 string                 `gorm:"type:varchar(200);not null"`
	PurchaseUnit         string                 `gorm:"type:varchar(20);not null"`
	DefaultPurchasePrice decimal.NullDecimal    `gorm:"type:numeric"`
	Suppliers            []ProductSupplierModel `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *purchasing.Product {
	p := &purchasing.Product{
		BaseEntity:           m.BaseModel.ToDomain(),
		Code:                 m.Code,
		Name:                 m.Name,
		PurchaseUnit:         m.PurchaseUnit,
		DefaultPurchasePrice: m.DefaultPurchasePrice,
		Suppliers:            make([]purchasing.ProductSupplier, len(m.Suppliers)),
	}
	for i := range m.Suppliers {
		p.Suppliers[i] = *m.Suppliers[i].ToDomain()
	}
	return p
}

// FromDomain populates the persistence model from a domain Product.
// Suppliers are persisted through their own repository.
func (m *ProductModel) FromDomain(p *purchasing.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Code = p.Code
	m.Name = p.Name
	m.PurchaseUnit = p.PurchaseUnit
	m.DefaultPurchasePrice = p.DefaultPurchasePrice
}

// ProductSupplierModel is the persistence model for the ProductSupplier entity.
type ProductSupplierModel struct {
	BaseModel
	ProductID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	SupplierID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Currency   string               `gorm:"type:char(3)"`
	Prices     []SupplierPriceModel `gorm:"foreignKey:ProductSupplierID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductSupplierModel) TableName() string {
	return "product_suppliers"
}

// ToDomain converts the persistence model to a domain ProductSupplier
func (m *ProductSupplierModel) ToDomain() *purchasing.ProductSupplier {
	ps := &purchasing.ProductSupplier{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		SupplierID: m.SupplierID,
		Currency:   valueobject.Currency(m.Currency),
		Prices:     make([]purchasing.SupplierPrice, len(m.Prices)),
	}
	for i := range m.Prices {
		ps.Prices[i] = *m.Prices[i].ToDomain()
	}
	return ps
}

// FromDomain populates the persistence model from a domain ProductSupplier
func (m *ProductSupplierModel) FromDomain(ps *purchasing.ProductSupplier) {
	m.FromDomainBaseEntity(ps.BaseEntity)
	m.ProductID = ps.ProductID
	m.SupplierID = ps.SupplierID
	m.Currency = ps.Currency.String()
}

// SupplierPriceModel is the persistence model for a supplier price tier.
// The discount amount is derived and has no column.
type SupplierPriceModel struct {
	BaseModel
	ProductSupplierID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Sequence          int                 `gorm:"not null;default:10"`
	Quantity          decimal.Decimal     `gorm:"type:numeric;not null;default:0"`
	Unit              string              `gorm:"type:varchar(20)"`
	Currency          string              `gorm:"type:char(3)"`
	StartDate         *time.Time          `gorm:"type:date"`
	EndDate           *time.Time          `gorm:"type:date"`
	BasePrice         decimal.NullDecimal `gorm:"type:numeric"`
	NetPrice          decimal.NullDecimal `gorm:"type:numeric"`
	DiscountRate      decimal.NullDecimal `gorm:"type:numeric"`
}

// TableName returns the table name for GORM
func (SupplierPriceModel) TableName() string {
	return "supplier_prices"
}

// ToDomain converts the persistence model to a domain SupplierPrice
func (m *SupplierPriceModel) ToDomain() *purchasing.SupplierPrice {
	return &purchasing.SupplierPrice{
		BaseEntity:        m.BaseModel.ToDomain(),
		ProductSupplierID: m.ProductSupplierID,
		Sequence:          m.Sequence,
		Quantity:          m.Quantity,
		Unit:              m.Unit,
		Currency:          valueobject.Currency(m.Currency),
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		BasePrice:         m.BasePrice,
		NetPrice:          m.NetPrice,
		DiscountRate:      m.DiscountRate,
	}
}

// FromDomain populates the persistence model from a domain SupplierPrice
func (m *SupplierPriceModel) FromDomain(p *purchasing.SupplierPrice) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ProductSupplierID = p.ProductSupplierID
	m.Sequence = p.Sequence
	m.Quantity = p.Quantity
	m.Unit = p.Unit
	m.Currency = p.Currency.String()
	m.StartDate = p.StartDate
	m.EndDate = p.EndDate
	m.BasePrice = p.BasePrice
	m.NetPrice = p.NetPrice
	m.DiscountRate = p.DiscountRate
}

// SupplierPriceModelFromDomain creates a new persistence model from a domain SupplierPrice
func SupplierPriceModelFromDomain(p *purchasing.SupplierPrice) *SupplierPriceModel {
	m := &SupplierPriceModel{}
	m.FromDomain(p)
	return m
}
