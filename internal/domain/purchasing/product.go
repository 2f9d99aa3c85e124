package purchasing

import (
	"time"

	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the purchasable item a price is quoted for.
// DefaultPurchasePrice is expressed per PurchaseUnit in the company currency.
type Product struct {
	shared.BaseEntity
	Code                 string
	Name                 string
	PurchaseUnit         string
	DefaultPurchasePrice decimal.NullDecimal
	Suppliers            []ProductSupplier
}

// ProductSupplier links a product to a supplier and owns its price tiers.
// Prices are kept in storage order.
type ProductSupplier struct {
	shared.BaseEntity
	ProductID  uuid.UUID
	SupplierID uuid.UUID
	Currency   valueobject.Currency
	Prices     []SupplierPrice
}

// PricePattern is what a tier is matched against
type PricePattern struct {
	Quantity decimal.Decimal
	Unit     string
	Currency valueobject.Currency
	Date     time.Time
}

// PriceContext carries the purchasing document context a price is computed
// for. SupplierID is nil when no supplier is chosen yet.
type PriceContext struct {
	SupplierID      *uuid.UUID
	Unit            string
	Currency        valueobject.Currency
	CompanyCurrency valueobject.Currency
	Date            time.Time
	Default         decimal.NullDecimal
}

// Pattern returns the tier pattern for quantity in this context
func (pc PriceContext) Pattern(quantity decimal.Decimal) PricePattern {
	return PricePattern{
		Quantity: quantity.Abs(),
		Unit:     pc.Unit,
		Currency: pc.Currency,
		Date:     pc.Date,
	}
}

// PriceSource tells where a quoted price came from
type PriceSource string

const (
	SourceNone          PriceSource = "none"
	SourceProduct       PriceSource = "product"
	SourceSupplierTier  PriceSource = "supplier_tier"
	SourceLastPurchase  PriceSource = "last_purchase"
	SourceCallerDefault PriceSource = "default"
)

// PriceQuote is the price of a product line in the requested unit and
// currency. Values converted from a tier are not rounded.
type PriceQuote struct {
	UnitPrice      decimal.NullDecimal
	BasePrice      decimal.NullDecimal
	DiscountRate   decimal.NullDecimal
	DiscountAmount decimal.NullDecimal
	DiscountLabel  string
	Tier           *SupplierPrice
	Source         PriceSource
}
