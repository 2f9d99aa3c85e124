package purchasing

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/purchase-discount/internal/domain/shared"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierPrice is one tier of a supplier's price list for a product.
//
// BasePrice, NetPrice and DiscountRate are stored; the discount amount is
// always derived from BasePrice and NetPrice. An unset DiscountRate is not
// the same as a 0% discount.
type SupplierPrice struct {
	shared.BaseEntity
	ProductSupplierID uuid.UUID
	Sequence          int
	Quantity          decimal.Decimal
	Unit              string
	Currency          valueobject.Currency
	StartDate         *time.Time
	EndDate           *time.Time
	BasePrice         decimal.NullDecimal
	NetPrice          decimal.NullDecimal
	DiscountRate      decimal.NullDecimal
}

// PriceInput is the bag of fields supplied when a supplier price is created.
// Any of BasePrice, NetPrice and DiscountRate may be absent.
type PriceInput struct {
	ProductSupplierID uuid.UUID
	Sequence          int
	Quantity          decimal.Decimal
	Unit              string
	Currency          valueobject.Currency
	StartDate         *time.Time
	EndDate           *time.Time
	BasePrice         decimal.NullDecimal
	NetPrice          decimal.NullDecimal
	DiscountRate      decimal.NullDecimal
}

// Field names a user-editable price field
type Field string

const (
	FieldBasePrice      Field = "base_price"
	FieldNetPrice       Field = "net_price"
	FieldDiscountRate   Field = "discount_rate"
	FieldDiscountAmount Field = "discount_amount"
)

// ParseField parses a field name as sent by clients
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := fieldHandlers[f]; !ok {
		return "", fmt.Errorf("%w: %q", shared.ErrUnknownField, s)
	}
	return f, nil
}

// String returns the field name
func (f Field) String() string {
	return string(f)
}

// ChangeEvent records that the user set Field to Value
type ChangeEvent struct {
	Field Field
	Value decimal.NullDecimal
}

// PriceUpdate carries the fields recomputed by a reconciliation.
// Only the fields listed in Fields are meaningful.
type PriceUpdate struct {
	Fields         []Field
	BasePrice      decimal.NullDecimal
	NetPrice       decimal.NullDecimal
	DiscountRate   decimal.NullDecimal
	DiscountAmount decimal.NullDecimal
}

// Has reports whether the update carries f
func (u PriceUpdate) Has(f Field) bool {
	for _, field := range u.Fields {
		if field == f {
			return true
		}
	}
	return false
}

// ApplyTo writes the stored fields of the update onto p.
// The discount amount is not stored and is skipped.
func (u PriceUpdate) ApplyTo(p *SupplierPrice) {
	if u.Has(FieldBasePrice) {
		p.BasePrice = u.BasePrice
	}
	if u.Has(FieldNetPrice) {
		p.NetPrice = u.NetPrice
	}
	if u.Has(FieldDiscountRate) {
		p.DiscountRate = u.DiscountRate
	}
}
