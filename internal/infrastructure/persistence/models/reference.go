package models

import (
	"time"

	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// UnitModel is a unit of measure. Units of one category convert through Factor.
type UnitModel struct {
	Code     string          `gorm:"type:varchar(20);primary_key"`
	Name     string          `gorm:"type:varchar(100);not null"`
	Category string          `gorm:"type:varchar(50);not null;index"`
	Factor   decimal.Decimal `gorm:"type:numeric;not null"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a Unit value object
func (m *UnitModel) ToDomain() (valueobject.Unit, error) {
	return valueobject.NewUnit(m.Code, m.Name, m.Category, m.Factor)
}

// UnitModelFromDomain creates a persistence model from a Unit value object
func UnitModelFromDomain(u valueobject.Unit) *UnitModel {
	return &UnitModel{
		Code:     u.Code(),
		Name:     u.Name(),
		Category: u.Category(),
		Factor:   u.Factor(),
	}
}

// CurrencyRateModel stores how many units of Currency equal one unit of the
// company currency from EffectiveDate onwards.
type CurrencyRateModel struct {
	Currency      string          `gorm:"type:char(3);primary_key"`
	EffectiveDate time.Time       `gorm:"type:date;primary_key"`
	Rate          decimal.Decimal `gorm:"type:numeric;not null"`
}

// TableName returns the table name for GORM
func (CurrencyRateModel) TableName() string {
	return "currency_rates"
}
