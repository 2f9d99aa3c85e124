// Package i18n renders discount labels for a configured locale.
package i18n

import (
	"fmt"

	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Localizer implements purchasing.Localizer with golang.org/x/text
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New creates a Localizer for a BCP 47 locale such as "en" or "de-CH"
func New(locale string) (*Localizer, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Localizer{tag: tag, printer: message.NewPrinter(tag)}, nil
}

// Tag returns the locale
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// FormatPercent renders rate 0.1 as "10%" in the locale's percent pattern
func (l *Localizer) FormatPercent(rate decimal.Decimal) string {
	return l.printer.Sprint(number.Percent(rate.InexactFloat64(), number.MaxFractionDigits(0)))
}

// FormatCurrency renders amount with the currency symbol and the currency's
// standard digits. Codes unknown to the CLDR tables render as "<amount> <code>".
func (l *Localizer) FormatCurrency(amount decimal.Decimal, cur valueobject.Currency) string {
	unit, err := currency.ParseISO(cur.String())
	if err != nil {
		return fmt.Sprintf("%s %s", amount.StringFixed(cur.Digits()), cur)
	}
	return l.printer.Sprint(currency.Symbol(unit.Amount(amount.InexactFloat64())))
}

var _ purchasing.Localizer = (*Localizer)(nil)
