// Package currency renders peso amounts for display: "$" symbol, dot as
// thousands separator, no decimal places. Formatting is presentation only;
// callers keep computing on decimal values.
package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("es-AR"))

// Format renders an amount as whole pesos, e.g. 1234.56 -> "$ 1.235".
// Fractions round half away from zero.
func Format(amount decimal.Decimal) string {
	return printer.Sprintf("$ %v", number.Decimal(amount.Round(0).IntPart()))
}

// Round snaps an amount to whole pesos, the smallest unit the ledger
// reports. Sub-peso amounts are not meaningful for this currency.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(0)
}
