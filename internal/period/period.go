// Package period provides calendar-month keys and installment math.
//
// A Key is a "YYYY-MM" month identifier. All month arithmetic is done on
// integer year/month pairs, never by adding days or durations, so results
// are immune to variable month lengths and timezone offsets.
package period

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Key identifies a calendar month as "YYYY-MM" (zero-padded month).
type Key string

var monthLabels = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// New builds a Key from a year and a 1-based month.
func New(year int, month int) Key {
	return Key(fmt.Sprintf("%04d-%02d", year, month))
}

// Current returns the Key for the current system month.
func Current() Key {
	now := time.Now()
	return New(now.Year(), int(now.Month()))
}

// Parse validates a "YYYY-MM" string and returns it as a Key.
func Parse(s string) (Key, error) {
	var year, month int
	if _, err := fmt.Sscanf(s, "%4d-%2d", &year, &month); err != nil {
		return "", fmt.Errorf("invalid month key %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return "", fmt.Errorf("invalid month key %q: month out of range", s)
	}
	if len(s) != 7 || s[4] != '-' {
		return "", fmt.Errorf("invalid month key %q: want YYYY-MM", s)
	}
	return New(year, month), nil
}

// Year returns the key's year, or 0 for a malformed key.
func (k Key) Year() int {
	y, _ := k.split()
	return y
}

// Month returns the key's 1-based month, or 0 for a malformed key.
func (k Key) Month() int {
	_, m := k.split()
	return m
}

func (k Key) split() (year, month int) {
	fmt.Sscanf(string(k), "%4d-%2d", &year, &month)
	return year, month
}

// Add returns the key offset by the given number of months. The offset may
// be negative; year boundaries roll over in either direction.
func (k Key) Add(months int) Key {
	year, month := k.split()
	total := year*12 + (month - 1) + months
	return New(total/12, total%12+1)
}

// Label renders the key as a human-readable "Month YYYY" string,
// e.g. "2025-03" becomes "Marzo 2025".
func (k Key) Label() string {
	year, month := k.split()
	if month < 1 || month > 12 {
		return string(k)
	}
	return fmt.Sprintf("%s %d", monthLabels[month-1], year)
}

func (k Key) String() string { return string(k) }

// MonthlyAmount returns the per-installment amount for a financed expense:
// the full charged total divided evenly over the installment count. There
// is no interest modeling; every installment is the same.
//
// Callers must guarantee installments >= 1; that invariant is enforced at
// the input boundary, not here.
func MonthlyAmount(total decimal.Decimal, installments int) decimal.Decimal {
	return total.Div(decimal.NewFromInt(int64(installments)))
}

// InstallmentIndex returns the 1-based installment index a target month
// would have for an expense first charged in first. The result may be
// outside [1, count]; see InWindow.
func InstallmentIndex(first, target Key) int {
	fy, fm := first.split()
	ty, tm := target.split()
	return 1 + (ty-fy)*12 + (tm - fm)
}

// InWindow reports whether target falls inside the amortization window of
// an expense first charged in first with the given installment count, and
// if so which installment index applies. When target equals first the
// index is always 1.
func InWindow(first Key, count int, target Key) (int, bool) {
	idx := InstallmentIndex(first, target)
	if idx < 1 || idx > count {
		return 0, false
	}
	return idx, true
}
