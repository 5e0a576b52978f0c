// Package money formats rupiah amounts for display.
//
// All prices and payment amounts in the system are raw non-negative integers.
// Formatting is purely presentational — nothing formatted here is ever stored
// or parsed back.
package money

import (
	"strconv"
	"strings"
)

// FormatRupiah renders an amount with the fixed "Rp" prefix and thousands
// grouped with dots, the Indonesian convention:
//
//	FormatRupiah(1000000000) → "Rp1.000.000.000"
func FormatRupiah(amount int64) string {
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	b.Grow(2 + len(digits) + len(digits)/3)
	b.WriteString("Rp")
	for i := 0; i < len(digits); i++ {
		// A separator goes before every group of three counted from the right.
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// FormatMonthly renders a monthly rent amount, e.g. "Rp5.000.000/month".
func FormatMonthly(amount int64) string {
	return FormatRupiah(amount) + "/month"
}
