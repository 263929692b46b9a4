package render

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var displayPrinter = message.NewPrinter(language.English)

// Money formats an amount for display. Monetary values are rounded to two
// decimals here and nowhere earlier, so intermediate arithmetic keeps full
// precision.
func Money(v decimal.Decimal, code string) string {
	f, _ := v.Round(2).Float64()
	formatted := displayPrinter.Sprint(number.Decimal(f,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return formatted
	}
	if unit, err := currency.ParseISO(code); err == nil {
		code = unit.String()
	}
	return code + " " + formatted
}

// Quantity formats a quantity without spurious trailing zeros.
func Quantity(v decimal.Decimal) string {
	if v.IsInteger() {
		return v.Truncate(0).String()
	}
	return v.String()
}

// Percent formats a tax rate for display, e.g. "15%".
func Percent(v decimal.Decimal) string {
	return Quantity(v) + "%"
}

// DisplayDate converts an ISO date to the printed form, e.g. "02 Jan 2026".
// Values that do not parse are displayed as given.
func DisplayDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("02 Jan 2006")
}
