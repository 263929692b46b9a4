package render

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerpress/ledgerpress/models"
)

// DefaultTaxRate applies when neither the document nor the company settings
// specify a rate.
var DefaultTaxRate = decimal.NewFromInt(15)

var hundred = decimal.NewFromInt(100)

// Totals holds derived document totals at full precision. Rounding happens
// only when the values are formatted for display.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
	TaxRate   decimal.Decimal
}

// ComputeTotals derives subtotal, tax and grand total from the line items.
// Each item contributes its own amount field; only items without one have it
// derived from quantity, rate and discount.
func ComputeTotals(items []models.LineItem, taxRatePercent *decimal.Decimal) Totals {
	rate := DefaultTaxRate
	if taxRatePercent != nil {
		rate = *taxRatePercent
	}

	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].LineAmount())
	}

	tax := subtotal.Mul(rate).Div(hundred)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
		TaxRate:   rate,
	}
}
