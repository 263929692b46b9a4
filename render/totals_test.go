package render

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ledgerpress/ledgerpress/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.LineItem
		rate         *decimal.Decimal
		wantSubtotal string
		wantTax      string
		wantTotal    string
	}{
		{
			name: "default tax rate applies",
			items: []models.LineItem{
				{Quantity: dec("2"), Rate: dec("300")},
			},
			wantSubtotal: "600", wantTax: "90", wantTotal: "690",
		},
		{
			name: "explicit rate overrides default",
			items: []models.LineItem{
				{Quantity: dec("1"), Rate: dec("100")},
			},
			rate:         decPtr("0"),
			wantSubtotal: "100", wantTax: "0", wantTotal: "100",
		},
		{
			name: "discount reduces the line amount",
			items: []models.LineItem{
				{Quantity: dec("3"), Rate: dec("50"), Discount: dec("25")},
			},
			wantSubtotal: "125", wantTax: "18.75", wantTotal: "143.75",
		},
		{
			name: "stored amount is used as given",
			items: []models.LineItem{
				{Quantity: dec("3"), Rate: dec("50"), Amount: decPtr("999")},
			},
			wantSubtotal: "999", wantTax: "149.85", wantTotal: "1148.85",
		},
		{
			name: "derived amount floors at zero",
			items: []models.LineItem{
				{Quantity: dec("1"), Rate: dec("10"), Discount: dec("40")},
			},
			wantSubtotal: "0", wantTax: "0", wantTotal: "0",
		},
		{
			name: "stored amounts 100 200 300 at default rate",
			items: []models.LineItem{
				{Amount: decPtr("100")},
				{Amount: decPtr("200")},
				{Amount: decPtr("300")},
			},
			wantSubtotal: "600", wantTax: "90", wantTotal: "690",
		},
		{
			name:         "no items",
			items:        nil,
			wantSubtotal: "0", wantTax: "0", wantTotal: "0",
		},
		{
			name: "fractional quantities keep full precision",
			items: []models.LineItem{
				{Quantity: dec("1.5"), Rate: dec("33.33")},
				{Quantity: dec("0.25"), Rate: dec("100")},
			},
			wantSubtotal: "74.995", wantTax: "11.24925", wantTotal: "86.24425",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, tt.rate)
			if !got.Subtotal.Equal(dec(tt.wantSubtotal)) {
				t.Errorf("Subtotal = %s, want %s", got.Subtotal, tt.wantSubtotal)
			}
			if !got.TaxAmount.Equal(dec(tt.wantTax)) {
				t.Errorf("TaxAmount = %s, want %s", got.TaxAmount, tt.wantTax)
			}
			if !got.Total.Equal(dec(tt.wantTotal)) {
				t.Errorf("Total = %s, want %s", got.Total, tt.wantTotal)
			}
		})
	}
}

func TestDocumentTotalsDeclaredOverlay(t *testing.T) {
	doc := models.Document{
		Items: []models.LineItem{
			{Quantity: dec("2"), Rate: dec("300")},
		},
		Subtotal: decPtr("500"),
		Total:    decPtr("575"),
	}
	got := documentTotals(&doc, models.CompanySettings{})

	// Declared values win; the undeclared tax amount is still derived.
	if !got.Subtotal.Equal(dec("500")) {
		t.Errorf("Subtotal = %s, want declared 500", got.Subtotal)
	}
	if !got.TaxAmount.Equal(dec("90")) {
		t.Errorf("TaxAmount = %s, want derived 90", got.TaxAmount)
	}
	if !got.Total.Equal(dec("575")) {
		t.Errorf("Total = %s, want declared 575", got.Total)
	}
}

func TestDocumentTotalsRatePrecedence(t *testing.T) {
	items := []models.LineItem{{Quantity: dec("1"), Rate: dec("100")}}

	t.Run("document rate beats company rate", func(t *testing.T) {
		doc := models.Document{Items: items, TaxRate: decPtr("10")}
		got := documentTotals(&doc, models.CompanySettings{TaxRate: dec("20")})
		if !got.TaxAmount.Equal(dec("10")) {
			t.Errorf("TaxAmount = %s, want 10", got.TaxAmount)
		}
	})
	t.Run("company rate beats default", func(t *testing.T) {
		doc := models.Document{Items: items}
		got := documentTotals(&doc, models.CompanySettings{TaxRate: dec("20")})
		if !got.TaxAmount.Equal(dec("20")) {
			t.Errorf("TaxAmount = %s, want 20", got.TaxAmount)
		}
	})
	t.Run("default when nothing set", func(t *testing.T) {
		doc := models.Document{Items: items}
		got := documentTotals(&doc, models.CompanySettings{})
		if !got.TaxAmount.Equal(dec("15")) {
			t.Errorf("TaxAmount = %s, want 15", got.TaxAmount)
		}
	})
}
