package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Document types.
const (
	DocTypeQuotation = "quotation"
	DocTypeInvoice   = "invoice"
)

// Document represents a quotation or invoice. The two are structurally
// identical for rendering purposes and share one table.
type Document struct {
	ID        string           `json:"id"`
	DocType   string           `json:"doc_type"` // quotation, invoice
	Number    *string          `json:"number"`
	ClientID  *string          `json:"client_id"`
	IssueDate *string          `json:"issue_date"`
	DueDate   *string          `json:"due_date"`
	Reference *string          `json:"reference"`
	Currency  *string          `json:"currency"`
	Notes     *string          `json:"notes"`
	Terms     *string          `json:"terms"`
	TaxRate   *decimal.Decimal `json:"tax_rate"`
	// Declared totals. Optional; derived from line items when absent.
	Subtotal  *decimal.Decimal `json:"subtotal"`
	TaxAmount *decimal.Decimal `json:"tax_amount"`
	Total     *decimal.Decimal `json:"total"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	// Computed fields
	ClientName *string    `json:"client_name,omitempty"`
	Items      []LineItem `json:"items"`
}

// TypeCode returns the number prefix for the document type.
func (d *Document) TypeCode() string {
	if d.DocType == DocTypeInvoice {
		return "INV"
	}
	return "QUO"
}

// Title returns the heading printed on the rendered document.
func (d *Document) Title() string {
	if d.DocType == DocTypeInvoice {
		return "INVOICE"
	}
	return "QUOTATION"
}

// LineItem is one row of a document's item table.
type LineItem struct {
	ID          string          `json:"id"`
	DocumentID  string          `json:"document_id"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Rate        decimal.Decimal `json:"rate"`
	Discount    decimal.Decimal `json:"discount"`
	// Amount is displayed as given when present; derived as
	// quantity*rate - discount when absent.
	Amount *decimal.Decimal `json:"amount"`
}

// LineAmount returns the item's amount, deriving it when not supplied.
// A derived amount is floored at zero.
func (li *LineItem) LineAmount() decimal.Decimal {
	if li.Amount != nil {
		return *li.Amount
	}
	amt := li.Quantity.Mul(li.Rate).Sub(li.Discount)
	if amt.IsNegative() {
		return decimal.Zero
	}
	return amt
}

// DocumentInput is used for creating/updating documents.
type DocumentInput struct {
	DocType   string           `json:"doc_type"`
	Number    *string          `json:"number"`
	ClientID  *string          `json:"client_id"`
	IssueDate *string          `json:"issue_date"`
	DueDate   *string          `json:"due_date"`
	Reference *string          `json:"reference"`
	Currency  *string          `json:"currency"`
	Notes     *string          `json:"notes"`
	Terms     *string          `json:"terms"`
	TaxRate   *decimal.Decimal `json:"tax_rate"`
	Subtotal  *decimal.Decimal `json:"subtotal"`
	TaxAmount *decimal.Decimal `json:"tax_amount"`
	Total     *decimal.Decimal `json:"total"`
	Items     []LineItemInput  `json:"items"`
}

// LineItemInput is used for creating/updating line items.
type LineItemInput struct {
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Unit        string           `json:"unit"`
	Rate        decimal.Decimal  `json:"rate"`
	Discount    decimal.Decimal  `json:"discount"`
	Amount      *decimal.Decimal `json:"amount"`
}

func (d *DocumentInput) Validate() string {
	switch d.DocType {
	case DocTypeQuotation, DocTypeInvoice:
	default:
		return "doc_type must be one of: quotation, invoice"
	}
	if d.TaxRate != nil && d.TaxRate.IsNegative() {
		return "tax_rate must be non-negative"
	}
	for i, item := range d.Items {
		if item.Quantity.IsNegative() {
			return lineError(i, "quantity must be non-negative")
		}
		if item.Rate.IsNegative() {
			return lineError(i, "rate must be non-negative")
		}
		if item.Discount.IsNegative() {
			return lineError(i, "discount must be non-negative")
		}
		if item.Discount.GreaterThan(item.Rate.Mul(item.Quantity)) {
			return lineError(i, "discount must not exceed quantity*rate")
		}
	}
	return ""
}

func lineError(i int, msg string) string {
	return "item " + strconv.Itoa(i+1) + ": " + msg
}
