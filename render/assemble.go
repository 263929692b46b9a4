package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerpress/ledgerpress/models"
	"github.com/ledgerpress/ledgerpress/numbering"
)

// Request carries everything one render needs. The document, client and
// company records are read-only inputs; the render owns no shared state, so
// independent requests may run concurrently.
type Request struct {
	Document models.Document
	Client   models.Client
	Company  models.CompanySettings

	// ExistingNumbers are the numbers already issued for the document's
	// type. Consulted only when the document has no number yet.
	ExistingNumbers []string

	// Now anchors number generation; the zero value means time.Now().
	Now time.Time
}

// Artifact is the finished multi-page render.
type Artifact struct {
	Filename  string
	PDF       []byte
	PageCount int
	Totals    Totals

	// Number is the document's number, newly issued when the request's
	// document had none. NumberAssigned tells the caller to persist it.
	Number         string
	NumberAssigned bool
}

// Render produces the printable artifact for one document: resolve and
// normalize the parties, compute totals unless the document declares its
// own, load image assets, run the layout engine and paint the result.
// This is the only place a new document number may be issued.
func Render(ctx context.Context, req Request) (*Artifact, error) {
	doc := req.Document
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	if cause := checkLineItems(doc.Items); cause != "" {
		return nil, &RenderFailure{DocumentID: doc.ID, Cause: cause}
	}

	number := strVal(doc.Number)
	assigned := false
	if number == "" {
		number = numbering.Next(doc.TypeCode(), req.ExistingNumbers, now)
		assigned = true
	}

	company := Normalize(CompanySource(req.Company))
	client := Normalize(ClientSource(req.Client))
	totals := documentTotals(&doc, req.Company)

	assets := LoadAssets(ctx, map[string]string{
		AssetLogo:      strVal(req.Company.LogoPath),
		AssetStamp:     strVal(req.Company.StampPath),
		AssetSignature: strVal(req.Company.SignaturePath),
	})

	view := buildView(&doc, number, company, client, totals, req.Company, assets)

	pdf := newCanvas(A4())
	engine := NewEngine(A4(), newCanvasMeasurer(pdf))
	pages := engine.Layout(view)

	out, err := paint(pdf, pages, assets)
	if err != nil {
		return nil, &RenderFailure{DocumentID: doc.ID, Cause: "painting pages", Err: err}
	}

	label := "Quotation"
	if doc.DocType == models.DocTypeInvoice {
		label = "Invoice"
	}
	return &Artifact{
		Filename:       fmt.Sprintf("%s-%s.pdf", label, number),
		PDF:            out,
		PageCount:      len(pages),
		Totals:         totals,
		Number:         number,
		NumberAssigned: assigned,
	}, nil
}

// checkLineItems rejects numeric data too corrupt to total honestly.
// Producing a document with broken totals is worse than failing visibly.
func checkLineItems(items []models.LineItem) string {
	for i := range items {
		if items[i].Quantity.IsNegative() {
			return fmt.Sprintf("line item %d has negative quantity", i+1)
		}
		if items[i].Rate.IsNegative() {
			return fmt.Sprintf("line item %d has negative rate", i+1)
		}
	}
	return ""
}

// documentTotals computes totals from the line items, then overlays any
// totals the document declares itself. Declared values are trusted as given,
// even when they disagree with the recomputation.
func documentTotals(doc *models.Document, company models.CompanySettings) Totals {
	rate := doc.TaxRate
	if rate == nil {
		r := company.TaxRate
		if !r.IsZero() {
			rate = &r
		}
	}
	totals := ComputeTotals(doc.Items, rate)

	if doc.Subtotal != nil {
		totals.Subtotal = *doc.Subtotal
	}
	if doc.TaxAmount != nil {
		totals.TaxAmount = *doc.TaxAmount
	}
	if doc.Total != nil {
		totals.Total = *doc.Total
	}
	return totals
}

// buildView formats every field for display and assembles the layout input.
func buildView(doc *models.Document, number string, company, client PartyView,
	totals Totals, settings models.CompanySettings, assets AssetSet) *DocView {

	code := strVal(doc.Currency)
	if code == "" {
		code = settings.CurrencyCode
	}

	dueLabel := "Valid Until"
	if doc.DocType == models.DocTypeInvoice {
		dueLabel = "Due Date"
	}

	view := &DocView{
		Title:   doc.Title(),
		Company: company,
		Client:  client,
		Meta: []KV{
			{Label: "Number", Value: number},
			{Label: "Date", Value: DisplayDate(strVal(doc.IssueDate))},
			{Label: dueLabel, Value: DisplayDate(strVal(doc.DueDate))},
			{Label: "Reference", Value: strVal(doc.Reference)},
		},
		Totals: []KV{
			{Label: "Subtotal", Value: Money(totals.Subtotal, code)},
			{Label: "Tax (" + Percent(totals.TaxRate) + ")", Value: Money(totals.TaxAmount, code)},
			{Label: "Total", Value: Money(totals.Total, code)},
		},
		Notes:     strVal(doc.Notes),
		Terms:     strVal(doc.Terms),
		Logo:      assets.Ref(AssetLogo, 60, 22),
		Stamp:     assets.Ref(AssetStamp, 40, 22),
		Signature: assets.Ref(AssetSignature, 45, 16),
	}

	for i := range doc.Items {
		item := &doc.Items[i]
		row := RowView{
			Description: item.Description,
			Quantity:    Quantity(item.Quantity),
			Unit:        item.Unit,
			Rate:        Money(item.Rate, ""),
			Amount:      Money(item.LineAmount(), ""),
		}
		if !item.Discount.IsZero() {
			row.Discount = Money(item.Discount, "")
		}
		view.Rows = append(view.Rows, row)
	}

	if bank := bankLines(settings); len(bank) > 0 {
		view.Bank = bank
	}
	return view
}

func bankLines(s models.CompanySettings) []string {
	var lines []string
	if v := strings.TrimSpace(strVal(s.BankName)); v != "" {
		lines = append(lines, "Bank: "+v)
	}
	if v := strings.TrimSpace(strVal(s.BankAccount)); v != "" {
		lines = append(lines, "Account: "+v)
	}
	if v := strings.TrimSpace(strVal(s.BankBranchCode)); v != "" {
		lines = append(lines, "Branch Code: "+v)
	}
	return lines
}
