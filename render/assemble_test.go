package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ledgerpress/ledgerpress/models"
)

var renderNow = time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func testCompany() models.CompanySettings {
	return models.CompanySettings{
		CompanyName:  strPtr("Acme Pty Ltd"),
		Address:      strPtr("1 Main Rd, Cape Town"),
		CurrencyCode: "ZAR",
		TaxRate:      dec("15"),
		BankName:     strPtr("First Bank"),
		BankAccount:  strPtr("123456789"),
	}
}

func testClient() models.Client {
	return models.Client{
		ID:            "client-1",
		ContactPerson: strPtr("Jo Smith"),
		BillingStreet: strPtr("12 Oak Ave"),
		BillingCity:   strPtr("Durban"),
	}
}

func testInvoice(items int) models.Document {
	doc := models.Document{
		ID:        "doc-1",
		DocType:   models.DocTypeInvoice,
		ClientID:  strPtr("client-1"),
		IssueDate: strPtr("2026-03-14"),
		DueDate:   strPtr("2026-04-14"),
	}
	for i := 0; i < items; i++ {
		doc.Items = append(doc.Items, models.LineItem{
			Position:    i,
			Description: fmt.Sprintf("Consulting block %d", i+1),
			Quantity:    dec("2"),
			Unit:        "hrs",
			Rate:        dec("300"),
		})
	}
	return doc
}

func TestRenderInvoice(t *testing.T) {
	doc := testInvoice(1)
	artifact, err := Render(context.Background(), Request{
		Document: doc,
		Client:   testClient(),
		Company:  testCompany(),
		Now:      renderNow,
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if artifact.Number != "INV-2026-001" {
		t.Errorf("Number = %q, want INV-2026-001", artifact.Number)
	}
	if !artifact.NumberAssigned {
		t.Error("NumberAssigned = false, want true for a numberless document")
	}
	if artifact.Filename != "Invoice-INV-2026-001.pdf" {
		t.Errorf("Filename = %q, want Invoice-INV-2026-001.pdf", artifact.Filename)
	}
	if artifact.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", artifact.PageCount)
	}
	if !bytes.HasPrefix(artifact.PDF, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}

	// 2 x 300 = 600, 15% tax = 90, total 690.
	if !artifact.Totals.Subtotal.Equal(dec("600")) {
		t.Errorf("Subtotal = %s, want 600", artifact.Totals.Subtotal)
	}
	if !artifact.Totals.TaxAmount.Equal(dec("90")) {
		t.Errorf("TaxAmount = %s, want 90", artifact.Totals.TaxAmount)
	}
	if !artifact.Totals.Total.Equal(dec("690")) {
		t.Errorf("Total = %s, want 690", artifact.Totals.Total)
	}
}

func TestRenderKeepsExistingNumber(t *testing.T) {
	doc := testInvoice(1)
	doc.Number = strPtr("INV-2025-042")
	artifact, err := Render(context.Background(), Request{
		Document: doc,
		Client:   testClient(),
		Company:  testCompany(),
		Now:      renderNow,
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if artifact.Number != "INV-2025-042" {
		t.Errorf("Number = %q, want the existing INV-2025-042", artifact.Number)
	}
	if artifact.NumberAssigned {
		t.Error("NumberAssigned = true, want false when the document already has a number")
	}
	if artifact.Filename != "Invoice-INV-2025-042.pdf" {
		t.Errorf("Filename = %q, want Invoice-INV-2025-042.pdf", artifact.Filename)
	}
}

func TestRenderQuotation(t *testing.T) {
	doc := testInvoice(1)
	doc.DocType = models.DocTypeQuotation
	artifact, err := Render(context.Background(), Request{
		Document:        doc,
		Client:          testClient(),
		Company:         testCompany(),
		ExistingNumbers: []string{"QUO-2026-007"},
		Now:             renderNow,
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if artifact.Filename != "Quotation-QUO-2026-008.pdf" {
		t.Errorf("Filename = %q, want Quotation-QUO-2026-008.pdf", artifact.Filename)
	}
}

// Rendering the same input twice must derive identical values; assigning the
// number on the second render must change nothing but the number itself.
func TestRenderIsDeterministic(t *testing.T) {
	req := Request{
		Document: testInvoice(5),
		Client:   testClient(),
		Company:  testCompany(),
		Now:      renderNow,
	}
	first, err := Render(context.Background(), req)
	if err != nil {
		t.Fatalf("first Render() error: %v", err)
	}

	req.Document.Number = &first.Number
	second, err := Render(context.Background(), req)
	if err != nil {
		t.Fatalf("second Render() error: %v", err)
	}

	if second.Number != first.Number || second.NumberAssigned {
		t.Errorf("second render number = %q assigned=%v, want %q assigned=false",
			second.Number, second.NumberAssigned, first.Number)
	}
	if !second.Totals.Total.Equal(first.Totals.Total) ||
		!second.Totals.Subtotal.Equal(first.Totals.Subtotal) ||
		!second.Totals.TaxAmount.Equal(first.Totals.TaxAmount) {
		t.Errorf("totals changed between renders: %+v vs %+v", first.Totals, second.Totals)
	}
	if second.PageCount != first.PageCount {
		t.Errorf("page count changed between renders: %d vs %d", first.PageCount, second.PageCount)
	}
	if second.Filename != first.Filename {
		t.Errorf("filename changed between renders: %q vs %q", first.Filename, second.Filename)
	}
}

func TestRenderManyItemsPaginates(t *testing.T) {
	artifact, err := Render(context.Background(), Request{
		Document: testInvoice(80),
		Client:   testClient(),
		Company:  testCompany(),
		Now:      renderNow,
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if artifact.PageCount < 2 {
		t.Errorf("PageCount = %d, want a multi-page document for 80 items", artifact.PageCount)
	}
}

func TestRenderRejectsCorruptItems(t *testing.T) {
	doc := testInvoice(1)
	doc.Items[0].Quantity = dec("-2")
	_, err := Render(context.Background(), Request{
		Document: doc,
		Client:   testClient(),
		Company:  testCompany(),
		Now:      renderNow,
	})
	var failure *RenderFailure
	if !errors.As(err, &failure) {
		t.Fatalf("Render() error = %v, want *RenderFailure", err)
	}
	if failure.DocumentID != "doc-1" {
		t.Errorf("failure.DocumentID = %q, want doc-1", failure.DocumentID)
	}
}

func TestRenderSurvivesMissingAssets(t *testing.T) {
	company := testCompany()
	company.LogoPath = strPtr("/nonexistent/logo.png")
	company.StampPath = strPtr("/nonexistent/stamp.png")
	artifact, err := Render(context.Background(), Request{
		Document: testInvoice(1),
		Client:   testClient(),
		Company:  company,
		Now:      renderNow,
	})
	if err != nil {
		t.Fatalf("Render() error: %v, want missing assets to be omitted", err)
	}
	if len(artifact.PDF) == 0 {
		t.Error("empty PDF output")
	}
}

func TestRenderEmptyParties(t *testing.T) {
	doc := testInvoice(1)
	artifact, err := Render(context.Background(), Request{
		Document: doc,
		Now:      renderNow,
	})
	if err != nil {
		t.Fatalf("Render() error: %v, want placeholder parties", err)
	}
	if len(artifact.PDF) == 0 {
		t.Error("empty PDF output")
	}
}
