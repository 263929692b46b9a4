package render

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// fixedMeasurer gives every rune a constant width so pagination tests are
// deterministic without a PDF backend.
type fixedMeasurer struct{}

func (fixedMeasurer) TextWidth(text string, f Font) float64 {
	return float64(len([]rune(text))) * 2
}

func testEngine() *Engine {
	return NewEngine(A4(), fixedMeasurer{})
}

func testView(rows int) *DocView {
	v := &DocView{
		Title:   "INVOICE",
		Company: PartyView{DisplayName: "Acme Pty Ltd", AddressLines: "1 Main Rd, Cape Town"},
		Client:  PartyView{DisplayName: "Jo Smith", AddressLines: "12 Oak Ave, Durban"},
		Meta: []KV{
			{Label: "Number", Value: "INV-2026-001"},
			{Label: "Date", Value: "14 Mar 2026"},
		},
		Totals: []KV{
			{Label: "Subtotal", Value: "600.00"},
			{Label: "Tax (15%)", Value: "90.00"},
			{Label: "Total", Value: "690.00"},
		},
	}
	for i := 0; i < rows; i++ {
		v.Rows = append(v.Rows, RowView{
			Description: fmt.Sprintf("Line item %d", i+1),
			Quantity:    "1",
			Rate:        "300.00",
			Amount:      "300.00",
		})
	}
	return v
}

func TestLayoutSinglePage(t *testing.T) {
	pages := testEngine().Layout(testView(3))
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if !hasText(pages[0], "Page 1 of 1") {
		t.Error("footer label Page 1 of 1 missing")
	}
	if !hasText(pages[0], "INVOICE") {
		t.Error("title missing from page")
	}
}

func TestLayoutMultiPage(t *testing.T) {
	e := testEngine()
	v := testView(80)
	pages := e.Layout(v)
	if len(pages) < 2 {
		t.Fatalf("got %d pages, want several", len(pages))
	}

	// Every row must land on exactly one page.
	rowCount := 0
	for _, p := range pages {
		for _, op := range p.Ops {
			if strings.HasPrefix(op.Text, "Line item ") {
				rowCount++
			}
		}
	}
	if rowCount != 80 {
		t.Errorf("found %d row descriptions across pages, want 80", rowCount)
	}

	for i, p := range pages {
		want := fmt.Sprintf("Page %d of %d", i+1, len(pages))
		if !hasText(p, want) {
			t.Errorf("page %d: footer label %q missing", i+1, want)
		}
	}
}

// The header and table header are rebuilt identically at the top of every
// page, so the leading operations of each page must match the first page's.
func TestLayoutHeaderRepeatsOnEveryPage(t *testing.T) {
	e := testEngine()
	v := testView(80)
	pages := e.Layout(v)
	if len(pages) < 2 {
		t.Fatalf("got %d pages, want several", len(pages))
	}

	n := len(e.headerBlock(v).ops) + len(e.tableHeaderBlock().ops)
	first := pages[0].Ops[:n]
	for i, p := range pages[1:] {
		if len(p.Ops) < n {
			t.Fatalf("page %d has %d ops, want at least %d header ops", i+2, len(p.Ops), n)
		}
		if !reflect.DeepEqual(first, p.Ops[:n]) {
			t.Errorf("page %d header ops differ from page 1", i+2)
		}
	}
}

// Body content may never cross into the reserved footer band. Footer ops are
// stamped inside the band on purpose; everything else must end above it.
func TestLayoutRespectsFooterBoundary(t *testing.T) {
	g := A4()
	for _, rows := range []int{1, 30, 31, 32, 80, 200} {
		pages := testEngine().Layout(testView(rows))
		for pi, p := range pages {
			for _, op := range p.Ops {
				if op.Y >= g.FooterTop() {
					continue // footer band
				}
				if op.Y+op.H > g.FooterTop()+1e-9 {
					t.Errorf("rows=%d page %d: op %q at y=%.2f h=%.2f crosses footer boundary %.2f",
						rows, pi+1, op.Text, op.Y, op.H, g.FooterTop())
				}
			}
		}
	}
}

func TestLayoutTruncatesOversizedRow(t *testing.T) {
	v := testView(0)
	v.Totals = nil
	v.Rows = []RowView{{
		Description: strings.Repeat("overflowing description text ", 500),
		Quantity:    "1",
		Rate:        "10.00",
		Amount:      "10.00",
	}}
	pages := testEngine().Layout(v)
	// The truncated row fills page 1; the signature strip may spill to a
	// second page, but the row itself must never loop over further pages.
	if len(pages) > 2 {
		t.Fatalf("got %d pages, want at most 2 (oversized row must be truncated, not looped)", len(pages))
	}

	found := false
	for _, op := range pages[0].Ops {
		if strings.HasSuffix(op.Text, "…") {
			found = true
		}
	}
	if !found {
		t.Error("no ellipsis-terminated line on page 1 after truncation")
	}
	for _, p := range pages[1:] {
		for _, op := range p.Ops {
			if strings.HasPrefix(op.Text, "overflowing") {
				t.Error("truncated row leaked onto a later page")
			}
		}
	}
}

func TestLayoutTotalsBlockIsAtomic(t *testing.T) {
	// Pick row counts around the page boundary; the totals block must always
	// appear whole on whichever page it lands on.
	for rows := 25; rows <= 35; rows++ {
		pages := testEngine().Layout(testView(rows))
		pagesWithTotal := 0
		for _, p := range pages {
			if hasText(p, "Subtotal") {
				pagesWithTotal++
				if !hasText(p, "Total") {
					t.Errorf("rows=%d: totals block split across pages", rows)
				}
			}
		}
		if pagesWithTotal != 1 {
			t.Errorf("rows=%d: totals block on %d pages, want 1", rows, pagesWithTotal)
		}
	}
}

func TestLayoutSignatureOnFinalPageOnly(t *testing.T) {
	v := testView(80)
	v.Signature = &ImageRef{Key: AssetSignature, W: 45, H: 16}
	pages := testEngine().Layout(v)
	if len(pages) < 2 {
		t.Fatalf("got %d pages, want several", len(pages))
	}
	for pi, p := range pages {
		has := false
		for _, op := range p.Ops {
			if op.Kind == OpImage && op.Asset == AssetSignature {
				has = true
			}
		}
		if has != (pi == len(pages)-1) {
			t.Errorf("page %d signature presence = %v, want only on final page", pi+1, has)
		}
	}
}

func TestWrapText(t *testing.T) {
	m := fixedMeasurer{}
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{"fits on one line", "short text", 40, []string{"short text"}},
		{"wraps at word boundary", "alpha beta gamma", 22, []string{"alpha beta", "gamma"}},
		{"honors embedded newlines", "one\ntwo", 40, []string{"one", "two"}},
		{"empty input yields one empty line", "", 40, []string{""}},
		{"hard-breaks an overlong word", "abcdefghij", 10, []string{"abcde", "fghij"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(m, tt.text, fontBody, tt.maxWidth)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("wrapText(%q, %v) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func hasText(p Page, s string) bool {
	for _, op := range p.Ops {
		if op.Text == s {
			return true
		}
	}
	return false
}
