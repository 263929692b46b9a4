package render

import (
	"fmt"
	"log/slog"
	"strings"
)

// Geometry describes the fixed page canvas in millimetres.
type Geometry struct {
	PageWidth      float64
	PageHeight     float64
	MarginLeft     float64
	MarginRight    float64
	MarginTop      float64
	FooterReserved float64
	LineHeight     float64
}

// A4 is the geometry every document is rendered with.
func A4() Geometry {
	return Geometry{
		PageWidth:      210,
		PageHeight:     297,
		MarginLeft:     15,
		MarginRight:    15,
		MarginTop:      15,
		FooterReserved: 18,
		LineHeight:     5,
	}
}

// ContentWidth is the horizontal span body content may occupy.
func (g Geometry) ContentWidth() float64 { return g.PageWidth - g.MarginLeft - g.MarginRight }

// FooterTop is the boundary body content may never cross.
func (g Geometry) FooterTop() float64 { return g.PageHeight - g.FooterReserved }

// OpKind discriminates draw operations.
type OpKind int

const (
	OpText OpKind = iota
	OpLine
	OpRect
	OpImage
)

// Op is one positioned draw operation.
type Op struct {
	Kind  OpKind
	X, Y  float64
	W, H  float64
	Text  string
	Font  Font
	Align string // fpdf alignment: "L", "R", "C"
	Asset string
}

// Page is an ordered sequence of draw operations confined to one fixed-size
// canvas. Pages are never revisited once the footer pass has stamped them.
type Page struct {
	Ops []Op
}

// ImageRef points at a loaded asset with its display size.
type ImageRef struct {
	Key  string
	W, H float64
}

// KV is one label/value display pair.
type KV struct {
	Label string
	Value string
}

// RowView is one pre-formatted line-item table row.
type RowView struct {
	Description string
	Quantity    string
	Unit        string
	Rate        string
	Discount    string
	Amount      string
}

// DocView is the fully formatted content handed to the layout engine. All
// amounts and dates are display strings by this point; the engine only
// measures and positions.
type DocView struct {
	Title   string
	Meta    []KV
	Company PartyView
	Client  PartyView
	Rows    []RowView
	Totals  []KV
	Notes   string
	Terms   string
	Bank    []string

	Logo      *ImageRef
	Stamp     *ImageRef
	Signature *ImageRef
}

// Engine lays out a document over fixed-size pages in a single forward pass.
// Each render call owns its own cursor state, so one Engine may be shared by
// concurrent renders.
type Engine struct {
	geom Geometry
	m    Measurer
}

func NewEngine(g Geometry, m Measurer) *Engine {
	return &Engine{geom: g, m: m}
}

// Table column widths, left to right. Description gets the remainder of the
// content width.
const (
	colQty      = 16.0
	colUnit     = 14.0
	colRate     = 25.0
	colDiscount = 20.0
	colAmount   = 25.0

	cellPadding  = 2.0
	rowPadding   = 2.0
	tableHeaderH = 8.0
	signatureH   = 30.0
)

func (e *Engine) descWidth() float64 {
	return e.geom.ContentWidth() - colQty - colUnit - colRate - colDiscount - colAmount
}

// cursor tracks the in-progress page and vertical position. It is threaded
// through every drawing step explicitly rather than captured by closures.
type cursor struct {
	page int
	y    float64
}

// block is a measured, ready-to-place group of operations at relative
// offsets from the block's own top.
type block struct {
	ops []Op
	h   float64
}

// placed shifts a block's operations to an absolute top position.
func (b block) placed(top float64) []Op {
	ops := make([]Op, len(b.ops))
	for i, op := range b.ops {
		op.Y += top
		ops[i] = op
	}
	return ops
}

// Layout streams the document onto as many pages as it needs. Before any
// atomic unit (one table row, the totals block, a notes/terms block) is
// drawn, its measured height is checked against the footer boundary; a unit
// that would overflow is deferred whole to a fresh page that repeats the
// header and table header. Units taller than an empty page body are
// truncated with an ellipsis instead of looping.
func (e *Engine) Layout(v *DocView) []Page {
	header := e.headerBlock(v)
	tableHead := e.tableHeaderBlock()

	bodyTop := e.geom.MarginTop + header.h + tableHead.h
	footerTop := e.geom.FooterTop()
	budget := footerTop - bodyTop

	var pages []Page
	cur := cursor{}

	newPage := func() {
		ops := append(header.placed(e.geom.MarginTop), tableHead.placed(e.geom.MarginTop+header.h)...)
		pages = append(pages, Page{Ops: ops})
		cur = cursor{page: len(pages) - 1, y: bodyTop}
	}
	place := func(b block) {
		if cur.y+b.h > footerTop {
			newPage()
		}
		pages[cur.page].Ops = append(pages[cur.page].Ops, b.placed(cur.y)...)
		cur.y += b.h
	}
	newPage()

	for i := range v.Rows {
		row := e.rowBlock(&v.Rows[i], budget)
		place(row)
	}

	if len(v.Totals) > 0 {
		place(e.totalsBlock(v.Totals))
	}
	if len(v.Bank) > 0 {
		place(e.textBlock("Banking Details", joinLines(v.Bank), budget))
	}
	if v.Notes != "" {
		place(e.textBlock("Notes", v.Notes, budget))
	}
	if v.Terms != "" {
		place(e.textBlock("Terms & Conditions", v.Terms, budget))
	}

	// The signature block is pinned to the bottom of the final page, just
	// above the footer band. If the page is too full, it gets a page of its
	// own rather than overlapping the footer.
	sig := e.signatureBlock(v)
	if sig.h > 0 {
		if cur.y > footerTop-sig.h {
			newPage()
		}
		pages[cur.page].Ops = append(pages[cur.page].Ops, sig.placed(footerTop-sig.h)...)
	}

	e.stampFooters(pages)
	return pages
}

// headerBlock builds the per-page header: logo and issuing company on the
// left, title and document metadata on the right, then the billed client.
// The same operations repeat at the top of every page.
func (e *Engine) headerBlock(v *DocView) block {
	g := e.geom
	left := g.MarginLeft
	right := g.PageWidth - g.MarginRight
	lh := g.LineHeight

	var ops []Op

	// Left column: logo, company identity.
	leftY := 0.0
	leftW := g.ContentWidth()/2 - 5
	if v.Logo != nil {
		ops = append(ops, Op{Kind: OpImage, X: left, Y: 0, W: v.Logo.W, H: v.Logo.H, Asset: v.Logo.Key})
		leftY += v.Logo.H + 3
	}
	ops = append(ops, Op{Kind: OpText, X: left, Y: leftY, W: leftW, H: lh + 1, Text: v.Company.DisplayName, Font: fontCompanyName})
	leftY += lh + 1
	for _, line := range wrapText(e.m, v.Company.AddressLines, fontBody, leftW) {
		ops = append(ops, Op{Kind: OpText, X: left, Y: leftY, W: leftW, H: lh, Text: line, Font: fontBody})
		leftY += lh
	}

	// Right column: document title and metadata pairs.
	rightY := 0.0
	metaW := 80.0
	metaX := right - metaW
	ops = append(ops, Op{Kind: OpText, X: metaX, Y: rightY, W: metaW, H: 8, Text: v.Title, Font: fontTitle, Align: "R"})
	rightY += 10
	for _, kv := range v.Meta {
		if kv.Value == "" {
			continue
		}
		ops = append(ops,
			Op{Kind: OpText, X: metaX, Y: rightY, W: 32, H: lh, Text: kv.Label, Font: fontLabel},
			Op{Kind: OpText, X: metaX + 32, Y: rightY, W: metaW - 32, H: lh, Text: kv.Value, Font: fontBody, Align: "R"})
		rightY += lh
	}

	y := maxF(leftY, rightY) + 4

	// Billed party.
	ops = append(ops, Op{Kind: OpText, X: left, Y: y, W: 60, H: lh, Text: "BILL TO", Font: fontLabel})
	y += lh
	ops = append(ops, Op{Kind: OpText, X: left, Y: y, W: g.ContentWidth(), H: lh, Text: v.Client.DisplayName, Font: Font{"B", 9}})
	y += lh
	if v.Client.AddressLines != "" {
		for _, line := range wrapText(e.m, v.Client.AddressLines, fontBody, g.ContentWidth()) {
			ops = append(ops, Op{Kind: OpText, X: left, Y: y, W: g.ContentWidth(), H: lh, Text: line, Font: fontBody})
			y += lh
		}
	}
	y += 2
	ops = append(ops, Op{Kind: OpLine, X: left, Y: y, W: g.ContentWidth(), H: 0})
	y += 3

	return block{ops: ops, h: y}
}

// tableHeaderBlock builds the column heading strip repeated on every page.
func (e *Engine) tableHeaderBlock() block {
	g := e.geom
	x := g.MarginLeft
	var ops []Op
	ops = append(ops, Op{Kind: OpRect, X: x, Y: 0, W: g.ContentWidth(), H: tableHeaderH - 1})

	cell := func(w float64, text, align string) {
		ops = append(ops, Op{Kind: OpText, X: x + cellPadding/2, Y: 1, W: w - cellPadding, H: g.LineHeight, Text: text, Font: fontLabel, Align: align})
		x += w
	}
	cell(e.descWidth(), "Description", "L")
	cell(colQty, "Qty", "R")
	cell(colUnit, "Unit", "L")
	cell(colRate, "Rate", "R")
	cell(colDiscount, "Discount", "R")
	cell(colAmount, "Amount", "R")

	return block{ops: ops, h: tableHeaderH}
}

// rowBlock measures one table row. Long descriptions are word-wrapped to the
// description column and the full wrapped height becomes the row's atomic
// height; a row taller than an empty page body is truncated with an ellipsis.
func (e *Engine) rowBlock(row *RowView, budget float64) block {
	g := e.geom
	lh := g.LineHeight
	descW := e.descWidth() - cellPadding

	lines := wrapText(e.m, row.Description, fontBody, descW)
	h := float64(len(lines))*lh + rowPadding

	if h > budget {
		maxLines := int((budget - rowPadding) / lh)
		if maxLines < 1 {
			maxLines = 1
		}
		slog.Warn("truncating oversized table row",
			"error", &LayoutOverflowError{Unit: "table row", Height: h, Budget: budget})
		lines = truncateLines(e.m, lines, maxLines, fontBody, descW)
		h = float64(len(lines))*lh + rowPadding
	}

	var ops []Op
	y := 1.0
	for _, line := range lines {
		ops = append(ops, Op{Kind: OpText, X: g.MarginLeft + cellPadding/2, Y: y, W: descW, H: lh, Text: line, Font: fontBody})
		y += lh
	}

	x := g.MarginLeft + e.descWidth()
	cell := func(w float64, text, align string) {
		ops = append(ops, Op{Kind: OpText, X: x + cellPadding/2, Y: 1, W: w - cellPadding, H: lh, Text: text, Font: fontBody, Align: align})
		x += w
	}
	cell(colQty, row.Quantity, "R")
	cell(colUnit, row.Unit, "L")
	cell(colRate, row.Rate, "R")
	cell(colDiscount, row.Discount, "R")
	cell(colAmount, row.Amount, "R")

	ops = append(ops, Op{Kind: OpLine, X: g.MarginLeft, Y: h, W: g.ContentWidth(), H: 0})
	return block{ops: ops, h: h}
}

// totalsBlock builds the right-aligned subtotal/tax/total summary. The block
// is atomic: it never straddles a page boundary.
func (e *Engine) totalsBlock(totals []KV) block {
	g := e.geom
	lh := g.LineHeight + 1
	w := 75.0
	x := g.PageWidth - g.MarginRight - w

	var ops []Op
	y := 3.0
	for i, kv := range totals {
		font := fontBody
		if i == len(totals)-1 {
			ops = append(ops, Op{Kind: OpLine, X: x, Y: y, W: w, H: 0})
			y += 1
			font = Font{"B", 10}
		}
		ops = append(ops,
			Op{Kind: OpText, X: x, Y: y, W: 35, H: lh, Text: kv.Label, Font: font},
			Op{Kind: OpText, X: x + 35, Y: y, W: w - 35, H: lh, Text: kv.Value, Font: font, Align: "R"})
		y += lh
	}
	return block{ops: ops, h: y + 2}
}

// textBlock builds a titled free-text block (notes, terms, banking details),
// wrapped to the content width. Atomic, truncated only in the pathological
// taller-than-a-page case.
func (e *Engine) textBlock(title, body string, budget float64) block {
	g := e.geom
	lh := g.LineHeight

	lines := wrapText(e.m, body, fontBody, g.ContentWidth())
	h := lh + 1 + float64(len(lines))*lh + 3

	if h > budget {
		maxLines := int((budget-lh-4)/lh) - 1
		if maxLines < 1 {
			maxLines = 1
		}
		slog.Warn("truncating oversized text block",
			"error", &LayoutOverflowError{Unit: title + " block", Height: h, Budget: budget})
		lines = truncateLines(e.m, lines, maxLines, fontBody, g.ContentWidth())
		h = lh + 1 + float64(len(lines))*lh + 3
	}

	var ops []Op
	y := 3.0
	ops = append(ops, Op{Kind: OpText, X: g.MarginLeft, Y: y, W: g.ContentWidth(), H: lh, Text: title, Font: fontLabel})
	y += lh + 1
	for _, line := range lines {
		ops = append(ops, Op{Kind: OpText, X: g.MarginLeft, Y: y, W: g.ContentWidth(), H: lh, Text: line, Font: fontBody})
		y += lh
	}
	return block{ops: ops, h: h + 3}
}

// signatureBlock builds the stamp/signature strip pinned to the final page.
func (e *Engine) signatureBlock(v *DocView) block {
	g := e.geom
	var ops []Op

	lineW := 60.0
	if v.Signature != nil {
		ops = append(ops, Op{Kind: OpImage, X: g.MarginLeft + 5, Y: signatureH - 10 - v.Signature.H, W: v.Signature.W, H: v.Signature.H, Asset: v.Signature.Key})
	}
	ops = append(ops,
		Op{Kind: OpLine, X: g.MarginLeft, Y: signatureH - 9, W: lineW, H: 0},
		Op{Kind: OpText, X: g.MarginLeft, Y: signatureH - 8, W: lineW, H: g.LineHeight, Text: "Authorised Signature", Font: fontSmall})

	if v.Stamp != nil {
		ops = append(ops, Op{Kind: OpImage, X: g.PageWidth - g.MarginRight - v.Stamp.W, Y: signatureH - 6 - v.Stamp.H, W: v.Stamp.W, H: v.Stamp.H, Asset: v.Stamp.Key})
	}
	return block{ops: ops, h: signatureH}
}

// stampFooters writes "Page N of M" into the reserved footer band of every
// page. The total is only known once layout completes, so this runs as a
// final pass over the emitted pages.
func (e *Engine) stampFooters(pages []Page) {
	g := e.geom
	total := len(pages)
	for i := range pages {
		pages[i].Ops = append(pages[i].Ops,
			Op{Kind: OpLine, X: g.MarginLeft, Y: g.FooterTop() + 2, W: g.ContentWidth(), H: 0},
			Op{Kind: OpText, X: g.MarginLeft, Y: g.FooterTop() + 4, W: g.ContentWidth(), H: g.LineHeight,
				Text: pageLabel(i+1, total), Font: fontSmall, Align: "C"})
	}
}

func pageLabel(n, of int) string {
	return fmt.Sprintf("Page %d of %d", n, of)
}

// truncateLines keeps at most maxLines, replacing the tail of the last kept
// line with an ellipsis that still fits the column.
func truncateLines(m Measurer, lines []string, maxLines int, f Font, maxWidth float64) []string {
	if len(lines) <= maxLines {
		return lines
	}
	kept := append([]string(nil), lines[:maxLines]...)
	last := []rune(kept[len(kept)-1])
	for len(last) > 0 && m.TextWidth(string(last)+"…", f) > maxWidth {
		last = last[:len(last)-1]
	}
	kept[len(kept)-1] = string(last) + "…"
	return kept
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
